package hallmark

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateNumber produces a date-scheme hallmark number:
// ORBIT-{yyyymmdd}-{6 uppercase hex chars}.
func GenerateNumber(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	random := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("ORBIT-%s-%s", now.UTC().Format("20060102"), random)
}

// ContentHash returns the hex SHA-256 of the given content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// FormatAssetNumber renders a master/sub pair in the legacy global scheme:
// #{9-digit}-{2-digit}.
func FormatAssetNumber(master, sub int64) string {
	return fmt.Sprintf("#%09d-%02d", master, sub)
}

// FormatSpecialEdition renders a prefixed master/sub pair:
// #{PREFIX}-{9-digit}-{2-digit}.
func FormatSpecialEdition(prefix string, master, sub int64) string {
	return fmt.Sprintf("#%s-%09d-%02d", prefix, master, sub)
}

// BuildSearchTerms case-folds and space-joins the indexable fields of a
// hallmark, including string-valued metadata.
func BuildSearchTerms(h *Hallmark) string {
	terms := []string{
		h.HallmarkNumber,
		h.AssetNumber,
		h.AssetType,
		h.RecipientName,
		string(h.RecipientRole),
		h.CreatedBy,
	}
	for _, v := range h.Metadata {
		if s, ok := v.(string); ok {
			terms = append(terms, s)
		}
	}

	joined := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			joined = append(joined, strings.ToLower(t))
		}
	}
	return strings.Join(joined, " ")
}
