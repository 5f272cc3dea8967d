package ledger

import (
	"fmt"
	"strings"
)

// defaultMemoTag is used when the caller supplies no tenant prefix.
const defaultMemoTag = "NPP"

// BuildMemo renders the short tagged memo embedded in every anchoring
// transaction: {TAG}:{entityType}:{entityId}:{contentHash}.
func BuildMemo(tenantPrefix string, ref EntityRef, contentHash string) string {
	tag := defaultMemoTag
	if tenantPrefix != "" {
		tag = strings.ToUpper(tenantPrefix)
	}
	if ref.EntityType == "" {
		return fmt.Sprintf("%s:HASH:%s", tag, contentHash)
	}
	return fmt.Sprintf("%s:%s:%s:%s", tag, ref.EntityType, ref.EntityID, contentHash)
}
