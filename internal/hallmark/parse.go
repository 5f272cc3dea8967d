package hallmark

import (
	"regexp"
	"strconv"
)

// Parsed is the decomposition of a hallmark number. Master and Sub are zero
// for the date scheme, which carries no numeric identity.
type Parsed struct {
	Prefix    string
	Master    int64
	Sub       int64
	Edition   string
	IsFounder bool
	IsSpecial bool
	Raw       string
}

// The three grammars, tried in order. An identifier matching none of them
// parses to nil.
var (
	datePattern     = regexp.MustCompile(`^ORBIT-\d{8}-[A-F0-9]{6}$`)
	specialPattern  = regexp.MustCompile(`^#([A-Z]+)-(\d{9})-(\d{2})$`)
	standardPattern = regexp.MustCompile(`^#(\d{9})-(\d{2})$`)
)

// reservedBelow is the top of the reserved/pre-seeded master range. The
// master counter never returns values under it.
const reservedBelow = 3000

// Scheme decodes hallmark numbers using an injected edition-prefix table.
type Scheme struct {
	editions map[string]string
}

// NewScheme builds a Scheme. A nil table falls back to the default editions.
func NewScheme(editions map[string]string) *Scheme {
	if editions == nil {
		editions = DefaultEditionPrefixes()
	}
	return &Scheme{editions: editions}
}

// Parse decomposes a hallmark number. It is total and never errors: any
// string outside the three grammars yields nil.
func (s *Scheme) Parse(number string) *Parsed {
	if datePattern.MatchString(number) {
		return &Parsed{Raw: number}
	}

	if m := specialPattern.FindStringSubmatch(number); m != nil {
		prefix := m[1]
		master, _ := strconv.ParseInt(m[2], 10, 64)
		sub, _ := strconv.ParseInt(m[3], 10, 64)

		edition, ok := s.editions[prefix]
		if !ok {
			edition = "Special Edition"
		}
		return &Parsed{
			Prefix:    prefix,
			Master:    master,
			Sub:       sub,
			Edition:   edition,
			IsFounder: prefix == "FE" && master <= 3,
			IsSpecial: true,
			Raw:       number,
		}
	}

	if m := standardPattern.FindStringSubmatch(number); m != nil {
		master, _ := strconv.ParseInt(m[1], 10, 64)
		sub, _ := strconv.ParseInt(m[2], 10, 64)
		return &Parsed{
			Master:    master,
			Sub:       sub,
			IsFounder: master >= 1 && master <= 3,
			IsSpecial: master < reservedBelow,
			Raw:       number,
		}
	}

	return nil
}

// ValidateFormat reports whether the number matches any hallmark grammar.
// It is exactly Parse(number) != nil.
func (s *Scheme) ValidateFormat(number string) bool {
	return s.Parse(number) != nil
}

// IsReservedMaster reports whether a master number falls in the pre-seeded
// range [1, 3000] that the global counter never issues.
func IsReservedMaster(master int64) bool {
	return master >= 1 && master <= reservedBelow
}
