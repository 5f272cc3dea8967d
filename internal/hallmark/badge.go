package hallmark

// Badge is the cosmetic tier derived from a hallmark number. It is computed
// on read paths only and never persisted.
type Badge struct {
	Tier    string `json:"tier"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
	Glow    string `json:"glow"`
	Edition string `json:"edition,omitempty"`
}

var badgeStandard = Badge{Tier: "Standard", Color: "#6b7280", Icon: "📄", Glow: "none"}

// Named prefixes take precedence over the numeric ranges.
var prefixBadges = map[string]Badge{
	"PT": {Tier: "Platinum", Color: "#e5e7eb", Icon: "🏆", Glow: "0 0 20px #e5e7eb", Edition: "Platinum Tier"},
	"DW": {Tier: "DarkWave", Color: "#14b8a6", Icon: "🌊", Glow: "0 0 15px #14b8a6", Edition: "DarkWave Studios"},
	"PP": {Tier: "Paint Pros", Color: "#d4a853", Icon: "🎨", Glow: "0 0 15px #d4a853", Edition: "Paint Pros Edition"},
}

// rangeBadge is one row of the master-number decision table. The rows cover
// [1, 2999] exactly, with no gaps or overlaps.
type rangeBadge struct {
	lo, hi int64
	badge  Badge
}

var rangeBadges = []rangeBadge{
	{1, 3, Badge{Tier: "Founding Asset", Color: "#fbbf24", Icon: "👑", Glow: "0 0 20px #fbbf24", Edition: "Founder's Edition"}},
	{4, 99, Badge{Tier: "Core Team", Color: "#f59e0b", Icon: "⭐", Glow: "0 0 15px #f59e0b"}},
	{100, 999, Badge{Tier: "Special Edition", Color: "#8b5cf6", Icon: "💎", Glow: "0 0 15px #8b5cf6", Edition: "Special Edition"}},
	{1000, 1999, Badge{Tier: "Genesis Series", Color: "#06b6d4", Icon: "🚀", Glow: "0 0 15px #06b6d4", Edition: "Genesis Series"}},
	{2000, 2999, Badge{Tier: "Anniversary", Color: "#ec4899", Icon: "🎉", Glow: "0 0 15px #ec4899", Edition: "Anniversary Edition"}},
}

// Classifier maps hallmark numbers to badge tiers via the Scheme grammar.
type Classifier struct {
	scheme *Scheme
}

// NewClassifier builds a Classifier over the given scheme.
func NewClassifier(scheme *Scheme) *Classifier {
	return &Classifier{scheme: scheme}
}

// Classify is total: unparseable numbers and masters outside every range
// yield the Standard badge.
func (c *Classifier) Classify(number string) Badge {
	parsed := c.scheme.Parse(number)
	if parsed == nil {
		return badgeStandard
	}

	if badge, ok := prefixBadges[parsed.Prefix]; ok {
		return badge
	}

	for _, row := range rangeBadges {
		if parsed.Master >= row.lo && parsed.Master <= row.hi {
			return row.badge
		}
	}
	return badgeStandard
}
