package hallmark

// Fixed lookup tables for the numbering schemes. They are plain data passed
// into NewScheme and NewClassifier so the grammar and the badge table stay
// independently testable.

// DefaultEditionPrefixes maps special-edition prefix codes to edition names.
func DefaultEditionPrefixes() map[string]string {
	return map[string]string{
		"FE": "Founder's Edition",
		"PT": "Platinum Tier",
		"DW": "DarkWave Studios",
		"PP": "Paint Pros Edition",
	}
}

// DefaultAnchorableTypes lists the asset types that get queued for ledger
// anchoring at issue time.
func DefaultAnchorableTypes() map[string]bool {
	return map[string]bool{
		"contract":    true,
		"proposal":    true,
		"invoice":     true,
		"certificate": true,
		"release":     true,
	}
}

// FoundingAsset describes one of the reserved low master numbers, materialized
// out-of-band rather than issued by the master counter.
type FoundingAsset struct {
	Number  string `json:"number"`
	Special string `json:"special"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Badge   string `json:"badge"`
}

// FoundingAssets returns the reserved founding records keyed by their
// canonical names.
func FoundingAssets() map[string]FoundingAsset {
	return map[string]FoundingAsset{
		"ORBIT_GENESIS": {
			Number:  "#000000000-01",
			Special: "#FE-000000000-01",
			Name:    "ORBIT Genesis",
			Type:    "genesis",
			Badge:   "Genesis Asset",
		},
		"PAINTPROS_PLATFORM": {
			Number:  "#000000000-02",
			Special: "#FE-000000000-02",
			Name:    "Paint Pros by ORBIT",
			Type:    "platform",
			Badge:   "Paint Pros Platform",
		},
		"NPP_GENESIS": {
			Number:  "NPP-000000000-01",
			Special: "NPP-FE-000000000-01",
			Name:    "Nashville Painting Professionals",
			Type:    "tenant-genesis",
			Badge:   "NPP Genesis",
		},
	}
}
