package filter

import "github.com/fxi/geodrink/internal/types"

// TagRule is an exact key=value match against a record's tags.
type TagRule struct {
	Key   string
	Value string
}

// Preset is a fixed, named rule set narrowing accepted water sources.
// Presets are immutable and selected by ID.
type Preset struct {
	ID          string
	Name        string
	Description string

	// Potability lists accepted drinking_water values. Empty means no
	// potability constraint; a record without the tag always passes.
	Potability []string
	// Excludes rejects any record carrying one of these exact tag pairs.
	Excludes []TagRule
	// Access lists accepted access values. Empty means no constraint; a
	// record without an access tag always passes.
	Access []string
	// Types restricts the classified point types. Empty means all types.
	Types []types.WaterPointType

	// PotableOnly narrows the remote query itself to drinking-water
	// amenities instead of all water-related tag categories.
	PotableOnly bool
}

// presets is the closed catalogue, in display order.
var presets = []Preset{
	{
		ID:          "potable",
		Name:        "Potable only",
		Description: "Confirmed drinking water, no fee",
		Potability:  []string{"yes"},
		Excludes:    []TagRule{{Key: "fee", Value: "yes"}},
		PotableOnly: true,
	},
	{
		ID:          "free-potable",
		Name:        "Free potable",
		Description: "Drinking water (treated included), no fee, publicly reachable",
		Potability:  []string{"yes", "treated"},
		Excludes:    []TagRule{{Key: "fee", Value: "yes"}, {Key: "access", Value: "private"}},
	},
	{
		ID:          "all-potable",
		Name:        "All potable",
		Description: "Anything tagged as drinkable, fee or not",
		Potability:  []string{"yes", "treated", "conditional"},
	},
	{
		ID:          "emergency",
		Name:        "Emergency sources",
		Description: "Wells and springs, potability unverified",
		Types:       []types.WaterPointType{types.WaterPointWell, types.WaterPointSpring},
	},
	{
		ID:          "all",
		Name:        "All sources",
		Description: "Every water-related point near the route",
	},
}

// Presets returns the full catalogue in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByID looks up a preset from the catalogue.
func PresetByID(id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// DefaultPresetID is used when the caller does not pick one.
const DefaultPresetID = "potable"
