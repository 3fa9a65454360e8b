package geology

// GeologicalUnit is a contiguous group of layer records sharing origin and
// compatible classification. Units grow by absorbing records during grouping
// and are frozen once grouping completes.
type GeologicalUnit struct {
	// Code is the unit code, origin prefix + per-origin sequence (e.g. "F1", "AL2")
	Code string `json:"code"`

	// Origin is the canonical origin shared by every member record
	Origin Origin `json:"origin"`

	// Sequence is the per-origin discovery sequence, starting at 1
	Sequence int `json:"sequence"`

	// Classifications holds distinct legend codes observed in member
	// records, in order of first appearance
	Classifications []string `json:"classifications"`

	// Colors holds distinct non-empty member colors, first-appearance order
	Colors []string `json:"colors"`

	// Members are the layer records absorbed into this unit, in discovery order
	Members []LayerRecord `json:"members"`

	// MinTop and MaxBase bound the unit's depth range across all members
	MinTop  float64 `json:"min_top"`
	MaxBase float64 `json:"max_base"`
}

// absorb adds a record to the unit, extending the classification set, color
// set and depth range.
func (u *GeologicalUnit) absorb(rec LayerRecord) {
	u.Members = append(u.Members, rec)

	if !containsString(u.Classifications, rec.LegendCode) {
		u.Classifications = append(u.Classifications, rec.LegendCode)
	}
	if rec.Color != "" && !containsString(u.Colors, rec.Color) {
		u.Colors = append(u.Colors, rec.Color)
	}

	if rec.TopDepth < u.MinTop {
		u.MinTop = rec.TopDepth
	}
	if rec.BaseDepth > u.MaxBase {
		u.MaxBase = rec.BaseDepth
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// UnitSummary is one row of the subsurface conditions summary table.
type UnitSummary struct {
	// UnitCode is the geological unit code (e.g. "F1", "R2")
	UnitCode string `json:"unit_code"`

	// Description is the synthesized standards-style unit description
	Description string `json:"description"`

	// ExtentText is the synthesized extent-of-occurrence sentence
	ExtentText string `json:"extent_text"`

	// BoreholeIDs lists boreholes the unit occurs in, first-seen order
	BoreholeIDs []string `json:"borehole_ids"`

	// MinDepth and MaxDepth bound the unit in mbgl, rounded to one decimal
	MinDepth float64 `json:"min_depth"`
	MaxDepth float64 `json:"max_depth"`

	// Origin and Sequence carry the display ordering of the summary table
	Origin   Origin `json:"origin"`
	Sequence int    `json:"sequence"`
}
