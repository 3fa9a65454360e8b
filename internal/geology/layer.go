package geology

// Row is a raw string-keyed CSV row as supplied by the upload collaborator.
type Row map[string]string

// LayerRecord is one normalized soil layer observed in a borehole.
// Records are created once by the row normalizer and never mutated.
type LayerRecord struct {
	// ProjectID is the project identifier (PROJ_ID column)
	ProjectID string `json:"project_id"`

	// BoreholeID identifies the borehole the layer belongs to (POINT_ID column)
	BoreholeID string `json:"borehole_id"`

	// TopDepth is the top of the layer in meters below ground level
	TopDepth float64 `json:"top_depth"`

	// BaseDepth is the base of the layer in meters below ground level.
	// Always strictly greater than TopDepth.
	BaseDepth float64 `json:"base_depth"`

	// LegendCode is the USCS-style classification code, possibly composite
	// (e.g. "CI-CH") or a range (e.g. "CI to CL")
	LegendCode string `json:"legend_code"`

	// Description is the free-text layer description from the log
	Description string `json:"description"`

	// Classification is the classification column as logged
	Classification string `json:"classification"`

	// Origin is the depositional origin as logged (Origin1 column)
	Origin string `json:"origin"`

	// Color is the logged soil color description
	Color string `json:"color"`

	// RowIndex is the zero-based position of the source row in the input,
	// used as the final grouping tie-break
	RowIndex int `json:"row_index"`
}

// Thickness returns the layer thickness in meters.
func (r *LayerRecord) Thickness() float64 {
	return r.BaseDepth - r.TopDepth
}

// SkippedRow records a rejected input row and why it was rejected.
type SkippedRow struct {
	// Index is the zero-based input row index
	Index int `json:"index"`

	// Reason explains why the row was rejected
	Reason string `json:"reason"`
}
