package geology

import "strings"

// Origin is the canonical depositional origin of a soil layer.
type Origin string

const (
	OriginFill      Origin = "Fill"
	OriginResidual  Origin = "Residual"
	OriginAlluvium  Origin = "Alluvium"
	OriginColluvium Origin = "Colluvium"
	OriginUnknown   Origin = "Unknown"
)

// DisplayOrder is the fixed origin priority used when ordering the summary
// table: fill first, then in-situ and transported soils, unknowns last.
var DisplayOrder = []Origin{
	OriginFill,
	OriginResidual,
	OriginAlluvium,
	OriginColluvium,
	OriginUnknown,
}

// originPrefixes maps each origin to its unit-code prefix. Colluvium uses
// "CO" rather than "CL" so unit codes never collide with the CL
// classification code.
var originPrefixes = map[Origin]string{
	OriginFill:      "F",
	OriginResidual:  "R",
	OriginAlluvium:  "AL",
	OriginColluvium: "CO",
	OriginUnknown:   "U",
}

// originLabels maps origins to the leading label used in unit descriptions.
// Unknown deliberately has no label.
var originLabels = map[Origin]string{
	OriginFill:      "FILL",
	OriginResidual:  "RESIDUAL SOIL",
	OriginAlluvium:  "ALLUVIUM",
	OriginColluvium: "COLLUVIUM",
}

// CanonicalOrigin maps a logged origin string to its canonical Origin,
// case-insensitively. Unrecognized origins map to OriginUnknown and are
// grouped separately, never merged with known origins.
func CanonicalOrigin(s string) Origin {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fill":
		return OriginFill
	case "residual":
		return OriginResidual
	case "alluvium":
		return OriginAlluvium
	case "colluvium":
		return OriginColluvium
	default:
		return OriginUnknown
	}
}

// Prefix returns the unit-code prefix for the origin.
func (o Origin) Prefix() string {
	if p, ok := originPrefixes[o]; ok {
		return p
	}
	return originPrefixes[OriginUnknown]
}

// Label returns the upper-case description label for the origin, or ""
// for origins that carry no label.
func (o Origin) Label() string {
	return originLabels[o]
}
