package geology

import "strings"

// USCS lookup tables. These are deliberately plain data structures so the
// description rules can be tested and extended without touching the
// grouping algorithm.

// legendSeparators are the separators recognized inside composite legend
// codes ("CI-CH", "CI to CL", "GW/GM").
var legendSeparators = []string{" to ", " TO ", "/", ",", "-"}

// LegendTokens splits a possibly composite legend code (e.g. "CI-CH",
// "CI to CL", "GW/GM") into individual classification tokens.
func LegendTokens(code string) []string {
	s := strings.TrimSpace(code)
	if s == "" {
		return nil
	}
	for _, sep := range legendSeparators {
		s = strings.ReplaceAll(s, sep, " ")
	}

	return strings.Fields(s)
}

// PrimarySymbol returns the USCS primary symbol for a classification token:
// C, S, G, M, O, or Pt. Unknown tokens return "".
func PrimarySymbol(token string) string {
	t := strings.TrimSpace(token)
	if t == "" {
		return ""
	}
	if strings.EqualFold(t, "Pt") {
		return "Pt"
	}
	switch first := strings.ToUpper(t[:1]); first {
	case "C", "S", "G", "M", "O":
		return first
	}
	return ""
}

// familyNames maps a primary symbol to the material name used in unit
// descriptions.
var familyNames = map[string]string{
	"C":  "CLAY",
	"S":  "SAND",
	"G":  "GRAVEL",
	"M":  "SILT",
	"O":  "ORGANIC SOIL",
	"Pt": "PEAT",
}

// FamilyName returns the material name for a primary symbol, or "SOIL" for
// unknown symbols.
func FamilyName(symbol string) string {
	if name, ok := familyNames[symbol]; ok {
		return name
	}
	return "SOIL"
}

// severityRank orders classification codes within a family by plasticity or
// grading severity. Lower rank renders first in a "(MIN to MAX)" range.
// Codes absent from the table keep their first-appearance order and sort
// after ranked codes.
var severityRank = map[string]int{
	// Clays by plasticity
	"CL": 10, "CL-CI": 15, "CI": 20, "CI-CH": 25, "CH": 30,
	// Silts
	"ML": 10, "MH": 30,
	// Organics
	"OL": 10, "OH": 30,
	// Gravels by grading
	"GW": 10, "GP": 20, "GM": 30, "GC": 40,
	// Sands by grading
	"SW": 10, "SP": 20, "SM": 30, "SC": 40,
	"Pt": 10,
}

const unrankedSeverity = 1 << 20

// SortBySeverity returns the codes ordered by severity rank. Unranked codes
// sort after ranked ones in their original order; the sort is stable so
// equal ranks keep first-appearance order.
func SortBySeverity(codes []string) []string {
	sorted := make([]string, len(codes))
	copy(sorted, codes)

	// Insertion sort keeps this allocation-light and stable.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && severityOf(sorted[j]) < severityOf(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

func severityOf(code string) int {
	if r, ok := severityRank[code]; ok {
		return r
	}
	return unrankedSeverity
}

// qualifierPhrases maps classification codes to the consistency phrase used
// in unit descriptions. Codes without an entry render no qualifier.
var qualifierPhrases = map[string]string{
	"CL":    "low plasticity",
	"CL-CI": "low to intermediate plasticity",
	"CI":    "intermediate plasticity",
	"CI-CH": "intermediate to high plasticity",
	"CH":    "high plasticity",
	"ML":    "low plasticity",
	"MH":    "high plasticity",
	"OL":    "organic, low plasticity",
	"OH":    "organic, high plasticity",
	"Pt":    "fibrous",
	"GW":    "well-graded",
	"GP":    "poorly graded",
	"GM":    "silty",
	"GC":    "clayey",
	"SW":    "well-graded",
	"SP":    "poorly graded",
	"SM":    "silty",
	"SC":    "clayey",
}

// QualifierPhrase builds the consistency phrase for a classification range.
// For a single code it returns that code's phrase. For a range of two
// plasticity codes it merges them ("low to high plasticity"); otherwise it
// falls back to the first code that has a phrase. Unknown codes yield "".
func QualifierPhrase(minCode, maxCode string) string {
	minPhrase := qualifierPhrases[minCode]
	if minCode == maxCode {
		return minPhrase
	}
	maxPhrase := qualifierPhrases[maxCode]

	const suffix = " plasticity"
	if strings.HasSuffix(minPhrase, suffix) && strings.HasSuffix(maxPhrase, suffix) {
		lo := strings.TrimSuffix(minPhrase, suffix)
		hi := strings.TrimSuffix(maxPhrase, suffix)
		if lo != hi {
			return lo + " to " + hi + suffix
		}
		return minPhrase
	}

	if minPhrase != "" {
		return minPhrase
	}
	return maxPhrase
}

// classificationColors is the static classification → display color mapping
// exposed to plotting collaborators. Colors follow common geotechnical
// drafting conventions.
var classificationColors = map[string]string{
	"CH":    "#8B4513", // high plasticity clay - dark brown
	"CI":    "#A0522D", // intermediate plasticity clay - sienna
	"CL":    "#D2691E", // low plasticity clay - chocolate
	"CI-CH": "#8B6914", // CI-CH transition - dark goldenrod
	"GW":    "#808080", // well-graded gravel - grey
	"GP":    "#A9A9A9", // poorly graded gravel - dark grey
	"GM":    "#888888", // silty gravel - grey
	"GC":    "#777777", // clayey gravel - dim grey
	"SW":    "#F4A460", // well-graded sand - sandy brown
	"SP":    "#DEB887", // poorly graded sand - burlywood
	"SM":    "#D2B48C", // silty sand - tan
	"SC":    "#BC8F8F", // clayey sand - rosy brown
	"ML":    "#DAA520", // silt - goldenrod
	"MH":    "#B8860B", // elastic silt - dark goldenrod
	"OL":    "#556B2F", // organic silt - dark olive green
	"OH":    "#6B8E23", // organic clay - olive drab
	"Pt":    "#2F4F4F", // peat - dark slate grey
}

// DefaultColor is the display color for unrecognized classifications.
const DefaultColor = "#CCCCCC"

// ColorFor returns the display color for a classification code.
func ColorFor(code string) string {
	if c, ok := classificationColors[strings.TrimSpace(code)]; ok {
		return c
	}
	return DefaultColor
}

// LegendEntry is one row of the static soil classification legend.
type LegendEntry struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// legendEntries provides display names for the legend, ordered by family.
var legendEntries = []LegendEntry{
	{Code: "CH", Name: "High plasticity clay"},
	{Code: "CI", Name: "Intermediate plasticity clay"},
	{Code: "CL", Name: "Low plasticity clay"},
	{Code: "CI-CH", Name: "CI-CH transition"},
	{Code: "GW", Name: "Well-graded gravel"},
	{Code: "GP", Name: "Poorly graded gravel"},
	{Code: "GM", Name: "Silty gravel"},
	{Code: "GC", Name: "Clayey gravel"},
	{Code: "SW", Name: "Well-graded sand"},
	{Code: "SP", Name: "Poorly graded sand"},
	{Code: "SM", Name: "Silty sand"},
	{Code: "SC", Name: "Clayey sand"},
	{Code: "ML", Name: "Silt"},
	{Code: "MH", Name: "Elastic silt"},
	{Code: "OL", Name: "Organic silt"},
	{Code: "OH", Name: "Organic clay"},
	{Code: "Pt", Name: "Peat"},
}

// Legend returns the classification legend with display colors filled in.
func Legend() []LegendEntry {
	out := make([]LegendEntry, len(legendEntries))
	copy(out, legendEntries)
	for i := range out {
		out[i].Color = ColorFor(out[i].Code)
	}
	return out
}

// DefaultQualifierKeywords is the default keyword list scanned in free-text
// layer descriptions for secondary qualifiers.
var DefaultQualifierKeywords = []string{
	"gravelly",
	"sandy",
	"silty",
	"clayey",
	"organic",
	"mottled",
	"fissured",
	"calcareous",
	"with cobbles",
	"with boulders",
}
