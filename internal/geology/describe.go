package geology

import "strings"

// Describe synthesizes a standards-style description for a unit, e.g.
//
//	FILL – CLAY (CI to CH): intermediate to high plasticity, red brown to grey, gravelly
//
// Synthesis never fails: absent colors, unknown classification codes and
// missing qualifiers degrade to omitted phrase segments.
func Describe(u *GeologicalUnit, keywords []string) string {
	if u == nil || len(u.Members) == 0 {
		return ""
	}
	if len(keywords) == 0 {
		keywords = DefaultQualifierKeywords
	}

	var head []string

	if label := u.Origin.Label(); label != "" {
		head = append(head, label+" –")
	}

	head = append(head, dominantMaterial(u))

	var minCode, maxCode string
	if len(u.Classifications) > 0 {
		ranked := SortBySeverity(u.Classifications)
		minCode, maxCode = ranked[0], ranked[len(ranked)-1]
		if minCode == maxCode {
			head = append(head, "("+minCode+")")
		} else {
			head = append(head, "("+minCode+" to "+maxCode+")")
		}
	}

	var details []string
	if phrase := QualifierPhrase(minCode, maxCode); phrase != "" {
		details = append(details, phrase)
	}
	if color := colorPhrase(u.Colors); color != "" {
		details = append(details, color)
	}
	details = append(details, textQualifiers(u.Members, keywords)...)

	desc := strings.Join(head, " ")
	if len(details) > 0 {
		desc += ": " + strings.Join(details, ", ")
	}
	return desc
}

// dominantMaterial returns the material name of the most frequent primary
// symbol among member records, ties broken by first appearance.
func dominantMaterial(u *GeologicalUnit) string {
	counts := make(map[string]int)
	var order []string

	for _, rec := range u.Members {
		for _, sym := range primarySymbols(rec.LegendCode) {
			if counts[sym] == 0 {
				order = append(order, sym)
			}
			counts[sym]++
		}
	}

	best := ""
	for _, sym := range order {
		if best == "" || counts[sym] > counts[best] {
			best = sym
		}
	}
	return FamilyName(best)
}

// colorPhrase renders the color segment: a single color verbatim, multiple
// colors as "first to last" in first-seen order. No colors yields "".
func colorPhrase(colors []string) string {
	switch len(colors) {
	case 0:
		return ""
	case 1:
		return colors[0]
	default:
		return colors[0] + " to " + colors[len(colors)-1]
	}
}

// textQualifiers extracts keyword qualifiers from member free-text
// descriptions, de-duplicated in first-seen order. Matching is
// case-insensitive on the keyword list order per member.
func textQualifiers(members []LayerRecord, keywords []string) []string {
	var found []string
	for _, rec := range members {
		text := strings.ToLower(rec.Description)
		if text == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) && !containsString(found, kw) {
				found = append(found, kw)
			}
		}
	}
	return found
}
