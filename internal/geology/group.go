package geology

import (
	"sort"
	"strconv"
)

// DefaultOverlapFraction is the default depth-overlap threshold: a record
// joins the current unit when the shared depth exceeds this fraction of the
// shorter interval.
const DefaultOverlapFraction = 0.5

// GroupOptions configures the unit grouper.
type GroupOptions struct {
	// OverlapFraction overrides DefaultOverlapFraction when > 0
	OverlapFraction float64
}

// GroupUnits partitions normalized layer records into geological units.
//
// Records are bucketed by canonical origin, sorted into a stable
// stratigraphic order (top depth, then borehole ID, then input row index),
// and walked in a single greedy pass: a record joins the current unit when
// its legend shares a USCS primary symbol with any code already in the unit,
// or when it depth-overlaps the unit's range by more than the configured
// fraction of the shorter interval. Otherwise the current unit closes and a
// new one opens. The traversal order is part of the observable contract;
// reordering it changes unit codes.
func GroupUnits(records []LayerRecord, opts GroupOptions) []*GeologicalUnit {
	overlap := opts.OverlapFraction
	if overlap <= 0 {
		overlap = DefaultOverlapFraction
	}

	buckets := make(map[Origin][]LayerRecord)
	for _, rec := range records {
		o := CanonicalOrigin(rec.Origin)
		buckets[o] = append(buckets[o], rec)
	}

	var units []*GeologicalUnit
	// Iterate origins in display order so the output slice is deterministic.
	for _, origin := range DisplayOrder {
		bucket := buckets[origin]
		if len(bucket) == 0 {
			continue
		}
		sortStratigraphic(bucket)
		units = append(units, groupOrigin(origin, bucket, overlap)...)
	}
	return units
}

// sortStratigraphic establishes the stable traversal order within an origin
// bucket: top depth ascending, borehole ID ascending, input row order.
func sortStratigraphic(records []LayerRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].TopDepth != records[j].TopDepth {
			return records[i].TopDepth < records[j].TopDepth
		}
		if records[i].BoreholeID != records[j].BoreholeID {
			return records[i].BoreholeID < records[j].BoreholeID
		}
		return records[i].RowIndex < records[j].RowIndex
	})
}

// groupOrigin walks one sorted origin bucket, producing units in discovery
// order with per-origin sequence numbers starting at 1.
func groupOrigin(origin Origin, sorted []LayerRecord, overlapFraction float64) []*GeologicalUnit {
	var units []*GeologicalUnit
	var current *GeologicalUnit
	seq := 0

	open := func(rec LayerRecord) {
		seq++
		current = &GeologicalUnit{
			Code:     origin.Prefix() + strconv.Itoa(seq),
			Origin:   origin,
			Sequence: seq,
			MinTop:   rec.TopDepth,
			MaxBase:  rec.BaseDepth,
		}
		current.absorb(rec)
		units = append(units, current)
	}

	for _, rec := range sorted {
		if current == nil {
			open(rec)
			continue
		}
		if compatible(current, rec, overlapFraction) {
			current.absorb(rec)
			continue
		}
		open(rec)
	}

	return units
}

// compatible reports whether a record belongs in the current unit: either
// its legend shares a primary symbol with a code already in the unit, or it
// depth-overlaps the unit's current range by more than the threshold
// fraction of the shorter interval.
func compatible(u *GeologicalUnit, rec LayerRecord, overlapFraction float64) bool {
	if sharesPrimarySymbol(u.Classifications, rec.LegendCode) {
		return true
	}
	return overlapRatio(u.MinTop, u.MaxBase, rec.TopDepth, rec.BaseDepth) > overlapFraction
}

// sharesPrimarySymbol reports whether the legend code shares at least one
// USCS primary symbol with any code in the set.
func sharesPrimarySymbol(set []string, legend string) bool {
	recSymbols := primarySymbols(legend)
	if len(recSymbols) == 0 {
		return false
	}
	for _, code := range set {
		for _, sym := range primarySymbols(code) {
			if containsString(recSymbols, sym) {
				return true
			}
		}
	}
	return false
}

// primarySymbols returns the distinct primary symbols of a composite legend code.
func primarySymbols(legend string) []string {
	var symbols []string
	for _, tok := range LegendTokens(legend) {
		if sym := PrimarySymbol(tok); sym != "" && !containsString(symbols, sym) {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

// overlapRatio computes the shared depth of two intervals as a fraction of
// the shorter interval. Non-overlapping intervals yield 0.
func overlapRatio(top1, base1, top2, base2 float64) float64 {
	lo := top1
	if top2 > lo {
		lo = top2
	}
	hi := base1
	if base2 < hi {
		hi = base2
	}
	shared := hi - lo
	if shared <= 0 {
		return 0
	}

	shorter := base1 - top1
	if l := base2 - top2; l < shorter {
		shorter = l
	}
	if shorter <= 0 {
		return 0
	}
	return shared / shorter
}
