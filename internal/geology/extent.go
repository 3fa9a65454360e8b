package geology

import (
	"fmt"
	"math"
	"strings"
)

// DefaultAllBoreholesMin is the minimum borehole count in a run before a
// full-coverage unit's extent collapses to "in all boreholes."; smaller runs
// always list IDs explicitly.
const DefaultAllBoreholesMin = 3

// Round1 rounds to one decimal place using round-half-away-from-zero.
func Round1(v float64) float64 {
	if v < 0 {
		return -Round1(-v)
	}
	return math.Floor(v*10+0.5) / 10
}

// Extent computes the occurrence extent of a unit: rounded depth bounds,
// the first-seen-order borehole list, and the rendered extent sentence.
// totalBoreholes is the number of distinct boreholes in the whole run.
func Extent(u *GeologicalUnit, totalBoreholes, allBoreholesMin int) (minDepth, maxDepth float64, boreholes []string, text string) {
	if u == nil || len(u.Members) == 0 {
		return 0, 0, nil, ""
	}
	if allBoreholesMin <= 0 {
		allBoreholesMin = DefaultAllBoreholesMin
	}

	for _, rec := range u.Members {
		if !containsString(boreholes, rec.BoreholeID) {
			boreholes = append(boreholes, rec.BoreholeID)
		}
	}

	minDepth = Round1(u.MinTop)
	maxDepth = Round1(u.MaxBase)

	where := strings.Join(boreholes, ", ")
	if totalBoreholes >= allBoreholesMin && len(boreholes) == totalBoreholes {
		where = "all boreholes"
	}

	text = fmt.Sprintf("Encountered from approximately %.1f to %.1f mbgl in %s.", minDepth, maxDepth, where)
	return minDepth, maxDepth, boreholes, text
}
