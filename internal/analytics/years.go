package analytics

import (
	"iter"
	"slices"

	"logisticsdash/internal/dataset"
)

// YearIndex returns the ascending, duplicate-free calendar years of the
// dated orders. Orders without a date are skipped. The result is never nil.
func YearIndex(orders iter.Seq[dataset.Order]) []int {
	seen := make(map[int]struct{})
	years := []int{}
	for o := range orders {
		if !o.HasDate() {
			continue
		}
		y := o.Date.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// DefaultYear is the initial selection: the first indexed year.
// It reports false when there is nothing to select.
func DefaultYear(index []int) (int, bool) {
	if len(index) == 0 {
		return 0, false
	}
	return index[0], true
}

// ResolveYear returns the requested year when one is given, otherwise the default.
// A requested year need not be in the index; its views are simply empty.
func ResolveYear(index []int, requested *int) (int, bool) {
	if requested != nil {
		return *requested, true
	}
	return DefaultYear(index)
}
