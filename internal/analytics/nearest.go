package analytics

import (
	"sort"
	"time"
)

// NearestIndex returns the index of the date in ascending dates closest to target.
// Ties go to the earlier date; targets outside the range clamp to the ends.
// It returns -1 for an empty slice.
func NearestIndex(dates []time.Time, target time.Time) int {
	n := len(dates)
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(i int) bool { return !dates[i].Before(target) })
	switch {
	case i == 0:
		return 0
	case i == n:
		return n - 1
	}
	before, after := dates[i-1], dates[i]
	if after.Sub(target) < target.Sub(before) {
		return i
	}
	return i - 1
}
