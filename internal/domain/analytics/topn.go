// Package analytics holds the pure aggregation primitives shared by the
// statistics engines: top-N folding of categorical distributions and
// zero-safe percentage arithmetic.  Nothing in this package performs I/O.
package analytics

import "math"

// OthersLabel is the synthetic bucket name appended by Fold for the combined
// long tail of a distribution.
const OthersLabel = "Others"

// topSize is the number of leading entries kept verbatim by Fold.
const topSize = 5

// Entry is one (category label, count) pair of a categorical distribution.
type Entry struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Fold compresses a distribution, already sorted descending by count, into at
// most six entries: the first five verbatim, followed by one {"Others", sum}
// entry covering everything after them.  The Others entry is emitted only
// when the tail sum is strictly positive; inputs of five or fewer entries
// fold to themselves and an empty input folds to an empty slice.
//
// Callers are responsible for the input ordering, including a deterministic
// tie-break among equal counts (the repositories order by count descending,
// then label ascending).
func Fold(entries []Entry) []Entry {
	if len(entries) == 0 {
		return []Entry{}
	}
	if len(entries) <= topSize {
		out := make([]Entry, len(entries))
		copy(out, entries)
		return out
	}

	out := make([]Entry, topSize, topSize+1)
	copy(out, entries[:topSize])

	var rest int64
	for _, e := range entries[topSize:] {
		rest += e.Count
	}
	if rest > 0 {
		out = append(out, Entry{Name: OthersLabel, Count: rest})
	}
	return out
}

// Percent returns round(100 * num / den) as an integer, or 0 when the
// denominator is zero.  The zero-denominator substitution is deliberate:
// an empty or fully-filtered-out dataset yields 0%, never a runtime error.
func Percent(num, den int64) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(100 * float64(num) / float64(den)))
}

// PercentF returns 100 * num / den rounded to two decimal places, or 0 when
// the denominator is zero.
func PercentF(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(100*float64(num)/float64(den)*100) / 100
}
