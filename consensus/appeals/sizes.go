package appeals

import (
	"feesim/core/types"
)

// Round-size tables. A normal election roughly doubles on every re-draw;
// appeal rounds seat two extra validators so the appeal can out-vote the
// round it contests. Past the end of a table the last value saturates.
var (
	normalSizes = []int{5, 11, 23, 47, 95, 191, 383, 767, 1000}
	appealSizes = []int{7, 13, 25, 49, 97, 193, 385, 769, 1000}
)

// NormalRoundSize returns the validator count of the nth normal round
// (0-based), saturating at the table tail.
func NormalRoundSize(n int) int {
	return lookup(normalSizes, n)
}

// AppealRoundSize returns the validator count of the nth appeal round
// (0-based), saturating at the table tail.
func AppealRoundSize(n int) int {
	return lookup(appealSizes, n)
}

func lookup(table []int, n int) int {
	if n < 0 {
		n = 0
	}
	if n >= len(table) {
		return table[len(table)-1]
	}
	return table[n]
}

// ExpectedSizes derives the validator count every round should seat from the
// final label sequence. Normal-family rounds walk the normal table and appeal
// rounds the appeal table, each advancing independently. A normal round that
// follows a successful appeal instead combines the two predecessors: the
// previous normal size plus the appeal size minus the ousted leader. Empty
// rounds seat nobody and report zero.
func ExpectedSizes(sequence []types.RoundLabel) []int {
	sizes := make([]int, len(sequence))
	normalIdx, appealIdx := 0, 0
	lastNormal, lastAppeal := 0, 0
	combine := false
	for i, label := range sequence {
		switch {
		case label == types.LabelEmptyRound:
			sizes[i] = 0
		case label.IsAppeal():
			lastAppeal = AppealRoundSize(appealIdx)
			sizes[i] = lastAppeal
			appealIdx++
			combine = label.IsSuccessfulAppeal()
		default:
			if combine {
				sizes[i] = lastNormal + lastAppeal - 1
			} else {
				sizes[i] = NormalRoundSize(normalIdx)
			}
			lastNormal = sizes[i]
			normalIdx++
			combine = false
		}
	}
	return sizes
}
