package study

import "time"

// Leitner box bounds.
const (
	MinBox = 1
	MaxBox = 5
)

// Intervals maps box number to review interval in days. Loaded once,
// never mutated at runtime.
var Intervals = map[int]int{
	1: 1,
	2: 3,
	3: 7,
	4: 14,
	5: 30,
}

// ClampBox forces a box number into the valid 1..5 range. Stored rows are
// always written back in range, so this only matters for bad input.
func ClampBox(box int) int {
	if box < MinBox {
		return MinBox
	}
	if box > MaxBox {
		return MaxBox
	}
	return box
}

// NextBox computes the box a card moves to after a review. A correct
// answer promotes the card one box up (capped at 5); an incorrect answer
// returns it to box 1 regardless of its current box.
func NextBox(current int, correct bool) int {
	current = ClampBox(current)
	if !correct {
		return MinBox
	}
	if current >= MaxBox {
		return MaxBox
	}
	return current + 1
}

// NextReviewAt returns the due timestamp for a card sitting in box.
func NextReviewAt(box int, now time.Time) time.Time {
	return now.AddDate(0, 0, Intervals[ClampBox(box)])
}
