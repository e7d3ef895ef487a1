package gamification

import (
	"time"
)

// NextStreak returns the streak value after grading one challenge
// submission. An incorrect answer always resets to 0. A correct answer
// extends the streak only when the last submission landed exactly
// yesterday; any longer gap, or no prior submission, restarts at 1.
//
// Same-day duplicate submissions are rejected before this function runs;
// the transition itself never sees one.
func NextStreak(current int, lastChallengeAt *time.Time, now time.Time, loc *time.Location, correct bool) int {
	if !correct {
		return 0
	}
	if lastChallengeAt != nil && sameDay(*lastChallengeAt, now.AddDate(0, 0, -1), loc) {
		return current + 1
	}
	return 1
}

// CompletedToday reports whether the account already submitted a challenge
// on the calendar day containing now.
func CompletedToday(lastChallengeAt *time.Time, now time.Time, loc *time.Location) bool {
	return lastChallengeAt != nil && sameDay(*lastChallengeAt, now, loc)
}

// sameDay compares calendar days at the given location's midnight boundary
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
