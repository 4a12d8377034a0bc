// Package engagementdomain holds the pure scoring math: the leveling curve,
// the weekend multiplier, daily-window dates, and streak continuation. No I/O.
package engagementdomain

import (
	"time"

	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// DayLayout is the calendar-day format used for all daily-window and streak
// comparisons. Days are server-local; there is no per-member timezone.
const DayLayout = "2006-01-02"

// Day formats a timestamp as its server-local calendar day.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// PreviousDay returns the calendar day before t.
func PreviousDay(t time.Time) string {
	return t.AddDate(0, 0, -1).Format(DayLayout)
}

// XPNeededForLevel returns the XP required to advance past the given level.
// The curve is strictly increasing, and is used identically for leveling and
// for progress display.
func XPNeededForLevel(level sharedtypes.Level) sharedtypes.XP {
	l := int(level)
	return sharedtypes.XP(5*l*l + 50*l + 100)
}

// XPMultiplier returns the weekend XP multiplier in effect at t.
func XPMultiplier(t time.Time, weekendBoost bool) int {
	if weekendBoost {
		switch t.Weekday() {
		case time.Saturday, time.Sunday:
			return 2
		}
	}
	return 1
}

// Normalize applies accumulated XP to a level, rolling over as many levels as
// the total supports. After it returns, 0 <= xp < XPNeededForLevel(level).
func Normalize(xp sharedtypes.XP, level sharedtypes.Level) (sharedtypes.XP, sharedtypes.Level, bool) {
	leveledUp := false
	for xp >= XPNeededForLevel(level) {
		xp -= XPNeededForLevel(level)
		level++
		leveledUp = true
	}
	return xp, level, leveledUp
}

// ContinueStreak advances a streak given the day it was last extended and the
// current day. Exactly one day's gap extends the streak; a larger gap restarts
// it at 1. Days compare lexicographically because of the ISO layout.
func ContinueStreak(current int, lastStreakDay, today, yesterday string) int {
	switch {
	case lastStreakDay == yesterday:
		return current + 1
	case lastStreakDay < yesterday:
		return 1
	default:
		// Already extended today (or clock skew); leave it alone.
		return current
	}
}
