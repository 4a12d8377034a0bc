package engagementdomain

import (
	"testing"
	"time"

	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

func TestXPNeededForLevel(t *testing.T) {
	tests := []struct {
		level sharedtypes.Level
		want  sharedtypes.XP
	}{
		{level: 0, want: 100},
		{level: 1, want: 155},
		{level: 2, want: 220},
		{level: 10, want: 1100},
		{level: 50, want: 15100},
	}

	for _, tt := range tests {
		if got := XPNeededForLevel(tt.level); got != tt.want {
			t.Errorf("XPNeededForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}

	// The curve must stay strictly increasing or Normalize could loop forever.
	prev := XPNeededForLevel(0)
	for l := sharedtypes.Level(1); l <= 200; l++ {
		cur := XPNeededForLevel(l)
		if cur <= prev {
			t.Fatalf("curve not strictly increasing at level %d: %d <= %d", l, cur, prev)
		}
		prev = cur
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		xp            sharedtypes.XP
		level         sharedtypes.Level
		wantXP        sharedtypes.XP
		wantLevel     sharedtypes.Level
		wantLeveledUp bool
	}{
		{
			name:      "below threshold stays put",
			xp:        91,
			level:     0,
			wantXP:    91,
			wantLevel: 0,
		},
		{
			name:          "exact threshold rolls over to zero",
			xp:            100,
			level:         0,
			wantXP:        0,
			wantLevel:     1,
			wantLeveledUp: true,
		},
		{
			name:          "remainder carries across the boundary",
			xp:            120,
			level:         0,
			wantXP:        20,
			wantLevel:     1,
			wantLeveledUp: true,
		},
		{
			name:          "large award rolls multiple levels",
			xp:            300,
			level:         0,
			wantXP:        45,
			wantLevel:     2,
			wantLeveledUp: true,
		},
		{
			name:      "higher level threshold respected",
			xp:        154,
			level:     1,
			wantXP:    154,
			wantLevel: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xp, level, leveledUp := Normalize(tt.xp, tt.level)
			if xp != tt.wantXP || level != tt.wantLevel || leveledUp != tt.wantLeveledUp {
				t.Errorf("Normalize(%d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.xp, tt.level, xp, level, leveledUp, tt.wantXP, tt.wantLevel, tt.wantLeveledUp)
			}
			if xp >= XPNeededForLevel(level) {
				t.Errorf("Normalize left xp %d >= threshold %d at level %d", xp, XPNeededForLevel(level), level)
			}
		})
	}
}

func TestContinueStreak(t *testing.T) {
	tests := []struct {
		name          string
		current       int
		lastStreakDay string
		today         string
		yesterday     string
		want          int
	}{
		{
			name:          "consecutive day extends",
			current:       3,
			lastStreakDay: "2026-08-14",
			today:         "2026-08-15",
			yesterday:     "2026-08-14",
			want:          4,
		},
		{
			name:          "one-day gap restarts at one",
			current:       7,
			lastStreakDay: "2026-08-12",
			today:         "2026-08-15",
			yesterday:     "2026-08-14",
			want:          1,
		},
		{
			name:          "already extended today leaves streak alone",
			current:       5,
			lastStreakDay: "2026-08-15",
			today:         "2026-08-15",
			yesterday:     "2026-08-14",
			want:          5,
		},
		{
			name:          "fresh row seeded at yesterday starts at one",
			current:       0,
			lastStreakDay: "2026-08-14",
			today:         "2026-08-15",
			yesterday:     "2026-08-14",
			want:          1,
		},
		{
			name:          "month boundary compares correctly",
			current:       2,
			lastStreakDay: "2026-08-31",
			today:         "2026-09-01",
			yesterday:     "2026-08-31",
			want:          3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContinueStreak(tt.current, tt.lastStreakDay, tt.today, tt.yesterday)
			if got != tt.want {
				t.Errorf("ContinueStreak(%d, %q, %q, %q) = %d, want %d",
					tt.current, tt.lastStreakDay, tt.today, tt.yesterday, got, tt.want)
			}
		})
	}
}

func TestXPMultiplier(t *testing.T) {
	saturday := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 8, 16, 12, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		at           time.Time
		weekendBoost bool
		want         int
	}{
		{name: "saturday boosted", at: saturday, weekendBoost: true, want: 2},
		{name: "sunday boosted", at: sunday, weekendBoost: true, want: 2},
		{name: "monday unboosted", at: monday, weekendBoost: true, want: 1},
		{name: "saturday with boost disabled", at: saturday, weekendBoost: false, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := XPMultiplier(tt.at, tt.weekendBoost); got != tt.want {
				t.Errorf("XPMultiplier(%s, %v) = %d, want %d", tt.at.Weekday(), tt.weekendBoost, got, tt.want)
			}
		})
	}
}

func TestDayAndPreviousDay(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)
	if got := Day(at); got != "2026-03-01" {
		t.Errorf("Day() = %q, want %q", got, "2026-03-01")
	}
	if got := PreviousDay(at); got != "2026-02-28" {
		t.Errorf("PreviousDay() = %q, want %q", got, "2026-02-28")
	}
}
