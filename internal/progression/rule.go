package progression

import (
	"fmt"
	"strconv"
	"strings"

	"wellnest/internal/models"
)

// RuleUnit is the trailing part of a condition string
type RuleUnit string

const (
	// UnitDays is counted exactly like UnitSessions: completions, not distinct days
	UnitDays     RuleUnit = "days"
	UnitSessions RuleUnit = "sessions"
	// UnitStreak compares the user's best login streak against the threshold
	UnitStreak RuleUnit = "streak"
)

// AnyActivity matches completions of every activity type
const AnyActivity models.ActivityType = "any"

// Rule is the parsed form of an achievement condition such as
// "breathing_10_sessions"
type Rule struct {
	ActivityType models.ActivityType
	Threshold    int
	Unit         RuleUnit
}

// ParseCondition parses "<activityType>_<N>_<unit>". The activity type may
// itself contain underscores; the last two segments are always N and unit.
func ParseCondition(condition string) (Rule, error) {
	parts := strings.Split(strings.TrimSpace(condition), "_")
	if len(parts) < 3 {
		return Rule{}, fmt.Errorf("condition %q: expected <type>_<n>_<unit>", condition)
	}

	unit := RuleUnit(parts[len(parts)-1])
	switch unit {
	case UnitDays, UnitSessions, UnitStreak:
	default:
		return Rule{}, fmt.Errorf("condition %q: unknown unit %q", condition, unit)
	}

	threshold, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || threshold < 1 {
		return Rule{}, fmt.Errorf("condition %q: threshold must be a positive integer", condition)
	}

	activityType := strings.Join(parts[:len(parts)-2], "_")
	if activityType == "" {
		return Rule{}, fmt.Errorf("condition %q: missing activity type", condition)
	}

	return Rule{
		ActivityType: models.ActivityType(activityType),
		Threshold:    threshold,
		Unit:         unit,
	}, nil
}

// String renders the rule back into condition form
func (r Rule) String() string {
	return fmt.Sprintf("%s_%d_%s", r.ActivityType, r.Threshold, r.Unit)
}

// matches reports whether a completion of the given activity type counts
// toward the rule
func (r Rule) matches(activityType models.ActivityType) bool {
	return r.ActivityType == AnyActivity || r.ActivityType == activityType
}

// Satisfied reports whether the rule is met given the per-type completion
// counts and the user's best streak
func (r Rule) Satisfied(counts map[models.ActivityType]int, bestStreak int) bool {
	if r.Unit == UnitStreak {
		return bestStreak >= r.Threshold
	}

	total := 0
	for activityType, n := range counts {
		if r.matches(activityType) {
			total += n
		}
	}
	return total >= r.Threshold
}
