package models

import "time"

// ActivityType classifies catalog activities; achievement rules match on it
type ActivityType string

const (
	ActivityBreathing   ActivityType = "breathing"
	ActivityMeditation  ActivityType = "meditation"
	ActivityJournal     ActivityType = "journal"
	ActivityAffirmation ActivityType = "affirmation"
	ActivityRelaxation  ActivityType = "relaxation"
	ActivityWalking     ActivityType = "walking"
)

// Activity is a guided self-care activity from the catalog
type Activity struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        ActivityType `json:"type"`
	Points      int          `json:"points"`
	Icon        string       `json:"icon"`
	ColorScheme string       `json:"colorScheme"`
	Duration    int          `json:"duration"` // minutes, 0 means instantaneous
	CreatedAt   time.Time    `json:"createdAt"`
}

// UserActivity records one completion of an activity by a user
type UserActivity struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	ActivityID  int64     `json:"activityId"`
	CompletedAt time.Time `json:"completedAt"`
}
