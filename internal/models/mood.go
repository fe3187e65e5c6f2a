package models

import "time"

// MoodLabel is one of the fixed self-reported mood values
type MoodLabel string

const (
	MoodHappy   MoodLabel = "happy"
	MoodCalm    MoodLabel = "calm"
	MoodNeutral MoodLabel = "neutral"
	MoodSad     MoodLabel = "sad"
	MoodAnxious MoodLabel = "anxious"
)

// MoodLabels lists every accepted mood in display order
var MoodLabels = []MoodLabel{MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodAnxious}

// IsValid reports whether m is one of the known labels
func (m MoodLabel) IsValid() bool {
	for _, label := range MoodLabels {
		if m == label {
			return true
		}
	}
	return false
}

// Mood is a single mood log entry
type Mood struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Mood      MoodLabel `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}
