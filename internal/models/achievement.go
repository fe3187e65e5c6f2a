package models

import "time"

// Achievement is a catalog entry unlocked by meeting its condition
type Achievement struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	ColorScheme string    `json:"colorScheme"`
	BonusPoints int       `json:"bonusPoints"`
	Condition   string    `json:"condition"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserAchievement records the first time a user met an achievement's condition
type UserAchievement struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	AchievementID int64     `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// UserAchievementWithDetails joins an unlock record with its achievement
type UserAchievementWithDetails struct {
	UserAchievement
	Achievement *Achievement `json:"achievement,omitempty"`
}
