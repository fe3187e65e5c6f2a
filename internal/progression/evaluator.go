package progression

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/store"
)

// EvaluateAfterCompletion checks every achievement the user has not yet
// unlocked against their completion history and records an unlock for each
// one now satisfied. It returns the newly unlocked achievements.
//
// Running it again without new completions unlocks nothing.
func (s *Service) EvaluateAfterCompletion(ctx context.Context, userID int64, completed *models.Activity) ([]models.Achievement, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.evaluate(ctx, userID, completed)
}

func (s *Service) evaluate(ctx context.Context, userID int64, completed *models.Activity) ([]models.Achievement, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	history, err := s.store.ListUserActivities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}

	unlockedRecords, err := s.store.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	alreadyUnlocked := make(map[int64]bool, len(unlockedRecords))
	for _, ua := range unlockedRecords {
		alreadyUnlocked[ua.AchievementID] = true
	}

	catalog, err := s.store.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	counts, err := s.countByType(ctx, history, completed)
	if err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	for _, achievement := range catalog {
		if alreadyUnlocked[achievement.ID] {
			continue
		}

		rule, ok := s.rules.get(achievement)
		if !ok || !rule.Satisfied(counts, user.BestStreak) {
			continue
		}

		_, err := s.store.CreateUserAchievement(ctx, &models.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
		})
		if errors.Is(err, store.ErrDuplicate) {
			continue
		}
		if err != nil {
			return unlocked, fmt.Errorf("unlock achievement %d: %w", achievement.ID, err)
		}
		unlocked = append(unlocked, achievement)

		if s.awardBonus && achievement.BonusPoints > 0 {
			if _, err := s.applyPointsDelta(ctx, userID, achievement.BonusPoints); err != nil {
				return unlocked, fmt.Errorf("credit bonus for achievement %d: %w", achievement.ID, err)
			}
		}
	}

	return unlocked, nil
}

// countByType tallies completions per activity type
func (s *Service) countByType(ctx context.Context, history []models.UserActivity, completed *models.Activity) (map[models.ActivityType]int, error) {
	activities, err := s.store.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	typeOf := make(map[int64]models.ActivityType, len(activities)+1)
	for _, activity := range activities {
		typeOf[activity.ID] = activity.Type
	}
	if completed != nil {
		typeOf[completed.ID] = completed.Type
	}

	counts := make(map[models.ActivityType]int)
	for _, ua := range history {
		activityType, ok := typeOf[ua.ActivityID]
		if !ok {
			continue
		}
		counts[activityType]++
	}
	return counts, nil
}

// ruleCache holds parsed conditions keyed by achievement ID. An entry is
// reparsed only if the achievement's condition text changes.
type ruleCache struct {
	mu    sync.Mutex
	log   *logger.Logger
	rules map[int64]cachedRule
}

type cachedRule struct {
	condition string
	rule      Rule
	valid     bool
}

func newRuleCache(log *logger.Logger) *ruleCache {
	return &ruleCache{log: log, rules: make(map[int64]cachedRule)}
}

// get returns the achievement's rule; ok is false for conditions that do
// not parse, which leaves the achievement permanently locked
func (c *ruleCache) get(achievement models.Achievement) (Rule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.rules[achievement.ID]; ok && cached.condition == achievement.Condition {
		return cached.rule, cached.valid
	}

	rule, err := ParseCondition(achievement.Condition)
	if err != nil {
		c.log.Warn("achievement condition ignored",
			"achievement_id", achievement.ID,
			"condition", achievement.Condition,
			"error", err,
		)
	}
	c.rules[achievement.ID] = cachedRule{
		condition: achievement.Condition,
		rule:      rule,
		valid:     err == nil,
	}
	return rule, err == nil
}

// Preload parses every catalog condition up front so malformed rules are
// reported at startup rather than on first evaluation
func (s *Service) Preload(ctx context.Context) error {
	catalog, err := s.store.ListAchievements(ctx)
	if err != nil {
		return fmt.Errorf("list achievements: %w", err)
	}
	for _, achievement := range catalog {
		s.rules.get(achievement)
	}
	return nil
}
