package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellnest/internal/models"
	"wellnest/internal/store/memory"
	"wellnest/internal/validation"
)

func TestMoodCreateValidates(t *testing.T) {
	ctx := context.Background()
	moods := NewMoodService(memory.New())

	tests := []struct {
		name  string
		label models.MoodLabel
		note  string
		field string
	}{
		{"unknown label", "ecstatic", "", "mood"},
		{"empty label", "", "", "mood"},
		{"note too long", models.MoodCalm, strings.Repeat("a", validation.MaxNoteLength+1), "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := moods.Create(ctx, 1, tt.label, tt.note)
			var verr validation.ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestMoodListAndWeekly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)
	stamp := now
	st := memory.New(memory.WithClock(func() time.Time { return stamp }))
	moods := NewMoodService(st)
	moods.now = func() time.Time { return now }

	stamp = now.Add(-10 * 24 * time.Hour)
	old, err := moods.Create(ctx, 1, models.MoodSad, "")
	require.NoError(t, err)

	stamp = now.Add(-3 * 24 * time.Hour)
	mid, err := moods.Create(ctx, 1, models.MoodNeutral, "  long day  ")
	require.NoError(t, err)
	assert.Equal(t, "long day", mid.Note)

	stamp = now.Add(-time.Hour)
	recent, err := moods.Create(ctx, 1, models.MoodHappy, "")
	require.NoError(t, err)

	_, err = moods.Create(ctx, 2, models.MoodAnxious, "")
	require.NoError(t, err)

	all, err := moods.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, recent.ID, all[0].ID)
	assert.Equal(t, old.ID, all[2].ID)

	weekly, err := moods.Weekly(ctx, 1)
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, mid.ID, weekly[0].ID)
	assert.Equal(t, recent.ID, weekly[1].ID)
}
