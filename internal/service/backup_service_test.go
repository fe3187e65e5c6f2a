package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellnest/internal/database"
	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/progression"
	"wellnest/internal/repository"
)

func openBackupDB(t *testing.T, name string) *database.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), logger.NewNop()))
	return db
}

func populate(t *testing.T, db *database.DB) *models.User {
	t.Helper()
	ctx := context.Background()
	st := repository.NewStore(db)
	require.NoError(t, NewCatalogService(st, logger.NewNop()).Seed(ctx))

	auth := NewAuthService(st, progression.NewService(st, logger.NewNop()), logger.NewNop(), 0)
	_, user, err := auth.Register(ctx, RegisterInput{Username: "river", Password: "secret1", Name: "River", Email: "river@example.com"})
	require.NoError(t, err)

	_, err = NewMoodService(st).Create(ctx, user.ID, models.MoodCalm, "quiet morning")
	require.NoError(t, err)

	prog := progression.NewService(st, logger.NewNop())
	_, err = prog.CompleteActivity(ctx, user.ID, 1)
	require.NoError(t, err)

	_, err = NewChatService(st, nil, logger.NewNop()).Send(ctx, user.ID, "hello")
	require.NoError(t, err)

	user, err = st.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 15, user.Points)
	return user
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := openBackupDB(t, "source.db")
	user := populate(t, source)

	var buf bytes.Buffer
	require.NoError(t, NewBackupService(source, logger.NewNop()).ExportToWriter(ctx, &buf))

	var decoded BackupData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, BackupVersion, decoded.Version)
	require.Len(t, decoded.Users, 1)
	assert.NotEmpty(t, decoded.Users[0].PasswordHash)
	assert.Len(t, decoded.Activities, 6)
	assert.Len(t, decoded.Achievements, 5)
	assert.Len(t, decoded.Moods, 1)
	assert.Len(t, decoded.UserActivities, 1)
	assert.Len(t, decoded.UserAchievements, 1)
	assert.Len(t, decoded.ChatMessages, 2)

	target := openBackupDB(t, "target.db")
	require.NoError(t, NewBackupService(target, logger.NewNop()).ImportFromReader(ctx, bytes.NewReader(buf.Bytes()), false))

	st := repository.NewStore(target)
	restored, err := st.GetUserByUsername(ctx, "river")
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.ID)
	assert.Equal(t, user.Points, restored.Points)
	assert.Equal(t, user.PasswordHash, restored.PasswordHash)
	require.NotNil(t, restored.LastLogin)

	moods, err := st.ListMoods(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, moods, 1)
	assert.Equal(t, "quiet morning", moods[0].Note)

	unlocks, err := st.ListUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, unlocks, 1)

	history, err := st.ListChatMessages(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, FallbackReply, history[1].Content)

	another, err := st.CreateUser(ctx, models.NewUser("sky", "hash", "Sky", ""))
	require.NoError(t, err)
	assert.Greater(t, another.ID, user.ID, "new ids continue past imported ones")
}

func TestBackupImportWithClear(t *testing.T) {
	ctx := context.Background()
	db := openBackupDB(t, "wellnest.db")
	populate(t, db)
	backups := NewBackupService(db, logger.NewNop())

	var buf bytes.Buffer
	require.NoError(t, backups.ExportToWriter(ctx, &buf))

	err := backups.ImportFromReader(ctx, bytes.NewReader(buf.Bytes()), false)
	require.Error(t, err, "importing over existing rows conflicts")

	require.NoError(t, backups.ImportFromReader(ctx, bytes.NewReader(buf.Bytes()), true))

	st := repository.NewStore(db)
	activities, err := st.ListActivities(ctx)
	require.NoError(t, err)
	assert.Len(t, activities, 6)
}

func TestBackupClear(t *testing.T) {
	ctx := context.Background()
	db := openBackupDB(t, "wellnest.db")
	populate(t, db)

	require.NoError(t, NewBackupService(db, logger.NewNop()).Clear(ctx))

	for _, table := range tablesInDeleteOrder {
		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count))
		assert.Zero(t, count, table)
	}
}

func TestBackupRejectsUnknownVersion(t *testing.T) {
	db := openBackupDB(t, "wellnest.db")
	err := NewBackupService(db, logger.NewNop()).ImportFromReader(context.Background(), strings.NewReader(`{"version":"9.9"}`), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backup version")
}
