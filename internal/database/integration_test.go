package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"wellnest/internal/logger"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "wellnest.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(context.Background(), logger.NewNop()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tables := []string{"users", "sessions", "moods", "activities", "user_activities",
		"achievements", "user_achievements", "chat_messages", "bad_words"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running again must not re-apply anything
	if err := db.RunMigrations(ctx, logger.NewNop()); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	var applied int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations").Scan(&applied); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if applied != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", applied)
	}
}

func insertUser(ctx context.Context, q DBTX, username string) (int64, error) {
	return q.ExecReturningID(ctx,
		"INSERT INTO users (username, username_key, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)",
		username, username, "hashedpass", "Test User", time.Now().UTC())
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := insertUser(ctx, tx, "testuser")
		return err
	})
	if err != nil {
		t.Fatalf("Failed to insert in transaction: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", "testuser").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	if _, err := insertUser(ctx, tx, "testuser2"); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", "testuser2").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users after rollback, got %d", count)
	}
}

func TestUniqueViolationDetected(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first, err := insertUser(ctx, db, "dupe")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if first <= 0 {
		t.Errorf("Expected positive id, got %d", first)
	}

	_, err = insertUser(ctx, db, "dupe")
	if err == nil {
		t.Fatal("Expected duplicate insert to fail")
	}
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := insertUser(ctx, db, "concurrentuser"); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			var username string
			err := db.QueryRowContext(ctx, "SELECT username FROM users WHERE username_key = ?", "concurrentuser").Scan(&username)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
			if username != "concurrentuser" {
				t.Errorf("Expected username 'concurrentuser', got '%s'", username)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestSeedBadWords(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("Rude\n\ngrumpy\nrude\n"))
	}))
	defer server.Close()

	if err := db.SeedBadWords(ctx, server.URL, logger.NewNop()); err != nil {
		t.Fatalf("SeedBadWords() error = %v", err)
	}
	if err := db.SeedBadWords(ctx, server.URL, logger.NewNop()); err != nil {
		t.Fatalf("second SeedBadWords() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected list to be downloaded once, got %d requests", requests)
	}

	tests := []struct {
		text string
		want bool
	}{
		{"rude", true},
		{"RUDE", true},
		{"mr_rude99", true},
		{"grumpy-cat", true},
		{"prudent", false},
		{"river", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := db.ContainsBadWord(ctx, tt.text)
			if err != nil {
				t.Fatalf("ContainsBadWord() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ContainsBadWord(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSeedBadWordsRejectsBadStatus(t *testing.T) {
	db := openTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if err := db.SeedBadWords(context.Background(), server.URL, logger.NewNop()); err == nil {
		t.Fatal("Expected error for 404 response")
	}
}
