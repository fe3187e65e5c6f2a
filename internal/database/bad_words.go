package database

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"wellnest/internal/logger"
)

// DefaultBadWordsURL is the public word list used for the username filter
const DefaultBadWordsURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"

// SeedBadWords downloads the word list from url into bad_words. It does
// nothing when the table already has entries.
func (db *DB) SeedBadWords(ctx context.Context, url string, log *logger.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bad_words").Scan(&count); err != nil {
		return fmt.Errorf("failed to check bad words count: %w", err)
	}
	if count > 0 {
		log.Debug("bad words filter already populated", "words", count)
		return nil
	}

	log.Info("downloading bad words list", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build bad words request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download bad words list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from bad words URL: %d", resp.StatusCode)
	}

	added, err := db.loadBadWords(ctx, resp.Body)
	if err != nil {
		return err
	}

	log.Info("bad words filter populated", "words", added)
	return nil
}

// loadBadWords inserts one lower-cased word per line, skipping blanks and duplicates
func (db *DB) loadBadWords(ctx context.Context, r io.Reader) (int, error) {
	added := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		stmt, err := tx.PrepareContext(ctx, db.Dialect.RewriteQuery("INSERT INTO bad_words (word) VALUES (?)"))
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		seen := make(map[string]bool)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			word := strings.TrimSpace(strings.ToLower(scanner.Text()))
			if word == "" || seen[word] {
				continue
			}
			seen[word] = true
			if _, err := stmt.ExecContext(ctx, word); err != nil {
				return fmt.Errorf("failed to insert bad word: %w", err)
			}
			added++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("error reading bad words: %w", err)
		}
		return nil
	})
	return added, err
}

// IsBadWord checks if a word is in the bad words list
func (db *DB) IsBadWord(ctx context.Context, word string) (bool, error) {
	cleanWord := strings.TrimSpace(strings.ToLower(word))

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bad_words WHERE word = ?", cleanWord).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check bad word: %w", err)
	}
	return count > 0, nil
}

// ContainsBadWord reports whether text, or any of its letter-only segments,
// is a listed word. "Mr_Rude99" is checked as "mr_rude99", "mr" and "rude".
func (db *DB) ContainsBadWord(ctx context.Context, text string) (bool, error) {
	candidates := []string{text}
	candidates = append(candidates, strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})...)

	for _, candidate := range candidates {
		isBad, err := db.IsBadWord(ctx, candidate)
		if err != nil {
			return false, err
		}
		if isBad {
			return true, nil
		}
	}
	return false, nil
}
