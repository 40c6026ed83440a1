// Package seed populates the backing database with a realistic community
// dataset for development and testing. The running service never writes to
// the database; this is the only place demo data comes from.
package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumSurveys  int
	ShouldClean bool
}

// Seeder creates demo data through a single gorm connection.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"survey_responses", "surveys",
		"likes", "bookmarks", "follows",
		"comments", "post_tags", "posts", "tags", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	slog.Info("cleared existing data", "tables", len(tables))
	return nil
}

// Seed populates the database with a full community dataset: users with
// areas, tagged posts, comments, likes, bookmarks, follows, and surveys
// with responses.
func (s *Seeder) Seed(opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}
	if opts.NumSurveys <= 0 {
		opts.NumSurveys = 5
	}

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("creating users: %w", err)
	}
	slog.Info("seeded users", "count", len(users))

	tags, err := s.createTags()
	if err != nil {
		return fmt.Errorf("creating tags: %w", err)
	}

	posts, err := s.createPosts(users, tags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("creating posts: %w", err)
	}
	slog.Info("seeded posts", "count", len(posts))

	if err := s.createComments(users, posts); err != nil {
		return fmt.Errorf("creating comments: %w", err)
	}
	if err := s.createEngagement(users, posts); err != nil {
		return fmt.Errorf("creating likes and bookmarks: %w", err)
	}
	if err := s.createFollows(users); err != nil {
		return fmt.Errorf("creating follows: %w", err)
	}
	if err := s.createSurveys(users, opts.NumSurveys); err != nil {
		return fmt.Errorf("creating surveys: %w", err)
	}

	slog.Info("seeding complete",
		"users", len(users), "posts", len(posts), "surveys", opts.NumSurveys)
	return nil
}
