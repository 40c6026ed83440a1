// Package cache implements the in-memory cache manager at the heart of the
// application: a one-time snapshot load from the relational store into
// denormalized in-memory views, read operations served entirely from memory,
// and a single in-memory-only write path for new posts.
//
// Concurrency model: many concurrent readers, one occasional writer. A single
// sync.RWMutex guards all stores and indexes; CreatePost applies its store and
// index updates under the write lock so readers never observe a post present
// in the store but missing from its tag index. Read operations return copies,
// never aliases into the shared state.
package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"tomosu/internal/models"
	"tomosu/internal/observability"
)

const (
	defaultMaxPageSize     = 100
	defaultDefaultPageSize = 20

	// maxContentRunes bounds post content length, counted in runes.
	maxContentRunes = 2000
)

// Options configures a Manager. Zero values fall back to the package
// defaults; production wiring fills these from application config.
type Options struct {
	MaxPageSize     int
	DefaultPageSize int
}

// Manager owns the full in-memory state: entity stores, the secondary
// indexes derived from them, and the readiness flag. Construct one per
// process (or per test case) with New, then call Initialize before serving.
type Manager struct {
	mu sync.RWMutex

	maxPageSize     int
	defaultPageSize int

	ready bool

	// Entity stores, keyed by identity.
	posts   map[uint]*models.Post
	users   map[uint]*models.User
	tags    map[string]*models.Tag
	surveys map[uint]*models.Survey

	// Secondary indexes.
	comments      map[uint][]models.Comment  // post id -> comments, ascending (created_at, id)
	likes         map[uint]map[uint]struct{} // post id -> liker user ids
	bookmarks     map[uint]map[uint]struct{} // user id -> bookmarked post ids
	following     map[uint]map[uint]struct{} // follower id -> followee ids
	followers     map[uint]map[uint]struct{} // followee id -> follower ids
	postTags      map[uint][]string          // post id -> tag names, insertion order
	tagPosts      map[string]map[uint]struct{}
	surveyResults map[uint]*models.SurveyResults

	// sortedPostIDs holds every post id ordered by (created_at desc, id desc).
	// Rebuilt at load, maintained incrementally by CreatePost.
	sortedPostIDs []uint

	maxPostID uint
	maxTagID  uint

	snapshotID   string
	loadedAt     time.Time
	loadDuration time.Duration

	requests     atomic.Uint64
	reqErrors    atomic.Uint64
	postsCreated atomic.Uint64

	latencyMu    sync.Mutex
	latencyTotal time.Duration
	latencyMax   time.Duration
	latencyCount uint64
}

// New returns an empty, not-ready Manager. Initialize must succeed before
// any query or mutation is accepted.
func New(opts Options) *Manager {
	maxPage := opts.MaxPageSize
	if maxPage <= 0 {
		maxPage = defaultMaxPageSize
	}
	defPage := opts.DefaultPageSize
	if defPage <= 0 || defPage > maxPage {
		defPage = defaultDefaultPageSize
		if defPage > maxPage {
			defPage = maxPage
		}
	}

	return &Manager{
		maxPageSize:     maxPage,
		defaultPageSize: defPage,
		posts:           make(map[uint]*models.Post),
		users:           make(map[uint]*models.User),
		tags:            make(map[string]*models.Tag),
		surveys:         make(map[uint]*models.Survey),
		comments:        make(map[uint][]models.Comment),
		likes:           make(map[uint]map[uint]struct{}),
		bookmarks:       make(map[uint]map[uint]struct{}),
		following:       make(map[uint]map[uint]struct{}),
		followers:       make(map[uint]map[uint]struct{}),
		postTags:        make(map[uint][]string),
		tagPosts:        make(map[string]map[uint]struct{}),
		surveyResults:   make(map[uint]*models.SurveyResults),
	}
}

// Ready reports whether the initial snapshot load has completed.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// requireReady is the common guard on every operation. Callers hold no lock.
func (m *Manager) requireReady() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return models.NewServiceUnavailableError("cache is not loaded yet")
	}
	return nil
}

// track records one operation for both the prometheus collectors and the
// manager's own cumulative counters. Call at operation entry; invoke the
// returned func with the operation's outcome.
func (m *Manager) track(operation string) func(err error) {
	start := time.Now()
	m.requests.Add(1)
	observability.CacheRequests.WithLabelValues(operation).Inc()
	return func(err error) {
		elapsed := time.Since(start)
		observability.CacheOperationLatency.WithLabelValues(operation).Observe(elapsed.Seconds())

		m.latencyMu.Lock()
		m.latencyTotal += elapsed
		m.latencyCount++
		if elapsed > m.latencyMax {
			m.latencyMax = elapsed
		}
		m.latencyMu.Unlock()

		if err != nil {
			m.reqErrors.Add(1)
			code := models.CodeInternalError
			var appErr *models.AppError
			if errors.As(err, &appErr) {
				code = appErr.Code
			}
			observability.CacheErrors.WithLabelValues(operation, code).Inc()
		}
	}
}

// normalizePage clamps offset/limit to the configured bounds. A non-positive
// limit falls back to the default page size; the maximum bounds every page.
func (m *Manager) normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = m.defaultPageSize
	}
	if limit > m.maxPageSize {
		limit = m.maxPageSize
	}
	return offset, limit
}

// pageOf slices ids[offset:offset+limit] without going out of bounds.
func pageOf(ids []uint, offset, limit int) []uint {
	if offset >= len(ids) {
		return nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end]
}
