package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tomosu/internal/models"
	"tomosu/internal/observability"
	"tomosu/internal/repository"
)

// snapshot holds one full fetch of the backing store before any of it is
// installed into the manager. Fetching and validating against local data
// keeps the lock held only for the final install step.
type snapshot struct {
	users         []models.User
	tags          []models.Tag
	posts         []models.Post
	postTags      []models.PostTag
	comments      []models.Comment
	likes         []models.Like
	bookmarks     []models.Bookmark
	follows       []models.Follow
	surveys       []models.Survey
	surveyAnswers []models.SurveyAnswer
}

// Initialize performs the one-time bulk load: fetch a full snapshot of every
// entity type, validate referential integrity, build the secondary indexes,
// and flip the readiness flag. Any fetch error or integrity violation aborts
// with a LOAD_FAILURE; the manager stays not-ready and must not serve.
//
// Initialize is not safe to call concurrently with itself; it is called once
// at startup (and per test case) before any reader exists.
func (m *Manager) Initialize(ctx context.Context, src repository.SnapshotSource) error {
	start := time.Now()

	snap, err := fetchSnapshot(ctx, src)
	if err != nil {
		return err
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.installStores(snap)
	m.buildIndexes(snap)

	m.snapshotID = uuid.NewString()
	m.loadedAt = time.Now()
	m.loadDuration = time.Since(start)

	// Readiness flips last, after every store and index is in place.
	m.ready = true

	observability.SnapshotLoadDuration.Set(m.loadDuration.Seconds())
	m.publishRecordGauges()

	slog.Info("cache snapshot loaded",
		"snapshot_id", m.snapshotID,
		"duration_ms", m.loadDuration.Milliseconds(),
		"users", len(m.users),
		"posts", len(m.posts),
		"comments", len(snap.comments),
		"tags", len(m.tags),
		"surveys", len(m.surveys),
	)
	return nil
}

func fetchSnapshot(ctx context.Context, src repository.SnapshotSource) (*snapshot, error) {
	var snap snapshot
	var err error

	if snap.users, err = src.FetchUsers(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching users", err)
	}
	if snap.tags, err = src.FetchTags(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching tags", err)
	}
	if snap.posts, err = src.FetchPosts(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching posts", err)
	}
	if snap.postTags, err = src.FetchPostTags(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching post tags", err)
	}
	if snap.comments, err = src.FetchComments(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching comments", err)
	}
	if snap.likes, err = src.FetchLikes(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching likes", err)
	}
	if snap.bookmarks, err = src.FetchBookmarks(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching bookmarks", err)
	}
	if snap.follows, err = src.FetchFollows(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching follows", err)
	}
	if snap.surveys, err = src.FetchSurveys(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching surveys", err)
	}
	if snap.surveyAnswers, err = src.FetchSurveyAnswers(ctx); err != nil {
		return nil, models.NewLoadFailureError("fetching survey responses", err)
	}
	return &snap, nil
}

// validateSnapshot enforces referential integrity across the snapshot.
// Violations are fatal, not dropped: serving a cache with dangling
// references would fail unpredictably at read time instead of at startup.
func validateSnapshot(snap *snapshot) error {
	userIDs := make(map[uint]struct{}, len(snap.users))
	for i := range snap.users {
		userIDs[snap.users[i].ID] = struct{}{}
	}
	postIDs := make(map[uint]struct{}, len(snap.posts))
	for i := range snap.posts {
		postIDs[snap.posts[i].ID] = struct{}{}
	}
	tagIDs := make(map[uint]struct{}, len(snap.tags))
	for i := range snap.tags {
		tagIDs[snap.tags[i].ID] = struct{}{}
	}
	surveyIDs := make(map[uint]struct{}, len(snap.surveys))
	for i := range snap.surveys {
		surveyIDs[snap.surveys[i].ID] = struct{}{}
	}

	for i := range snap.posts {
		p := &snap.posts[i]
		if _, ok := userIDs[p.UserID]; !ok {
			return loadIntegrityError("post", p.ID, "author", p.UserID)
		}
	}
	for i := range snap.comments {
		c := &snap.comments[i]
		if _, ok := postIDs[c.PostID]; !ok {
			return loadIntegrityError("comment", c.ID, "post", c.PostID)
		}
		if _, ok := userIDs[c.UserID]; !ok {
			return loadIntegrityError("comment", c.ID, "author", c.UserID)
		}
	}
	for _, pt := range snap.postTags {
		if _, ok := postIDs[pt.PostID]; !ok {
			return loadIntegrityError("post_tag", pt.TagID, "post", pt.PostID)
		}
		if _, ok := tagIDs[pt.TagID]; !ok {
			return loadIntegrityError("post_tag", pt.PostID, "tag", pt.TagID)
		}
	}
	for _, l := range snap.likes {
		if _, ok := postIDs[l.PostID]; !ok {
			return loadIntegrityError("like", l.UserID, "post", l.PostID)
		}
		if _, ok := userIDs[l.UserID]; !ok {
			return loadIntegrityError("like", l.PostID, "user", l.UserID)
		}
	}
	for _, b := range snap.bookmarks {
		if _, ok := postIDs[b.PostID]; !ok {
			return loadIntegrityError("bookmark", b.UserID, "post", b.PostID)
		}
		if _, ok := userIDs[b.UserID]; !ok {
			return loadIntegrityError("bookmark", b.PostID, "user", b.UserID)
		}
	}
	for _, f := range snap.follows {
		if _, ok := userIDs[f.FollowerID]; !ok {
			return loadIntegrityError("follow", f.FolloweeID, "follower", f.FollowerID)
		}
		if _, ok := userIDs[f.FolloweeID]; !ok {
			return loadIntegrityError("follow", f.FollowerID, "followee", f.FolloweeID)
		}
	}
	for i := range snap.surveyAnswers {
		a := &snap.surveyAnswers[i]
		if _, ok := surveyIDs[a.SurveyID]; !ok {
			return loadIntegrityError("survey response", a.ID, "survey", a.SurveyID)
		}
		if _, ok := userIDs[a.UserID]; !ok {
			return loadIntegrityError("survey response", a.ID, "user", a.UserID)
		}
	}
	return nil
}

func loadIntegrityError(entity string, id uint, ref string, refID uint) error {
	return models.NewLoadFailureError(
		fmt.Sprintf("%s %d references unknown %s %d", entity, id, ref, refID), nil)
}

// installStores replaces the entity stores with the snapshot contents.
// Caller holds the write lock.
func (m *Manager) installStores(snap *snapshot) {
	m.posts = make(map[uint]*models.Post, len(snap.posts))
	m.maxPostID = 0
	for i := range snap.posts {
		p := snap.posts[i]
		m.posts[p.ID] = &p
		if p.ID > m.maxPostID {
			m.maxPostID = p.ID
		}
	}

	m.users = make(map[uint]*models.User, len(snap.users))
	for i := range snap.users {
		u := snap.users[i]
		m.users[u.ID] = &u
	}

	m.tags = make(map[string]*models.Tag, len(snap.tags))
	m.maxTagID = 0
	for i := range snap.tags {
		t := snap.tags[i]
		m.tags[t.Name] = &t
		if t.ID > m.maxTagID {
			m.maxTagID = t.ID
		}
	}

	m.surveys = make(map[uint]*models.Survey, len(snap.surveys))
	for i := range snap.surveys {
		s := snap.surveys[i]
		m.surveys[s.ID] = &s
	}
}

// EntityCounts is the per-entity record count surface for health and stats.
type EntityCounts struct {
	Users           int `json:"users"`
	Posts           int `json:"posts"`
	Comments        int `json:"comments"`
	Tags            int `json:"tags"`
	Likes           int `json:"likes"`
	Bookmarks       int `json:"bookmarks"`
	Follows         int `json:"follows"`
	Surveys         int `json:"surveys"`
	SurveyResponses int `json:"survey_responses"`
}

// Status reports readiness and load metadata for the health endpoints.
type Status struct {
	Ready          bool         `json:"ready"`
	SnapshotID     string       `json:"snapshot_id,omitempty"`
	LoadedAt       time.Time    `json:"loaded_at,omitempty"`
	LoadDurationMS int64        `json:"load_duration_ms"`
	Records        EntityCounts `json:"records"`
}

// Stats extends Status with cumulative operation counters and latency
// markers for the system stats endpoint.
type Stats struct {
	Status
	Requests     uint64  `json:"requests_total"`
	Errors       uint64  `json:"errors_total"`
	PostsCreated uint64  `json:"posts_created"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
	MaxLatencyMS float64 `json:"max_latency_ms"`
}

// Status is serveable before readiness; the health endpoint uses it to
// answer 503 while the snapshot load is still running.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statusLocked()
}

func (m *Manager) statusLocked() Status {
	likeCount := 0
	for _, set := range m.likes {
		likeCount += len(set)
	}
	bookmarkCount := 0
	for _, set := range m.bookmarks {
		bookmarkCount += len(set)
	}
	followCount := 0
	for _, set := range m.following {
		followCount += len(set)
	}
	commentCount := 0
	for _, list := range m.comments {
		commentCount += len(list)
	}
	responseCount := 0
	for _, r := range m.surveyResults {
		responseCount += r.TotalResponses
	}

	return Status{
		Ready:          m.ready,
		SnapshotID:     m.snapshotID,
		LoadedAt:       m.loadedAt,
		LoadDurationMS: m.loadDuration.Milliseconds(),
		Records: EntityCounts{
			Users:           len(m.users),
			Posts:           len(m.posts),
			Comments:        commentCount,
			Tags:            len(m.tags),
			Likes:           likeCount,
			Bookmarks:       bookmarkCount,
			Follows:         followCount,
			Surveys:         len(m.surveys),
			SurveyResponses: responseCount,
		},
	}
}

// Stats reports the full statistics surface, counts as memory footprint
// markers plus cumulative request/error/latency counters.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	status := m.statusLocked()
	m.mu.RUnlock()

	m.latencyMu.Lock()
	var avg float64
	if m.latencyCount > 0 {
		avg = float64(m.latencyTotal.Microseconds()) / float64(m.latencyCount) / 1000.0
	}
	maxMS := float64(m.latencyMax.Microseconds()) / 1000.0
	m.latencyMu.Unlock()

	return Stats{
		Status:       status,
		Requests:     m.requests.Load(),
		Errors:       m.reqErrors.Load(),
		PostsCreated: m.postsCreated.Load(),
		AvgLatencyMS: avg,
		MaxLatencyMS: maxMS,
	}
}

// publishRecordGauges pushes per-entity counts to prometheus. Caller holds
// at least the read lock.
func (m *Manager) publishRecordGauges() {
	s := m.statusLocked()
	observability.CachedRecords.WithLabelValues("users").Set(float64(s.Records.Users))
	observability.CachedRecords.WithLabelValues("posts").Set(float64(s.Records.Posts))
	observability.CachedRecords.WithLabelValues("comments").Set(float64(s.Records.Comments))
	observability.CachedRecords.WithLabelValues("tags").Set(float64(s.Records.Tags))
	observability.CachedRecords.WithLabelValues("likes").Set(float64(s.Records.Likes))
	observability.CachedRecords.WithLabelValues("bookmarks").Set(float64(s.Records.Bookmarks))
	observability.CachedRecords.WithLabelValues("follows").Set(float64(s.Records.Follows))
	observability.CachedRecords.WithLabelValues("surveys").Set(float64(s.Records.Surveys))
}
