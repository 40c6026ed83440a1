package cache

import (
	"sort"

	"tomosu/internal/models"
)

// enrichPostLocked assembles the composite response shape for one post:
// author, tags with live counts, derived counts, and viewer flags. Caller
// holds at least the read lock. viewerID 0 means an anonymous viewer.
func (m *Manager) enrichPostLocked(p *models.Post, viewerID uint) models.Post {
	out := *p

	if author, ok := m.users[p.UserID]; ok {
		out.Author = *author
	}

	names := m.postTags[p.ID]
	out.Tags = make([]models.Tag, 0, len(names))
	for _, name := range names {
		if t, ok := m.tags[name]; ok {
			tag := *t
			tag.PostsCount = len(m.tagPosts[name])
			out.Tags = append(out.Tags, tag)
		}
	}

	// Counts are always derived from the relation sets, never stored.
	out.LikesCount = len(m.likes[p.ID])
	out.CommentsCount = len(m.comments[p.ID])

	bookmarkers := 0
	for _, set := range m.bookmarks {
		if _, ok := set[p.ID]; ok {
			bookmarkers++
		}
	}
	out.BookmarksCount = bookmarkers

	if viewerID != 0 {
		_, out.IsLiked = m.likes[p.ID][viewerID]
		_, out.IsBookmarked = m.bookmarks[viewerID][p.ID]
	}
	return out
}

// ListPosts returns one page of posts ordered by (created_at desc, id desc),
// each enriched for the given viewer. Re-querying with identical arguments
// returns an identical sequence absent intervening writes.
func (m *Manager) ListPosts(offset, limit int, viewerID uint) ([]models.Post, error) {
	done := m.track("list_posts")
	if err := m.requireReady(); err != nil {
		done(err)
		return nil, err
	}
	offset, limit = m.normalizePage(offset, limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	page := pageOf(m.sortedPostIDs, offset, limit)
	posts := make([]models.Post, 0, len(page))
	for _, id := range page {
		posts = append(posts, m.enrichPostLocked(m.posts[id], viewerID))
	}
	done(nil)
	return posts, nil
}

// ListPostsByTag restricts the post listing to members of one tag. An
// unknown tag name yields an empty page, not an error.
func (m *Manager) ListPostsByTag(tagName string, offset, limit int, viewerID uint) ([]models.Post, error) {
	done := m.track("list_posts_by_tag")
	if err := m.requireReady(); err != nil {
		done(err)
		return nil, err
	}
	offset, limit = m.normalizePage(offset, limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	members := m.tagPosts[tagName]
	ids := make([]uint, 0, len(members))
	for _, id := range m.sortedPostIDs {
		if _, ok := members[id]; ok {
			ids = append(ids, id)
		}
	}

	page := pageOf(ids, offset, limit)
	posts := make([]models.Post, 0, len(page))
	for _, id := range page {
		posts = append(posts, m.enrichPostLocked(m.posts[id], viewerID))
	}
	done(nil)
	return posts, nil
}

// GetPost returns one enriched post or NotFound.
func (m *Manager) GetPost(postID, viewerID uint) (models.Post, error) {
	done := m.track("get_post")
	if err := m.requireReady(); err != nil {
		done(err)
		return models.Post{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[postID]
	if !ok {
		err := models.NewNotFoundError("Post", postID)
		done(err)
		return models.Post{}, err
	}
	done(nil)
	return m.enrichPostLocked(p, viewerID), nil
}

// ListComments returns one page of a post's comments ordered by
// (created_at asc, id asc), each carrying its author. NotFound when the
// post itself does not exist; a post with no comments yields an empty page.
func (m *Manager) ListComments(postID uint, offset, limit int) ([]models.Comment, error) {
	done := m.track("list_comments")
	if err := m.requireReady(); err != nil {
		done(err)
		return nil, err
	}
	offset, limit = m.normalizePage(offset, limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.posts[postID]; !ok {
		err := models.NewNotFoundError("Post", postID)
		done(err)
		return nil, err
	}

	all := m.comments[postID]
	if offset >= len(all) {
		done(nil)
		return []models.Comment{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	out := make([]models.Comment, 0, end-offset)
	for i := offset; i < end; i++ {
		c := all[i]
		if author, ok := m.users[c.UserID]; ok {
			c.Author = *author
		}
		out = append(out, c)
	}
	done(nil)
	return out, nil
}

// GetUserProfile returns a user with derived follower/following/post counts,
// or NotFound.
func (m *Manager) GetUserProfile(userID uint) (models.UserProfile, error) {
	done := m.track("get_user_profile")
	if err := m.requireReady(); err != nil {
		done(err)
		return models.UserProfile{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		err := models.NewNotFoundError("User", userID)
		done(err)
		return models.UserProfile{}, err
	}

	postCount := 0
	for _, p := range m.posts {
		if p.UserID == userID {
			postCount++
		}
	}

	done(nil)
	return models.UserProfile{
		User:           *u,
		FollowersCount: len(m.followers[userID]),
		FollowingCount: len(m.following[userID]),
		PostsCount:     postCount,
	}, nil
}

// ListFollowers returns the users following userID, ordered by id. An
// unknown user or empty relation yields an empty list.
func (m *Manager) ListFollowers(userID uint) ([]models.User, error) {
	done := m.track("list_followers")
	if err := m.requireReady(); err != nil {
		done(err)
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	done(nil)
	return m.collectUsersLocked(m.followers[userID]), nil
}

// ListFollowing returns the users userID follows, ordered by id.
func (m *Manager) ListFollowing(userID uint) ([]models.User, error) {
	done := m.track("list_following")
	if err := m.requireReady(); err != nil {
		done(err)
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	done(nil)
	return m.collectUsersLocked(m.following[userID]), nil
}

// collectUsersLocked materializes a user id set as id-ordered user copies.
func (m *Manager) collectUsersLocked(ids map[uint]struct{}) []models.User {
	ordered := make([]uint, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	users := make([]models.User, 0, len(ordered))
	for _, id := range ordered {
		if u, ok := m.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users
}

// ListBookmarks returns the posts userID has bookmarked, in the global post
// ordering, enriched with userID as the viewer. Empty relation yields an
// empty list.
func (m *Manager) ListBookmarks(userID uint, offset, limit int) ([]models.Post, error) {
	done := m.track("list_bookmarks")
	if err := m.requireReady(); err != nil {
		done(err)
		return nil, err
	}
	offset, limit = m.normalizePage(offset, limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	marked := m.bookmarks[userID]
	ids := make([]uint, 0, len(marked))
	for _, id := range m.sortedPostIDs {
		if _, ok := marked[id]; ok {
			ids = append(ids, id)
		}
	}

	page := pageOf(ids, offset, limit)
	posts := make([]models.Post, 0, len(page))
	for _, id := range page {
		posts = append(posts, m.enrichPostLocked(m.posts[id], userID))
	}
	done(nil)
	return posts, nil
}

// ListTags returns every known tag with its live post count, ordered by name.
func (m *Manager) ListTags() ([]models.Tag, error) {
	done := m.track("list_tags")
	if err := m.requireReady(); err != nil {
		done(err)
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]models.Tag, 0, len(m.tags))
	for name, t := range m.tags {
		tag := *t
		tag.PostsCount = len(m.tagPosts[name])
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	done(nil)
	return tags, nil
}

// ListSurveys returns all surveys ordered by creation time descending, ties
// broken by id descending.
func (m *Manager) ListSurveys() ([]models.Survey, error) {
	done := m.track("list_surveys")
	if err := m.requireReady(); err != nil {
		done(err)
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	surveys := make([]models.Survey, 0, len(m.surveys))
	for _, s := range m.surveys {
		surveys = append(surveys, *s)
	}
	sort.Slice(surveys, func(i, j int) bool {
		if !surveys[i].CreatedAt.Equal(surveys[j].CreatedAt) {
			return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
		}
		return surveys[i].ID > surveys[j].ID
	})
	done(nil)
	return surveys, nil
}

// GetSurvey returns one survey or NotFound.
func (m *Manager) GetSurvey(surveyID uint) (models.Survey, error) {
	done := m.track("get_survey")
	if err := m.requireReady(); err != nil {
		done(err)
		return models.Survey{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.surveys[surveyID]
	if !ok {
		err := models.NewNotFoundError("Survey", surveyID)
		done(err)
		return models.Survey{}, err
	}
	done(nil)
	return *s, nil
}

// GetSurveyResults returns the precomputed aggregation for one survey, or
// NotFound. The choice statistics map is copied so callers never hold a
// reference into cache state.
func (m *Manager) GetSurveyResults(surveyID uint) (models.SurveyResults, error) {
	done := m.track("get_survey_results")
	if err := m.requireReady(); err != nil {
		done(err)
		return models.SurveyResults{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.surveyResults[surveyID]
	if !ok {
		err := models.NewNotFoundError("Survey", surveyID)
		done(err)
		return models.SurveyResults{}, err
	}

	out := *r
	out.ChoiceStatistics = make(map[string]models.ChoiceStat, len(r.ChoiceStatistics))
	for choice, stat := range r.ChoiceStatistics {
		out.ChoiceStatistics[choice] = stat
	}
	done(nil)
	return out, nil
}
