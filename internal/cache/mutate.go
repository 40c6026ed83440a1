package cache

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tomosu/internal/models"
	"tomosu/internal/observability"
)

// CreatePost is the only mutating operation: it validates the request,
// assigns an id strictly greater than any existing post id, and applies the
// store insert and both directions of the tag index update as one step under
// the write lock. Validation failures leave the state untouched. The new
// post lives only in memory; a process restart will not see it.
func (m *Manager) CreatePost(authorID uint, content string, tagNames []string) (models.Post, error) {
	done := m.track("create_post")
	if err := m.requireReady(); err != nil {
		done(err)
		return models.Post{}, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		err := models.NewValidationError("post content must not be empty")
		done(err)
		return models.Post{}, err
	}
	if utf8.RuneCountInString(content) > maxContentRunes {
		err := models.NewValidationError(
			fmt.Sprintf("post content must not exceed %d characters", maxContentRunes))
		done(err)
		return models.Post{}, err
	}

	// Deduplicate tag names preserving first-seen order; blank names are
	// rejected rather than dropped so the caller learns about the bad input.
	seen := make(map[string]struct{}, len(tagNames))
	cleaned := make([]string, 0, len(tagNames))
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			err := models.NewValidationError("tag names must not be empty")
			done(err)
			return models.Post{}, err
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[authorID]; !ok {
		err := models.NewValidationError(fmt.Sprintf("unknown author id %d", authorID))
		done(err)
		return models.Post{}, err
	}

	now := time.Now()
	m.maxPostID++
	post := &models.Post{
		ID:        m.maxPostID,
		UserID:    authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.posts[post.ID] = post
	m.insertSortedPostID(post.ID)

	for _, name := range cleaned {
		if _, exists := m.tags[name]; !exists {
			m.maxTagID++
			m.tags[name] = &models.Tag{ID: m.maxTagID, Name: name}
		}
		m.postTags[post.ID] = append(m.postTags[post.ID], name)
		if m.tagPosts[name] == nil {
			m.tagPosts[name] = make(map[uint]struct{})
		}
		m.tagPosts[name][post.ID] = struct{}{}
	}

	m.postsCreated.Add(1)
	observability.PostsCreated.Inc()
	observability.CachedRecords.WithLabelValues("posts").Set(float64(len(m.posts)))
	observability.CachedRecords.WithLabelValues("tags").Set(float64(len(m.tags)))

	done(nil)
	return m.enrichPostLocked(post, authorID), nil
}
