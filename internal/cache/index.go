package cache

import (
	"sort"

	"tomosu/internal/models"
)

// buildIndexes derives every secondary structure from a freshly installed
// snapshot. Runs once per load under the write lock; post-load updates are
// incremental and owned by CreatePost.
func (m *Manager) buildIndexes(snap *snapshot) {
	m.buildCommentIndex(snap.comments)
	m.buildRelationIndexes(snap)
	m.buildTagIndexes(snap.postTags)
	m.rebuildSortedPostIDs()
	m.buildSurveyResults(snap.surveyAnswers)
}

func (m *Manager) buildCommentIndex(comments []models.Comment) {
	m.comments = make(map[uint][]models.Comment)
	for i := range comments {
		c := comments[i]
		m.comments[c.PostID] = append(m.comments[c.PostID], c)
	}
	// The snapshot source already orders comments ascending; sorting here
	// keeps the invariant independent of the source.
	for postID := range m.comments {
		list := m.comments[postID]
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.Before(list[j].CreatedAt)
			}
			return list[i].ID < list[j].ID
		})
	}
}

func (m *Manager) buildRelationIndexes(snap *snapshot) {
	m.likes = make(map[uint]map[uint]struct{})
	for _, l := range snap.likes {
		if m.likes[l.PostID] == nil {
			m.likes[l.PostID] = make(map[uint]struct{})
		}
		m.likes[l.PostID][l.UserID] = struct{}{}
	}

	m.bookmarks = make(map[uint]map[uint]struct{})
	for _, b := range snap.bookmarks {
		if m.bookmarks[b.UserID] == nil {
			m.bookmarks[b.UserID] = make(map[uint]struct{})
		}
		m.bookmarks[b.UserID][b.PostID] = struct{}{}
	}

	// Follower index is the inverse of the followee adjacency.
	m.following = make(map[uint]map[uint]struct{})
	m.followers = make(map[uint]map[uint]struct{})
	for _, f := range snap.follows {
		if m.following[f.FollowerID] == nil {
			m.following[f.FollowerID] = make(map[uint]struct{})
		}
		m.following[f.FollowerID][f.FolloweeID] = struct{}{}

		if m.followers[f.FolloweeID] == nil {
			m.followers[f.FolloweeID] = make(map[uint]struct{})
		}
		m.followers[f.FolloweeID][f.FollowerID] = struct{}{}
	}
}

// buildTagIndexes derives both directions of tag membership from the join
// rows: post -> ordered tag names, and tag name -> post id set.
func (m *Manager) buildTagIndexes(postTags []models.PostTag) {
	tagNameByID := make(map[uint]string, len(m.tags))
	for name, t := range m.tags {
		tagNameByID[t.ID] = name
	}

	m.postTags = make(map[uint][]string)
	m.tagPosts = make(map[string]map[uint]struct{})
	for _, pt := range postTags {
		name := tagNameByID[pt.TagID]
		m.postTags[pt.PostID] = append(m.postTags[pt.PostID], name)
		if m.tagPosts[name] == nil {
			m.tagPosts[name] = make(map[uint]struct{})
		}
		m.tagPosts[name][pt.PostID] = struct{}{}
	}
}

// rebuildSortedPostIDs sorts every post id by (created_at desc, id desc).
// The id tie-break makes ordering deterministic for equal timestamps.
func (m *Manager) rebuildSortedPostIDs() {
	ids := make([]uint, 0, len(m.posts))
	for id := range m.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.posts[ids[i]], m.posts[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	m.sortedPostIDs = ids
}

// buildSurveyResults precomputes per-survey aggregation from the raw
// response records. Results reflect the load-time snapshot only; surveys
// have no post-load write path.
func (m *Manager) buildSurveyResults(answers []models.SurveyAnswer) {
	m.surveyResults = make(map[uint]*models.SurveyResults, len(m.surveys))
	for id, s := range m.surveys {
		m.surveyResults[id] = &models.SurveyResults{
			SurveyID:         id,
			SurveyTitle:      s.Title,
			TargetAudience:   s.TargetAudience,
			ChoiceStatistics: make(map[string]models.ChoiceStat),
		}
	}

	for i := range answers {
		a := &answers[i]
		r := m.surveyResults[a.SurveyID]
		r.TotalResponses++
		stat := r.ChoiceStatistics[a.Choice]
		stat.Count++
		r.ChoiceStatistics[a.Choice] = stat
		if a.Comment != "" {
			r.ResponsesWithComments++
		}
	}

	for id, r := range m.surveyResults {
		if r.TotalResponses > 0 {
			for choice, stat := range r.ChoiceStatistics {
				stat.Percentage = float64(stat.Count) / float64(r.TotalResponses) * 100
				r.ChoiceStatistics[choice] = stat
			}
		}
		m.surveys[id].ResponseCount = r.TotalResponses
	}
}

// insertSortedPostID places a newly created post id into the sorted order
// without a full rebuild. New posts carry wall-clock timestamps so they land
// at the head in practice; the scan keeps the invariant in all cases.
func (m *Manager) insertSortedPostID(id uint) {
	p := m.posts[id]
	pos := sort.Search(len(m.sortedPostIDs), func(i int) bool {
		other := m.posts[m.sortedPostIDs[i]]
		if !other.CreatedAt.Equal(p.CreatedAt) {
			return other.CreatedAt.Before(p.CreatedAt)
		}
		return other.ID < p.ID
	})
	m.sortedPostIDs = append(m.sortedPostIDs, 0)
	copy(m.sortedPostIDs[pos+1:], m.sortedPostIDs[pos:])
	m.sortedPostIDs[pos] = id
}
