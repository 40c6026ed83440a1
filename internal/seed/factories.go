package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"tomosu/internal/models"
)

var (
	areas = []string{
		"Sakuragaoka", "Midorimachi", "Kawanishi", "Hondori", "Yamate",
		"Shinmachi", "Minatoku", "Asahidai", "Nishihara", "Higashioka",
	}

	tagNames = []string{
		"news", "local", "events", "food", "kids",
		"disaster-prep", "lost-and-found", "market", "volunteering", "pets",
	}

	postTopics = []string{
		"The %s at the community center was great today.",
		"Anyone know when the %s reopens?",
		"Reminder: %s this weekend near the station.",
		"Looking for volunteers for the %s next month.",
		"The new %s on the shopping street is worth a visit.",
	}

	surveyQuestions = []string{
		"Should the city extend library opening hours?",
		"Do you support adding more bicycle lanes?",
		"Should the summer festival run for two days?",
		"Is the current garbage collection schedule working for you?",
		"Should the community center add evening classes?",
	}

	surveyChoices = []string{"yes", "no", "neutral"}
)

func (s *Seeder) createUsers(n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(10, 99))
		created := time.Now().AddDate(0, 0, -s.rng.Intn(365))
		users = append(users, models.User{
			Username:    username,
			DisplayName: name,
			Email:       gofakeit.Email(),
			Bio:         gofakeit.Sentence(8),
			Area:        areas[s.rng.Intn(len(areas))],
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Seeder) createTags() ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tags = append(tags, models.Tag{Name: name})
	}
	if err := s.db.Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *Seeder) createPosts(users []models.User, tags []models.Tag, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		topic := postTopics[s.rng.Intn(len(postTopics))]
		created := time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour)
		posts = append(posts, models.Post{
			UserID:    author.ID,
			Content:   fmt.Sprintf(topic, gofakeit.NounConcrete()),
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	if err := s.db.Create(&posts).Error; err != nil {
		return nil, err
	}

	// One to three tags per post.
	joins := make([]models.PostTag, 0, n*2)
	for _, post := range posts {
		count := 1 + s.rng.Intn(3)
		picked := s.rng.Perm(len(tags))[:count]
		for _, idx := range picked {
			joins = append(joins, models.PostTag{PostID: post.ID, TagID: tags[idx].ID})
		}
	}
	if err := s.db.Create(&joins).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Seeder) createComments(users []models.User, posts []models.Post) error {
	comments := make([]models.Comment, 0, len(posts)*2)
	for _, post := range posts {
		for i := 0; i < s.rng.Intn(5); i++ {
			commenter := users[s.rng.Intn(len(users))]
			comments = append(comments, models.Comment{
				PostID:    post.ID,
				UserID:    commenter.ID,
				Content:   gofakeit.Sentence(6 + s.rng.Intn(10)),
				CreatedAt: post.CreatedAt.Add(time.Duration(1+i) * time.Hour),
			})
		}
	}
	if len(comments) == 0 {
		return nil
	}
	return s.db.Create(&comments).Error
}

func (s *Seeder) createEngagement(users []models.User, posts []models.Post) error {
	var likes []models.Like
	var bookmarks []models.Bookmark
	for _, post := range posts {
		for _, idx := range s.rng.Perm(len(users))[:s.rng.Intn(len(users)/2+1)] {
			likes = append(likes, models.Like{UserID: users[idx].ID, PostID: post.ID})
		}
		if s.rng.Intn(4) == 0 {
			marker := users[s.rng.Intn(len(users))]
			bookmarks = append(bookmarks, models.Bookmark{UserID: marker.ID, PostID: post.ID})
		}
	}
	if len(likes) > 0 {
		if err := s.db.Create(&likes).Error; err != nil {
			return err
		}
	}
	if len(bookmarks) > 0 {
		if err := s.db.Create(&bookmarks).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createFollows(users []models.User) error {
	var follows []models.Follow
	for _, follower := range users {
		count := s.rng.Intn(6)
		for _, idx := range s.rng.Perm(len(users))[:count] {
			followee := users[idx]
			if followee.ID == follower.ID {
				continue
			}
			follows = append(follows, models.Follow{
				FollowerID: follower.ID,
				FolloweeID: followee.ID,
			})
		}
	}
	if len(follows) == 0 {
		return nil
	}
	return s.db.Create(&follows).Error
}

func (s *Seeder) createSurveys(users []models.User, n int) error {
	for i := 0; i < n; i++ {
		deadline := time.Now().AddDate(0, 1+s.rng.Intn(3), 0)
		survey := models.Survey{
			Title:          gofakeit.Sentence(4),
			QuestionText:   surveyQuestions[i%len(surveyQuestions)],
			Points:         5 * (1 + s.rng.Intn(4)),
			Deadline:       &deadline,
			TargetAudience: "all",
			CreatedAt:      time.Now().AddDate(0, 0, -s.rng.Intn(30)),
		}
		if err := s.db.Create(&survey).Error; err != nil {
			return err
		}

		responders := s.rng.Perm(len(users))[:s.rng.Intn(len(users))]
		answers := make([]models.SurveyAnswer, 0, len(responders))
		for _, idx := range responders {
			answer := models.SurveyAnswer{
				SurveyID: survey.ID,
				UserID:   users[idx].ID,
				Choice:   surveyChoices[s.rng.Intn(len(surveyChoices))],
			}
			if s.rng.Intn(3) == 0 {
				answer.Comment = gofakeit.Sentence(10)
			}
			answers = append(answers, answer)
		}
		if len(answers) > 0 {
			if err := s.db.Create(&answers).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
