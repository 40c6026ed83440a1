// Package models contains data structures for the application's domain models.
package models

import "time"

// Survey is a community questionnaire loaded from the backing store.
type Survey struct {
	ID             uint       `gorm:"primaryKey" json:"survey_id"`
	Title          string     `gorm:"not null" json:"title"`
	QuestionText   string     `gorm:"type:text" json:"question_text"`
	Points         int        `gorm:"default:0" json:"points"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	TargetAudience string     `gorm:"default:all" json:"target_audience"`
	CreatedAt      time.Time  `json:"created_at"`

	// ResponseCount is derived from the survey's response records.
	ResponseCount int `gorm:"-" json:"response_count"`
}

// SurveyAnswer is a single user's recorded response at the load boundary.
type SurveyAnswer struct {
	ID        uint      `gorm:"primaryKey" json:"response_id"`
	SurveyID  uint      `gorm:"not null;index" json:"survey_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Choice    string    `json:"choice"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName maps SurveyAnswer onto the survey_responses table.
func (SurveyAnswer) TableName() string { return "survey_responses" }

// ChoiceStat is the aggregated tally for one survey choice.
type ChoiceStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SurveyResults is the aggregated response view for one survey, computed
// once at load time from the raw response records.
type SurveyResults struct {
	SurveyID              uint                  `json:"survey_id"`
	SurveyTitle           string                `json:"survey_title"`
	TargetAudience        string                `json:"target_audience"`
	TotalResponses        int                   `json:"total_responses"`
	ChoiceStatistics      map[string]ChoiceStat `json:"choice_statistics"`
	ResponsesWithComments int                   `json:"responses_with_comments"`
}
