package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/kart-io/tutor-x/pkg/utils/json"
)

// QuestionContext is the optional client context sent with a question.
type QuestionContext struct {
	CurrentPage *int `json:"currentPage,omitempty"`
}

// Value implements driver.Valuer. An empty context is stored as NULL.
func (c QuestionContext) Value() (driver.Value, error) {
	if c.CurrentPage == nil {
		return nil, nil
	}
	return json.MarshalString(c)
}

// Scan implements sql.Scanner.
func (c *QuestionContext) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = QuestionContext{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("question context: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*c = QuestionContext{}
		return nil
	}
	return json.Unmarshal(raw, c)
}

// Question is one chat turn: what a student asked and what the tutor replied.
type Question struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(26)"`
	ClassID      string          `json:"classId" gorm:"type:varchar(64);not null;index:idx_tutor_questions_class_student,priority:1"`
	StudentID    string          `json:"studentId" gorm:"type:varchar(64);not null;index:idx_tutor_questions_class_student,priority:2"`
	QuestionText string          `json:"questionText" gorm:"type:text;not null"`
	Category     Category        `json:"category" gorm:"type:varchar(16);not null"`
	Context      QuestionContext `json:"context" gorm:"type:text"`
	AIResponse   string          `json:"aiResponse" gorm:"type:text"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for Question.
func (Question) TableName() string {
	return "tutor_questions"
}

// QuestionWithStudent is a question joined with the asking student's name.
type QuestionWithStudent struct {
	Question
	StudentName string `json:"studentName"`
}

// QuestionList is one page of question records.
type QuestionList struct {
	Total int64       `json:"total"`
	Items []*Question `json:"items"`
}
