package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kart-io/tutor-x/internal/model"
)

type questions struct {
	db *gorm.DB
}

func newQuestions(db *gorm.DB) *questions {
	return &questions{db}
}

// Create saves a question record.
func (q *questions) Create(ctx context.Context, question *model.Question) error {
	if !question.Category.IsValid() {
		return fmt.Errorf("invalid question category %q", question.Category)
	}
	return q.db.WithContext(ctx).Create(question).Error
}

// FindRecent returns the latest records of one student, newest first.
func (q *questions) FindRecent(ctx context.Context, classID, studentID string, limit int) ([]*model.Question, error) {
	var items []*model.Question
	err := q.db.WithContext(ctx).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindRecentByClass returns the latest records of a class with student names,
// newest first.
func (q *questions) FindRecentByClass(ctx context.Context, classID string, limit int) ([]*model.QuestionWithStudent, error) {
	var items []*model.QuestionWithStudent
	err := q.db.WithContext(ctx).
		Table(model.Question{}.TableName()+" AS q").
		Select("q.*, s.name AS student_name").
		Joins("LEFT JOIN "+model.Student{}.TableName()+" AS s ON s.id = q.student_id").
		Where("q.class_id = ?", classID).
		Order("q.created_at DESC").Order("q.id DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// List lists class records with pagination, newest first.
func (q *questions) List(ctx context.Context, classID, studentID string, offset, limit int) (*model.QuestionList, error) {
	tx := q.db.WithContext(ctx).Model(&model.Question{}).Where("class_id = ?", classID)
	if studentID != "" {
		tx = tx.Where("student_id = ?", studentID)
	}
	tx = tx.Session(&gorm.Session{})

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return nil, err
	}

	var items []*model.Question
	if err := tx.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}

	return &model.QuestionList{Total: count, Items: items}, nil
}
