package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kart-io/tutor-x/internal/model"
)

type students struct {
	db *gorm.DB
}

func newStudents(db *gorm.DB) *students {
	return &students{db}
}

type studentRow struct {
	StudentID    string
	StudentName  string
	ClassID      string
	DocumentText *string
}

// FindWithClassDocument joins student, class and the class document.
func (s *students) FindWithClassDocument(ctx context.Context, studentID string) (*model.StudentContext, error) {
	var row studentRow
	err := s.db.WithContext(ctx).
		Table(model.Student{}.TableName()+" AS s").
		Select("s.id AS student_id, s.name AS student_name, s.class_id AS class_id, d.content AS document_text").
		Joins("JOIN "+model.Class{}.TableName()+" AS c ON c.id = s.class_id").
		Joins("LEFT JOIN "+model.Document{}.TableName()+" AS d ON d.id = c.document_id").
		Where("s.id = ?", studentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find student %s: %w", studentID, err)
	}

	sc := &model.StudentContext{
		StudentID:   row.StudentID,
		StudentName: row.StudentName,
		ClassID:     row.ClassID,
	}
	if row.DocumentText != nil {
		sc.HasDocument = true
		sc.DocumentText = *row.DocumentText
	}
	return sc, nil
}
