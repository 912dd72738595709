package model

import "time"

// Class is a teacher's class. A class has at most one source document.
type Class struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	TeacherID  string    `json:"teacherId" gorm:"type:varchar(64);index"`
	AccessCode string    `json:"accessCode" gorm:"type:varchar(16);uniqueIndex"`
	DocumentID *string   `json:"documentId,omitempty" gorm:"type:varchar(64)"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Class.
func (Class) TableName() string {
	return "tutor_classes"
}

// Student is enrolled in exactly one class.
type Student struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string    `json:"name" gorm:"type:varchar(128);not null"`
	ClassID   string    `json:"classId" gorm:"type:varchar(64);not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Student.
func (Student) TableName() string {
	return "tutor_students"
}

// StudentContext is what a chat turn needs to know about the asking student.
// HasDocument is false when the class has no document attached; a document
// with empty content still counts.
type StudentContext struct {
	StudentID    string
	StudentName  string
	ClassID      string
	HasDocument  bool
	DocumentText string
}
