package model

import (
	"time"
)

// Document is the source text a class studies from.
type Document struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Document.
func (Document) TableName() string {
	return "tutor_documents"
}
