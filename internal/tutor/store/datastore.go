package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/tutor-x/internal/model"
	"github.com/kart-io/tutor-x/pkg/component/database"
)

// datastore implements the Factory interface.
type datastore struct {
	db *gorm.DB
}

var _ Factory = (*datastore)(nil)

// NewFactory wraps an open gorm connection.
func NewFactory(db *gorm.DB) Factory {
	return &datastore{db: db}
}

// Students returns the student store.
func (ds *datastore) Students() StudentStore {
	return newStudents(ds.db)
}

// Questions returns the question store.
func (ds *datastore) Questions() QuestionStore {
	return newQuestions(ds.db)
}

// Ping checks the database connection.
func (ds *datastore) Ping(ctx context.Context) error {
	return database.Ping(ctx, ds.db)
}

// AutoMigrate migrates the database schema.
func (ds *datastore) AutoMigrate() error {
	return ds.db.AutoMigrate(
		&model.Document{},
		&model.Class{},
		&model.Student{},
		&model.Question{},
	)
}

// Close closes the factory and underlying connections.
func (ds *datastore) Close() error {
	return database.Close(ds.db)
}
