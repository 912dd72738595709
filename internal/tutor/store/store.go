// Package store 提供 tutor 服务的持久化层。
//
// Factory 聚合学生与提问记录两类存储，默认实现基于 gorm，
// 支持 postgres、mysql 与 sqlite 驱动。
package store

import (
	"context"
	"errors"

	"github.com/kart-io/tutor-x/internal/model"
)

// ErrNotFound 记录不存在。
var ErrNotFound = errors.New("record not found")

// Factory defines the factory interface for creating stores.
type Factory interface {
	Students() StudentStore
	Questions() QuestionStore
	Ping(ctx context.Context) error
	AutoMigrate() error
	Close() error
}

// StudentStore 学生存储。
type StudentStore interface {
	// FindWithClassDocument 返回学生、所属班级及班级文档文本。
	// 学生不存在时返回 ErrNotFound；班级没有文档时 DocumentText 为空。
	FindWithClassDocument(ctx context.Context, studentID string) (*model.StudentContext, error)
}

// QuestionStore 提问记录存储。
type QuestionStore interface {
	// Create 保存一条提问记录。
	Create(ctx context.Context, q *model.Question) error
	// FindRecent 返回某学生在某班级的最近 limit 条记录，按时间倒序。
	FindRecent(ctx context.Context, classID, studentID string, limit int) ([]*model.Question, error)
	// FindRecentByClass 返回班级最近 limit 条记录（附学生姓名），按时间倒序。
	FindRecentByClass(ctx context.Context, classID string, limit int) ([]*model.QuestionWithStudent, error)
	// List 分页列出班级记录，studentID 为空时不过滤学生。
	List(ctx context.Context, classID, studentID string, offset, limit int) (*model.QuestionList, error)
}
