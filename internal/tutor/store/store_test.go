package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/tutor-x/internal/model"
	"github.com/kart-io/tutor-x/pkg/component/database"
)

func newTestFactory(t *testing.T) Factory {
	t.Helper()

	opts := database.NewOptions()
	opts.Driver = database.DriverSQLite
	opts.Path = ":memory:"

	db, err := database.Open(context.Background(), opts)
	require.NoError(t, err)

	f := NewFactory(db)
	require.NoError(t, f.AutoMigrate())
	t.Cleanup(func() { _ = f.Close() })

	docID := "doc-1"
	require.NoError(t, db.Create(&model.Document{ID: docID, Title: "어린 왕자", Content: "P0\n\nP1"}).Error)
	require.NoError(t, db.Create(&model.Class{ID: "class-1", Name: "5학년 1반", AccessCode: "ABC123", DocumentID: &docID}).Error)
	require.NoError(t, db.Create(&model.Class{ID: "class-2", Name: "5학년 2반", AccessCode: "XYZ789"}).Error)
	require.NoError(t, db.Create(&model.Student{ID: "stu-1", Name: "민수", ClassID: "class-1"}).Error)
	require.NoError(t, db.Create(&model.Student{ID: "stu-2", Name: "지영", ClassID: "class-1"}).Error)
	require.NoError(t, db.Create(&model.Student{ID: "stu-3", Name: "하늘", ClassID: "class-2"}).Error)

	return f
}

func seedQuestions(t *testing.T, f Factory, studentID string, n int) {
	t.Helper()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, f.Questions().Create(context.Background(), &model.Question{
			ID:           fmt.Sprintf("%s-q%02d", studentID, i),
			ClassID:      "class-1",
			StudentID:    studentID,
			QuestionText: fmt.Sprintf("question %d", i),
			Category:     model.CategoryKnowledge,
			AIResponse:   fmt.Sprintf("answer %d", i),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestStudents_FindWithClassDocument(t *testing.T) {
	f := newTestFactory(t)
	ctx := context.Background()

	sc, err := f.Students().FindWithClassDocument(ctx, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "민수", sc.StudentName)
	assert.Equal(t, "class-1", sc.ClassID)
	assert.Equal(t, "P0\n\nP1", sc.DocumentText)
	assert.True(t, sc.HasDocument)

	noDoc, err := f.Students().FindWithClassDocument(ctx, "stu-3")
	require.NoError(t, err)
	assert.Empty(t, noDoc.DocumentText)
	assert.False(t, noDoc.HasDocument)

	_, err = f.Students().FindWithClassDocument(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestions_FindRecent(t *testing.T) {
	f := newTestFactory(t)
	seedQuestions(t, f, "stu-1", 5)
	seedQuestions(t, f, "stu-2", 2)

	items, err := f.Questions().FindRecent(context.Background(), "class-1", "stu-1", 3)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "question 4", items[0].QuestionText)
	assert.Equal(t, "question 2", items[2].QuestionText)
	for _, it := range items {
		assert.Equal(t, "stu-1", it.StudentID)
	}
}

func TestQuestions_CreateKeepsContext(t *testing.T) {
	f := newTestFactory(t)
	ctx := context.Background()
	page := 3

	require.NoError(t, f.Questions().Create(ctx, &model.Question{
		ID:           "q-ctx",
		ClassID:      "class-1",
		StudentID:    "stu-1",
		QuestionText: "왜 주인공은 그런 선택을 했을까요?",
		Category:     model.CategoryReasoning,
		Context:      model.QuestionContext{CurrentPage: &page},
		AIResponse:   "생각해 볼까요?",
	}))

	items, err := f.Questions().FindRecent(ctx, "class-1", "stu-1", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Context.CurrentPage)
	assert.Equal(t, 3, *items[0].Context.CurrentPage)
	assert.Equal(t, model.CategoryReasoning, items[0].Category)
	assert.False(t, items[0].CreatedAt.IsZero())
}

func TestQuestions_CreateRejectsUnknownCategory(t *testing.T) {
	f := newTestFactory(t)
	err := f.Questions().Create(context.Background(), &model.Question{
		ID: "bad", ClassID: "class-1", StudentID: "stu-1", QuestionText: "x", Category: "OTHER",
	})
	assert.Error(t, err)
}

func TestQuestions_FindRecentByClass(t *testing.T) {
	f := newTestFactory(t)
	seedQuestions(t, f, "stu-1", 2)
	seedQuestions(t, f, "stu-2", 1)

	items, err := f.Questions().FindRecentByClass(context.Background(), "class-1", 50)
	require.NoError(t, err)
	require.Len(t, items, 3)

	names := map[string]string{}
	for _, it := range items {
		names[it.StudentID] = it.StudentName
	}
	assert.Equal(t, "민수", names["stu-1"])
	assert.Equal(t, "지영", names["stu-2"])
}

func TestQuestions_List(t *testing.T) {
	f := newTestFactory(t)
	seedQuestions(t, f, "stu-1", 7)
	seedQuestions(t, f, "stu-2", 3)
	ctx := context.Background()

	all, err := f.Questions().List(ctx, "class-1", "", 0, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 10, all.Total)
	assert.Len(t, all.Items, 4)

	one, err := f.Questions().List(ctx, "class-1", "stu-2", 2, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, one.Total)
	require.Len(t, one.Items, 1)
	assert.Equal(t, "question 0", one.Items[0].QuestionText)
}

func TestDatastore_Ping(t *testing.T) {
	f := newTestFactory(t)
	assert.NoError(t, f.Ping(context.Background()))
}
