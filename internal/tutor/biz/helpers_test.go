package biz

import (
	"context"
	"sync"

	"github.com/kart-io/tutor-x/internal/model"
	"github.com/kart-io/tutor-x/internal/tutor/store"
	"github.com/kart-io/tutor-x/pkg/llm"
)

// stubChat 记录每次调用并按 reply 返回结果。
type stubChat struct {
	mu    sync.Mutex
	reply func(messages []llm.Message, opts llm.CallOptions) (string, error)
	calls []stubCall
}

type stubCall struct {
	Messages []llm.Message
	Options  llm.CallOptions
}

func replyWith(content string) *stubChat {
	return &stubChat{reply: func([]llm.Message, llm.CallOptions) (string, error) { return content, nil }}
}

func failWith(err error) *stubChat {
	return &stubChat{reply: func([]llm.Message, llm.CallOptions) (string, error) { return "", err }}
}

func (s *stubChat) Chat(_ context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.ChatResponse, error) {
	o := llm.ApplyCallOptions(opts...)
	s.mu.Lock()
	s.calls = append(s.calls, stubCall{Messages: messages, Options: o})
	s.mu.Unlock()

	content, err := s.reply(messages, o)
	if err != nil {
		return nil, err
	}
	return &llm.ChatResponse{Content: content, TokenUsage: llm.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}}, nil
}

func (s *stubChat) Name() string { return "stub" }

func (s *stubChat) lastCall() stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func (s *stubChat) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// memStore 是内存版 store.Factory。
type memStore struct {
	mu        sync.Mutex
	students  map[string]*model.StudentContext
	questions []*model.Question
	names     map[string]string

	findRecentErr error
	createErr     error
}

func newMemStore() *memStore {
	return &memStore{
		students: map[string]*model.StudentContext{},
		names:    map[string]string{},
	}
}

func (m *memStore) addStudent(sc *model.StudentContext) {
	m.students[sc.StudentID] = sc
	m.names[sc.StudentID] = sc.StudentName
}

func (m *memStore) Students() store.StudentStore   { return memStudents{m} }
func (m *memStore) Questions() store.QuestionStore { return memQuestions{m} }
func (m *memStore) Ping(context.Context) error     { return nil }
func (m *memStore) AutoMigrate() error             { return nil }
func (m *memStore) Close() error                   { return nil }

type memStudents struct{ m *memStore }

func (s memStudents) FindWithClassDocument(_ context.Context, studentID string) (*model.StudentContext, error) {
	sc, ok := s.m.students[studentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *sc
	return &cp, nil
}

type memQuestions struct{ m *memStore }

func (q memQuestions) Create(_ context.Context, rec *model.Question) error {
	if q.m.createErr != nil {
		return q.m.createErr
	}
	q.m.mu.Lock()
	defer q.m.mu.Unlock()
	q.m.questions = append(q.m.questions, rec)
	return nil
}

func (q memQuestions) FindRecent(_ context.Context, classID, studentID string, limit int) ([]*model.Question, error) {
	if q.m.findRecentErr != nil {
		return nil, q.m.findRecentErr
	}
	q.m.mu.Lock()
	defer q.m.mu.Unlock()
	var out []*model.Question
	for i := len(q.m.questions) - 1; i >= 0 && len(out) < limit; i-- {
		rec := q.m.questions[i]
		if rec.ClassID == classID && rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (q memQuestions) FindRecentByClass(_ context.Context, classID string, limit int) ([]*model.QuestionWithStudent, error) {
	q.m.mu.Lock()
	defer q.m.mu.Unlock()
	var out []*model.QuestionWithStudent
	for i := len(q.m.questions) - 1; i >= 0 && len(out) < limit; i-- {
		rec := q.m.questions[i]
		if rec.ClassID == classID {
			out = append(out, &model.QuestionWithStudent{Question: *rec, StudentName: q.m.names[rec.StudentID]})
		}
	}
	return out, nil
}

func (q memQuestions) List(_ context.Context, classID, studentID string, offset, limit int) (*model.QuestionList, error) {
	q.m.mu.Lock()
	defer q.m.mu.Unlock()
	var all []*model.Question
	for i := len(q.m.questions) - 1; i >= 0; i-- {
		rec := q.m.questions[i]
		if rec.ClassID == classID && (studentID == "" || rec.StudentID == studentID) {
			all = append(all, rec)
		}
	}
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))
	return &model.QuestionList{Total: total, Items: all[offset:end]}, nil
}

func intPtr(v int) *int { return &v }
