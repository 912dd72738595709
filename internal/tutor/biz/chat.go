package biz

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kart-io/logger"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kart-io/tutor-x/internal/model"
	"github.com/kart-io/tutor-x/internal/tutor/metrics"
	"github.com/kart-io/tutor-x/internal/tutor/store"
	"github.com/kart-io/tutor-x/pkg/infra/tracing"
	"github.com/kart-io/tutor-x/pkg/utils/errors"
	"github.com/kart-io/tutor-x/pkg/utils/id"
)

const tracerName = "tutor-x/biz"

// ChatRequest 一次提问。
type ChatRequest struct {
	Question    string
	ClassID     string
	StudentID   string
	CurrentPage *int
}

// ChatResponse 一次提问的结果。
type ChatResponse struct {
	Response     string         `json:"response"`
	QuestionType model.Category `json:"questionType"`
	QuestionID   string         `json:"questionId"`
}

// ClassSummary 班级提问总结。
type ClassSummary struct {
	ClassID       string    `json:"classId"`
	Summary       string    `json:"summary"`
	QuestionCount int       `json:"questionCount"`
	GeneratedAt   time.Time `json:"generatedAt"`
	Cached        bool      `json:"cached"`
}

// Service 定义 tutor 服务接口。
type Service interface {
	// Chat 处理一次提问：分类、选取片段、生成回复并保存记录。
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	// ClassSummary 总结班级最近的提问。refresh 为 true 时跳过缓存。
	ClassSummary(ctx context.Context, classID string, refresh bool) (*ClassSummary, error)
	// ListQuestions 分页列出班级提问记录。
	ListQuestions(ctx context.Context, classID, studentID string, offset, limit int) (*model.QuestionList, error)
	// Ready 检查依赖是否可用。
	Ready(ctx context.Context) error
}

// TutorService 组合 Classifier、ExcerptSelector 与 Coach 提供完整的对话轮次。
type TutorService struct {
	store      store.Factory
	classifier *Classifier
	selector   ExcerptSelector
	coach      *Coach
	cache      *SummaryCache
	ids        id.Generator
	metrics    *metrics.TutorMetrics
}

var _ Service = (*TutorService)(nil)

// ServiceOption 配置 TutorService。
type ServiceOption func(*TutorService)

// WithSummaryCache 设置班级总结缓存。
func WithSummaryCache(cache *SummaryCache) ServiceOption {
	return func(s *TutorService) { s.cache = cache }
}

// WithIDGenerator 设置提问记录 ID 生成器，默认 ULID。
func WithIDGenerator(g id.Generator) ServiceOption {
	return func(s *TutorService) { s.ids = g }
}

// WithMetrics 设置指标收集器。
func WithMetrics(m *metrics.TutorMetrics) ServiceOption {
	return func(s *TutorService) { s.metrics = m }
}

// NewTutorService 创建 tutor 服务。selector 为 nil 时使用 KeywordExcerptSelector。
func NewTutorService(
	factory store.Factory,
	classifier *Classifier,
	selector ExcerptSelector,
	coach *Coach,
	opts ...ServiceOption,
) *TutorService {
	if selector == nil {
		selector = NewKeywordExcerptSelector()
	}
	s := &TutorService{
		store:      factory,
		classifier: classifier,
		selector:   selector,
		coach:      coach,
		ids:        id.GeneratorFunc(id.NewULID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chat 处理一次提问。步骤依次执行，不并发。
func (s *TutorService) Chat(ctx context.Context, req *ChatRequest) (resp *ChatResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "TutorService.Chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("tutor.class_id", req.ClassID),
		attribute.String("tutor.student_id", req.StudentID),
	)

	category := model.CategoryKnowledge
	defer func() {
		s.metrics.RecordChatTurn(string(category), err)
		tracing.RecordError(ctx, err)
	}()

	student, err := s.store.Students().FindWithClassDocument(ctx, req.StudentID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.ErrTutorStudentNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	if student.ClassID != req.ClassID {
		logger.Warnw("student asked in a class they are not enrolled in",
			"student_id", req.StudentID,
			"class_id", req.ClassID,
			"enrolled_class_id", student.ClassID,
		)
		return nil, errors.ErrTutorClassMismatch
	}
	if !student.HasDocument {
		logger.Warnw("class has no document to ground the answer",
			"student_id", req.StudentID,
			"class_id", req.ClassID,
		)
		return nil, errors.ErrTutorDocumentNotFound
	}

	history := s.recentHistory(ctx, req.ClassID, req.StudentID)

	category, err = s.classifier.Classify(ctx, req.Question)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("tutor.category", string(category)))

	excerpt := s.selector.Select(student.DocumentText, req.Question, req.CurrentPage)

	reply, err := s.coach.Respond(ctx, req.Question, category, ChatContext{
		Excerpt:     excerpt,
		History:     history,
		StudentName: student.StudentName,
		CurrentPage: req.CurrentPage,
	})
	if err != nil {
		return nil, err
	}

	record := &model.Question{
		ID:           s.ids.Generate(),
		ClassID:      req.ClassID,
		StudentID:    req.StudentID,
		QuestionText: req.Question,
		Category:     category,
		Context:      model.QuestionContext{CurrentPage: req.CurrentPage},
		AIResponse:   reply,
	}
	if err := s.store.Questions().Create(ctx, record); err != nil {
		logger.Errorw("failed to save question record",
			"class_id", req.ClassID,
			"student_id", req.StudentID,
			"error", err.Error(),
		)
		return nil, errors.ErrTutorQuestionPersist.WithCause(err)
	}
	if err := s.cache.Invalidate(ctx, req.ClassID); err != nil {
		logger.Warnw("failed to invalidate class summary", "class_id", req.ClassID, "error", err.Error())
	}

	logger.Infow("chat turn completed",
		"question_id", record.ID,
		"class_id", req.ClassID,
		"student_id", req.StudentID,
		"category", string(category),
		"excerpt_len", len(excerpt),
		"history", len(history),
	)

	return &ChatResponse{
		Response:     reply,
		QuestionType: category,
		QuestionID:   record.ID,
	}, nil
}

// recentHistory 读取最近的问答并转为时间正序。读取失败时按无历史处理。
func (s *TutorService) recentHistory(ctx context.Context, classID, studentID string) []Exchange {
	limit := s.coach.config.Load().HistoryPairs
	if limit <= 0 {
		return nil
	}

	records, err := s.store.Questions().FindRecent(ctx, classID, studentID, limit)
	if err != nil {
		logger.Warnw("failed to load recent questions, continuing without history",
			"class_id", classID,
			"student_id", studentID,
			"error", err.Error(),
		)
		return nil
	}

	return lo.Reverse(lo.Map(records, func(q *model.Question, _ int) Exchange {
		return Exchange{Question: q.QuestionText, Answer: q.AIResponse}
	}))
}

// ClassSummary 总结班级最近的提问，结果按配置缓存。
func (s *TutorService) ClassSummary(ctx context.Context, classID string, refresh bool) (*ClassSummary, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "TutorService.ClassSummary")
	defer span.End()

	if refresh {
		if err := s.cache.Invalidate(ctx, classID); err != nil {
			logger.Warnw("failed to invalidate class summary", "class_id", classID, "error", err.Error())
		}
	} else if cached := s.cache.Get(ctx, classID); cached != nil {
		s.metrics.RecordSummaryCache(true)
		cached.Cached = true
		return cached, nil
	}
	s.metrics.RecordSummaryCache(false)

	limit := s.coach.config.Load().SummaryLimit
	records, err := s.store.Questions().FindRecentByClass(ctx, classID, limit)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.ErrDatabase.WithCause(err)
	}

	entries := lo.Map(records, func(q *model.QuestionWithStudent, _ int) SummaryEntry {
		return SummaryEntry{StudentName: q.StudentName, Question: q.QuestionText, Category: q.Category}
	})

	text, err := s.coach.SummarizeClass(ctx, entries)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	summary := &ClassSummary{
		ClassID:       classID,
		Summary:       text,
		QuestionCount: len(entries),
		GeneratedAt:   time.Now().UTC(),
	}
	_ = s.cache.Set(ctx, summary)
	return summary, nil
}

// ListQuestions 分页列出班级提问记录。
func (s *TutorService) ListQuestions(ctx context.Context, classID, studentID string, offset, limit int) (*model.QuestionList, error) {
	list, err := s.store.Questions().List(ctx, classID, studentID, offset, limit)
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return list, nil
}

// Ready 检查存储是否可用。
func (s *TutorService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
