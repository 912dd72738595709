// Package handler provides HTTP handlers for the tutor service.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/tutor-x/internal/pkg/httputils"
	"github.com/kart-io/tutor-x/internal/tutor/biz"
	"github.com/kart-io/tutor-x/pkg/infra/middleware"
	"github.com/kart-io/tutor-x/pkg/utils/errors"
	"github.com/kart-io/tutor-x/pkg/utils/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TutorHandler handles tutor HTTP requests.
type TutorHandler struct {
	service biz.Service
	limiter *middleware.KeyedLimiter
}

// NewTutorHandler creates a new TutorHandler. limiter 为 nil 时不限流。
func NewTutorHandler(service biz.Service, limiter *middleware.KeyedLimiter) *TutorHandler {
	useTutorValidator()
	return &TutorHandler{
		service: service,
		limiter: limiter,
	}
}

// ChatContext 客户端附带的阅读上下文。
type ChatContext struct {
	CurrentPage *int `json:"currentPage" binding:"omitempty,min=0"`
}

// ChatRequest represents a chat request.
type ChatRequest struct {
	Question  string       `json:"question" binding:"required,notblank"`
	ClassID   string       `json:"classId" binding:"required,notblank"`
	StudentID string       `json:"studentId" binding:"required,notblank"`
	Context   *ChatContext `json:"context"`
}

// Chat godoc
//
//	@Summary		学生提问
//	@Description	分类问题、选取文档片段并生成辅导回复，同时保存提问记录
//	@Tags			tutor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChatRequest	true	"提问内容"
//	@Success		200		{object}	response.Response{data=biz.ChatResponse}
//	@Failure		400		{object}	response.Response
//	@Failure		403		{object}	response.Response
//	@Failure		404		{object}	response.Response
//	@Failure		429		{object}	response.Response
//	@Failure		502		{object}	response.Response
//	@Router			/v1/chat [post]
func (h *TutorHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteBindError(c, err)
		return
	}

	if !h.limiter.Allow(req.StudentID) {
		httputils.WriteResponse(c, errors.ErrTutorRateLimited, nil)
		return
	}

	in := &biz.ChatRequest{
		Question:  req.Question,
		ClassID:   req.ClassID,
		StudentID: req.StudentID,
	}
	if req.Context != nil {
		in.CurrentPage = req.Context.CurrentPage
	}

	resp, err := h.service.Chat(c.Request.Context(), in)
	httputils.WriteResponse(c, err, resp)
}

// ClassSummary godoc
//
//	@Summary		班级提问总结
//	@Description	总结班级最近的提问（最多 50 条），refresh=true 时跳过缓存
//	@Tags			tutor
//	@Produce		json
//	@Param			classId	path		string	true	"班级 ID"
//	@Param			refresh	query		bool	false	"跳过缓存"
//	@Success		200		{object}	response.Response{data=biz.ClassSummary}
//	@Failure		404		{object}	response.Response
//	@Failure		502		{object}	response.Response
//	@Router			/v1/classes/{classId}/summary [get]
func (h *TutorHandler) ClassSummary(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))

	summary, err := h.service.ClassSummary(c.Request.Context(), c.Param("classId"), refresh)
	httputils.WriteResponse(c, err, summary)
}

// ListQuestions godoc
//
//	@Summary		班级提问记录
//	@Description	分页列出班级提问记录，可按学生过滤，按时间倒序
//	@Tags			tutor
//	@Produce		json
//	@Param			classId		path		string	true	"班级 ID"
//	@Param			studentId	query		string	false	"学生 ID"
//	@Param			page		query		int		false	"页码，从 1 开始"
//	@Param			pageSize	query		int		false	"每页条数，最大 100"
//	@Success		200			{object}	response.Response{data=response.PageData}
//	@Failure		400			{object}	response.Response
//	@Router			/v1/classes/{classId}/questions [get]
func (h *TutorHandler) ListQuestions(c *gin.Context) {
	page, pageSize, err := pagination(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	list, err := h.service.ListQuestions(c.Request.Context(),
		c.Param("classId"), c.Query("studentId"), (page-1)*pageSize, pageSize)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, response.Page(list.Items, list.Total, page, pageSize))
}

func pagination(c *gin.Context) (page, pageSize int, err error) {
	page, pageSize = 1, defaultPageSize

	if v := c.Query("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, errors.ErrInvalidParam.WithMessage("page must be a positive integer")
		}
	}
	if v := c.Query("pageSize"); v != "" {
		pageSize, err = strconv.Atoi(v)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			return 0, 0, errors.ErrInvalidParam.WithMessagef("pageSize must be between 1 and %d", maxPageSize)
		}
	}
	return page, pageSize, nil
}
