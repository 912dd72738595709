package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatForm struct {
	Question  string `json:"question" binding:"required,notblank"`
	ClassID   string `json:"classId" binding:"required"`
	StudentID string `json:"studentId" binding:"required"`
	Page      int    `json:"page" binding:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	assert.Nil(t, v.Validate(&chatForm{Question: "왜?", ClassID: "c1", StudentID: "s1"}, LangEN))
}

func TestValidate_EnglishMessages(t *testing.T) {
	v := New()
	errs := v.Validate(&chatForm{Question: "   ", Page: -1}, LangEN)
	require.NotNil(t, errs)

	fields := map[string]string{}
	for _, fe := range errs.Errors {
		fields[fe.Field] = fe.Tag
	}
	assert.Equal(t, "notblank", fields["question"])
	assert.Equal(t, "required", fields["classId"])
	assert.Equal(t, "required", fields["studentId"])
	assert.Equal(t, "gte", fields["page"])
	assert.Contains(t, errs.Error(), "question must not be blank")
}

func TestValidate_KoreanMessages(t *testing.T) {
	v := New()
	errs := v.Validate(&chatForm{Question: "q", StudentID: "s1"}, "ko-KR")
	require.NotNil(t, errs)
	assert.Equal(t, "classId 항목은 필수입니다", errs.First())
}

func TestValidateStruct_NonStruct(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct([]string{"a"}))
	var p *chatForm
	assert.NoError(t, v.ValidateStruct(p))
}

func TestTranslate_ForeignError(t *testing.T) {
	v := New()
	errs := v.Translate(assert.AnError, LangEN)
	require.NotNil(t, errs)
	assert.Equal(t, "unknown", errs.Errors[0].Field)
	assert.Nil(t, v.Translate(nil, LangEN))
}
