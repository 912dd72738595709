package biz

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/tutor-x/internal/model"
	"github.com/kart-io/tutor-x/pkg/llm"
	"github.com/kart-io/tutor-x/pkg/utils/errors"
)

func TestPersonaFor_Markers(t *testing.T) {
	tests := []struct {
		category model.Category
		markers  []string
	}{
		{model.CategoryKnowledge, []string{"직접적이고 정확하게", "예시"}},
		{model.CategoryReasoning, []string{"정답을 바로 알려주지 마세요", "유도 질문"}},
		{model.CategoryCritical, []string{"여러 관점", "근거"}},
		{model.CategoryCreative, []string{"만약 ~라면", "상상"}},
		{model.CategoryReflection, []string{"메타인지", "스스로 점검"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			persona := PersonaFor(tt.category, nil)
			for _, m := range tt.markers {
				assert.Contains(t, persona, m)
			}
		})
	}

	assert.NotContains(t, PersonaFor(model.CategoryReasoning, nil), "직접적이고 정확하게")
}

func TestPersonaFor_OverridesAndUnknown(t *testing.T) {
	overrides := map[string]string{"CREATIVE": "custom creative persona"}
	assert.Equal(t, "custom creative persona", PersonaFor(model.CategoryCreative, overrides))
	assert.Equal(t, defaultPersonas[model.CategoryCritical], PersonaFor(model.CategoryCritical, overrides))
	assert.Equal(t, defaultPersonas[model.CategoryKnowledge], PersonaFor("OTHER", nil))
}

func TestCoach_RespondUsesPersonaPerCategory(t *testing.T) {
	for _, category := range model.Categories {
		t.Run(string(category), func(t *testing.T) {
			chat := replyWith("ok")
			coach := NewCoach(chat, nil, nil)

			_, err := coach.Respond(context.Background(), "질문", category, ChatContext{Excerpt: "자료", StudentName: "민수"})
			require.NoError(t, err)

			system := chat.lastCall().Messages[0]
			assert.Equal(t, llm.RoleSystem, system.Role)
			assert.Equal(t, defaultPersonas[category], system.Content)
		})
	}
}

func TestCoach_MessageOrderAndSampling(t *testing.T) {
	chat := replyWith("답변")
	coach := NewCoach(chat, nil, nil)

	reply, err := coach.Respond(context.Background(), "지금 질문", model.CategoryKnowledge, ChatContext{
		Excerpt:     "공룡은 중생대에 살았다.",
		StudentName: "지영",
		History:     []Exchange{{Question: "이전 질문", Answer: "이전 답변"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "답변", reply)

	call := chat.lastCall()
	require.Len(t, call.Messages, 5)
	assert.Equal(t, llm.RoleSystem, call.Messages[0].Role)
	assert.Equal(t, llm.RoleUser, call.Messages[1].Role)
	assert.Contains(t, call.Messages[1].Content, "지영")
	assert.Contains(t, call.Messages[1].Content, "공룡은 중생대에 살았다.")
	assert.Equal(t, llm.UserMessage("이전 질문"), call.Messages[2])
	assert.Equal(t, llm.AssistantMessage("이전 답변"), call.Messages[3])
	assert.Equal(t, llm.UserMessage("지금 질문"), call.Messages[4])

	assert.Equal(t, 500, call.Options.MaxTokens)
	assert.InDelta(t, 0.7, call.Options.TemperatureOr(-1), 1e-9)
}

func TestCoach_HistoryBound(t *testing.T) {
	var history []Exchange
	for i := 0; i < 10; i++ {
		history = append(history, Exchange{Question: fmt.Sprintf("q%d", i), Answer: fmt.Sprintf("a%d", i)})
	}

	coach := NewCoach(replyWith("ok"), nil, nil)
	messages := coach.BuildMessages("now", model.CategoryKnowledge, ChatContext{History: history})

	require.Len(t, messages, 2+6+1)
	var got []string
	for _, m := range messages[2:8] {
		got = append(got, m.Content)
	}
	assert.Equal(t, []string{"q7", "a7", "q8", "a8", "q9", "a9"}, got)
	assert.Equal(t, "now", messages[8].Content)
}

func TestCoach_RespondPropagatesFailure(t *testing.T) {
	cause := stderrors.New("upstream 500")
	coach := NewCoach(failWith(cause), nil, nil)

	reply, err := coach.Respond(context.Background(), "질문", model.CategoryReasoning, ChatContext{})
	require.Error(t, err)
	assert.Empty(t, reply)
	assert.True(t, errors.IsCode(err, errors.ErrTutorResponseGeneration.Code))
	assert.ErrorIs(t, err, cause)
}

func TestCoach_SummarizeClass(t *testing.T) {
	chat := replyWith("1. 공통 주제 ...")
	coach := NewCoach(chat, nil, nil)

	var entries []SummaryEntry
	for i := 0; i < 60; i++ {
		entries = append(entries, SummaryEntry{StudentName: fmt.Sprintf("학생%d", i), Question: fmt.Sprintf("질문%d", i), Category: model.CategoryReasoning})
	}

	summary, err := coach.SummarizeClass(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, "1. 공통 주제 ...", summary)

	prompt := chat.lastCall().Messages[0].Content
	assert.Contains(t, prompt, "- 학생0: 질문0 (REASONING)")
	assert.Contains(t, prompt, "- 학생49: 질문49 (REASONING)")
	assert.NotContains(t, prompt, "학생50:")
	assert.Equal(t, 50, strings.Count(prompt, "\n- "))
	for _, point := range []string{"공통적으로 관심", "어려워하는", "보충 설명", "교사가"} {
		assert.Contains(t, prompt, point)
	}
}

func TestCoach_SummarizeClassErrors(t *testing.T) {
	chat := replyWith("unused")
	coach := NewCoach(chat, nil, nil)

	_, err := coach.SummarizeClass(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrTutorNoQuestions.Code))
	assert.Equal(t, 0, chat.callCount())

	failing := NewCoach(failWith(stderrors.New("boom")), nil, nil)
	_, err = failing.SummarizeClass(context.Background(), []SummaryEntry{{StudentName: "a", Question: "b", Category: model.CategoryKnowledge}})
	assert.True(t, errors.IsCode(err, errors.ErrTutorSummaryGeneration.Code))

	timedOut := NewCoach(failWith(fmt.Errorf("summarize: %w", context.DeadlineExceeded)), nil, nil)
	_, err = timedOut.SummarizeClass(context.Background(), []SummaryEntry{{StudentName: "a", Question: "b", Category: model.CategoryKnowledge}})
	assert.True(t, errors.IsCode(err, errors.ErrRequestTimeout.Code))
}

func TestCoachConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultCoachConfig().Validate())
	assert.NoError(t, DefaultClassifierConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*CoachConfig)
		want   string
	}{
		{"历史超过 3 组", func(c *CoachConfig) { c.HistoryPairs = 4 }, "history-pairs"},
		{"历史为负", func(c *CoachConfig) { c.HistoryPairs = -1 }, "history-pairs"},
		{"总结超过 50 条", func(c *CoachConfig) { c.SummaryLimit = 51 }, "summary-limit"},
		{"token 为零", func(c *CoachConfig) { c.MaxTokens = 0 }, "max-tokens"},
		{"未知策略", func(c *CoachConfig) { c.Policy = "retry" }, "policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCoachConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
