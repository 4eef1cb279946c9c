package service

import (
	"encoding/json"
	"testing"

	"gamification_backend/internal/model"
)

func mcQuestion(visibleDistractorCount int) *model.Question {
	return &model.Question{
		Kind:                   model.KindMultipleChoice,
		Title:                  "示例选择题",
		Answer:                 "a",
		Choices:                json.RawMessage(`[{"key":"a","text":"first"},{"key":"b","text":"second"}]`),
		VisibleDistractorCount: visibleDistractorCount,
	}
}

func TestValidateQuestionPayload(t *testing.T) {
	tests := []struct {
		name     string
		question *model.Question
		wantErr  bool
	}{
		{"valid mc", mcQuestion(1), false},
		{"zero distractors", mcQuestion(0), false},
		{"negative distractor count", mcQuestion(-2), true},
		{
			"mc without choices",
			&model.Question{Kind: model.KindMultipleChoice, Answer: "a"},
			true,
		},
		{
			"code without harness",
			&model.Question{Kind: model.KindJava},
			true,
		},
		{
			"unknown kind",
			&model.Question{Kind: "essay"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestionPayload(tt.question)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
