package model

import (
	"encoding/base64"
	"testing"
)

func resultsWithStatuses(t *testing.T, ids ...int) *Submission {
	t.Helper()
	s := &Submission{Kind: SubmissionCode}
	entries := make([]JudgeResult, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, JudgeResult{Status: JudgeStatus{ID: id}})
	}
	if err := s.SetResultEntries(entries); err != nil {
		t.Fatalf("SetResultEntries: %v", err)
	}
	return s
}

func TestSubmissionInProgress(t *testing.T) {
	tests := []struct {
		name string
		sub  *Submission
		want bool
	}{
		{"mc never in progress", &Submission{Kind: SubmissionMultipleChoice}, false},
		{"code without results awaits dispatch", &Submission{Kind: SubmissionCode}, true},
		{"all queued", resultsWithStatuses(t, JudgeStatusInQueue, JudgeStatusInQueue), true},
		{"all running", resultsWithStatuses(t, JudgeStatusProcessing, JudgeStatusProcessing), true},
		{"one still running", resultsWithStatuses(t, JudgeStatusAccepted, JudgeStatusProcessing), true},
		{"all settled", resultsWithStatuses(t, JudgeStatusAccepted, JudgeStatusWrongAnswer), false},
		{"all compile error", resultsWithStatuses(t, JudgeStatusCompileError, JudgeStatusCompileError), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.InProgress(); got != tt.want {
				t.Fatalf("InProgress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubmissionIsCompileError(t *testing.T) {
	tests := []struct {
		name string
		sub  *Submission
		want bool
	}{
		{"no results", &Submission{Kind: SubmissionCode}, false},
		{"all compile error", resultsWithStatuses(t, JudgeStatusCompileError, JudgeStatusCompileError), true},
		{"mixed", resultsWithStatuses(t, JudgeStatusCompileError, JudgeStatusAccepted), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.IsCompileError(); got != tt.want {
				t.Fatalf("IsCompileError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubmissionDecodedStdout(t *testing.T) {
	s := &Submission{Kind: SubmissionCode}
	err := s.SetResultEntries([]JudgeResult{{
		Status: JudgeStatus{ID: JudgeStatusAccepted},
		Stdout: base64.StdEncoding.EncodeToString([]byte("hello")),
	}})
	if err != nil {
		t.Fatalf("SetResultEntries: %v", err)
	}
	if got := s.DecodedStdout(); got != "hello" {
		t.Fatalf("DecodedStdout() = %q", got)
	}

	// 非法 base64 按空输出处理
	if err := s.SetResultEntries([]JudgeResult{{Stdout: "!!not-base64!!"}}); err != nil {
		t.Fatalf("SetResultEntries: %v", err)
	}
	if got := s.DecodedStdout(); got != "" {
		t.Fatalf("invalid base64 must decode to empty, got %q", got)
	}
}

func TestSubmissionStatus(t *testing.T) {
	evaluating := resultsWithStatuses(t, JudgeStatusProcessing)
	if got := evaluating.Status(); got != "Evaluating" {
		t.Fatalf("Status() = %q, want Evaluating", got)
	}

	correct := &Submission{Kind: SubmissionMultipleChoice, IsCorrect: true}
	if got := correct.Status(); got != "Correct" {
		t.Fatalf("Status() = %q, want Correct", got)
	}

	partial := &Submission{Kind: SubmissionMultipleChoice, IsPartiallyCorrect: true}
	if got := partial.Status(); got != "Partially Correct" {
		t.Fatalf("Status() = %q, want Partially Correct", got)
	}

	wrong := &Submission{Kind: SubmissionMultipleChoice}
	if got := wrong.Status(); got != "Wrong" {
		t.Fatalf("Status() = %q, want Wrong", got)
	}
}
