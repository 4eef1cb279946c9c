package service

import (
	"encoding/base64"
	"math"
	"testing"

	"gamification_backend/internal/model"
)

func TestMultipleChoiceGrader(t *testing.T) {
	question := &model.Question{Kind: model.KindMultipleChoice, Answer: "B"}

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
		wantScore   float64
	}{
		{"exact match", "B", true, 1.0},
		{"wrong key", "A", false, 0.0},
		{"empty answer", "", false, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submission := &model.Submission{Kind: model.SubmissionMultipleChoice, Answer: tt.answer}
			correct, score := MultipleChoiceGrader{}.Grade(submission, question)
			if correct != tt.wantCorrect || score != tt.wantScore {
				t.Fatalf("Grade() = (%v, %v), want (%v, %v)", correct, score, tt.wantCorrect, tt.wantScore)
			}
		})
	}
}

func codeSubmissionWithReport(t *testing.T, statusID int, report string) *model.Submission {
	t.Helper()
	submission := &model.Submission{Kind: model.SubmissionCode}
	err := submission.SetResultEntries([]model.JudgeResult{{
		Status: model.JudgeStatus{ID: statusID},
		Stdout: base64.StdEncoding.EncodeToString([]byte(report)),
	}})
	if err != nil {
		t.Fatalf("SetResultEntries: %v", err)
	}
	return submission
}

func TestCodeJudgeGraderPartialCredit(t *testing.T) {
	question := &model.Question{Kind: model.KindJava}
	submission := codeSubmissionWithReport(t, model.JudgeStatusAccepted, sampleReport)

	grader := &CodeJudgeGrader{}
	correct, score := grader.Grade(submission, question)

	if correct {
		t.Fatal("2/3 passing must not be fully correct")
	}
	if math.Abs(score-2.0/3.0) > 1e-9 {
		t.Fatalf("expected score 2/3, got %v", score)
	}
}

func TestCodeJudgeGraderAllPassing(t *testing.T) {
	report := `<testsuite><testcase name="t1"/><testcase name="t2"/></testsuite>`
	submission := codeSubmissionWithReport(t, model.JudgeStatusAccepted, report)

	correct, score := (&CodeJudgeGrader{}).Grade(submission, &model.Question{Kind: model.KindJava})
	if !correct || score != 1.0 {
		t.Fatalf("all passing must give (true, 1.0), got (%v, %v)", correct, score)
	}
}

func TestCodeJudgeGraderCompileErrorShortCircuits(t *testing.T) {
	// 即使 stdout 恰好是合法报告，编译错误也必须短路为零分
	submission := codeSubmissionWithReport(t, model.JudgeStatusCompileError, sampleReport)

	correct, score := (&CodeJudgeGrader{}).Grade(submission, &model.Question{Kind: model.KindJava})
	if correct || score != 0.0 {
		t.Fatalf("compile error must give (false, 0), got (%v, %v)", correct, score)
	}
}

func TestCodeJudgeGraderMalformedReport(t *testing.T) {
	submission := codeSubmissionWithReport(t, model.JudgeStatusAccepted, "Segmentation fault")

	correct, score := (&CodeJudgeGrader{}).Grade(submission, &model.Question{Kind: model.KindJava})
	if correct || score != 0.0 {
		t.Fatalf("malformed report degrades to zero passing, got (%v, %v)", correct, score)
	}
}

func TestGraderForDispatch(t *testing.T) {
	if _, ok := GraderFor(model.KindJava, nil).(AsyncGrader); !ok {
		t.Fatal("java questions must use an async grader")
	}
	if _, ok := GraderFor(model.KindMultipleChoice, nil).(AsyncGrader); ok {
		t.Fatal("multiple choice grading is synchronous")
	}
	if _, ok := GraderFor(model.KindCheckbox, nil).(MultipleChoiceGrader); !ok {
		t.Fatal("checkbox questions grade as multiple choice")
	}
}
