package model

import (
	"testing"
	"time"
)

func openEvent(t EventType) *Event {
	return &Event{
		Type:      t,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
	}
}

func TestRecomputeStatus(t *testing.T) {
	tests := []struct {
		name        string
		submissions []Submission
		wantSolved  bool
		wantPartial bool
	}{
		{"no submissions", nil, false, false},
		{"only wrong", []Submission{{}}, false, false},
		{"one correct", []Submission{{}, {IsCorrect: true}}, true, false},
		{"only partial", []Submission{{IsPartiallyCorrect: true}}, false, true},
		{"solved wins over partial", []Submission{{IsPartiallyCorrect: true}, {IsCorrect: true}}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &UserQuestionJunction{IsSolved: true, IsPartiallySolved: true}
			j.RecomputeStatus(tt.submissions)
			if j.IsSolved != tt.wantSolved || j.IsPartiallySolved != tt.wantPartial {
				t.Fatalf("RecomputeStatus() = (%v, %v), want (%v, %v)",
					j.IsSolved, j.IsPartiallySolved, tt.wantSolved, tt.wantPartial)
			}
		})
	}
}

func TestCanSubmit(t *testing.T) {
	student := &User{Role: Student}
	teacher := &User{Role: Teacher}

	openQuestion := &Question{MaxSubmissionAllowed: 3, Event: openEvent(EventAssignment)}
	closedQuestion := &Question{MaxSubmissionAllowed: 3}

	tests := []struct {
		name     string
		junction *UserQuestionJunction
		user     *User
		question *Question
		count    int
		want     bool
	}{
		{"fresh junction", &UserQuestionJunction{}, student, openQuestion, 0, true},
		{"quota exhausted", &UserQuestionJunction{}, student, openQuestion, 3, false},
		{"already solved", &UserQuestionJunction{IsSolved: true}, student, openQuestion, 0, false},
		{"opened tutorial", &UserQuestionJunction{OpenedTutorial: true}, student, openQuestion, 0, false},
		{"question not open", &UserQuestionJunction{}, student, closedQuestion, 0, false},
		{"teacher bypasses quota", &UserQuestionJunction{IsSolved: true}, teacher, closedQuestion, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.junction.CanSubmit(tt.user, tt.question, tt.count); got != tt.want {
				t.Fatalf("CanSubmit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJunctionStatus(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		junction *UserQuestionJunction
		count    int
		want     string
	}{
		{"solved", &UserQuestionJunction{IsSolved: true}, 2, "Solved"},
		{"partially solved", &UserQuestionJunction{IsPartiallySolved: true}, 2, "Partially Solved"},
		{"attempted but wrong", &UserQuestionJunction{}, 1, "Wrong"},
		{"viewed only", &UserQuestionJunction{LastViewed: &now}, 0, "Unsolved"},
		{"never seen", &UserQuestionJunction{}, 0, "New"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.junction.Status(tt.count); got != tt.want {
				t.Fatalf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewRandomSeedRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		seed := NewRandomSeed()
		if seed < 0 || seed >= 100000000 {
			t.Fatalf("seed %d outside 8-digit range", seed)
		}
	}
}
