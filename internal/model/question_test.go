package model

import (
	"encoding/json"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name      string
		question  Question
		wantMax   int
		wantLevel Difficulty
	}{
		{"exam question", Question{Event: &Event{Type: EventExam}}, DefaultMaxSubmissionsExam, DifficultyEasy},
		{"assignment question", Question{Event: &Event{Type: EventAssignment}}, DefaultMaxSubmissionsRegular, DifficultyEasy},
		{"no event", Question{}, DefaultMaxSubmissionsRegular, DifficultyEasy},
		{"explicit values kept", Question{MaxSubmissionAllowed: 5, Difficulty: DifficultyHard}, 5, DifficultyHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.question
			q.ApplyDefaults()
			if q.MaxSubmissionAllowed != tt.wantMax {
				t.Errorf("MaxSubmissionAllowed = %d, want %d", q.MaxSubmissionAllowed, tt.wantMax)
			}
			if q.Difficulty != tt.wantLevel {
				t.Errorf("Difficulty = %q, want %q", q.Difficulty, tt.wantLevel)
			}
		})
	}
}

func TestDefaultTokenValue(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		want       float64
	}{
		{DifficultyEasy, 1},
		{DifficultyNormal, 2},
		{DifficultyHard, 3},
		{Difficulty("UNKNOWN"), 0},
	}

	for _, tt := range tests {
		if got := DefaultTokenValue(tt.difficulty); got != tt.want {
			t.Errorf("DefaultTokenValue(%q) = %v, want %v", tt.difficulty, got, tt.want)
		}
	}
}

func TestQuestionJSONAccessors(t *testing.T) {
	q := Question{
		Kind: KindJava,
		Variables: json.RawMessage(`[
			{"name":"x","type":"int","min":1,"max":10},
			{"name":"color","type":"choice","options":["red","blue"]}
		]`),
		InputFileNames: json.RawMessage(`[{"name":"Main.java"},{"name":"Util.java"}]`),
	}

	specs, err := q.VariableSpecs()
	if err != nil {
		t.Fatalf("VariableSpecs() error: %v", err)
	}
	if len(specs) != 2 || specs[0].Name != "x" || specs[1].Type != "choice" {
		t.Fatalf("unexpected specs: %+v", specs)
	}

	names, err := q.InputFileNameList()
	if err != nil {
		t.Fatalf("InputFileNameList() error: %v", err)
	}
	if names != "Main.java Util.java" {
		t.Fatalf("InputFileNameList() = %q", names)
	}

	empty := Question{Kind: KindMultipleChoice}
	if specs, _ := empty.VariableSpecs(); specs != nil {
		t.Fatalf("empty variables should yield nil, got %+v", specs)
	}
	if choices, _ := empty.ChoiceList(); choices != nil {
		t.Fatalf("empty choices should yield nil, got %+v", choices)
	}
}

func TestQuestionChoiceListPreservesOrder(t *testing.T) {
	q := Question{
		Kind:    KindMultipleChoice,
		Choices: json.RawMessage(`[{"key":"a","text":"first"},{"key":"b","text":"second"},{"key":"c","text":"third"}]`),
	}
	choices, err := q.ChoiceList()
	if err != nil {
		t.Fatalf("ChoiceList() error: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, c := range choices {
		if c.Key != want[i] {
			t.Fatalf("choices out of order: %+v", choices)
		}
	}
}
