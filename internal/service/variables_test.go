package service

import (
	"reflect"
	"testing"

	"gamification_backend/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func sampleSpecs() []model.VariableSpec {
	return []model.VariableSpec{
		{Name: "a", Type: "int", Min: floatPtr(1), Max: floatPtr(10)},
		{Name: "b", Type: "float", Min: floatPtr(0), Max: floatPtr(1), Precision: 3},
		{Name: "c", Type: "choice", Options: []string{"red", "green", "blue"}},
	}
}

func TestGenerateVariablesDeterministic(t *testing.T) {
	specs := sampleSpecs()

	first, firstErrs := GenerateVariables(specs, 12345678)
	second, secondErrs := GenerateVariables(specs, 12345678)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed produced different values: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(firstErrs, secondErrs) {
		t.Fatalf("same seed produced different errors: %v vs %v", firstErrs, secondErrs)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 generated values, got %d", len(first))
	}
}

func TestGenerateVariablesPartialFailure(t *testing.T) {
	specs := []model.VariableSpec{
		{Name: "ok", Type: "int", Min: floatPtr(5), Max: floatPtr(5)},
		{Name: "bad", Type: "int"},                   // missing bounds
		{Name: "worse", Type: "gaussian"},            // unknown type
		{Name: "empty", Type: "choice"},              // empty option set
		{Name: "inverted", Type: "float", Min: floatPtr(2), Max: floatPtr(1)},
	}

	values, errs := GenerateVariables(specs, 42)

	if values["ok"] != "5" {
		t.Fatalf("expected surviving variable ok=5, got %q", values["ok"])
	}
	if len(errs) != 4 {
		t.Fatalf("expected 4 per-variable errors, got %d: %v", len(errs), errs)
	}
}

func TestGenerateVariablesEmptySpec(t *testing.T) {
	values, errs := GenerateVariables(nil, 99)
	if len(values) != 0 || len(errs) != 0 {
		t.Fatalf("non-variable question must yield empty results, got %v %v", values, errs)
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]string
		want     string
	}{
		{"substitutes", "x = {{a}} + {{b}}", map[string]string{"a": "3", "b": "4"}, "x = 3 + 4"},
		{"unresolved passes through", "x = {{a}} + {{missing}}", map[string]string{"a": "3"}, "x = 3 + {{missing}}"},
		{"no values", "plain text", nil, "plain text"},
		{"empty template", "", map[string]string{"a": "3"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderText(tt.template, tt.values); got != tt.want {
				t.Fatalf("RenderText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVisibleChoicesReproducible(t *testing.T) {
	choices := []model.Choice{
		{Key: "a", Text: "first {{n}}"},
		{Key: "b", Text: "second"},
		{Key: "c", Text: "third"},
		{Key: "d", Text: "fourth"},
		{Key: "e", Text: "fifth"},
	}
	values := map[string]string{"n": "7"}

	first := VisibleChoices(choices, 2, 555, values)
	second := VisibleChoices(choices, 2, 555, values)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed must give identical order: %v vs %v", first, second)
	}
	if len(first) != 3 {
		t.Fatalf("expected distractor count + 1 = 3 visible choices, got %d", len(first))
	}

	// 只允许来自录入顺序的前三个键
	for _, c := range first {
		if c.Key != "a" && c.Key != "b" && c.Key != "c" {
			t.Fatalf("unexpected key %q in visible subset", c.Key)
		}
	}

	for _, c := range first {
		if c.Key == "a" && c.Text != "first 7" {
			t.Fatalf("choice text not rendered: %q", c.Text)
		}
	}
}

func TestVisibleChoicesCountExceedsChoices(t *testing.T) {
	choices := []model.Choice{{Key: "a", Text: "only"}}
	visible := VisibleChoices(choices, 5, 1, nil)
	if len(visible) != 1 {
		t.Fatalf("expected clamp to available choices, got %d", len(visible))
	}
}

func TestVisibleChoicesNegativeCount(t *testing.T) {
	choices := []model.Choice{
		{Key: "a", Text: "first"},
		{Key: "b", Text: "second"},
	}
	// 脏数据里的负数不能让查看题面崩溃
	visible := VisibleChoices(choices, -2, 7, nil)
	if len(visible) != 0 {
		t.Fatalf("expected no visible choices for negative count, got %d", len(visible))
	}
}
