package service

import "testing"

const sampleReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="QuestionTests" tests="3">
  <testcase name="testAdd"/>
  <testcase name="testSubtract">
    <failure message="expected 2 but was 3"/>
  </testcase>
  <testcase name="testMultiply"/>
</testsuite>`

func TestParseJUnitReport(t *testing.T) {
	results := ParseJUnitReport(sampleReport)
	if len(results) != 3 {
		t.Fatalf("expected 3 test cases, got %d", len(results))
	}

	want := map[string]string{
		"testAdd":      "PASS",
		"testSubtract": "FAIL",
		"testMultiply": "PASS",
	}
	for _, r := range results {
		if want[r.Name] != r.Status {
			t.Fatalf("test %q: got status %q, want %q", r.Name, r.Status, want[r.Name])
		}
	}
}

func TestParseJUnitReportMalformed(t *testing.T) {
	tests := []struct {
		name   string
		report string
	}{
		{"empty", ""},
		{"not xml", "Exception in thread main"},
		{"truncated", "<testsuite><testcase name="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if results := ParseJUnitReport(tt.report); len(results) != 0 {
				t.Fatalf("malformed report must yield zero tests, got %v", results)
			}
		})
	}
}

func TestParseJUnitReportErrorElement(t *testing.T) {
	report := `<testsuite><testcase name="testBoom"><error message="NPE"/></testcase></testsuite>`
	results := ParseJUnitReport(report)
	if len(results) != 1 || results[0].Status != "FAIL" {
		t.Fatalf("errored test case must count as FAIL, got %v", results)
	}
}
