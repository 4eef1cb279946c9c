package service

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gamification_backend/internal/config"
	"gamification_backend/internal/model"
)

func newTestJudgeClient(url string) *JudgeClient {
	return NewJudgeClient(&config.Judge0Config{URL: url, APIKey: "test-key", Host: "test-host"}, nil)
}

func TestJudgeClientSubmit(t *testing.T) {
	var gotPath string
	var gotBatch judgeBatchRequest
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotKey = r.Header.Get("X-RapidAPI-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBatch); err != nil {
			t.Errorf("decode batch: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"token":"tok-1"},{"token":"tok-2"}]`))
	}))
	defer server.Close()

	client := newTestJudgeClient(server.URL)
	question := &model.Question{
		Kind:          model.KindJava,
		JUnitTemplate: "class Harness { int x = {{x}}; }",
		InputFileNames: json.RawMessage(`[
			{"name":"a.txt","content":"first"},
			{"name":"b.txt","content":"second"}
		]`),
		Variables: json.RawMessage(`[{"name":"x","type":"int","min":3,"max":3}]`),
	}
	submission := &model.Submission{
		Kind:     model.SubmissionCode,
		Answer:   "class Solution {}",
		Junction: &model.UserQuestionJunction{RandomSeed: 42},
	}

	if err := client.Submit(submission, question); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if gotPath != "/submissions/batch?base64_encoded=true" {
		t.Errorf("unexpected dispatch path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("X-RapidAPI-Key = %q", gotKey)
	}
	// 两个输入文件应产生两个测试用例
	if len(gotBatch.Submissions) != 2 {
		t.Fatalf("got %d cases, want 2", len(gotBatch.Submissions))
	}
	for i, s := range gotBatch.Submissions {
		if s.LanguageID != judgeLanguageJava {
			t.Errorf("case %d language_id = %d", i, s.LanguageID)
		}
		src, err := base64.StdEncoding.DecodeString(s.SourceCode)
		if err != nil {
			t.Fatalf("case %d source not base64: %v", i, err)
		}
		if !strings.Contains(string(src), "class Solution {}") {
			t.Errorf("case %d source missing answer: %s", i, src)
		}
		if !strings.Contains(string(src), "int x = 3;") {
			t.Errorf("case %d harness not rendered: %s", i, src)
		}
	}
	stdin, _ := base64.StdEncoding.DecodeString(gotBatch.Submissions[1].Stdin)
	if string(stdin) != "second" {
		t.Errorf("case 1 stdin = %q", stdin)
	}

	var tokens []string
	if err := json.Unmarshal(submission.JudgeTokens, &tokens); err != nil {
		t.Fatalf("tokens not stored: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != "tok-1" {
		t.Fatalf("stored tokens = %v", tokens)
	}
	entries := submission.ResultEntries()
	if len(entries) != 2 || entries[0].Status.ID != model.JudgeStatusInQueue {
		t.Fatalf("pending entries = %+v", entries)
	}
	if !submission.InProgress() {
		t.Error("submission should be in progress after dispatch")
	}
}

func TestJudgeClientSubmitDispatchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestJudgeClient(server.URL)
	submission := &model.Submission{Kind: model.SubmissionCode, Answer: "class A {}"}

	if err := client.Submit(submission, &model.Question{Kind: model.KindJava}); err == nil {
		t.Fatal("expected error on 502 dispatch")
	}
	if len(submission.JudgeTokens) != 0 {
		t.Error("tokens should not be stored on failed dispatch")
	}
}

func TestJudgeClientFetchResults(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		resp := judgeBatchResults{Submissions: []model.JudgeResult{
			{Token: "tok-1", Status: model.JudgeStatus{ID: model.JudgeStatusAccepted, Description: "Accepted"}},
			{Token: "tok-2", Status: model.JudgeStatus{ID: model.JudgeStatusProcessing, Description: "Processing"}},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestJudgeClient(server.URL)
	submission := &model.Submission{
		Kind:        model.SubmissionCode,
		JudgeTokens: json.RawMessage(`["tok-1","tok-2"]`),
	}

	if err := client.FetchResults(submission); err != nil {
		t.Fatalf("FetchResults() error: %v", err)
	}
	if !strings.Contains(gotQuery, "tokens=tok-1,tok-2") {
		t.Errorf("poll query = %q", gotQuery)
	}
	entries := submission.ResultEntries()
	if len(entries) != 2 || entries[0].Status.ID != model.JudgeStatusAccepted {
		t.Fatalf("entries = %+v", entries)
	}
	// 仍有运行中的用例，提交停留在评测中
	if !submission.InProgress() {
		t.Error("submission should still be in progress")
	}
}

func TestJudgeClientFetchResultsNoTokens(t *testing.T) {
	client := newTestJudgeClient("http://judge.invalid")
	submission := &model.Submission{
		Kind:        model.SubmissionCode,
		JudgeTokens: json.RawMessage(`[]`),
	}
	if err := client.FetchResults(submission); err != nil {
		t.Fatalf("FetchResults() with no tokens should be a no-op, got %v", err)
	}
}
