package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"gamification_backend/internal/model"
	"gamification_backend/internal/util"
)

func TestCreditDecision(t *testing.T) {
	tests := []struct {
		name          string
		isExam        bool
		score         float64
		tokenValue    float64
		current       float64
		wantReceived  float64
		wantOverwrite bool
	}{
		{"first correct answer", false, 1.0, 3, 0, 3, true},
		{"improvement", false, 1.0, 3, 1.5, 3, true},
		{"worse result keeps best", false, 0.5, 3, 3, 1.5, false},
		{"equal result no-op", false, 1.0, 3, 3, 3, false},
		{"exam regrade may decrease", true, 0.5, 3, 2.7, 1.5, true},
		{"exam zero still overwrites", true, 0, 3, 2.7, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received, overwrite := creditDecision(tt.isExam, tt.score, tt.tokenValue, tt.current)
			if received != tt.wantReceived || overwrite != tt.wantOverwrite {
				t.Fatalf("creditDecision() = (%v, %v), want (%v, %v)",
					received, overwrite, tt.wantReceived, tt.wantOverwrite)
			}
		})
	}
}

func TestLockForReturnsSameMutex(t *testing.T) {
	s := &SubmissionService{}

	first := s.lockFor(7)
	second := s.lockFor(7)
	if first != second {
		t.Fatal("same submission must map to the same mutex")
	}
	if s.lockFor(8) == first {
		t.Fatal("different submissions must not share a mutex")
	}

	// 并发取锁必须收敛到同一把
	var wg sync.WaitGroup
	locks := make([]*sync.Mutex, 16)
	for i := range locks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			locks[i] = s.lockFor(99)
		}(i)
	}
	wg.Wait()
	for _, mu := range locks {
		if mu != locks[0] {
			t.Fatal("concurrent lockFor calls diverged")
		}
	}
}

func TestReleaseLockPrunesEntry(t *testing.T) {
	s := &SubmissionService{}

	first := s.lockFor(7)
	s.releaseLock(7)

	entries := 0
	s.locks.Range(func(_, _ any) bool {
		entries++
		return true
	})
	if entries != 0 {
		t.Fatalf("expected empty lock map after release, got %d entries", entries)
	}
	if s.lockFor(7) == first {
		t.Fatal("released lock must not be reused")
	}
}

func TestFinalizeWithCredit(t *testing.T) {
	t.Run("credit success finalizes", func(t *testing.T) {
		submission := &model.Submission{}
		if err := finalizeWithCredit(submission, func() error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !submission.Finalized {
			t.Fatal("submission must be finalized after successful credit")
		}
	})

	t.Run("no credit step still finalizes", func(t *testing.T) {
		submission := &model.Submission{}
		if err := finalizeWithCredit(submission, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !submission.Finalized {
			t.Fatal("submission without a credit step must still finalize")
		}
	})

	// 配置故障必须可恢复：定格标记回滚，后续刷新重试结算
	t.Run("credit failure rolls back finalization", func(t *testing.T) {
		submission := &model.Submission{}
		err := finalizeWithCredit(submission, func() error { return util.ErrTokenValueNotSet })
		if !errors.Is(err, util.ErrTokenValueNotSet) {
			t.Fatalf("expected credit error to surface, got %v", err)
		}
		if submission.Finalized {
			t.Fatal("submission must not stay finalized when credit fails")
		}
	})
}

func TestDispatchSkipsAlreadyDispatched(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	s := &SubmissionService{Judge: newTestJudgeClient(server.URL)}
	submission := &model.Submission{
		Kind:        model.SubmissionCode,
		JudgeTokens: json.RawMessage(`["tok-1"]`),
	}
	question := &model.Question{Kind: model.KindJava}

	if err := s.dispatch(submission, question); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 0 {
		t.Fatalf("already dispatched submission must not hit the judge again, got %d requests", hits)
	}
}
