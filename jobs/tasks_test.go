package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

type stubAuditStore struct {
	olderThan time.Duration
	removed   int64
	err       error
	calls     int
}

func (s *stubAuditStore) PruneLoginAudit(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.calls++
	s.olderThan = olderThan
	return s.removed, s.err
}

func TestAuditPruneTaskRoundTrip(t *testing.T) {
	task, err := NewAuditPruneTask(AuditPrunePayload{OlderThan: 90 * 24 * time.Hour})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskTypeAuditPrune {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	var payload AuditPrunePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.OlderThan != 90*24*time.Hour {
		t.Fatalf("unexpected retention %v", payload.OlderThan)
	}
}

func TestAuditPrunerHandle(t *testing.T) {
	store := &stubAuditStore{removed: 12}
	pruner := NewAuditPruner(store, nil)

	task, err := NewAuditPruneTask(AuditPrunePayload{OlderThan: time.Hour})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := pruner.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if store.calls != 1 || store.olderThan != time.Hour {
		t.Fatalf("expected prune call with the payload retention, got %d calls, %v", store.calls, store.olderThan)
	}
}

func TestAuditPrunerSkipsBadPayload(t *testing.T) {
	store := &stubAuditStore{}
	pruner := NewAuditPruner(store, nil)

	cases := []struct {
		name string
		task *asynq.Task
	}{
		{"malformed json", asynq.NewTask(TaskTypeAuditPrune, []byte("{"))},
		{"non-positive retention", asynq.NewTask(TaskTypeAuditPrune, []byte(`{"older_than":0}`))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := pruner.Handle(context.Background(), tc.task); !errors.Is(err, asynq.SkipRetry) {
				t.Fatalf("expected SkipRetry, got %v", err)
			}
		})
	}
	if store.calls != 0 {
		t.Fatalf("store must not be touched on bad payloads")
	}
}

func TestAuditPrunerPropagatesStoreError(t *testing.T) {
	store := &stubAuditStore{err: errors.New("connection refused")}
	pruner := NewAuditPruner(store, nil)

	task, err := NewAuditPruneTask(AuditPrunePayload{OlderThan: time.Hour})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := pruner.Handle(context.Background(), task); err == nil {
		t.Fatalf("expected error to propagate for retry")
	}
}
