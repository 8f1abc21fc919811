// Package jobs wires background maintenance tasks through Asynq.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tasklane/tasklane/internal/auth"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuditPrune is the task type for pruning old login audit rows.
	TaskTypeAuditPrune = "auth:prune_login_audit"
)

// AuditPrunePayload carries the retention window for a prune run.
type AuditPrunePayload struct {
	OlderThan time.Duration `json:"older_than"`
}

// NewAuditPruneTask constructs an Asynq task.
func NewAuditPruneTask(payload AuditPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditPrune, data), nil
}

// AuditStore prunes login audit rows. Satisfied by auth.PGRepository.
type AuditStore interface {
	PruneLoginAudit(ctx context.Context, olderThan time.Duration) (int64, error)
}

var _ AuditStore = (*auth.PGRepository)(nil)

// AuditPruner deletes login audit rows past their retention window.
type AuditPruner struct {
	repo   AuditStore
	logger *slog.Logger
}

// NewAuditPruner constructs the pruner.
func NewAuditPruner(repo AuditStore, logger *slog.Logger) *AuditPruner {
	return &AuditPruner{repo: repo, logger: logger}
}

// Handle processes TaskTypeAuditPrune tasks.
func (p *AuditPruner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.OlderThan <= 0 {
		return asynq.SkipRetry
	}
	removed, err := p.repo.PruneLoginAudit(ctx, payload.OlderThan)
	if err != nil {
		return err
	}
	if p.logger != nil {
		p.logger.Info("pruned login audit", slog.Int64("rows", removed))
	}
	return nil
}
