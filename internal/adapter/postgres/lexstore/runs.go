package lexstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/lexigraph/internal/adapter/postgres"
	"github.com/heartmarshall/lexigraph/internal/domain"
)

// StartLoadRun records the start of a pipeline phase and returns the run.
func (r *Repo) StartLoadRun(ctx context.Context, phase string) (domain.LoadRun, error) {
	id := uuid.New()
	run := domain.LoadRun{
		ID:        id.String(),
		Phase:     phase,
		Status:    domain.LoadRunStatusRunning,
		StartedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	query, args, err := postgres.Builder.
		Insert("load_runs").
		Columns("id", "phase", "status", "started_at").
		Values(id, run.Phase, string(run.Status), run.StartedAt).
		ToSql()
	if err != nil {
		return domain.LoadRun{}, fmt.Errorf("build load run insert: %w", err)
	}

	if _, err := r.q(ctx).Exec(ctx, query, args...); err != nil {
		return domain.LoadRun{}, postgres.MapError(err, "load run", run.ID)
	}
	return run, nil
}

// FinishLoadRun stores the final status and JSON report of a run.
func (r *Repo) FinishLoadRun(ctx context.Context, id string, status domain.LoadRunStatus, report []byte) error {
	runID, err := uuid.Parse(id)
	if err != nil {
		return domain.NewValidationError("load_run_id", err.Error())
	}

	query, args, err := postgres.Builder.
		Update("load_runs").
		Set("status", string(status)).
		Set("finished_at", time.Now().UTC()).
		Set("report", report).
		Where("id = ?", runID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build load run update: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "load run", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("load run %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
