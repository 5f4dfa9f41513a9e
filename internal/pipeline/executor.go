// Package pipeline sequences the six weekly stages and enforces the
// per-stage criticality policy. The executor itself performs no I/O; it is
// a sequencer with branch logic, nothing more.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-pilot/internal/domain"
	"github.com/dvloznov/budget-pilot/internal/logger"
)

// State holds the data handed from stage to stage within one run. The
// transaction collection is owned exclusively by the run; no locking needed.
type State struct {
	Transactions   []*domain.Transaction
	Categories     []domain.Category
	Categorization *domain.CategorizationResult
	Analysis       *domain.BudgetAnalysis
	Narrative      string
	Transfer       *domain.TransferResult
}

// Stage is one named step. Critical stages abort the run on error; the rest
// log the error and let the run continue.
type Stage struct {
	Name     string
	Critical bool
	Run      func(ctx context.Context, state *State) StageResult
}

// StageRecord pairs a stage name with its result in execution order.
type StageRecord struct {
	Stage  string
	Result StageResult
}

// RunStatus is the append-only audit trail of one run: every executed
// stage's result, the correlation id, and the wall-clock duration. Stages
// that never ran (after an abort) have no record at all.
type RunStatus struct {
	CorrelationID string
	StartedAt     time.Time
	Duration      time.Duration
	Stages        []StageRecord
	Aborted       bool
	AbortedStage  string
}

// Result returns the recorded result for a stage name.
func (s *RunStatus) Result(stage string) (StageResult, bool) {
	for _, r := range s.Stages {
		if r.Stage == stage {
			return r.Result, true
		}
	}
	return StageResult{}, false
}

// Executor runs stages strictly in order.
type Executor struct {
	stages []Stage
	log    zerolog.Logger
}

func NewExecutor(log zerolog.Logger, stages ...Stage) *Executor {
	return &Executor{stages: stages, log: log}
}

// Execute runs the pipeline once. correlationID may be supplied by the
// caller; empty means generate one. The returned status contains every
// executed stage's result so a failed run can be diagnosed without logs.
func (e *Executor) Execute(ctx context.Context, correlationID string) *RunStatus {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	runLog := logger.WithCorrelationID(e.log, correlationID)

	status := &RunStatus{
		CorrelationID: correlationID,
		StartedAt:     time.Now(),
	}
	state := &State{}

	runLog.Info().Int("stages", len(e.stages)).Msg("pipeline run starting")

	for _, stage := range e.stages {
		stageLog := logger.WithStage(runLog, stage.Name)
		stageCtx := logger.WithContext(ctx, stageLog)

		result := stage.Run(stageCtx, state)
		status.Stages = append(status.Stages, StageRecord{Stage: stage.Name, Result: result})

		switch result.Status {
		case StatusSuccess:
			stageLog.Info().Fields(result.Details).Msg("stage succeeded")
		case StatusWarning:
			stageLog.Warn().Fields(result.Details).Str("message", result.Message).Msg("stage degraded")
		case StatusError:
			if stage.Critical {
				stageLog.Error().Err(result.Err).Msg("critical stage failed, aborting run")
				status.Aborted = true
				status.AbortedStage = stage.Name
			} else {
				stageLog.Error().Err(result.Err).Msg("non-critical stage failed, continuing")
			}
		}

		if status.Aborted {
			break
		}
	}

	status.Duration = time.Since(status.StartedAt)
	runLog.Info().
		Dur("duration", status.Duration).
		Bool("aborted", status.Aborted).
		Msg("pipeline run finished")

	return status
}
