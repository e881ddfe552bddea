// Package pipeline runs the three-stage acquisition pipeline: discovery
// finds episodes, resolution fills in their download locations, and
// retrieval brings the payloads to disk. Every stage is idempotent and
// a no-op when there is nothing to do, so a partially completed run is
// resumed by simply running again.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// State is the driver's position in the stage sequence.
type State int

const (
	DiscoveryPending State = iota
	ResolutionPending
	RetrievalPending
	Done
)

func (s State) String() string {
	switch s {
	case DiscoveryPending:
		return "discovery-pending"
	case ResolutionPending:
		return "resolution-pending"
	case RetrievalPending:
		return "retrieval-pending"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stage is one phase of the pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, canc *Canceller) error
}

// Pipeline drives the stages in fixed order. Stages never interleave;
// the next starts only after the previous returns. A cancellation
// observed at a stage boundary skips the remaining stages and the run
// finishes without error.
type Pipeline struct {
	stages    []Stage
	canceller *Canceller
	logger    *slog.Logger
}

// New assembles the driver from its stages.
func New(canc *Canceller, logger *slog.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{stages: stages, canceller: canc, logger: logger}
}

// Run executes the stages to completion or to cancellation. Only
// storage failures produce an error; per-job failures and cancellation
// do not.
func (p *Pipeline) Run(ctx context.Context) error {
	state := DiscoveryPending
	for _, stage := range p.stages {
		if p.canceller.Cancelled() {
			p.logger.Info("cancellation observed, skipping remaining stages", "state", state.String())
			return nil
		}
		p.logger.Info("stage starting", "stage", stage.Name())
		if err := stage.Run(ctx, p.canceller); err != nil {
			return fmt.Errorf("%s stage: %w", stage.Name(), err)
		}
		p.logger.Info("stage finished", "stage", stage.Name())
		state++
	}
	return nil
}
