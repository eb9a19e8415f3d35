package pipeline

import (
	"context"
	"log/slog"
)

// Worker processes a single batch analysis job.
type Worker struct {
	analyzer *Analyzer
	log      *slog.Logger
}

func NewWorker(analyzer *Analyzer, log *slog.Logger) *Worker {
	return &Worker{analyzer: analyzer, log: log}
}

// statusForPhase maps analyzer phases onto job statuses.
func statusForPhase(phase string) JobStatus {
	switch phase {
	case "extracting":
		return StatusExtracting
	case "fitting":
		return StatusFitting
	case "scoring":
		return StatusScoring
	case "reporting":
		return StatusReporting
	}
	return StatusQueued
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	inputs := job.Inputs()
	result, warnings, err := w.analyzer.Run(ctx, inputs, job.Persona, job.JobToBeDone, func(phase string) {
		job.SetStatus(statusForPhase(phase), phase)
	})
	for _, wmsg := range warnings {
		job.AddError(wmsg)
	}
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "done")
		return
	}

	job.SetCounts(
		result.Metadata.TotalDocuments,
		len(result.ExtractedSections),
		len(result.SubsectionAnalysis),
	)
	job.SetResult(&result)

	if len(warnings) > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("job finished",
		"status", job.Snapshot().Status,
		"documents", result.Metadata.TotalDocuments,
		"sections", len(result.ExtractedSections),
	)
}
