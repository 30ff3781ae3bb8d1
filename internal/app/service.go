// Package service runs an evaluation: it loads predictions and labels,
// classifies every sample and derives the Fire Detection Score report.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fds/internal/adapters/repository"
	"github.com/okian/fds/internal/domain/detection"
	"github.com/okian/fds/internal/domain/scoring"
	"github.com/okian/fds/pkg/logger"
)

// Pipeline stage names used for error metrics.
const (
	stageLoad  = "load"
	stagePair  = "pair"
	stageScore = "score"

	sourcePredicted = "predicted"
	sourceTruth     = "truth"
)

// Recorder receives run metrics. *metrics.Manager implements it.
type Recorder interface {
	RecordSamplesLoaded(source string, n int)
	RecordClassifications(class string, n int)
	ObserveDelay(frames int)
	SetReportValue(metric string, value float64, defined bool)
	RecordRun(d time.Duration, finished time.Time)
	RecordError(stage string)
}

// Request names the inputs of one evaluation.
type Request struct {
	ResultsDir string
	LabelsDir  string
	Resources  scoring.Resources
}

// Result is the outcome of one evaluation.
type Result struct {
	RunID     string              `json:"run_id"`
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"-"`
	Pairing   string              `json:"pairing"`
	Delta     int                 `json:"delta"`
	Samples   int                 `json:"samples"`
	Report    scoring.Report      `json:"report"`
	Verdicts  []detection.Verdict `json:"-"`
}

// Service evaluates detector output against ground truth.
type Service struct {
	store    repository.Store
	scorer   *scoring.Scorer
	recorder Recorder
	logger   logger.Logger
	pairing  repository.PairingMode
	delta    int
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:    repository.NewDirStore(),
		scorer:   scoring.NewScorer(),
		recorder: nopRecorder{},
		logger:   logger.Nop(),
		pairing:  repository.PairByKey,
		delta:    detection.DefaultDelta,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs the full pipeline once. Zero denominators leave metrics
// undefined in the report; only input problems return an error.
func (s *Service) Evaluate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	res := Result{
		RunID:     uuid.New().String(),
		StartedAt: start,
		Pairing:   string(s.pairing),
		Delta:     s.delta,
	}
	log := s.logger.With(logger.String("run_id", res.RunID))

	log.Info(ctx, "starting evaluation",
		logger.String("results", req.ResultsDir),
		logger.String("labels", req.LabelsDir),
		logger.String("pairing", string(s.pairing)),
		logger.Int("delta", s.delta),
		logger.Float64("total_frames", req.Resources.TotalFrames),
		logger.Float64("processing_time", req.Resources.ProcessingTime),
		logger.Float64("memory_usage", req.Resources.MemoryUsage))

	predicted, err := s.store.Load(ctx, req.ResultsDir)
	if err != nil {
		s.recorder.RecordError(stageLoad)
		return Result{}, fmt.Errorf("loading predictions: %w", err)
	}
	s.recorder.RecordSamplesLoaded(sourcePredicted, len(predicted))

	truth, err := s.store.Load(ctx, req.LabelsDir)
	if err != nil {
		s.recorder.RecordError(stageLoad)
		return Result{}, fmt.Errorf("loading labels: %w", err)
	}
	s.recorder.RecordSamplesLoaded(sourceTruth, len(truth))

	log.Debug(ctx, "samples loaded",
		logger.Int("predicted", len(predicted)),
		logger.Int("truth", len(truth)))

	pairs, err := repository.Pair(predicted, truth, s.pairing)
	if err != nil {
		s.recorder.RecordError(stagePair)
		return Result{}, fmt.Errorf("pairing samples: %w", err)
	}

	outcome := detection.Classify(pairs, s.delta)
	res.Verdicts = outcome.Verdicts
	res.Samples = len(pairs)

	report, err := s.scorer.Score(outcome, req.Resources)
	if err != nil {
		s.recorder.RecordError(stageScore)
		return Result{}, fmt.Errorf("scoring: %w", err)
	}
	res.Report = report

	s.record(outcome, report)
	if undefined := report.UndefinedMetrics(); len(undefined) > 0 {
		log.Warn(ctx, "metrics undefined", logger.Any("metrics", undefined))
	}

	res.Duration = time.Since(start)
	s.recorder.RecordRun(res.Duration, time.Now())

	log.Info(ctx, "evaluation finished",
		logger.Int("pairs", len(pairs)),
		logger.Int("tp", report.Counts.TruePositive),
		logger.Int("fp", report.Counts.FalsePositive),
		logger.Int("fn", report.Counts.FalseNegative),
		logger.String("fds", report.Score.Format()),
		logger.Duration("duration", res.Duration))
	return res, nil
}

func (s *Service) record(out detection.Outcome, r scoring.Report) {
	c := out.Counts
	s.recorder.RecordClassifications(detection.TruePositive.String(), c.TruePositive)
	s.recorder.RecordClassifications(detection.FalsePositive.String(), c.FalsePositive)
	s.recorder.RecordClassifications(detection.FalseNegative.String(), c.FalseNegative)
	s.recorder.RecordClassifications(detection.TrueNegative.String(), c.TrueNegative)
	for _, d := range out.Delays {
		s.recorder.ObserveDelay(d)
	}
	for _, nm := range r.Metrics() {
		s.recorder.SetReportValue(nm.Name, nm.Metric.Value, nm.Metric.Defined)
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordSamplesLoaded(string, int)      {}
func (nopRecorder) RecordClassifications(string, int)    {}
func (nopRecorder) ObserveDelay(int)                     {}
func (nopRecorder) SetReportValue(string, float64, bool) {}
func (nopRecorder) RecordRun(time.Duration, time.Time)   {}
func (nopRecorder) RecordError(string)                   {}
