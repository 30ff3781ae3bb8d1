// Package scoring derives the detection-quality report from classification
// counts and runtime resource measurements.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/fds/internal/domain/detection"
)

// Defaults for the Fire Detection Score.
const (
	DefaultPFRTarget   = 10
	DefaultMemTarget   = 4
	DefaultMaxDelay    = 60
	DefaultMemoryUsage = 1
)

// Resources are measurements of the detector run, supplied by the caller.
type Resources struct {
	// TotalFrames and ProcessingTime give the processing frame rate.
	TotalFrames    float64
	ProcessingTime float64
	// MemoryUsage in the same unit as the memory target. Zero means
	// DefaultMemoryUsage.
	MemoryUsage float64
}

// Report is the immutable result of one evaluation.
type Report struct {
	Counts detection.Counts `json:"counts"`

	Precision        Metric `json:"precision"`
	Recall           Metric `json:"recall"`
	MeanDelay        Metric `json:"mean_delay"`
	NormalizedDelay  Metric `json:"normalized_delay"`
	FrameRate        Metric `json:"frame_rate"`
	FrameRatePenalty Metric `json:"frame_rate_penalty"`
	MemoryPenalty    Metric `json:"memory_penalty"`
	Score            Metric `json:"score"`
}

// Scorer computes Reports.
type Scorer struct {
	pfrTarget float64
	memTarget float64
	maxDelay  float64
}

// NewScorer creates a Scorer with the default targets.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		pfrTarget: DefaultPFRTarget,
		memTarget: DefaultMemTarget,
		maxDelay:  DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score derives all metrics from the classification outcome.
// Zero denominators produce undefined metrics rather than errors.
func (s *Scorer) Score(out detection.Outcome, res Resources) (Report, error) {
	if !validMeasure(res.TotalFrames) || !validMeasure(res.ProcessingTime) || !validMeasure(res.MemoryUsage) {
		return Report{}, fmt.Errorf("%w: frames=%v time=%v memory=%v",
			ErrInvalidResources, res.TotalFrames, res.ProcessingTime, res.MemoryUsage)
	}
	if res.MemoryUsage == 0 {
		res.MemoryUsage = DefaultMemoryUsage
	}

	c := out.Counts

	r := Report{Counts: c}
	r.Precision = Precision(c)
	r.Recall = Recall(c)
	r.MeanDelay = MeanDelay(out.Delays, c.TruePositive)
	r.NormalizedDelay = s.NormalizedDelay(r.MeanDelay)
	r.FrameRate = ratio(res.TotalFrames, res.ProcessingTime)
	r.FrameRatePenalty = s.FrameRatePenalty(r.FrameRate)
	r.MemoryPenalty = s.MemoryPenalty(res.MemoryUsage)
	r.Score = FDS(r.Precision, r.Recall, r.NormalizedDelay, r.FrameRatePenalty, r.MemoryPenalty)

	return r, nil
}

// validMeasure reports whether v is a finite, non-negative measurement.
func validMeasure(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// Precision is TP / (TP + FP).
func Precision(c detection.Counts) Metric {
	return ratio(float64(c.TruePositive), float64(c.TruePositive+c.FalsePositive))
}

// Recall is TP / (TP + FN).
func Recall(c detection.Counts) Metric {
	return ratio(float64(c.TruePositive), float64(c.TruePositive+c.FalseNegative))
}

// MeanDelay is the sum of delays over the true positive count.
func MeanDelay(delays []int, truePositives int) Metric {
	sum := 0
	for _, d := range delays {
		sum += d
	}
	return ratio(float64(sum), float64(truePositives))
}

// NormalizedDelay maps a mean delay linearly onto [0, 1], reaching 0 at the
// configured maximum delay.
func (s *Scorer) NormalizedDelay(mean Metric) Metric {
	if !mean.Defined {
		return Undefined()
	}
	return DefinedMetric(math.Max(0, s.maxDelay-mean.Value) / s.maxDelay)
}

// FrameRatePenalty is max(0, target/frameRate - 1).
func (s *Scorer) FrameRatePenalty(frameRate Metric) Metric {
	if !frameRate.Defined || frameRate.Value == 0 {
		return Undefined()
	}
	return DefinedMetric(math.Max(0, s.pfrTarget/frameRate.Value-1))
}

// MemoryPenalty is max(0, usage/target - 1).
func (s *Scorer) MemoryPenalty(usage float64) Metric {
	return DefinedMetric(math.Max(0, usage/s.memTarget-1))
}

// FDS combines detection quality and resource penalties into the Fire
// Detection Score. It is undefined if any input is.
func FDS(precision, recall, normDelay, pfrPenalty, memPenalty Metric) Metric {
	for _, m := range []Metric{precision, recall, normDelay, pfrPenalty, memPenalty} {
		if !m.Defined {
			return Undefined()
		}
	}
	num := precision.Value * recall.Value * normDelay.Value
	den := (1 + pfrPenalty.Value) * (1 + memPenalty.Value)
	return DefinedMetric(num / den)
}

// NamedMetric pairs a derived metric with its exported name.
type NamedMetric struct {
	Name   string
	Metric Metric
}

// Metrics lists the derived metrics in computation order.
func (r Report) Metrics() []NamedMetric {
	return []NamedMetric{
		{"precision", r.Precision},
		{"recall", r.Recall},
		{"mean_delay", r.MeanDelay},
		{"normalized_delay", r.NormalizedDelay},
		{"frame_rate", r.FrameRate},
		{"frame_rate_penalty", r.FrameRatePenalty},
		{"memory_penalty", r.MemoryPenalty},
		{"score", r.Score},
	}
}

// UndefinedMetrics names the metrics that could not be computed.
func (r Report) UndefinedMetrics() []string {
	var names []string
	for _, m := range r.Metrics() {
		if !m.Metric.Defined {
			names = append(names, m.Name)
		}
	}
	return names
}
