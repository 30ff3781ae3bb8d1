// Package detection classifies predicted fire events against ground truth.
//
// Classification is a pure reduction: Classify never mutates its input and
// returns a fresh Outcome on every call.
package detection

import "github.com/okian/fds/internal/domain/observation"

// DefaultDelta is the number of frames a prediction may precede the true
// event and still count as a detection.
const DefaultDelta = 5

// Class is the confusion-matrix cell a pair falls into.
type Class int

const (
	TrueNegative Class = iota
	TruePositive
	FalsePositive
	FalseNegative
)

func (c Class) String() string {
	switch c {
	case TruePositive:
		return "TP"
	case FalsePositive:
		return "FP"
	case FalseNegative:
		return "FN"
	default:
		return "TN"
	}
}

// Counts holds the confusion-matrix totals.
type Counts struct {
	TruePositive  int `json:"true_positive"`
	FalsePositive int `json:"false_positive"`
	FalseNegative int `json:"false_negative"`
	TrueNegative  int `json:"true_negative"`
}

// Total returns the number of classified pairs.
func (c Counts) Total() int {
	return c.TruePositive + c.FalsePositive + c.FalseNegative + c.TrueNegative
}

// Verdict is the classification of one sample.
type Verdict struct {
	Key       string
	Predicted observation.Observation
	Truth     observation.Observation
	Class     Class
	// Delay is |predicted - truth| for true positives, 0 otherwise.
	Delay int
}

// Outcome is the result of classifying a set of pairs.
type Outcome struct {
	Counts Counts
	// Delays has one entry per true positive, in pair order.
	Delays   []int
	Verdicts []Verdict
}

// ClassifyOne classifies a single pair. The returned delay is only
// meaningful for TruePositive.
func ClassifyOne(predicted, truth observation.Observation, delta int) (Class, int) {
	switch {
	case truth.Present() && predicted.Present():
		if predicted.Frame() >= max(0, truth.Frame()-delta) {
			return TruePositive, abs(predicted.Frame() - truth.Frame())
		}
		// Too early to be the same event.
		return FalsePositive, 0
	case predicted.Present():
		return FalsePositive, 0
	case truth.Present():
		return FalseNegative, 0
	default:
		return TrueNegative, 0
	}
}

// Classify classifies every pair with the given tolerance.
func Classify(pairs []observation.Pair, delta int) Outcome {
	out := Outcome{
		Verdicts: make([]Verdict, 0, len(pairs)),
	}

	for _, p := range pairs {
		class, delay := ClassifyOne(p.Predicted, p.Truth, delta)
		switch class {
		case TruePositive:
			out.Counts.TruePositive++
			out.Delays = append(out.Delays, delay)
		case FalsePositive:
			out.Counts.FalsePositive++
		case FalseNegative:
			out.Counts.FalseNegative++
		case TrueNegative:
			out.Counts.TrueNegative++
		}
		out.Verdicts = append(out.Verdicts, Verdict{
			Key:       p.Key,
			Predicted: p.Predicted,
			Truth:     p.Truth,
			Class:     class,
			Delay:     delay,
		})
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
