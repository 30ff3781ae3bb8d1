package detection_test

import (
	"fmt"
	"testing"

	"github.com/okian/fds/internal/domain/detection"
	obs "github.com/okian/fds/internal/domain/observation"
	"pgregory.net/rapid"
)

func drawObservation(rt *rapid.T, label string) obs.Observation {
	if rapid.Bool().Draw(rt, label+"_present") {
		return obs.At(rapid.IntRange(0, 500).Draw(rt, label+"_frame"))
	}
	return obs.Absent()
}

func drawPairs(rt *rapid.T) []obs.Pair {
	n := rapid.IntRange(0, 40).Draw(rt, "n")
	pairs := make([]obs.Pair, n)
	for i := range pairs {
		pairs[i] = obs.Pair{
			Key:       fmt.Sprintf("sample_%03d", i),
			Predicted: drawObservation(rt, fmt.Sprintf("pred_%d", i)),
			Truth:     drawObservation(rt, fmt.Sprintf("truth_%d", i)),
		}
	}
	return pairs
}

// Every pair lands in exactly one cell and every true positive contributes
// exactly one delay sample.
func TestPropertyCountsPartitionPairs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pairs := drawPairs(rt)
		delta := rapid.IntRange(0, 20).Draw(rt, "delta")

		out := detection.Classify(pairs, delta)

		if out.Counts.Total() != len(pairs) {
			rt.Fatalf("Total = %d, want %d", out.Counts.Total(), len(pairs))
		}
		if len(out.Delays) != out.Counts.TruePositive {
			rt.Fatalf("len(Delays) = %d, want %d", len(out.Delays), out.Counts.TruePositive)
		}
		if len(out.Verdicts) != len(pairs) {
			rt.Fatalf("len(Verdicts) = %d, want %d", len(out.Verdicts), len(pairs))
		}
	})
}

// Presence alone decides FP for truth-absent pairs and FN for
// prediction-absent pairs.
func TestPropertyPresenceRules(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pairs := drawPairs(rt)
		out := detection.Classify(pairs, detection.DefaultDelta)

		for i, p := range pairs {
			got := out.Verdicts[i].Class
			switch {
			case !p.Truth.Present() && p.Predicted.Present():
				if got != detection.FalsePositive {
					rt.Fatalf("pair %d: class = %v, want FP", i, got)
				}
			case p.Truth.Present() && !p.Predicted.Present():
				if got != detection.FalseNegative {
					rt.Fatalf("pair %d: class = %v, want FN", i, got)
				}
			case !p.Truth.Present() && !p.Predicted.Present():
				if got != detection.TrueNegative {
					rt.Fatalf("pair %d: class = %v, want TN", i, got)
				}
			}
		}
	})
}

// A pair with both sides present is a TP with delay |p-t| exactly when the
// prediction is no earlier than max(0, t-delta).
func TestPropertyToleranceWindow(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		truth := rapid.IntRange(0, 500).Draw(rt, "truth")
		pred := rapid.IntRange(0, 500).Draw(rt, "pred")
		delta := rapid.IntRange(0, 20).Draw(rt, "delta")

		class, delay := detection.ClassifyOne(obs.At(pred), obs.At(truth), delta)

		lower := truth - delta
		if lower < 0 {
			lower = 0
		}
		if pred >= lower {
			want := pred - truth
			if want < 0 {
				want = -want
			}
			if class != detection.TruePositive || delay != want {
				rt.Fatalf("got (%v, %d), want (TP, %d)", class, delay, want)
			}
		} else if class != detection.FalsePositive {
			rt.Fatalf("got %v, want FP", class)
		}
	})
}
