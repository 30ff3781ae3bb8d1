package repository

import (
	"fmt"
	"strings"

	"github.com/okian/fds/internal/domain/observation"
)

// PairingMode selects how predictions are matched to ground truth.
type PairingMode string

const (
	// PairByKey matches samples sharing a key.
	PairByKey PairingMode = "key"
	// PairByOrder matches the i-th prediction with the i-th truth sample.
	PairByOrder PairingMode = "order"
)

// maxReportedKeys bounds how many unpaired keys an error lists.
const maxReportedKeys = 10

// ParsePairingMode validates a mode name.
func ParsePairingMode(s string) (PairingMode, error) {
	switch m := PairingMode(strings.ToLower(strings.TrimSpace(s))); m {
	case PairByKey, PairByOrder:
		return m, nil
	case "":
		return PairByKey, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPairing, s)
	}
}

// Pair matches predicted samples with truth samples.
func Pair(predicted, truth Series, mode PairingMode) ([]observation.Pair, error) {
	switch mode {
	case PairByKey, "":
		return pairByKey(predicted, truth)
	case PairByOrder:
		return pairByOrder(predicted, truth)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPairing, mode)
	}
}

func pairByKey(predicted, truth Series) ([]observation.Pair, error) {
	byKey := make(map[string]observation.Observation, len(predicted))
	for _, s := range predicted {
		byKey[s.Key] = s.Observation
	}

	pairs := make([]observation.Pair, 0, len(truth))
	var missingPrediction []string
	for _, t := range truth {
		p, ok := byKey[t.Key]
		if !ok {
			missingPrediction = append(missingPrediction, t.Key)
			continue
		}
		delete(byKey, t.Key)
		pairs = append(pairs, observation.Pair{Key: t.Key, Predicted: p, Truth: t.Observation})
	}

	if len(missingPrediction) > 0 || len(byKey) > 0 {
		var missingTruth []string
		for _, s := range predicted {
			if _, ok := byKey[s.Key]; ok {
				missingTruth = append(missingTruth, s.Key)
			}
		}
		return nil, fmt.Errorf("%w: %d without prediction %s, %d without label %s",
			ErrUnpaired,
			len(missingPrediction), summarize(missingPrediction),
			len(missingTruth), summarize(missingTruth))
	}
	return pairs, nil
}

func pairByOrder(predicted, truth Series) ([]observation.Pair, error) {
	if len(predicted) != len(truth) {
		return nil, fmt.Errorf("%w: %d predictions, %d labels", ErrLengthMismatch, len(predicted), len(truth))
	}
	pairs := make([]observation.Pair, len(truth))
	for i := range truth {
		pairs[i] = observation.Pair{
			Key:       truth[i].Key,
			Predicted: predicted[i].Observation,
			Truth:     truth[i].Observation,
		}
	}
	return pairs, nil
}

func summarize(keys []string) string {
	if len(keys) <= maxReportedKeys {
		return fmt.Sprintf("%v", keys)
	}
	return fmt.Sprintf("%v...", keys[:maxReportedKeys])
}
