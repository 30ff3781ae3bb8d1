package testevents

// Config controls synthetic sample generation.
type Config struct {
	Dir     string // output root; results/ and labels/ are created under it
	Samples int    // number of samples
	Seed    int64  // RNG seed; equal seeds give identical fixtures

	FireRate       float64 // share of samples with a true fire event
	DetectRate     float64 // share of fires the detector reports
	EarlyRate      float64 // share of detections that come too early
	FalseAlarmRate float64 // share of quiet samples with a detection

	MaxFrame int // true events fall in [0, MaxFrame)
	MaxDelay int // late detections trail the event by [0, MaxDelay]
	Delta    int // tolerance the evaluator will use
}

// DefaultConfig returns a balanced mix of every outcome.
func DefaultConfig() Config {
	return Config{
		Dir:            "fixtures",
		Samples:        100,
		Seed:           1,
		FireRate:       0.6,
		DetectRate:     0.8,
		EarlyRate:      0.1,
		FalseAlarmRate: 0.2,
		MaxFrame:       600,
		MaxDelay:       30,
		Delta:          5,
	}
}

// Sample is one generated sample and the class it was built to produce.
type Sample struct {
	Key       string `json:"key"`
	Predicted *int   `json:"predicted"`
	Truth     *int   `json:"truth"`
	Intended  string `json:"intended"`
}

// Stats summarizes a generation run.
type Stats struct {
	Samples       int `json:"samples"`
	TruePositive  int `json:"true_positive"`
	FalsePositive int `json:"false_positive"`
	FalseNegative int `json:"false_negative"`
	TrueNegative  int `json:"true_negative"`
}
