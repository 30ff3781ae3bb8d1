package observation

// Pair joins the predicted and ground-truth observations of one sample.
type Pair struct {
	Key       string
	Predicted Observation
	Truth     Observation
}
