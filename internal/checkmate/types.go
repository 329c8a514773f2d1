package checkmate

import "math"

// Label is the backend's binary verdict.
type Label string

const (
	LabelReal Label = "real"
	LabelFake Label = "fake"
)

// PredictionRequest mirrors the body of POST /predict.
type PredictionRequest struct {
	Headline string `json:"headline"`
}

// Probabilities holds the per-class probabilities reported by the model.
type Probabilities struct {
	Real float64 `json:"real"`
	Fake float64 `json:"fake"`
}

// PredictionResponse mirrors a successful /predict payload. Values are passed
// through exactly as decoded.
type PredictionResponse struct {
	Label Label         `json:"label"`
	Score float64       `json:"score"`
	Probs Probabilities `json:"probs"`
}

// IsReal reports whether the verdict is "real".
func (r PredictionResponse) IsReal() bool {
	return r.Label == LabelReal
}

// ConfidencePercent returns the score as a rounded percentage.
func (r PredictionResponse) ConfidencePercent() int {
	return percent(r.Score)
}

// RealPercent returns probs.real as a rounded percentage.
func (r PredictionResponse) RealPercent() int {
	return percent(r.Probs.Real)
}

// FakePercent returns probs.fake as a rounded percentage.
func (r PredictionResponse) FakePercent() int {
	return percent(r.Probs.Fake)
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}

// HealthResponse mirrors the payload returned by GET /.
type HealthResponse struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}
