package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ScalerRange is one persisted (min, max) pair for a scaled feature. The
// latest row per field wins; history is kept for auditing.
type ScalerRange struct {
	ID        int64     `json:"id"`
	Field     string    `json:"field"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	CreatedAt time.Time `json:"created_at"`
}

// Prediction is one served prediction with the inputs that produced it.
type Prediction struct {
	ID         string    `json:"id"`
	Inputs     string    `json:"inputs"` // JSON-encoded feature map
	Prediction float64   `json:"prediction"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewPrediction builds a prediction record with a fresh ID, encoding the
// input feature map as JSON.
func NewPrediction(inputs map[string]float64, value float64) (*Prediction, error) {
	encoded, err := json.Marshal(inputs)
	if err != nil {
		return nil, err
	}
	return &Prediction{
		ID:         uuid.New().String(),
		Inputs:     string(encoded),
		Prediction: value,
		CreatedAt:  time.Now(),
	}, nil
}

// Measure is one row of the measure reference table backing the web form.
type Measure struct {
	MeasureID string `json:"measure_id"`
	Category  string `json:"category"`
	ShortText string `json:"short_text"`
}
