package dto

import "time"

// ValuesAnalyzeRequest is the JSON alternative to a multipart image upload:
// structured lab values (CBC counts) for the value-based models.
type ValuesAnalyzeRequest struct {
	ModelID string             `json:"modelId" validate:"required"`
	Values  map[string]float64 `json:"values" validate:"required,min=1"`
}

// ScansInfo reports which pool paid for the analysis and what is left.
type ScansInfo struct {
	Source          string `json:"source"`
	PlanRemaining   int    `json:"planRemaining"`
	FreeRemaining   int    `json:"freeRemaining"`
	CustomRemaining int    `json:"customRemaining"`
}

type AnalyzeResponse struct {
	Prediction string    `json:"prediction"`
	Confidence float64   `json:"confidence"`
	Details    string    `json:"details"`
	ScansInfo  ScansInfo `json:"scansInfo"`
}

type ActivityResponse struct {
	ID         string    `json:"id"`
	ModelID    string    `json:"modelId"`
	Result     string    `json:"result"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}
