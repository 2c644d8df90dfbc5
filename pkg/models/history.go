package models

import "time"

// GenerationRecord is one saved code-generation result.
type GenerationRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Prompt    string    `json:"prompt"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	Model     string    `json:"model,omitempty"`
	Favorited bool      `json:"favorited"`
}

// AnalysisRecord is one saved code-analysis result.
type AnalysisRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	FileName  string    `json:"file_name"`
	Language  string    `json:"language"`
	Issues    int       `json:"issues"`
	Score     float64   `json:"score"`
	Summary   string    `json:"summary,omitempty"`
}
