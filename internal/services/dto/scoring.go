package dto

import "encoding/json"

// ScoreRequest - результат AI-скоринга от внешнего пайплайна или встроенного Gemini
type ScoreRequest struct {
	Score                 *float64        `json:"score" validate:"required,min=0,max=100"`
	Justification         string          `json:"justification" validate:"max=20000"`
	SimilarityScore       *float64        `json:"similarity_score" validate:"omitempty,min=0,max=1"`
	PassedHardGate        *bool           `json:"passed_hard_gate"`
	QualitativeAssessment json.RawMessage `json:"qualitative_assessment" swaggertype:"object"`
	CvData                json.RawMessage `json:"cv_data" swaggertype:"object"`
	RequirementData       json.RawMessage `json:"requirement_data" swaggertype:"object"`
}

// ScoreBatchResult - итог одного прохода воркера
type ScoreBatchResult struct {
	Picked int `json:"picked"`
	Scored int `json:"scored"`
	Failed int `json:"failed"`
}
