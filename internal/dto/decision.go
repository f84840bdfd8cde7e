package dto

import "encoding/json"

// RecordDecisionRequest payload for recording a graduation decision.
type RecordDecisionRequest struct {
	DecisionNumber string          `json:"decision_number" validate:"required"`
	DecisionDate   string          `json:"decision_date" validate:"required,datetime=2006-01-02"`
	Title          string          `json:"title" validate:"required"`
	Content        string          `json:"content"`
	SignerName     string          `json:"signer_name" validate:"required"`
	SignerTitle    string          `json:"signer_title" validate:"required"`
	TotalGraduates int             `json:"total_graduates" validate:"gte=0"`
	Metadata       json.RawMessage `json:"metadata"`
}

// DecisionQuery mirrors supported listing filters.
type DecisionQuery struct {
	Year        int
	IsPublished *bool
	Page        int
	PageSize    int
}
