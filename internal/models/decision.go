package models

import "time"

// GraduationDecision is the administrative act that authorizes issuing a
// batch of certificates. Publication is a one-way flag flip.
type GraduationDecision struct {
	ID             string     `db:"id" json:"id"`
	DecisionNumber string     `db:"decision_number" json:"decision_number"`
	DecisionDate   time.Time  `db:"decision_date" json:"decision_date"`
	Title          string     `db:"title" json:"title"`
	Content        *string    `db:"content" json:"content,omitempty"`
	SignerName     string     `db:"signer_name" json:"signer_name"`
	SignerTitle    string     `db:"signer_title" json:"signer_title"`
	TotalGraduates int        `db:"total_graduates" json:"total_graduates"`
	IsPublished    bool       `db:"is_published" json:"is_published"`
	PublishedAt    *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedBy      string     `db:"created_by" json:"created_by"`
	Metadata       []byte     `db:"metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// GraduationDecisionFilter constrains decision listing queries.
type GraduationDecisionFilter struct {
	Year        int
	IsPublished *bool
	Page        int
	PageSize    int
}
