package dto

// ReceiveBlanksRequest payload for receiving a contiguous run of blanks.
type ReceiveBlanksRequest struct {
	CertificateTypeID string `json:"certificate_type_id" validate:"required"`
	SerialFrom        string `json:"serial_from" validate:"required"`
	SerialTo          string `json:"serial_to" validate:"required"`
	ReceivedFrom      string `json:"received_from"`
	Notes             string `json:"notes"`
}

// AssignBlankRequest payload for reserving a blank.
type AssignBlankRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required"`
}

// DamageBlankRequest payload for marking a blank damaged.
type DamageBlankRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// DestroyBlankRequest payload for destroying a blank.
type DestroyBlankRequest struct {
	Reason string `json:"reason" validate:"required"`
}
