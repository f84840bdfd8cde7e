package repository

import (
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

const (
	pgUniqueViolation     = pq.ErrorCode("23505")
	pgForeignKeyViolation = pq.ErrorCode("23503")
)

// classifyPGError re-maps storage constraint failures into domain errors so
// that the loser of a concurrency race observes the same failure the
// validation path would have produced, never a raw driver error.
func classifyPGError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pgUniqueViolation:
		switch pqErr.Constraint {
		case "certificate_blanks_serial_uidx", "certificates_serial_uidx":
			return appErrors.Wrap(err, appErrors.ErrDuplicateSerial.Code, appErrors.ErrDuplicateSerial.Status, appErrors.ErrDuplicateSerial.Message)
		case "certificates_registry_uidx", "registry_book_number_year_uidx",
			"graduation_decisions_number_uidx", "certificate_types_code_uidx":
			return appErrors.Wrap(err, appErrors.ErrDuplicateNumber.Code, appErrors.ErrDuplicateNumber.Status, appErrors.ErrDuplicateNumber.Message)
		}
		return appErrors.Wrap(err, appErrors.ErrConstraintViolation.Code, appErrors.ErrConstraintViolation.Status, appErrors.ErrConstraintViolation.Message)
	case pgForeignKeyViolation:
		return appErrors.Wrap(err, appErrors.ErrConstraintViolation.Code, appErrors.ErrConstraintViolation.Status, appErrors.ErrConstraintViolation.Message)
	}
	return err
}
