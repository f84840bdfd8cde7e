package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	"github.com/noah-isme/cert-registry-api/internal/repository"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

// maxReceiveBatch bounds a single serial range receipt.
const maxReceiveBatch = 10000

type blankStore interface {
	ReceiveBatch(ctx context.Context, blanks []models.CertificateBlank, logEntry *models.BlankInventoryLog) error
	GetBySerial(ctx context.Context, serial string) (*models.CertificateBlank, error)
	List(ctx context.Context, filter models.BlankFilter) ([]models.CertificateBlank, int, error)
	Transition(ctx context.Context, params repository.BlankTransitionParams, logEntry *models.BlankInventoryLog) error
}

type blankTypeStore interface {
	GetByID(ctx context.Context, id string) (*models.CertificateType, error)
}

type inventoryLogStore interface {
	List(ctx context.Context, filter models.InventoryLogFilter) ([]models.BlankInventoryLog, int, error)
}

// BlankService owns the blank stock lifecycle and its inventory trail.
// markUsed is deliberately absent here: consuming a blank happens only
// inside the issuance transaction.
type BlankService struct {
	repo     blankStore
	types    blankTypeStore
	logs     inventoryLogStore
	metrics  *MetricsService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewBlankService constructs the service.
func NewBlankService(repo blankStore, types blankTypeStore, logs inventoryLogStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *BlankService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlankService{repo: repo, types: types, logs: logs, metrics: metrics, validate: validate, logger: logger}
}

// Receive creates a contiguous run of in-stock blanks and logs the receipt.
// The whole run is inserted atomically; one duplicate serial fails all.
func (s *BlankService) Receive(ctx context.Context, req dto.ReceiveBlanksRequest, performedBy string) ([]models.CertificateBlank, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid receive payload")
	}
	serials, err := expandSerialRange(req.SerialFrom, req.SerialTo)
	if err != nil {
		return nil, err
	}
	if _, err := s.types.GetByID(ctx, req.CertificateTypeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate type")
	}

	now := time.Now().UTC()
	blanks := make([]models.CertificateBlank, 0, len(serials))
	for _, serial := range serials {
		blank := models.CertificateBlank{
			SerialNumber:      serial,
			CertificateTypeID: req.CertificateTypeID,
			Status:            models.BlankStatusInStock,
			ReceivedAt:        now,
		}
		if req.ReceivedFrom != "" {
			blank.ReceivedFrom = &req.ReceivedFrom
		}
		blanks = append(blanks, blank)
	}
	logEntry := &models.BlankInventoryLog{
		Action:           models.InventoryActionReceive,
		SerialNumberFrom: req.SerialFrom,
		SerialNumberTo:   req.SerialTo,
		Quantity:         len(serials),
		PerformedBy:      performedBy,
	}
	if req.Notes != "" {
		logEntry.Notes = &req.Notes
	}
	if err := s.repo.ReceiveBatch(ctx, blanks, logEntry); err != nil {
		return nil, err
	}
	s.metrics.RecordBlanksReceived(len(serials))
	s.logger.Info("blanks received",
		zap.String("serial_from", req.SerialFrom), zap.String("serial_to", req.SerialTo), zap.Int("quantity", len(serials)))
	return blanks, nil
}

// Assign reserves an in-stock blank for a holder.
func (s *BlankService) Assign(ctx context.Context, serial string, req dto.AssignBlankRequest, performedBy string) (*models.CertificateBlank, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assign payload")
	}
	blank, err := s.Get(ctx, serial)
	if err != nil {
		return nil, err
	}
	if !blank.Status.CanTransitionTo(models.BlankStatusAssigned) {
		return nil, transitionError(blank.Status, models.BlankStatusAssigned)
	}
	now := time.Now().UTC()
	params := repository.BlankTransitionParams{
		SerialNumber: serial,
		From:         blank.Status,
		To:           models.BlankStatusAssigned,
		AssignedTo:   &req.AssignedTo,
		AssignedAt:   &now,
	}
	logEntry := &models.BlankInventoryLog{
		Action:           models.InventoryActionAssign,
		SerialNumberFrom: serial,
		SerialNumberTo:   serial,
		Quantity:         1,
		PerformedBy:      performedBy,
	}
	if err := s.repo.Transition(ctx, params, logEntry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transitionError(blank.Status, models.BlankStatusAssigned)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign blank")
	}
	blank.Status = models.BlankStatusAssigned
	blank.AssignedTo = &req.AssignedTo
	blank.AssignedAt = &now
	return blank, nil
}

// MarkDamaged records physical damage to an unused blank.
func (s *BlankService) MarkDamaged(ctx context.Context, serial string, req dto.DamageBlankRequest, performedBy string) (*models.CertificateBlank, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid damage payload")
	}
	blank, err := s.Get(ctx, serial)
	if err != nil {
		return nil, err
	}
	if !blank.Status.CanTransitionTo(models.BlankStatusDamaged) {
		return nil, transitionError(blank.Status, models.BlankStatusDamaged)
	}
	params := repository.BlankTransitionParams{
		SerialNumber: serial,
		From:         blank.Status,
		To:           models.BlankStatusDamaged,
	}
	logEntry := &models.BlankInventoryLog{
		Action:           models.InventoryActionDamage,
		SerialNumberFrom: serial,
		SerialNumberTo:   serial,
		Quantity:         1,
		PerformedBy:      performedBy,
		Notes:            &req.Reason,
	}
	if err := s.repo.Transition(ctx, params, logEntry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transitionError(blank.Status, models.BlankStatusDamaged)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark blank damaged")
	}
	blank.Status = models.BlankStatusDamaged
	return blank, nil
}

// Destroy permanently retires a blank. destroyed is terminal.
func (s *BlankService) Destroy(ctx context.Context, serial string, req dto.DestroyBlankRequest, performedBy string) (*models.CertificateBlank, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid destroy payload")
	}
	blank, err := s.Get(ctx, serial)
	if err != nil {
		return nil, err
	}
	if !blank.Status.CanTransitionTo(models.BlankStatusDestroyed) {
		return nil, transitionError(blank.Status, models.BlankStatusDestroyed)
	}
	now := time.Now().UTC()
	params := repository.BlankTransitionParams{
		SerialNumber:    serial,
		From:            blank.Status,
		To:              models.BlankStatusDestroyed,
		DestroyedAt:     &now,
		DestroyedReason: &req.Reason,
		DestroyedBy:     &performedBy,
	}
	logEntry := &models.BlankInventoryLog{
		Action:           models.InventoryActionDestroy,
		SerialNumberFrom: serial,
		SerialNumberTo:   serial,
		Quantity:         1,
		PerformedBy:      performedBy,
		Notes:            &req.Reason,
	}
	if err := s.repo.Transition(ctx, params, logEntry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transitionError(blank.Status, models.BlankStatusDestroyed)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to destroy blank")
	}
	blank.Status = models.BlankStatusDestroyed
	blank.DestroyedAt = &now
	blank.DestroyedReason = &req.Reason
	blank.DestroyedBy = &performedBy
	return blank, nil
}

// Get returns a blank by serial number.
func (s *BlankService) Get(ctx context.Context, serial string) (*models.CertificateBlank, error) {
	blank, err := s.repo.GetBySerial(ctx, serial)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blank not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blank")
	}
	return blank, nil
}

// List returns blanks matching the filter.
func (s *BlankService) List(ctx context.Context, filter models.BlankFilter) ([]models.CertificateBlank, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown blank status")
	}
	blanks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blanks")
	}
	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	return blanks, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// InventoryLog returns stock movements matching the filter.
func (s *BlankService) InventoryLog(ctx context.Context, filter models.InventoryLogFilter) ([]models.BlankInventoryLog, *models.Pagination, error) {
	logs, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inventory log")
	}
	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	return logs, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

func transitionError(from, to models.BlankStatus) error {
	return appErrors.Clone(appErrors.ErrInvalidTransition,
		fmt.Sprintf("blank cannot move from %s to %s", from, to))
}

// expandSerialRange materialises a contiguous serial run. Both ends must
// share a prefix and end in a numeric suffix of equal width, e.g.
// BLK-0001..BLK-0005.
func expandSerialRange(from, to string) ([]string, error) {
	prefix, start, width, err := splitSerial(from)
	if err != nil {
		return nil, err
	}
	prefixTo, end, widthTo, err := splitSerial(to)
	if err != nil {
		return nil, err
	}
	if prefix != prefixTo || width != widthTo {
		return nil, appErrors.Clone(appErrors.ErrValidation, "serial range ends must share prefix and suffix width")
	}
	if end < start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "serial range end precedes start")
	}
	quantity := end - start + 1
	if quantity > maxReceiveBatch {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("serial range exceeds %d blanks", maxReceiveBatch))
	}
	serials := make([]string, 0, quantity)
	for n := start; n <= end; n++ {
		serials = append(serials, fmt.Sprintf("%s%0*d", prefix, width, n))
	}
	return serials, nil
}

func splitSerial(serial string) (prefix string, n int, width int, err error) {
	i := len(serial)
	for i > 0 && serial[i-1] >= '0' && serial[i-1] <= '9' {
		i--
	}
	if i == len(serial) {
		return "", 0, 0, appErrors.Clone(appErrors.ErrValidation, "serial must end in a numeric suffix")
	}
	suffix := serial[i:]
	n, err = strconv.Atoi(suffix)
	if err != nil {
		return "", 0, 0, appErrors.Clone(appErrors.ErrValidation, "serial suffix is not numeric")
	}
	return strings.ToUpper(serial[:i]), n, len(suffix), nil
}
