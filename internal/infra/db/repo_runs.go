package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

// RunRepository persists transfer runs and their per-document outcomes.
// Outcomes are append-only; a run row is written once and finished once.
type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(ctx context.Context, run domain.TransferRun) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}
	model := TransferRunModel{
		ID:            run.ID,
		Status:        run.Status,
		ErrorCode:     stringPtrIfNotEmpty(run.ErrorCode),
		DocumentCount: run.DocumentCount,
		StartedAt:     run.StartedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *RunRepository) FinishRun(ctx context.Context, runID, status, errorCode string, documentCount int) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if runID == "" {
		return errors.New("run id is required")
	}
	now := time.Now().UTC()
	updates := map[string]any{
		"status":         status,
		"error_code":     stringPtrIfNotEmpty(errorCode),
		"document_count": documentCount,
		"finished_at":    &now,
	}
	return r.db.WithContext(ctx).Model(&TransferRunModel{}).Where("id = ?", runID).Updates(updates).Error
}

func (r *RunRepository) AppendOutcome(ctx context.Context, runID string, outcome domain.DocumentOutcome) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if runID == "" {
		return errors.New("run id is required")
	}
	if outcome.Status == "" {
		return errors.New("outcome status is required")
	}
	model := DocumentOutcomeModel{
		RunID:         runID,
		DocumentHash:  outcome.DocumentHash,
		Status:        outcome.Status,
		ErrorCode:     stringPtrIfNotEmpty(outcome.ErrorCode),
		AssetTxID:     stringPtrIfNotEmpty(outcome.AssetTxID),
		AssetRound:    int64PtrIfNotZero(outcome.AssetRound),
		TransferTxID:  stringPtrIfNotEmpty(outcome.TransferTxID),
		TransferRound: int64PtrIfNotZero(outcome.TransferRound),
		CreatedAt:     time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *RunRepository) GetRun(ctx context.Context, runID string) (domain.TransferRun, error) {
	if r.db == nil {
		return domain.TransferRun{}, errDBUnavailable
	}
	var model TransferRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TransferRun{}, domain.ErrNotFound
		}
		return domain.TransferRun{}, err
	}
	var outcomes []DocumentOutcomeModel
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id ASC").
		Find(&outcomes).Error; err != nil {
		return domain.TransferRun{}, err
	}
	return runFromModel(model, outcomes), nil
}

func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]domain.TransferRun, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if limit <= 0 {
		limit = 50
	}
	var models []TransferRunModel
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.TransferRun, 0, len(models))
	for _, model := range models {
		out = append(out, runFromModel(model, nil))
	}
	return out, nil
}

func runFromModel(model TransferRunModel, outcomes []DocumentOutcomeModel) domain.TransferRun {
	run := domain.TransferRun{
		ID:            model.ID,
		Status:        model.Status,
		ErrorCode:     stringValue(model.ErrorCode),
		DocumentCount: model.DocumentCount,
		StartedAt:     model.StartedAt,
		FinishedAt:    model.FinishedAt,
	}
	for _, o := range outcomes {
		run.Outcomes = append(run.Outcomes, domain.DocumentOutcome{
			DocumentHash:  o.DocumentHash,
			Status:        o.Status,
			ErrorCode:     stringValue(o.ErrorCode),
			AssetTxID:     stringValue(o.AssetTxID),
			AssetRound:    uint64Value(o.AssetRound),
			TransferTxID:  stringValue(o.TransferTxID),
			TransferRound: uint64Value(o.TransferRound),
		})
	}
	return run
}

func stringPtrIfNotEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func int64PtrIfNotZero(value uint64) *int64 {
	if value == 0 {
		return nil
	}
	v := int64(value)
	return &v
}

func uint64Value(value *int64) uint64 {
	if value == nil {
		return 0
	}
	return uint64(*value)
}
