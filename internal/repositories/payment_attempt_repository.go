package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autumhire/internal/infra"
	"autumhire/internal/models/db_models"
)

// AttemptResult is a provider outcome to record against an attempt.
type AttemptResult struct {
	Status     db_models.AttemptStatus
	ResultCode string
	ResultDesc string
	Receipt    string
	Raw        []byte
}

type PaymentAttemptRepository interface {
	Insert(ctx context.Context, attempt *db_models.PaymentAttempt) error
	FindByCheckoutID(ctx context.Context, checkoutID string) (*db_models.PaymentAttempt, error)
	FindByReference(ctx context.Context, reference string) (*db_models.PaymentAttempt, error)
	// SetCheckoutID binds a checkout id to an attempt. A callback already
	// stored for that id is merged into the attempt.
	SetCheckoutID(ctx context.Context, id uuid.UUID, checkoutID string) (*db_models.PaymentAttempt, error)
	MarkFailed(ctx context.Context, id uuid.UUID, desc string) error
	// ApplyResult records res unless the attempt is already completed and
	// reports whether the row changed.
	ApplyResult(ctx context.Context, checkoutID string, res AttemptResult) (bool, error)
	// UpsertCallback stores a callback for a checkout id, creating an orphan
	// record when no attempt knows it.
	UpsertCallback(ctx context.Context, orphan *db_models.PaymentAttempt) error
	TimeoutPending(ctx context.Context, checkoutID string) (bool, error)
	TimeoutStale(ctx context.Context, before time.Time) (int64, error)
}

type paymentAttemptRepository struct {
	db *gorm.DB
}

func NewPaymentAttemptRepository(db *gorm.DB) PaymentAttemptRepository {
	return &paymentAttemptRepository{db: db}
}

func (r *paymentAttemptRepository) Insert(ctx context.Context, attempt *db_models.PaymentAttempt) error {
	return infra.Conn(ctx, r.db).Create(attempt).Error
}

func (r *paymentAttemptRepository) FindByCheckoutID(ctx context.Context, checkoutID string) (*db_models.PaymentAttempt, error) {
	var attempt db_models.PaymentAttempt
	err := infra.Conn(ctx, r.db).First(&attempt, "checkout_request_id = ?", checkoutID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *paymentAttemptRepository) FindByReference(ctx context.Context, reference string) (*db_models.PaymentAttempt, error) {
	var attempt db_models.PaymentAttempt
	err := infra.Conn(ctx, r.db).First(&attempt, "reference = ?", reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

// OrphanReference names the record a callback creates when no attempt
// holds its checkout id yet.
func OrphanReference(checkoutID string) string {
	return "CB-" + checkoutID
}

func (r *paymentAttemptRepository) SetCheckoutID(ctx context.Context, id uuid.UUID, checkoutID string) (*db_models.PaymentAttempt, error) {
	attempt, err := r.bindCheckoutID(ctx, id, checkoutID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A callback inserted its record between the lookup and the update.
		attempt, err = r.bindCheckoutID(ctx, id, checkoutID)
	}
	return attempt, err
}

func (r *paymentAttemptRepository) bindCheckoutID(ctx context.Context, id uuid.UUID, checkoutID string) (*db_models.PaymentAttempt, error) {
	var attempt db_models.PaymentAttempt
	err := infra.WithTx(ctx, r.db, func(ctx context.Context) error {
		db := infra.Conn(ctx, r.db)
		fields := map[string]any{"checkout_request_id": checkoutID, "updated_at": time.Now().UTC()}

		var orphan db_models.PaymentAttempt
		err := db.Where("checkout_request_id = ? AND reference = ? AND id <> ?", checkoutID, OrphanReference(checkoutID), id).
			Take(&orphan).Error
		switch {
		case err == nil:
			// The callback arrived before the push response; carry its outcome
			// over and drop the placeholder so the checkout id is free.
			if err := db.Delete(&db_models.PaymentAttempt{}, "id = ?", orphan.ID).Error; err != nil {
				return err
			}
			fields["status"] = orphan.Status
			fields["result_code"] = orphan.ResultCode
			fields["result_desc"] = orphan.ResultDesc
			fields["receipt"] = orphan.Receipt
			fields["raw_callback"] = orphan.RawCallback
			fields["completed_at"] = orphan.CompletedAt
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := db.Model(&db_models.PaymentAttempt{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return db.First(&attempt, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *paymentAttemptRepository) MarkFailed(ctx context.Context, id uuid.UUID, desc string) error {
	return infra.Conn(ctx, r.db).Model(&db_models.PaymentAttempt{}).
		Where("id = ? AND status = ?", id, db_models.AttemptPending).
		Updates(map[string]any{
			"status":      db_models.AttemptFailed,
			"result_desc": desc,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *paymentAttemptRepository) ApplyResult(ctx context.Context, checkoutID string, res AttemptResult) (bool, error) {
	now := time.Now().UTC()
	fields := map[string]any{
		"status":      res.Status,
		"result_code": res.ResultCode,
		"result_desc": res.ResultDesc,
		"updated_at":  now,
	}
	if res.Receipt != "" {
		fields["receipt"] = res.Receipt
	}
	if len(res.Raw) > 0 {
		fields["raw_callback"] = datatypes.JSON(res.Raw)
	}
	if res.Status == db_models.AttemptCompleted {
		fields["completed_at"] = now
	}

	out := infra.Conn(ctx, r.db).Model(&db_models.PaymentAttempt{}).
		Where("checkout_request_id = ? AND status <> ?", checkoutID, db_models.AttemptCompleted).
		Updates(fields)
	if out.Error != nil {
		return false, out.Error
	}
	return out.RowsAffected > 0, nil
}

func (r *paymentAttemptRepository) UpsertCallback(ctx context.Context, orphan *db_models.PaymentAttempt) error {
	return infra.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "checkout_request_id"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Neq{Column: clause.Column{Table: "payment_attempts", Name: "status"}, Value: db_models.AttemptCompleted},
		}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "result_code", "result_desc", "receipt", "raw_callback", "completed_at", "updated_at",
		}),
	}).Create(orphan).Error
}

func (r *paymentAttemptRepository) TimeoutPending(ctx context.Context, checkoutID string) (bool, error) {
	res := infra.Conn(ctx, r.db).Model(&db_models.PaymentAttempt{}).
		Where("checkout_request_id = ? AND status = ?", checkoutID, db_models.AttemptPending).
		Updates(map[string]any{
			"status":      db_models.AttemptTimeout,
			"result_desc": "no confirmation received",
			"updated_at":  time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *paymentAttemptRepository) TimeoutStale(ctx context.Context, before time.Time) (int64, error) {
	res := infra.Conn(ctx, r.db).Model(&db_models.PaymentAttempt{}).
		Where("status = ? AND created_at < ?", db_models.AttemptPending, before).
		Updates(map[string]any{
			"status":      db_models.AttemptTimeout,
			"result_desc": "no confirmation received",
			"updated_at":  time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}
