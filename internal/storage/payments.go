package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chirchiq/estate-bot/internal/model"
)

const paymentColumns = `id, user_id, role, plan, amount, currency, duration_days, reference,
	receipt_file_id, receipt_hash, status, created_at`

func scanPayment(row rowScanner) (*model.Payment, error) {
	var p model.Payment
	var role, plan, status string
	var createdAt int64
	err := row.Scan(&p.ID, &p.UserID, &role, &plan, &p.Amount, &p.Currency, &p.DurationDays,
		&p.Reference, &p.ReceiptFileID, &p.ReceiptHash, &status, &createdAt)
	if err != nil {
		return nil, err
	}
	p.Role = model.Role(role)
	p.Plan = model.Plan(plan)
	p.Status = model.PaymentStatus(status)
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

// CreatePendingPayment stores p with pending status and returns its id.
func (s *SQLiteStore) CreatePendingPayment(ctx context.Context, p *model.Payment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (user_id, role, plan, amount, currency, duration_days, reference, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.UserID, string(p.Role), string(p.Plan), p.Amount, p.Currency, p.DurationDays, p.Reference,
		string(model.PaymentPending), createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to create payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read payment id: %w", err)
	}
	p.ID = id
	p.Status = model.PaymentPending
	return id, nil
}

// GetPayment returns nil, nil when the payment does not exist.
func (s *SQLiteStore) GetPayment(ctx context.Context, id int64) (*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := scanPayment(s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}
	return p, nil
}

// AttachReceipt records the receipt photo of a pending payment.
func (s *SQLiteStore) AttachReceipt(ctx context.Context, paymentID int64, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE payments SET receipt_file_id = ?, status = ?
		WHERE id = ? AND status = ?
	`, fileID, string(model.PaymentReceiptUploaded), paymentID, string(model.PaymentPending))
	if err != nil {
		return fmt.Errorf("failed to attach receipt: %w", err)
	}
	return requireRow(res, "pending payment", paymentID)
}

// CancelPayment marks a pending payment cancelled. Payments in any other
// status are left untouched.
func (s *SQLiteStore) CancelPayment(ctx context.Context, paymentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"UPDATE payments SET status = ? WHERE id = ? AND status = ?",
		string(model.PaymentCancelled), paymentID, string(model.PaymentPending),
	)
	if err != nil {
		return fmt.Errorf("failed to cancel payment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetReceiptHash(ctx context.Context, paymentID int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE payments SET receipt_hash = ? WHERE id = ?", hash, paymentID)
	if err != nil {
		return fmt.Errorf("failed to set receipt hash: %w", err)
	}
	return requireRow(res, "payment", paymentID)
}

// FindPaymentByReceiptHash returns another payment whose receipt has the same
// hash, or nil, nil.
func (s *SQLiteStore) FindPaymentByReceiptHash(ctx context.Context, hash string, excludeID int64) (*model.Payment, error) {
	if hash == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := scanPayment(s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE receipt_hash = ? AND id != ? ORDER BY id LIMIT 1",
		hash, excludeID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payment by receipt hash: %w", err)
	}
	return p, nil
}

// GetUserPayments returns the user's newest payments, at most limit.
func (s *SQLiteStore) GetUserPayments(ctx context.Context, userID int64, limit int) ([]model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
