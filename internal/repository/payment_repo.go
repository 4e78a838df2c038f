package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelstay/bookings/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	List(ctx context.Context, scope domain.Scope, f domain.PaymentFilter) ([]domain.Payment, error)
	Complete(ctx context.Context, id int64, transactionRef string) (*domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentCols = `id, booking_id, amount, transaction_ref, status,
payment_method, created_at, updated_at`

func scanPayment(row pgx.Row, p *domain.Payment) error {
	return row.Scan(
		&p.ID, &p.BookingID, &p.Amount, &p.TransactionRef, &p.Status,
		&p.Method, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	const q = `INSERT INTO payments (booking_id, amount, status, payment_method)
	VALUES ($1,$2,'pending',$3)
	RETURNING ` + paymentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanPayment(r.pool.QueryRow(ctx, q, p.BookingID, p.Amount, p.Method), p)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Payment
	err := scanPayment(r.pool.QueryRow(ctx, q, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) List(ctx context.Context, scope domain.Scope, f domain.PaymentFilter) ([]domain.Payment, error) {
	limit, offset := clampPage(f.Limit, f.Offset)

	cols := prefixCols(paymentCols, "p.")
	q := `SELECT ` + cols + ` FROM payments p`
	var conds []string
	var args []any

	if !scope.All {
		q += ` JOIN bookings b ON b.id = p.booking_id`
		args = append(args, scope.GuestID)
		conds = append(conds, fmt.Sprintf("b.guest_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if f.Method != nil {
		args = append(args, *f.Method)
		conds = append(conds, fmt.Sprintf("p.payment_method = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}

	q += " ORDER BY " + paymentOrder(f.OrderBy)
	args = append(args, limit, offset)
	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) Complete(ctx context.Context, id int64, transactionRef string) (*domain.Payment, error) {
	const q = `UPDATE payments SET status='completed', transaction_ref=$2, updated_at=now()
	WHERE id=$1
	RETURNING ` + paymentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Payment
	err := scanPayment(r.pool.QueryRow(ctx, q, id, transactionRef), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func paymentOrder(orderBy string) string {
	switch orderBy {
	case "created":
		return "p.created_at ASC"
	case "amount":
		return "p.amount ASC"
	case "-amount":
		return "p.amount DESC"
	default:
		return "p.created_at DESC"
	}
}

func prefixCols(cols, prefix string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
