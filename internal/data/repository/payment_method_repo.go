package repository

import (
	"context"
	"fmt"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentMethodRepository interface {
	// Upsert inserts the method or refreshes name and status by code.
	Upsert(ctx context.Context, paymentMethod *entity.PaymentMethod) error
	FindByCode(ctx context.Context, code string) (*entity.PaymentMethod, error)
	FindAllActive(ctx context.Context) ([]*entity.PaymentMethod, error)
}

type paymentMethodRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentMethodRepository(db database.PgxIface, log *zap.Logger) PaymentMethodRepository {
	return &paymentMethodRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment_method")),
	}
}

func (r *paymentMethodRepository) Upsert(ctx context.Context, paymentMethod *entity.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (id, code, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		paymentMethod.ID,
		paymentMethod.Code,
		paymentMethod.Name,
		paymentMethod.IsActive,
		paymentMethod.CreatedAt,
		paymentMethod.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to upsert payment method",
			zap.Error(err),
			zap.String("code", paymentMethod.Code),
		)
		return fmt.Errorf("upsert payment method %s: %w", paymentMethod.Code, err)
	}

	return nil
}

func (r *paymentMethodRepository) FindByCode(ctx context.Context, code string) (*entity.PaymentMethod, error) {
	query := `
		SELECT id, code, name, is_active, created_at, updated_at
		FROM payment_methods
		WHERE code = $1
	`

	var method entity.PaymentMethod
	err := r.db.QueryRow(ctx, query, code).Scan(
		&method.ID,
		&method.Code,
		&method.Name,
		&method.IsActive,
		&method.CreatedAt,
		&method.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment method",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find payment method %s: %w", code, err)
	}

	return &method, nil
}

func (r *paymentMethodRepository) FindAllActive(ctx context.Context) ([]*entity.PaymentMethod, error) {
	query := `
		SELECT id, code, name, is_active, created_at, updated_at
		FROM payment_methods
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active payment methods", zap.Error(err))
		return nil, fmt.Errorf("find active payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*entity.PaymentMethod
	for rows.Next() {
		var method entity.PaymentMethod
		err := rows.Scan(
			&method.ID,
			&method.Code,
			&method.Name,
			&method.IsActive,
			&method.CreatedAt,
			&method.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan payment method row", zap.Error(err))
			return nil, fmt.Errorf("scan payment method row: %w", err)
		}
		methods = append(methods, &method)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate payment method rows: %w", err)
	}

	return methods, nil
}
