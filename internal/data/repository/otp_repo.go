package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPRepository interface {
	// Create stores a new code and retires any unused code the same email
	// holds for that purpose.
	Create(ctx context.Context, otp *entity.OTP) error
	// Consume marks a live matching code as used and returns it, or nil
	// when no such code exists.
	Consume(ctx context.Context, email, code string, purpose entity.OTPPurpose) (*entity.OTP, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		WITH retired AS (
			UPDATE otps SET is_used = true
			WHERE email = $3 AND otp_type = $5 AND is_used = false
		)
		INSERT INTO otps (id, user_id, email, otp_code, otp_type, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.UserID,
		otp.Email,
		otp.Code,
		otp.Purpose,
		otp.ExpiresAt,
		otp.IsUsed,
		otp.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
			zap.String("purpose", string(otp.Purpose)),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
	}

	return nil
}

func (r *otpRepository) Consume(ctx context.Context, email, code string, purpose entity.OTPPurpose) (*entity.OTP, error) {
	query := `
		UPDATE otps SET is_used = true
		WHERE email = $1
		  AND otp_code = $2
		  AND otp_type = $3
		  AND is_used = false
		  AND expires_at > NOW()
		RETURNING id, user_id, email, otp_code, otp_type, expires_at, is_used, created_at
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, email, code, purpose).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Email,
		&otp.Code,
		&otp.Purpose,
		&otp.ExpiresAt,
		&otp.IsUsed,
		&otp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to consume OTP",
			zap.Error(err),
			zap.String("email", email),
			zap.String("purpose", string(purpose)),
		)
		return nil, fmt.Errorf("consume OTP for %s: %w", email, err)
	}

	return &otp, nil
}
