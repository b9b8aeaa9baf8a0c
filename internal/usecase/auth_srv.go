package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/messaging"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionMeta is recorded with every new session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, meta SessionMeta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionToken string) error
	SendOTP(ctx context.Context, req *request.SendOTPRequest) (*response.OTPResponse, error)
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo      *repository.Repository
	publisher messaging.Publisher
	config    *utils.Config
	log       *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	publisher messaging.Publisher,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		publisher: publisher,
		config:    config,
		log:       log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to check username")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("username already taken")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Roles:        []string{string(entity.RoleCustomer)},
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to create account")
	}

	if _, err := s.issueOTP(ctx, user, entity.OTPEmailVerification); err != nil {
		s.log.Warn("Failed to send verification OTP", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	resp, err := s.startSession(ctx, user, meta)
	if err != nil {
		s.log.Error("Failed to create session after register", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	identifier := strings.TrimSpace(req.Username)

	user, err := s.repo.User.FindByEmail(ctx, strings.ToLower(identifier))
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("identifier", identifier))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, identifier)
		if err != nil {
			s.log.Error("Failed to find user by username", zap.Error(err), zap.String("identifier", identifier))
			return nil, fmt.Errorf("failed to find user")
		}
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login rejected", zap.String("identifier", identifier))
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated")
	}

	resp, err := s.startSession(ctx, user, meta)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return resp, nil
}

func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	token, err := uuid.Parse(sessionToken)
	if err != nil {
		return fmt.Errorf("invalid session token")
	}

	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		s.log.Warn("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("session not found or already revoked")
	}

	s.log.Info("User logged out", zap.String("session", token.String()))
	return nil
}

func (s *authService) SendOTP(ctx context.Context, req *request.SendOTPRequest) (*response.OTPResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for OTP", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	purpose := entity.OTPPurpose(req.Type)
	if purpose == entity.OTPEmailVerification && user.EmailVerified {
		return nil, fmt.Errorf("email already verified")
	}

	otp, err := s.issueOTP(ctx, user, purpose)
	if err != nil {
		s.log.Error("Failed to issue OTP", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to generate OTP")
	}

	return &response.OTPResponse{
		Email:     otp.Email,
		Type:      string(otp.Purpose),
		ExpiresAt: otp.ExpiresAt,
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	user, err := s.consumeOTP(ctx, req.Email, req.OTP, entity.OTPEmailVerification)
	if err != nil {
		return err
	}

	user.EmailVerified = true
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user verification", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("failed to verify email")
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword sets a new password and signs the user out everywhere.
func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	user, err := s.consumeOTP(ctx, req.Email, req.OTP, entity.OTPPasswordReset)
	if err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to process password")
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("failed to reset password")
	}

	if err := s.repo.Session.RevokeAllUserSessions(ctx, user.ID); err != nil {
		s.log.Warn("Failed to revoke sessions after reset", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) consumeOTP(ctx context.Context, email, code string, purpose entity.OTPPurpose) (*entity.User, error) {
	if len(code) != s.config.OTP.Length {
		return nil, fmt.Errorf("validation failed: otp: Must be exactly %d characters", s.config.OTP.Length)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	otp, err := s.repo.OTP.Consume(ctx, email, code, purpose)
	if err != nil {
		return nil, fmt.Errorf("failed to verify OTP")
	}
	if otp == nil {
		return nil, fmt.Errorf("invalid or expired OTP")
	}

	user, err := s.repo.User.FindByID(ctx, otp.UserID)
	if err != nil {
		s.log.Error("Failed to load user for OTP", zap.Error(err), zap.String("user_id", otp.UserID.String()))
		return nil, fmt.Errorf("failed to verify OTP")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (s *authService) issueOTP(ctx context.Context, user *entity.User, purpose entity.OTPPurpose) (*entity.OTP, error) {
	now := time.Now()
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Email:     user.Email,
		Code:      utils.GenerateOTP(s.config.OTP.Length),
		Purpose:   purpose,
		ExpiresAt: now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"user_id":    user.ID,
		"email":      otp.Email,
		"type":       otp.Purpose,
		"code":       otp.Code,
		"expires_at": otp.ExpiresAt,
	}
	if err := s.publisher.Publish(ctx, messaging.EventOTPRequested, user.ID.String(), payload); err != nil {
		return nil, fmt.Errorf("deliver OTP: %w", err)
	}

	return otp, nil
}

func (s *authService) startSession(ctx context.Context, user *entity.User, meta SessionMeta) (*response.AuthResponse, error) {
	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(s.config.JWT.ExpiryHours) * time.Hour),
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := utils.IssueAccessToken(s.config.JWT.Secret, user.ID, session.Token, user.Roles, now, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &response.AuthResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      response.UserToResponse(user),
	}, nil
}
