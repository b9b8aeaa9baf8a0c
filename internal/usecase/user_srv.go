package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req *request.PreferencesRequest) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	UpdateRoles(ctx context.Context, callerID uuid.UUID, userID string, req *request.UpdateRolesRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, callerID uuid.UUID, userID string) error
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	log         *zap.Logger
}

// NewUserService revokes a user's sessions whenever an admin deletes the
// account or changes its roles, since tokens carry the roles they were
// issued with.
func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		log:         log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := us.userRepo.FindByUsername(ctx, *req.Username)
		if err != nil {
			us.log.Error("Failed to check username", zap.Error(err))
			return nil, fmt.Errorf("failed to check username")
		}
		if existing != nil {
			return nil, fmt.Errorf("username already taken")
		}
		user.Username = *req.Username
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	user.UpdatedAt = time.Now()
	if err := us.userRepo.Update(ctx, user); err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *request.PreferencesRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	user.TheaterMode = *req.TheaterMode
	user.UpdatedAt = time.Now()
	if err := us.userRepo.Update(ctx, user); err != nil {
		us.log.Error("Failed to update preferences", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update preferences")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// ==================== ADMIN METHODS ====================

func (us *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := us.userRepo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("failed to get users")
	}

	total, err := us.userRepo.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to count users")
	}

	items := make([]response.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, response.UserToResponse(user))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (us *userService) UpdateRoles(ctx context.Context, callerID uuid.UUID, userID string, req *request.UpdateRolesRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	if id == callerID && !slices.Contains(req.Roles, string(entity.RoleAdmin)) {
		return nil, fmt.Errorf("cannot remove your own admin role")
	}

	changed := !sameRoles(user.Roles, req.Roles)
	user.Roles = req.Roles
	user.UpdatedAt = time.Now()
	if err := us.userRepo.Update(ctx, user); err != nil {
		us.log.Error("Failed to update roles", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to update roles")
	}
	if changed {
		if err := us.sessionRepo.RevokeAllUserSessions(ctx, id); err != nil {
			us.log.Error("Failed to revoke sessions", zap.Error(err), zap.String("user_id", userID))
			return nil, fmt.Errorf("failed to revoke sessions")
		}
	}

	us.log.Info("User roles updated",
		zap.String("user_id", userID),
		zap.Strings("roles", req.Roles),
		zap.String("by", callerID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) DeleteUser(ctx context.Context, callerID uuid.UUID, userID string) error {
	id, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	if id == callerID {
		return fmt.Errorf("cannot delete your own account")
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to get user for delete", zap.Error(err), zap.String("id", userID))
		return fmt.Errorf("failed to get user")
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if err := us.userRepo.Delete(ctx, id); err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("id", userID))
		return fmt.Errorf("failed to delete user")
	}
	if err := us.sessionRepo.RevokeAllUserSessions(ctx, id); err != nil {
		us.log.Error("Failed to revoke sessions", zap.Error(err), zap.String("id", userID))
		return fmt.Errorf("failed to revoke sessions")
	}

	us.log.Info("User deleted", zap.String("user_id", userID), zap.String("by", callerID.String()))
	return nil
}

func sameRoles(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, role := range a {
		if !slices.Contains(b, role) {
			return false
		}
	}
	return true
}
