package response

import (
	"time"

	"movie-theater/internal/data/entity"
)

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Roles       []string  `json:"roles"`
	TheaterMode bool      `json:"theater_mode"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		Roles:       user.Roles,
		TheaterMode: user.TheaterMode,
		IsVerified:  user.EmailVerified,
		CreatedAt:   user.CreatedAt,
	}
}

type OTPResponse struct {
	Email     string    `json:"email"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
}
