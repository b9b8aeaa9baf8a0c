package request

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

type PreferencesRequest struct {
	TheaterMode *bool `json:"theater_mode" validate:"required"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,unique,dive,oneof=customer staff admin"`
}
