package request

type TheaterRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	Address   string   `json:"address" validate:"required,min=1,max=255"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Amenities []string `json:"amenities,omitempty" validate:"omitempty,unique,dive,min=1,max=50"`
}

type TheaterUpdateRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Address   *string  `json:"address,omitempty" validate:"omitempty,min=1,max=255"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Amenities []string `json:"amenities,omitempty" validate:"omitempty,unique,dive,min=1,max=50"`
}
