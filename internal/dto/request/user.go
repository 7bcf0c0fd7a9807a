package request

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"max=150"`
	Bio      string `json:"bio" validate:"max=5000"`
}
