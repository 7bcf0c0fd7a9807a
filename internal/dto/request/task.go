package request

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=10000"`
	Budget      float64 `json:"budget" validate:"gte=0,lte=9999999999.99"`
}

// UpdateTaskRequest is a partial update: nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=10000"`
	Budget      *float64 `json:"budget" validate:"omitempty,gte=0,lte=9999999999.99"`
	Status      *string  `json:"status" validate:"omitempty,min=1,max=30"`
}
