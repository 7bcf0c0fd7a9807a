package request

type CreateMilestoneRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type UpdateMilestoneRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1,max=200"`
	Status string  `json:"status" validate:"required,max=30"`
}
