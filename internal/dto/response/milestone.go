package response

import (
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
)

type MilestoneResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func MilestoneToResponse(m *entity.Milestone) MilestoneResponse {
	return MilestoneResponse{
		ID:        m.ID.String(),
		TaskID:    m.TaskID.String(),
		Title:     m.Title,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}

func MilestonesToResponse(milestones []*entity.Milestone) []MilestoneResponse {
	out := make([]MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, MilestoneToResponse(m))
	}
	return out
}
