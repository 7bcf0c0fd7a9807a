package response

import (
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
)

type BidResponse struct {
	ID                 string           `json:"id"`
	TaskID             string           `json:"task_id"`
	TaskTitle          string           `json:"task_title,omitempty"`
	FreelancerID       string           `json:"freelancer_id"`
	FreelancerUsername string           `json:"freelancer_username,omitempty"`
	FreelancerEmail    string           `json:"freelancer_email,omitempty"`
	Amount             float64          `json:"amount"`
	Status             entity.BidStatus `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
}

func BidToResponse(bid *entity.Bid) BidResponse {
	return BidResponse{
		ID:           bid.ID.String(),
		TaskID:       bid.TaskID.String(),
		FreelancerID: bid.FreelancerID.String(),
		Amount:       bid.Amount,
		Status:       bid.Status,
		CreatedAt:    bid.CreatedAt,
	}
}

func BidDetailToResponse(d *entity.BidDetail) BidResponse {
	resp := BidToResponse(&d.Bid)
	resp.TaskTitle = d.Task.Title
	resp.FreelancerUsername = d.FreelancerUsername
	resp.FreelancerEmail = d.FreelancerEmail
	return resp
}

func BidDetailsToResponse(bids []*entity.BidDetail) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, BidDetailToResponse(b))
	}
	return out
}
