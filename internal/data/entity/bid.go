package entity

import "github.com/google/uuid"

type BidStatus string

const (
	BidStatusPending  BidStatus = "PENDING"
	BidStatusAccepted BidStatus = "ACCEPTED"
	BidStatusRejected BidStatus = "REJECTED"
)

type Bid struct {
	BaseSimple
	TaskID       uuid.UUID `db:"task_id"`
	FreelancerID uuid.UUID `db:"freelancer_id"`
	Amount       float64   `db:"amount"`
	Status       BidStatus `db:"status"`
}

// BidDetail is a bid joined with its task, the task owner and the bidder.
type BidDetail struct {
	Bid
	Task               Task
	OwnerUsername      string
	FreelancerUsername string
	FreelancerEmail    string
}
