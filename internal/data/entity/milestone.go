package entity

import "github.com/google/uuid"

// MilestoneStatusPending is the initial status; later values are client-defined.
const MilestoneStatusPending = "PENDING"

type Milestone struct {
	BaseSimple
	TaskID uuid.UUID `db:"task_id"`
	Title  string    `db:"title"`
	Status string    `db:"status"`
}

// MilestoneDetail carries the owner of the milestone's task for authorization.
type MilestoneDetail struct {
	Milestone
	TaskOwnerID uuid.UUID
}
