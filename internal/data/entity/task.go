package entity

import "github.com/google/uuid"

// TaskStatusOpen is the status a task is created with. Status is otherwise
// free text chosen by the owner.
const TaskStatusOpen = "OPEN"

type Task struct {
	Base
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Budget      float64   `db:"budget"`
	Status      string    `db:"status"`
	CreatedBy   uuid.UUID `db:"created_by"`
}

// TaskPatch lists the columns an owner may change. Nil fields keep their
// stored value.
type TaskPatch struct {
	Title       *string
	Description *string
	Budget      *float64
	Status      *string
}
