package task

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// Task statuses. The transition is monotonic: ongoing -> completed, never back.
const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

var (
	errDueDateInPast  = errors.New("due date must be in the future")
	errStatusReversal = errors.New("a completed task cannot be reopened")
)

type Task struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ClassID     string    `json:"class_id" bson:"class_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"` // UTC
	DueAt       time.Time `json:"due_date" bson:"due_date"`     // UTC
	Status      string    `json:"status" bson:"status"`
	Submissions []string  `json:"submissions" bson:"submissions"`
	Document    string    `json:"document,omitempty" bson:"document,omitempty"`
}

// CanMutate reports whether uid may update or delete this task.
func (t Task) CanMutate(uid string) bool { return t.CreatedBy == uid }

func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

// ClassTasks is the per-class listing split by lifecycle status.
type ClassTasks struct {
	Active    []Task `json:"active_tasks"`
	Completed []Task `json:"completed_tasks"`
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	ClassID     string    `json:"class_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	DueAt       time.Time `json:"due_date" validate:"required"`
	Document    string    `json:"document" validate:"omitempty,url"`
}

func (nt *NewTask) Validate(now time.Time) error {
	nt.ClassID = core.CleanString(nt.ClassID)
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)

	if err := core.Validate.Struct(nt); err != nil {
		return err
	}
	if !nt.DueAt.After(now) {
		return core.NewValidationError(errDueDateInPast,
			core.FieldError{Field: "due_date", Error: errDueDateInPast.Error()})
	}
	return nil
}

// UpdateTask defines the whitelisted changes to an existing Task. The class
// back-reference, creator and timestamps are immutable.
type UpdateTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_date"`
	Document    string     `json:"document" validate:"omitempty,url"`
	Status      string     `json:"status" validate:"omitempty,oneof=ongoing completed"`
}

func (ut *UpdateTask) Validate(orig Task) error {
	if title := core.CleanString(ut.Title); title != "" {
		ut.Title = title
	} else {
		ut.Title = orig.Title
	}
	if desc := core.CleanString(ut.Description); desc != "" {
		ut.Description = desc
	} else {
		ut.Description = orig.Description
	}
	ut.Status = core.CleanString(ut.Status, true /* lower */)

	if err := core.Validate.Struct(ut); err != nil {
		return err
	}
	if ut.Status != "" && orig.IsCompleted() && ut.Status == StatusOngoing {
		return core.NewValidationError(errStatusReversal,
			core.FieldError{Field: "status", Error: errStatusReversal.Error()})
	}
	return nil
}
