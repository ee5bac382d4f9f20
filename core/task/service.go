package task

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/class"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("task not found")
	ErrNotClassMember = core.NewForbiddenError("user is not a member or expert of this class")
	ErrNotCreator     = core.NewForbiddenError("only the creator of the task can perform this action")
)

type (
	Repository interface {
		CreateTask(t Task) (Task, error)
		GetTaskByID(id string) (Task, error)
		// QueryTasksByStatus returns the subset of ids with the given status.
		QueryTasksByStatus(ids []string, status string) ([]Task, error)
		// UpdateTask persists all mutable fields of t in a single document write.
		UpdateTask(t Task) (Task, error)
		DeleteTask(id string) error
		// CompleteOverdueTasks marks every ongoing task whose due date is
		// before now as completed, in one bulk conditional update. It returns
		// the number of tasks transitioned.
		CompleteOverdueTasks(now time.Time) (int64, error)
	}

	// ClassDirectory is the slice of the class registry the task lifecycle
	// needs; satisfied by the class repositories.
	ClassDirectory interface {
		GetClassByID(id string) (class.Class, error)
		AddClassTask(classID, taskID string) error
		RemoveClassTask(classID, taskID string) error
	}

	Service struct {
		repo    Repository
		classes ClassDirectory
		clock   core.Clock
		logger  core.Logger
	}
)

func NewService(repo Repository, classes ClassDirectory, clock core.Clock, logger core.Logger) *Service {
	return &Service{repo: repo, classes: classes, clock: clock, logger: logger}
}

// Create persists a new task and links it to its class. The two writes span
// two documents; a failed link triggers a compensating delete of the task.
func (svc *Service) Create(actorID string, nt NewTask) (Task, error) {
	if err := nt.Validate(svc.clock.Now()); err != nil {
		return Task{}, err
	}

	cls, err := svc.classes.GetClassByID(nt.ClassID)
	if err != nil {
		return Task{}, err
	}
	if !cls.CanSubmit(actorID) {
		return Task{}, ErrNotClassMember
	}

	tsk := Task{
		ClassID:     cls.ID,
		Title:       nt.Title,
		Description: nt.Description,
		CreatedBy:   actorID,
		CreatedAt:   svc.clock.Now(),
		DueAt:       nt.DueAt.UTC(),
		Status:      StatusOngoing,
		Submissions: []string{},
		Document:    nt.Document,
	}
	tsk, err = svc.repo.CreateTask(tsk)
	if err != nil {
		return Task{}, err
	}

	if err = svc.classes.AddClassTask(cls.ID, tsk.ID); err != nil {
		// compensate: the task must not outlive a failed class link
		if delErr := svc.repo.DeleteTask(tsk.ID); delErr != nil {
			return Task{}, core.NewPartialFailureError("task created but not linked to class; rollback failed", delErr)
		}
		return Task{}, errors.Wrap(err, "linking task to class; task creation rolled back")
	}
	return tsk, nil
}

func (svc *Service) GetByID(id string) (Task, error) {
	return svc.repo.GetTaskByID(id)
}

// QueryByClass returns the class's tasks split into active and completed.
func (svc *Service) QueryByClass(classID string) (ClassTasks, error) {
	cls, err := svc.classes.GetClassByID(classID)
	if err != nil {
		return ClassTasks{}, err
	}

	active, err := svc.repo.QueryTasksByStatus(cls.Tasks, StatusOngoing)
	if err != nil {
		return ClassTasks{}, err
	}
	completed, err := svc.repo.QueryTasksByStatus(cls.Tasks, StatusCompleted)
	if err != nil {
		return ClassTasks{}, err
	}
	return ClassTasks{Active: active, Completed: completed}, nil
}

// Update applies creator-gated whitelisted changes.
func (svc *Service) Update(taskID, actorID string, ut UpdateTask) (Task, error) {
	tsk, err := svc.repo.GetTaskByID(taskID)
	if err != nil {
		return Task{}, err
	}
	if !tsk.CanMutate(actorID) {
		return Task{}, ErrNotCreator
	}
	if err := ut.Validate(tsk); err != nil {
		return Task{}, err
	}

	tsk.Title = ut.Title
	tsk.Description = ut.Description
	if ut.DueAt != nil {
		tsk.DueAt = ut.DueAt.UTC()
	}
	if ut.Document != "" {
		tsk.Document = ut.Document
	}
	if ut.Status != "" {
		tsk.Status = ut.Status
	}
	return svc.repo.UpdateTask(tsk)
}

// Delete removes the task, then unlinks it from its class. If the class is
// gone after the task was already deleted, the deletion is not reversed and
// the partial outcome is surfaced distinctly.
func (svc *Service) Delete(taskID, actorID string) error {
	tsk, err := svc.repo.GetTaskByID(taskID)
	if err != nil {
		return err
	}
	if !tsk.CanMutate(actorID) {
		return ErrNotCreator
	}

	if err = svc.repo.DeleteTask(taskID); err != nil {
		return err
	}
	if err = svc.classes.RemoveClassTask(tsk.ClassID, taskID); err != nil {
		return core.NewPartialFailureError("task deleted but class task list not updated", err)
	}
	return nil
}

// Sweep transitions every overdue ongoing task to completed. Idempotent:
// already-completed tasks are never matched again.
func (svc *Service) Sweep() (int64, error) {
	return svc.repo.CompleteOverdueTasks(svc.clock.Now())
}
