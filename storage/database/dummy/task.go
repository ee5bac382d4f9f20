package dummydb

import (
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
)

type taskRepository struct {
	db *taskTable
}

// interface compliance checks
var (
	_ task.Repository          = (*taskRepository)(nil)
	_ submission.TaskDirectory = (*taskRepository)(nil)
)

func NewTaskRepository(db *DB) *taskRepository {
	return &taskRepository{db: db.task}
}

func (repo *taskRepository) CreateTask(tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tsk.ID = uuid.New().String()
	repo.db.table[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) GetTaskByID(id string) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tsk, ok := repo.db.table[id]; ok {
		return *tsk, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) QueryTasksByStatus(ids []string, status string) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := make([]task.Task, 0)
	for _, id := range ids {
		if tsk, ok := repo.db.table[id]; ok && tsk.Status == status {
			tasks = append(tasks, *tsk)
		}
	}
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[tsk.ID]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	stored.Title = tsk.Title
	stored.Description = tsk.Description
	stored.DueAt = tsk.DueAt
	stored.Status = tsk.Status
	stored.Document = tsk.Document
	return *stored, nil
}

func (repo *taskRepository) DeleteTask(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return task.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *taskRepository) CompleteOverdueTasks(now time.Time) (int64, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int64
	for _, tsk := range repo.db.table {
		if tsk.Status == task.StatusOngoing && tsk.DueAt.Before(now) {
			tsk.Status = task.StatusCompleted
			n++
		}
	}
	return n, nil
}

func (repo *taskRepository) AddTaskSubmission(taskID, subID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	tsk, ok := repo.db.table[taskID]
	if !ok {
		return task.ErrNotFound
	}
	tsk.Submissions = append(tsk.Submissions, subID)
	return nil
}
