package mongorepos

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
)

type taskRepository struct {
	coll *mongo.Collection
}

// interface compliance checks
var (
	_ task.Repository          = (*taskRepository)(nil)
	_ submission.TaskDirectory = (*taskRepository)(nil)
)

func NewTaskRepository(db *mongo.Database) *taskRepository {
	return &taskRepository{coll: db.Collection(taskCollection)}
}

func (repo *taskRepository) CreateTask(tsk task.Task) (task.Task, error) {
	ctx, cancel := opCtx()
	defer cancel()

	tsk.ID = primitive.NewObjectID().Hex()
	if _, err := repo.coll.InsertOne(ctx, tsk); err != nil {
		return task.Task{}, err
	}
	return tsk, nil
}

func (repo *taskRepository) GetTaskByID(id string) (task.Task, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var tsk task.Task
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tsk); err != nil {
		if err == mongo.ErrNoDocuments {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}
	return tsk, nil
}

func (repo *taskRepository) QueryTasksByStatus(ids []string, status string) ([]task.Task, error) {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"_id": bson.M{"$in": ids}, "status": status}
	cur, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0)
	if err = cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask replaces all mutable fields in one atomic document write; the
// class back-reference, creator and timestamps are never touched.
func (repo *taskRepository) UpdateTask(tsk task.Task) (task.Task, error) {
	ctx, cancel := opCtx()
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       tsk.Title,
		"description": tsk.Description,
		"due_date":    tsk.DueAt,
		"status":      tsk.Status,
		"document":    tsk.Document,
	}}
	res, err := repo.coll.UpdateByID(ctx, tsk.ID, update)
	if err != nil {
		return task.Task{}, err
	}
	if res.MatchedCount == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return repo.GetTaskByID(tsk.ID)
}

func (repo *taskRepository) DeleteTask(id string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return task.ErrNotFound
	}
	return nil
}

// CompleteOverdueTasks is a bulk conditional update: only documents still
// ongoing and past due are matched, so a concurrent manual completion is
// never double-processed.
func (repo *taskRepository) CompleteOverdueTasks(now time.Time) (int64, error) {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"status": task.StatusOngoing, "due_date": bson.M{"$lt": now}}
	res, err := repo.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": task.StatusCompleted}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (repo *taskRepository) AddTaskSubmission(taskID, subID string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := repo.coll.UpdateByID(ctx, taskID, bson.M{"$push": bson.M{"submissions": subID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return task.ErrNotFound
	}
	return nil
}
