package mongorepos

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/darasa/core/feedback"
	"github.com/trezcool/darasa/core/submission"
)

type submissionRepository struct {
	coll *mongo.Collection
}

// interface compliance checks
var (
	_ submission.Repository        = (*submissionRepository)(nil)
	_ feedback.SubmissionDirectory = (*submissionRepository)(nil)
)

func NewSubmissionRepository(db *mongo.Database) *submissionRepository {
	return &submissionRepository{coll: db.Collection(submissionCollection)}
}

func (repo *submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	ctx, cancel := opCtx()
	defer cancel()

	sub.ID = primitive.NewObjectID().Hex()
	if _, err := repo.coll.InsertOne(ctx, sub); err != nil {
		return submission.Submission{}, err
	}
	return sub, nil
}

func (repo *submissionRepository) getSubmission(filter bson.M) (submission.Submission, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var sub submission.Submission
	if err := repo.coll.FindOne(ctx, filter).Decode(&sub); err != nil {
		if err == mongo.ErrNoDocuments {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, err
	}
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(id string) (submission.Submission, error) {
	return repo.getSubmission(bson.M{"_id": id})
}

func (repo *submissionRepository) GetSubmissionByTaskAndUser(taskID, uid string) (submission.Submission, error) {
	return repo.getSubmission(bson.M{"task_id": taskID, "user_id": uid})
}

func (repo *submissionRepository) QuerySubmissionsByTask(taskID string) ([]submission.Submission, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cur, err := repo.coll.Find(ctx, bson.M{"task_id": taskID})
	if err != nil {
		return nil, err
	}
	subs := make([]submission.Submission, 0)
	if err = cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (repo *submissionRepository) QueryUserSubmittedTasks(uid string, taskIDs []string) (map[string]bool, error) {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"user_id": uid, "task_id": bson.M{"$in": taskIDs}}
	opts := options.Find().SetProjection(bson.M{"task_id": 1})
	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var subs []submission.Submission
	if err = cur.All(ctx, &subs); err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(subs))
	for _, s := range subs {
		set[s.TaskID] = true
	}
	return set, nil
}

// UpdateSubmission replaces all mutable fields in one atomic document write.
func (repo *submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	ctx, cancel := opCtx()
	defer cancel()

	update := bson.M{"$set": bson.M{
		"document":       sub.Document,
		"user_upvotes":   sub.UserUpvotes,
		"expert_upvotes": sub.ExpertUpvotes,
	}}
	res, err := repo.coll.UpdateByID(ctx, sub.ID, update)
	if err != nil {
		return submission.Submission{}, err
	}
	if res.MatchedCount == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return repo.GetSubmissionByID(sub.ID)
}

func (repo *submissionRepository) DeleteSubmission(id string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return submission.ErrNotFound
	}
	return nil
}

func (repo *submissionRepository) AddSubmissionFeedback(submissionID, feedbackID string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := repo.coll.UpdateByID(ctx, submissionID, bson.M{"$push": bson.M{"feedback": feedbackID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return submission.ErrNotFound
	}
	return nil
}
