package mongorepos

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/darasa/core/feedback"
)

type feedbackRepository struct {
	coll *mongo.Collection
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *mongo.Database) feedback.Repository {
	return &feedbackRepository{coll: db.Collection(feedbackCollection)}
}

func (repo *feedbackRepository) CreateFeedback(fb feedback.Feedback) (feedback.Feedback, error) {
	ctx, cancel := opCtx()
	defer cancel()

	fb.ID = primitive.NewObjectID().Hex()
	if _, err := repo.coll.InsertOne(ctx, fb); err != nil {
		return feedback.Feedback{}, err
	}
	return fb, nil
}

func (repo *feedbackRepository) GetFeedbackByID(id string) (feedback.Feedback, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var fb feedback.Feedback
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&fb); err != nil {
		if err == mongo.ErrNoDocuments {
			return feedback.Feedback{}, feedback.ErrNotFound
		}
		return feedback.Feedback{}, err
	}
	return fb, nil
}

func (repo *feedbackRepository) QueryFeedbackBySubmission(submissionID string) ([]feedback.Feedback, error) {
	ctx, cancel := opCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := repo.coll.Find(ctx, bson.M{"submission_id": submissionID}, opts)
	if err != nil {
		return nil, err
	}
	fbs := make([]feedback.Feedback, 0)
	if err = cur.All(ctx, &fbs); err != nil {
		return nil, err
	}
	return fbs, nil
}

func (repo *feedbackRepository) UpdateFeedbackContent(id, content string) (feedback.Feedback, error) {
	ctx, cancel := opCtx()
	defer cancel()

	update := bson.M{"$set": bson.M{"content": content, "is_edited": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var fb feedback.Feedback
	if err := repo.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&fb); err != nil {
		if err == mongo.ErrNoDocuments {
			return feedback.Feedback{}, feedback.ErrNotFound
		}
		return feedback.Feedback{}, err
	}
	return fb, nil
}
