package dummydb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/feedback"
)

type feedbackRepository struct {
	db *feedbackTable
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db.feedback}
}

func (repo *feedbackRepository) CreateFeedback(fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	fb.ID = uuid.New().String()
	repo.db.table[fb.ID] = &fb
	return fb, nil
}

func (repo *feedbackRepository) GetFeedbackByID(id string) (feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fb, ok := repo.db.table[id]; ok {
		return *fb, nil
	}
	return feedback.Feedback{}, feedback.ErrNotFound
}

func (repo *feedbackRepository) QueryFeedbackBySubmission(submissionID string) ([]feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fbs := make([]feedback.Feedback, 0)
	for _, fb := range repo.db.table {
		if fb.SubmissionID == submissionID {
			fbs = append(fbs, *fb)
		}
	}
	sort.Slice(fbs, func(i, j int) bool { return fbs[i].CreatedAt.Before(fbs[j].CreatedAt) })
	return fbs, nil
}

func (repo *feedbackRepository) UpdateFeedbackContent(id, content string) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	fb, ok := repo.db.table[id]
	if !ok {
		return feedback.Feedback{}, feedback.ErrNotFound
	}
	fb.Content = content
	fb.IsEdited = true
	return *fb, nil
}
