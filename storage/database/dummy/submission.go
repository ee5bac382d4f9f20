package dummydb

import (
	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/feedback"
	"github.com/trezcool/darasa/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

// interface compliance checks
var (
	_ submission.Repository        = (*submissionRepository)(nil)
	_ feedback.SubmissionDirectory = (*submissionRepository)(nil)
)

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db.submission}
}

func (repo *submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub.ID = uuid.New().String()
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(id string) (submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[id]; ok {
		return *sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) GetSubmissionByTaskAndUser(taskID, uid string) (submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sub := range repo.db.table {
		if sub.TaskID == taskID && sub.UserID == uid {
			return *sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) QuerySubmissionsByTask(taskID string) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]submission.Submission, 0)
	for _, sub := range repo.db.table {
		if sub.TaskID == taskID {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (repo *submissionRepository) QueryUserSubmittedTasks(uid string, taskIDs []string) (map[string]bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		wanted[id] = true
	}

	set := make(map[string]bool)
	for _, sub := range repo.db.table {
		if sub.UserID == uid && wanted[sub.TaskID] {
			set[sub.TaskID] = true
		}
	}
	return set, nil
}

func (repo *submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[sub.ID]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	stored.Document = sub.Document
	stored.UserUpvotes = sub.UserUpvotes
	stored.ExpertUpvotes = sub.ExpertUpvotes
	return *stored, nil
}

func (repo *submissionRepository) DeleteSubmission(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return submission.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *submissionRepository) AddSubmissionFeedback(submissionID, feedbackID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub, ok := repo.db.table[submissionID]
	if !ok {
		return submission.ErrNotFound
	}
	sub.Feedback = append(sub.Feedback, feedbackID)
	return nil
}
