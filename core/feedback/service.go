package feedback

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("feedback not found")
	ErrNotAuthor      = core.NewForbiddenError("only the author of the feedback can edit it")
	ErrNotClassMember = core.NewForbiddenError("user is not part of the class for this submission")
)

type (
	Repository interface {
		CreateFeedback(fb Feedback) (Feedback, error)
		GetFeedbackByID(id string) (Feedback, error)
		QueryFeedbackBySubmission(submissionID string) ([]Feedback, error)
		UpdateFeedbackContent(id, content string) (Feedback, error)
	}

	// SubmissionDirectory is the slice of the submission ledger the store
	// needs; satisfied by the submission repositories.
	SubmissionDirectory interface {
		GetSubmissionByID(id string) (submission.Submission, error)
		AddSubmissionFeedback(submissionID, feedbackID string) error
	}

	// ClassDirectory resolves the class owning a submission's task;
	// satisfied by the class repositories.
	ClassDirectory interface {
		GetClassByTaskID(taskID string) (class.Class, error)
	}

	// ProfileDirectory resolves author public profiles; satisfied by user.Repository.
	ProfileDirectory interface {
		GetProfilesByID(ids ...string) (map[string]user.Profile, error)
	}

	Service struct {
		repo        Repository
		submissions SubmissionDirectory
		classes     ClassDirectory
		profiles    ProfileDirectory
		clock       core.Clock
	}
)

func NewService(repo Repository, submissions SubmissionDirectory, classes ClassDirectory, profiles ProfileDirectory, clock core.Clock) *Service {
	return &Service{
		repo:        repo,
		submissions: submissions,
		classes:     classes,
		profiles:    profiles,
		clock:       clock,
	}
}

// Add attaches feedback to a submission and records the back-reference on
// the submission's feedback list. The author must belong to the class that
// owns the submission's task.
func (svc *Service) Add(authorID string, nf NewFeedback) (Feedback, error) {
	sub, err := svc.submissions.GetSubmissionByID(nf.SubmissionID)
	if err != nil {
		return Feedback{}, err
	}
	cls, err := svc.classes.GetClassByTaskID(sub.TaskID)
	if err != nil {
		return Feedback{}, err
	}
	if !cls.HasUser(authorID) {
		return Feedback{}, ErrNotClassMember
	}

	fb := Feedback{
		SubmissionID: sub.ID,
		UserID:       authorID,
		Content:      nf.Content,
		CreatedAt:    svc.clock.Now(),
	}
	fb, err = svc.repo.CreateFeedback(fb)
	if err != nil {
		return Feedback{}, err
	}
	if err = svc.submissions.AddSubmissionFeedback(sub.ID, fb.ID); err != nil {
		return Feedback{}, errors.Wrap(err, "recording feedback on submission")
	}
	return fb, nil
}

// Edit replaces the content and flips the edited flag; author only.
func (svc *Service) Edit(feedbackID, actorID string, ef EditFeedback) (Feedback, error) {
	fb, err := svc.repo.GetFeedbackByID(feedbackID)
	if err != nil {
		return Feedback{}, err
	}
	if !fb.CanEdit(actorID) {
		return Feedback{}, ErrNotAuthor
	}
	return svc.repo.UpdateFeedbackContent(fb.ID, ef.Content)
}

// QueryBySubmission returns a submission's feedback joined with author
// public profiles, newest last.
func (svc *Service) QueryBySubmission(submissionID string) ([]Detail, error) {
	if _, err := svc.submissions.GetSubmissionByID(submissionID); err != nil {
		return nil, err
	}
	fbs, err := svc.repo.QueryFeedbackBySubmission(submissionID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(fbs))
	for _, fb := range fbs {
		ids = append(ids, fb.UserID)
	}
	profiles, err := svc.profiles.GetProfilesByID(ids...)
	if err != nil {
		return nil, err
	}

	details := make([]Detail, 0, len(fbs))
	for _, fb := range fbs {
		details = append(details, Detail{Feedback: fb, Author: profiles[fb.UserID]})
	}
	return details, nil
}
