package submission

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/task"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("submission not found")
	ErrAlreadySubmitted = core.NewConflictError("user has already submitted for this task")
	ErrNotAuthor        = core.NewForbiddenError("only the author of the submission can perform this action")
	ErrNotClassMember   = core.NewForbiddenError("only members or experts of the class can submit")
)

type (
	Repository interface {
		CreateSubmission(sub Submission) (Submission, error)
		GetSubmissionByID(id string) (Submission, error)
		GetSubmissionByTaskAndUser(taskID, uid string) (Submission, error)
		QuerySubmissionsByTask(taskID string) ([]Submission, error)
		// QueryUserSubmittedTasks returns the subset of taskIDs uid has a
		// submission for, as a set.
		QueryUserSubmittedTasks(uid string, taskIDs []string) (map[string]bool, error)
		// UpdateSubmission persists all mutable fields of sub in a single document write.
		UpdateSubmission(sub Submission) (Submission, error)
		DeleteSubmission(id string) error
	}

	// TaskDirectory is the slice of the task manager the ledger needs;
	// satisfied by the task repositories.
	TaskDirectory interface {
		GetTaskByID(id string) (task.Task, error)
		AddTaskSubmission(taskID, subID string) error
	}

	// ClassDirectory resolves the class owning a task; satisfied by the
	// class repositories.
	ClassDirectory interface {
		GetClassByTaskID(taskID string) (class.Class, error)
	}

	// ProfileDirectory resolves author public profiles; satisfied by user.Repository.
	ProfileDirectory interface {
		GetProfilesByID(ids ...string) (map[string]user.Profile, error)
	}

	Service struct {
		repo     Repository
		tasks    TaskDirectory
		classes  ClassDirectory
		profiles ProfileDirectory
		clock    core.Clock
	}
)

func NewService(repo Repository, tasks TaskDirectory, classes ClassDirectory, profiles ProfileDirectory, clock core.Clock) *Service {
	return &Service{
		repo:     repo,
		tasks:    tasks,
		classes:  classes,
		profiles: profiles,
		clock:    clock,
	}
}

// Submit records actorID's one submission against a task and links it onto
// the task's submission list.
func (svc *Service) Submit(actorID string, ns NewSubmission) (Submission, error) {
	tsk, err := svc.tasks.GetTaskByID(ns.TaskID)
	if err != nil {
		return Submission{}, err
	}
	cls, err := svc.classes.GetClassByTaskID(tsk.ID)
	if err != nil {
		return Submission{}, err
	}
	if !cls.CanSubmit(actorID) {
		return Submission{}, ErrNotClassMember
	}

	if _, err = svc.repo.GetSubmissionByTaskAndUser(tsk.ID, actorID); err == nil {
		return Submission{}, ErrAlreadySubmitted
	} else if !core.IsNotFound(err) {
		return Submission{}, err
	}

	sub := Submission{
		TaskID:        tsk.ID,
		UserID:        actorID,
		SubmittedAt:   svc.clock.Now(),
		Document:      ns.Document,
		Feedback:      []string{},
		UserUpvotes:   []string{},
		ExpertUpvotes: []string{},
	}
	sub, err = svc.repo.CreateSubmission(sub)
	if err != nil {
		return Submission{}, err
	}

	if err = svc.tasks.AddTaskSubmission(tsk.ID, sub.ID); err != nil {
		// compensate: the submission must not outlive a failed task link
		if delErr := svc.repo.DeleteSubmission(sub.ID); delErr != nil {
			return Submission{}, core.NewPartialFailureError("submission created but not linked to task; rollback failed", delErr)
		}
		return Submission{}, errors.Wrap(err, "linking submission to task; submission rolled back")
	}
	return sub, nil
}

func (svc *Service) GetByID(id string) (Submission, error) {
	return svc.repo.GetSubmissionByID(id)
}

// ReviseDocument replaces the document reference; author only.
func (svc *Service) ReviseDocument(submissionID, actorID string, rs ReviseSubmission) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(submissionID)
	if err != nil {
		return Submission{}, err
	}
	if !sub.CanRevise(actorID) {
		return Submission{}, ErrNotAuthor
	}
	sub.Document = rs.Document
	return svc.repo.UpdateSubmission(sub)
}

// ToggleUpvote flips the voter's membership in the role-matching voter set.
// Calling it twice with the same arguments restores the prior state.
func (svc *Service) ToggleUpvote(submissionID string, tu ToggleUpvote) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(submissionID)
	if err != nil {
		return Submission{}, err
	}

	if tu.VoterRole == class.RoleExpert {
		sub.ExpertUpvotes = toggle(sub.ExpertUpvotes, tu.VoterID)
	} else {
		sub.UserUpvotes = toggle(sub.UserUpvotes, tu.VoterID)
	}
	return svc.repo.UpdateSubmission(sub)
}

func toggle(voters []string, voterID string) []string {
	for i, v := range voters {
		if v == voterID {
			return append(voters[:i], voters[i+1:]...)
		}
	}
	return append(voters, voterID)
}

// QueryByTask returns a task's submissions joined with their authors'
// public profiles.
func (svc *Service) QueryByTask(taskID string) ([]Detail, error) {
	if _, err := svc.tasks.GetTaskByID(taskID); err != nil {
		return nil, err
	}
	subs, err := svc.repo.QuerySubmissionsByTask(taskID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.UserID)
	}
	profiles, err := svc.profiles.GetProfilesByID(ids...)
	if err != nil {
		return nil, err
	}

	details := make([]Detail, 0, len(subs))
	for _, s := range subs {
		details = append(details, Detail{Submission: s, Author: profiles[s.UserID]})
	}
	return details, nil
}

// SubmittedTaskSet reports which of taskIDs uid has submitted for.
func (svc *Service) SubmittedTaskSet(uid string, taskIDs []string) (map[string]bool, error) {
	return svc.repo.QueryUserSubmittedTasks(uid, taskIDs)
}
