package feedback_test

import (
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/feedback"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database/dummy"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type fbFixture struct {
	svc     *feedback.Service
	subRepo feedback.SubmissionDirectory
	clock   *fixedClock

	author     user.User
	expert     user.User
	submission submission.Submission
}

func newFbFixture(t *testing.T) *fbFixture {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := core.NewTestConfig()
	clock := &fixedClock{t: time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC)}
	logger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))

	usrRepo := dummydb.NewUserRepository(db)
	clsRepo := dummydb.NewClassRepository(db)
	tskRepo := dummydb.NewTaskRepository(db)
	subRepo := dummydb.NewSubmissionRepository(db)
	fbRepo := dummydb.NewFeedbackRepository(db)

	clsSvc := class.NewService(clsRepo, usrRepo, emailsvc.NewConsoleServiceMock(conf), clock, conf)
	tskSvc := task.NewService(tskRepo, clsRepo, clock, logger)
	subSvc := submission.NewService(subRepo, tskRepo, clsRepo, usrRepo, clock)
	svc := feedback.NewService(fbRepo, subRepo, clsRepo, usrRepo, clock)

	author, err := usrRepo.CreateUser(user.User{Username: "bob", Email: "bob@test.cd"})
	require.NoError(t, err)
	expert, err := usrRepo.CreateUser(user.User{Username: "eve", Email: "eve@test.cd"})
	require.NoError(t, err)

	cls, err := clsSvc.Create(author.ID, class.NewClass{Name: "Go 101", Description: "Intro to Go"})
	require.NoError(t, err)
	_, err = clsSvc.Join(cls.ID, expert.ID)
	require.NoError(t, err)
	_, err = clsSvc.ChangeRole(cls.ID, author.ID, class.ChangeRole{UserID: expert.ID, NewRole: class.RoleExpert})
	require.NoError(t, err)

	tsk, err := tskSvc.Create(author.ID, task.NewTask{
		ClassID:     cls.ID,
		Title:       "Chapter 1",
		Description: "Read and summarize",
		DueAt:       clock.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	sub, err := subSvc.Submit(author.ID, submission.NewSubmission{
		TaskID:   tsk.ID,
		Document: "https://docs.test.cd/answer.pdf",
	})
	require.NoError(t, err)

	return &fbFixture{
		svc:        svc,
		subRepo:    subRepo,
		clock:      clock,
		author:     author,
		expert:     expert,
		submission: sub,
	}
}

func TestService_Add(t *testing.T) {
	f := newFbFixture(t)

	fb, err := f.svc.Add(f.expert.ID, feedback.NewFeedback{SubmissionID: f.submission.ID, Content: "Well done"})
	require.NoError(t, err)
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, f.expert.ID, fb.UserID)
	assert.Equal(t, f.clock.Now(), fb.CreatedAt)
	assert.False(t, fb.IsEdited)

	// back-reference on the submission
	sub, err := f.subRepo.GetSubmissionByID(f.submission.ID)
	require.NoError(t, err)
	assert.Contains(t, sub.Feedback, fb.ID)
}

func TestService_Add_notClassMember(t *testing.T) {
	f := newFbFixture(t)

	_, err := f.svc.Add("outsider", feedback.NewFeedback{SubmissionID: f.submission.ID, Content: "Well done"})
	assert.True(t, core.IsForbidden(err))
}

func TestService_Edit(t *testing.T) {
	f := newFbFixture(t)
	fb, err := f.svc.Add(f.expert.ID, feedback.NewFeedback{SubmissionID: f.submission.ID, Content: "Well done"})
	require.NoError(t, err)

	// author only
	_, err = f.svc.Edit(fb.ID, f.author.ID, feedback.EditFeedback{Content: "Actually..."})
	assert.True(t, core.IsForbidden(err))

	got, err := f.svc.Edit(fb.ID, f.expert.ID, feedback.EditFeedback{Content: "Actually..."})
	require.NoError(t, err)
	assert.Equal(t, "Actually...", got.Content)
	assert.True(t, got.IsEdited)
}

func TestService_QueryBySubmission(t *testing.T) {
	f := newFbFixture(t)

	fb1, err := f.svc.Add(f.expert.ID, feedback.NewFeedback{SubmissionID: f.submission.ID, Content: "First"})
	require.NoError(t, err)
	f.clock.t = f.clock.t.Add(time.Minute)
	fb2, err := f.svc.Add(f.author.ID, feedback.NewFeedback{SubmissionID: f.submission.ID, Content: "Second"})
	require.NoError(t, err)

	details, err := f.svc.QueryBySubmission(f.submission.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, fb1.ID, details[0].ID)
	assert.Equal(t, f.expert.Username, details[0].Author.Username)
	assert.Equal(t, fb2.ID, details[1].ID)
	assert.Equal(t, f.author.Username, details[1].Author.Username)

	_, err = f.svc.QueryBySubmission("unknown")
	assert.True(t, core.IsNotFound(err))
}
