package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/feedback"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/tests"
)

func Test_submissionApi_create(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "sub-alice", "sub-alice@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Sub 101")
	tsk := testutil.CreateTask(t, tskSvc, creator, cls, "Chapter 1", time.Now().Add(24*time.Hour))

	body := marshallObj(t, submission.NewSubmission{TaskID: tsk.ID, Document: "https://docs.test.cd/a.pdf"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/submissions", getToken(t, creator), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusCreated)

	var sub submission.Submission
	decodeData(t, rec, &sub)
	if sub.TaskID != tsk.ID || sub.UserID != creator.ID {
		t.Errorf("unexpected submission: %+v", sub)
	}

	// one submission per (task, user)
	req, rec = newAuthRequest(http.MethodPost, "/v1/submissions", getToken(t, creator), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusConflict)
}

func Test_submissionApi_upvote(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "up-alice", "up-alice@test.cd")
	bob := testutil.CreateUser(t, usrSvc, "up-bob", "up-bob@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Upvote 101")
	testutil.JoinClass(t, clsSvc, cls, bob)
	tsk := testutil.CreateTask(t, tskSvc, creator, cls, "Chapter 1", time.Now().Add(24*time.Hour))
	sub := testutil.CreateSubmission(t, subSvc, creator, tsk)

	path := "/v1/submissions/" + sub.ID + "/upvote"
	body := marshallObj(t, map[string]string{"user_role": class.RoleMember})

	req, rec := newAuthRequest(http.MethodPost, path, getToken(t, bob), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var got submission.Submission
	decodeData(t, rec, &got)
	if len(got.UserUpvotes) != 1 || got.UserUpvotes[0] != bob.ID {
		t.Errorf("user_upvotes = %v; want [%s]", got.UserUpvotes, bob.ID)
	}

	// toggling again removes the vote
	req, rec = newAuthRequest(http.MethodPost, path, getToken(t, bob), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)
	decodeData(t, rec, &got)
	if len(got.UserUpvotes) != 0 {
		t.Errorf("user_upvotes = %v; want []", got.UserUpvotes)
	}
}

func Test_submissionApi_queryByTask(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "sq-alice", "sq-alice@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "SubQuery 101")
	tsk := testutil.CreateTask(t, tskSvc, creator, cls, "Chapter 1", time.Now().Add(24*time.Hour))
	testutil.CreateSubmission(t, subSvc, creator, tsk)

	req, rec := newAuthRequest(http.MethodGet, "/v1/tasks/"+tsk.ID+"/submissions", getToken(t, creator))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var details []submission.Detail
	decodeData(t, rec, &details)
	if len(details) != 1 {
		t.Fatalf("submissions = %d; want 1", len(details))
	}
	if details[0].Author.Username != creator.Username {
		t.Errorf("author = %q; want %q", details[0].Author.Username, creator.Username)
	}
}

func Test_feedbackApi(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "fb-alice", "fb-alice@test.cd")
	bob := testutil.CreateUser(t, usrSvc, "fb-bob", "fb-bob@test.cd")
	outsider := testutil.CreateUser(t, usrSvc, "fb-eve", "fb-eve@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Feedback 101")
	testutil.JoinClass(t, clsSvc, cls, bob)
	tsk := testutil.CreateTask(t, tskSvc, creator, cls, "Chapter 1", time.Now().Add(24*time.Hour))
	sub := testutil.CreateSubmission(t, subSvc, creator, tsk)

	body := marshallObj(t, feedback.NewFeedback{SubmissionID: sub.ID, Content: "Well done"})

	// class participants only
	req, rec := newAuthRequest(http.MethodPost, "/v1/feedbacks", getToken(t, outsider), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusForbidden)

	req, rec = newAuthRequest(http.MethodPost, "/v1/feedbacks", getToken(t, bob), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusCreated)

	var fb feedback.Feedback
	decodeData(t, rec, &fb)
	if fb.IsEdited {
		t.Error("is_edited = true on a fresh feedback")
	}

	// edits are author-only and flip the edited flag
	editBody := marshallObj(t, feedback.EditFeedback{Content: "Actually..."})
	req, rec = newAuthRequest(http.MethodPut, "/v1/feedbacks/"+fb.ID, getToken(t, creator), editBody)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusForbidden)

	req, rec = newAuthRequest(http.MethodPut, "/v1/feedbacks/"+fb.ID, getToken(t, bob), editBody)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)
	decodeData(t, rec, &fb)
	if !fb.IsEdited || fb.Content != "Actually..." {
		t.Errorf("unexpected feedback after edit: %+v", fb)
	}

	// listing joins author profiles
	req, rec = newAuthRequest(http.MethodGet, "/v1/submissions/"+sub.ID+"/feedbacks", getToken(t, creator))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var details []feedback.Detail
	decodeData(t, rec, &details)
	if len(details) != 1 {
		t.Fatalf("feedbacks = %d; want 1", len(details))
	}
	if details[0].Author.Username != bob.Username {
		t.Errorf("author = %q; want %q", details[0].Author.Username, bob.Username)
	}
}
