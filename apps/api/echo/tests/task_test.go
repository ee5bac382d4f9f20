package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/task"
	"github.com/trezcool/darasa/tests"
)

func Test_taskApi_create(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "tsk-alice", "tsk-alice@test.cd")
	outsider := testutil.CreateUser(t, usrSvc, "tsk-eve", "tsk-eve@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Task 101")

	data := task.NewTask{
		ClassID:     cls.ID,
		Title:       "Chapter 1",
		Description: "Read and summarize",
		DueAt:       time.Now().Add(24 * time.Hour),
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/tasks", getToken(t, creator), marshallObj(t, data))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusCreated)

	var tsk task.Task
	decodeData(t, rec, &tsk)
	if tsk.Status != task.StatusOngoing {
		t.Errorf("status = %q; want %q", tsk.Status, task.StatusOngoing)
	}

	// past due date is rejected up front
	past := data
	past.DueAt = time.Now().Add(-time.Hour)
	req, rec = newAuthRequest(http.MethodPost, "/v1/tasks", getToken(t, creator), marshallObj(t, past))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusBadRequest)

	// non-members cannot create tasks
	req, rec = newAuthRequest(http.MethodPost, "/v1/tasks", getToken(t, outsider), marshallObj(t, data))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusForbidden)
}

func Test_taskApi_update(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "tup-alice", "tup-alice@test.cd")
	bob := testutil.CreateUser(t, usrSvc, "tup-bob", "tup-bob@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Task Update 101")
	testutil.JoinClass(t, clsSvc, cls, bob)
	tsk := testutil.CreateTask(t, tskSvc, creator, cls, "Chapter 1", time.Now().Add(24*time.Hour))

	body := marshallObj(t, map[string]string{"title": "Chapter 2"})

	// creator only
	req, rec := newAuthRequest(http.MethodPut, "/v1/tasks/"+tsk.ID, getToken(t, bob), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusForbidden)

	req, rec = newAuthRequest(http.MethodPut, "/v1/tasks/"+tsk.ID, getToken(t, creator), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var got task.Task
	decodeData(t, rec, &got)
	if got.Title != "Chapter 2" {
		t.Errorf("title = %q; want %q", got.Title, "Chapter 2")
	}
}

func Test_taskApi_destroy(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "tdel-alice", "tdel-alice@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Task Delete 101")
	tsk := testutil.CreateTask(t, tskSvc, creator, cls, "Chapter 1", time.Now().Add(24*time.Hour))

	req, rec := newAuthRequest(http.MethodDelete, "/v1/tasks/"+tsk.ID, getToken(t, creator))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	req, rec = newAuthRequest(http.MethodGet, "/v1/tasks/"+tsk.ID, getToken(t, creator))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusNotFound)
}

func Test_taskApi_queryByClass(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "tq-alice", "tq-alice@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Task Query 101")
	testutil.CreateTask(t, tskSvc, creator, cls, "Chapter 1", time.Now().Add(24*time.Hour))

	req, rec := newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID+"/tasks", getToken(t, creator))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var tasks task.ClassTasks
	decodeData(t, rec, &tasks)
	if len(tasks.Active) != 1 || len(tasks.Completed) != 0 {
		t.Errorf("active = %d, completed = %d; want 1, 0", len(tasks.Active), len(tasks.Completed))
	}
}
