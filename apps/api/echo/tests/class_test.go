package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/tests"
)

func Test_classApi_create(t *testing.T) {
	usr := testutil.CreateUser(t, usrSvc, "cls-alice", "cls-alice@test.cd")

	body := marshallObj(t, class.NewClass{Name: "Go 101", Description: "Intro to Go"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/classes", getToken(t, usr), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusCreated)

	var cls class.Class
	decodeData(t, rec, &cls)
	if len(cls.Code) != 8 {
		t.Errorf("class_code = %q; want 8 chars", cls.Code)
	}
	if !cls.IsAdmin(usr.ID) || !cls.IsMember(usr.ID) {
		t.Errorf("creator not in admins+members: %+v", cls)
	}

	// missing fields
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes", getToken(t, usr), marshallObj(t, class.NewClass{}))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusBadRequest)

	// auth required
	req, rec = newRequest(http.MethodPost, "/v1/classes", body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusUnauthorized)
}

func Test_classApi_joinByCode(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "join-alice", "join-alice@test.cd")
	bob := testutil.CreateUser(t, usrSvc, "join-bob", "join-bob@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Join 101")

	body := marshallObj(t, map[string]string{"class_code": cls.Code})
	req, rec := newAuthRequest(http.MethodPost, "/v1/classes/join", getToken(t, bob), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var got class.Class
	decodeData(t, rec, &got)
	if !got.IsMember(bob.ID) {
		t.Errorf("bob not a member: %+v", got)
	}

	// joining twice conflicts
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes/join", getToken(t, bob), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusConflict)

	// unknown code
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes/join", getToken(t, bob), marshallObj(t, map[string]string{"class_code": "NOPE1234"}))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusNotFound)
}

func Test_classApi_changeRole(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "role-alice", "role-alice@test.cd")
	bob := testutil.CreateUser(t, usrSvc, "role-bob", "role-bob@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Role 101")
	testutil.JoinClass(t, clsSvc, cls, bob)

	path := fmt.Sprintf("/v1/classes/%s/change-role", cls.ID)
	body := marshallObj(t, class.ChangeRole{UserID: bob.ID, NewRole: class.RoleExpert})

	// only admins
	req, rec := newAuthRequest(http.MethodPost, path, getToken(t, bob), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusForbidden)

	req, rec = newAuthRequest(http.MethodPost, path, getToken(t, creator), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var got class.Class
	decodeData(t, rec, &got)
	if !got.IsExpert(bob.ID) || got.IsMember(bob.ID) {
		t.Errorf("role sets not disjoint after promotion: %+v", got)
	}
}

func Test_classApi_leave(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "leave-alice", "leave-alice@test.cd")
	bob := testutil.CreateUser(t, usrSvc, "leave-bob", "leave-bob@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Leave 101")
	testutil.JoinClass(t, clsSvc, cls, bob)

	path := fmt.Sprintf("/v1/classes/%s/leave", cls.ID)
	req, rec := newAuthRequest(http.MethodPost, path, getToken(t, bob))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var got class.Class
	decodeData(t, rec, &got)
	if got.HasUser(bob.ID) {
		t.Errorf("bob still in class: %+v", got)
	}

	// leaving again conflicts
	req, rec = newAuthRequest(http.MethodPost, path, getToken(t, bob))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusConflict)
}

func Test_classApi_retrieve(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "det-alice", "det-alice@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Detail 101")
	t1 := testutil.CreateTask(t, tskSvc, creator, cls, "Submitted task", time.Now().Add(24*time.Hour))
	testutil.CreateTask(t, tskSvc, creator, cls, "Pending task", time.Now().Add(24*time.Hour))
	testutil.CreateSubmission(t, subSvc, creator, t1)

	req, rec := newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID, getToken(t, creator))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var detail struct {
		class.Class
		ActiveTasks []struct {
			ID          string `json:"id"`
			IsSubmitted bool   `json:"is_submitted"`
		} `json:"active_tasks"`
	}
	decodeData(t, rec, &detail)
	if detail.ID != cls.ID {
		t.Fatalf("class.ID = %q; want %q", detail.ID, cls.ID)
	}
	if len(detail.ActiveTasks) != 2 {
		t.Fatalf("active_tasks = %d; want 2", len(detail.ActiveTasks))
	}
	for _, tsk := range detail.ActiveTasks {
		want := tsk.ID == t1.ID
		if tsk.IsSubmitted != want {
			t.Errorf("task %s is_submitted = %v; want %v", tsk.ID, tsk.IsSubmitted, want)
		}
	}

	// unknown class
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/unknown", getToken(t, creator))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusNotFound)
}

func Test_classApi_invitations(t *testing.T) {
	creator := testutil.CreateUser(t, usrSvc, "inv-alice", "inv-alice@test.cd")
	bob := testutil.CreateUser(t, usrSvc, "inv-bob", "inv-bob@test.cd")
	cls := testutil.CreateClass(t, clsSvc, creator, "Invite 101")

	path := fmt.Sprintf("/v1/classes/%s/invitations", cls.ID)
	body := marshallObj(t, class.NewInvitation{Email: bob.Email})

	// only admins may invite
	req, rec := newAuthRequest(http.MethodPost, path, getToken(t, bob), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusForbidden)

	req, rec = newAuthRequest(http.MethodPost, path, getToken(t, creator), body)
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusCreated)

	var inv class.Invitation
	decodeData(t, rec, &inv)
	if inv.Status != class.InviteStatusPending || inv.Token == "" {
		t.Fatalf("unexpected invitation: %+v", inv)
	}

	// accept joins bob as a member
	req, rec = newAuthRequest(http.MethodPost, "/v1/invitations/"+inv.Token+"/accept", getToken(t, bob))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	got, err := clsSvc.GetByID(cls.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if !got.IsMember(bob.ID) {
		t.Errorf("bob not a member after accepting: %+v", got)
	}

	// a responded invitation is closed
	req, rec = newAuthRequest(http.MethodPost, "/v1/invitations/"+inv.Token+"/decline", getToken(t, bob))
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusConflict)
}
