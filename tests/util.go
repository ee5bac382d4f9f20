package testutil

import (
	"testing"
	"time"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
	"github.com/trezcool/darasa/core/user"
)

func CreateUser(t *testing.T, svc *user.Service, username, email string) user.User {
	t.Helper()
	usr, err := svc.Register(user.NewUser{Username: username, Email: email})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClass(t *testing.T, svc *class.Service, creator user.User, name string) class.Class {
	t.Helper()
	cls, err := svc.Create(creator.ID, class.NewClass{Name: name, Description: name + " description"})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func JoinClass(t *testing.T, svc *class.Service, cls class.Class, usr user.User) class.Class {
	t.Helper()
	cls, err := svc.Join(cls.ID, usr.ID)
	if err != nil {
		t.Fatalf("JoinClass() failed: %v", err)
	}
	return cls
}

func CreateTask(t *testing.T, svc *task.Service, creator user.User, cls class.Class, title string, due time.Time) task.Task {
	t.Helper()
	tsk, err := svc.Create(creator.ID, task.NewTask{
		ClassID:     cls.ID,
		Title:       title,
		Description: title + " description",
		DueAt:       due,
	})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return tsk
}

func CreateSubmission(t *testing.T, svc *submission.Service, author user.User, tsk task.Task) submission.Submission {
	t.Helper()
	sub, err := svc.Submit(author.ID, submission.NewSubmission{
		TaskID:   tsk.ID,
		Document: "https://docs.test.cd/answer.pdf",
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}
