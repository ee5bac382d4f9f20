package dummydb

import (
	"sync"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/feedback"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		user       *userTable
		class      *classTable
		invitation *invitationTable
		task       *taskTable
		submission *submissionTable
		feedback   *feedbackTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	classTable struct {
		sync.RWMutex
		table map[string]*class.Class
	}

	invitationTable struct {
		sync.RWMutex
		table map[string]*class.Invitation
	}

	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}

	submissionTable struct {
		sync.RWMutex
		table map[string]*submission.Submission
	}

	feedbackTable struct {
		sync.RWMutex
		table map[string]*feedback.Feedback
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		class:      &classTable{table: make(map[string]*class.Class)},
		invitation: &invitationTable{table: make(map[string]*class.Invitation)},
		task:       &taskTable{table: make(map[string]*task.Task)},
		submission: &submissionTable{table: make(map[string]*submission.Submission)},
		feedback:   &feedbackTable{table: make(map[string]*feedback.Feedback)},
	}
	return db, nil
}
