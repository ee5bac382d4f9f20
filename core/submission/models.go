package submission

import (
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type Submission struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	TaskID      string    `json:"task_id" bson:"task_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"` // UTC
	Document    string    `json:"document" bson:"document"`
	Feedback    []string  `json:"feedback" bson:"feedback"`

	// Independent voter sets; a voter id appears at most once per set.
	// Read-modify-write without optimistic locking: concurrent toggles from
	// the same voter are last-write-wins.
	UserUpvotes   []string `json:"user_upvotes" bson:"user_upvotes"`
	ExpertUpvotes []string `json:"expert_upvotes" bson:"expert_upvotes"`
}

// CanRevise reports whether uid may replace this submission's document.
func (s Submission) CanRevise(uid string) bool { return s.UserID == uid }

// Detail is a Submission joined with its author's public profile.
type Detail struct {
	Submission
	Author user.Profile `json:"user"`
}

// NewSubmission contains information needed to submit against a task.
type NewSubmission struct {
	TaskID   string `json:"task_id" validate:"required"`
	Document string `json:"document" validate:"required,url"`
}

func (ns *NewSubmission) Validate() error {
	ns.TaskID = core.CleanString(ns.TaskID)
	ns.Document = core.CleanString(ns.Document)
	return core.Validate.Struct(ns)
}

// ReviseSubmission replaces the document reference only.
type ReviseSubmission struct {
	Document string `json:"document" validate:"required,url"`
}

func (rs *ReviseSubmission) Validate() error {
	rs.Document = core.CleanString(rs.Document)
	return core.Validate.Struct(rs)
}

// ToggleUpvote selects a voter set by role and flips the voter's membership.
type ToggleUpvote struct {
	VoterID   string `json:"user_id" validate:"required"`
	VoterRole string `json:"user_role" validate:"required,oneof=member expert"`
}

func (tu *ToggleUpvote) Validate() error {
	tu.VoterID = core.CleanString(tu.VoterID)
	tu.VoterRole = core.CleanString(tu.VoterRole, true /* lower */)
	return core.Validate.Struct(tu)
}
