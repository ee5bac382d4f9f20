package feedback

import (
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type Feedback struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	SubmissionID string    `json:"submission_id" bson:"submission_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Content      string    `json:"content" bson:"content"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"` // UTC
	IsEdited     bool      `json:"is_edited" bson:"is_edited"`
}

// CanEdit reports whether uid may edit this feedback's content.
func (fb Feedback) CanEdit(uid string) bool { return fb.UserID == uid }

// Detail is a Feedback joined with its author's public profile.
type Detail struct {
	Feedback
	Author user.Profile `json:"user_info"`
}

// NewFeedback contains information needed to attach feedback to a submission.
type NewFeedback struct {
	SubmissionID string `json:"submission_id" validate:"required"`
	Content      string `json:"content" validate:"required"`
}

func (nf *NewFeedback) Validate() error {
	nf.SubmissionID = core.CleanString(nf.SubmissionID)
	nf.Content = core.CleanString(nf.Content)
	return core.Validate.Struct(nf)
}

// EditFeedback replaces the content; the edited flag is set on success.
type EditFeedback struct {
	Content string `json:"content" validate:"required"`
}

func (ef *EditFeedback) Validate() error {
	ef.Content = core.CleanString(ef.Content)
	return core.Validate.Struct(ef)
}
