package mongorepos

import (
	"context"
	"time"
)

// Collection names
const (
	userCollection       = "users"
	classCollection      = "classes"
	invitationCollection = "invitations"
	taskCollection       = "tasks"
	submissionCollection = "submissions"
	feedbackCollection   = "feedbacks"
)

// opTimeout bounds every single storage call; timeouts are this client's
// responsibility, not the services'.
const opTimeout = 5 * time.Second

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
