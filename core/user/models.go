package user

import (
	"time"

	"github.com/trezcool/darasa/core"
)

type User struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Username       string    `json:"username" bson:"username"`
	Email          string    `json:"email" bson:"email"`
	ProfilePicture string    `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"` // UTC
}

// Profile is the public projection of a User; it never carries anything
// beyond name, email and avatar.
type Profile struct {
	ID             string `json:"id" bson:"_id,omitempty"`
	Username       string `json:"username" bson:"username"`
	Email          string `json:"email" bson:"email"`
	ProfilePicture string `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username       string `json:"username" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Username = core.CleanString(nu.Username)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkEmailUniqueness(nu.Email)
}
