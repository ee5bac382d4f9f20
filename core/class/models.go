package class

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Roles assignable within a class. Admins are a separate overlay set: the
// creator sits in both admins and members, and role changes never touch it.
const (
	RoleMember = "member"
	RoleExpert = "expert"
)

// Invitation statuses
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
	InviteStatusExpired  = "expired"
)

type Class struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"class_name" bson:"class_name"`
	Description string    `json:"description" bson:"description"`
	Code        string    `json:"class_code" bson:"class_code"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"` // UTC
	Members     []string  `json:"members" bson:"members"`
	Experts     []string  `json:"experts" bson:"experts"`
	Admins      []string  `json:"admins" bson:"admins"`
	Tasks       []string  `json:"tasks" bson:"tasks"`
	Invites     []string  `json:"invites" bson:"invites"`
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (c Class) IsMember(uid string) bool { return contains(c.Members, uid) }
func (c Class) IsExpert(uid string) bool { return contains(c.Experts, uid) }
func (c Class) IsAdmin(uid string) bool  { return contains(c.Admins, uid) }

// HasUser reports whether uid appears in any of the three role sets.
func (c Class) HasUser(uid string) bool {
	return c.IsMember(uid) || c.IsExpert(uid) || c.IsAdmin(uid)
}

// CanSubmit reports whether uid may create tasks and submissions in this class.
func (c Class) CanSubmit(uid string) bool {
	return c.IsMember(uid) || c.IsExpert(uid)
}

// CanMutate reports whether uid may change class details, roles or invites.
func (c Class) CanMutate(uid string) bool { return c.IsAdmin(uid) }

type Invitation struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ClassID     string    `json:"class_id" bson:"class_id"`
	InvitedBy   string    `json:"invited_by" bson:"invited_by"`
	InvitedUser string    `json:"invited_user" bson:"invited_user"`
	Email       string    `json:"email" bson:"email"`
	Status      string    `json:"status" bson:"status"`
	Token       string    `json:"token" bson:"token"`
	ExpiresAt   time.Time `json:"expires_at" bson:"expires_at"` // UTC
	CreatedAt   time.Time `json:"created_at" bson:"created_at"` // UTC
}

func (inv Invitation) IsPending() bool { return inv.Status == InviteStatusPending }

func (inv Invitation) IsExpired(now time.Time) bool { return now.After(inv.ExpiresAt) }

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name        string `json:"class_name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing
// Class. Code, creator and creation timestamp are immutable.
type UpdateClass struct {
	Name        string `json:"class_name"`
	Description string `json:"description"`
}

func (uc *UpdateClass) Validate(orig Class) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	return core.Validate.Struct(uc)
}

// NewInvitation contains information needed to invite a user to a Class.
type NewInvitation struct {
	Email string `json:"email" validate:"required,email"`
}

func (ni *NewInvitation) Validate() error {
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	return core.Validate.Struct(ni)
}

// ChangeRole is a request to move a user between the member and expert sets.
type ChangeRole struct {
	UserID  string `json:"user_id" validate:"required"`
	NewRole string `json:"new_role" validate:"required,oneof=member expert"`
}

func (cr *ChangeRole) Validate() error {
	cr.UserID = core.CleanString(cr.UserID)
	cr.NewRole = core.CleanString(cr.NewRole, true /* lower */)
	return core.Validate.Struct(cr)
}
