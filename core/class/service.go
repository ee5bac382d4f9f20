package class

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("class not found")
	ErrAlreadyInClass = core.NewConflictError("user is already part of this class")
	ErrNotInClass     = core.NewConflictError("user is not part of this class in any role")
	ErrNotAdmin       = core.NewForbiddenError("only class admins may perform this action")
	ErrInviteNotFound = core.NewNotFoundError("invitation not found")
	ErrInviteExpired  = core.NewConflictError("invitation has expired")
	ErrInviteClosed   = core.NewConflictError("invitation has already been responded to")

	errTargetNotInClass = errors.New("target user is not part of this class")
	errTargetNotMember  = errors.New("target user is not a member of this class")
	errTargetNotExpert  = errors.New("target user is not an expert in this class")
)

type (
	Repository interface {
		ClassCodeExists(code string) (bool, error)
		CreateClass(cls Class) (Class, error)
		QueryAllClasses() ([]Class, error)
		GetClassByID(id string) (Class, error)
		GetClassByCode(code string) (Class, error)
		// QueryClassesByUser returns classes where uid is a member or an expert.
		QueryClassesByUser(uid string) ([]Class, error)
		// UpdateClass persists all mutable fields of cls in a single document write.
		UpdateClass(cls Class) (Class, error)
		DeleteClass(id string) error

		CreateInvitation(inv Invitation) (Invitation, error)
		GetInvitationByToken(token string) (Invitation, error)
		UpdateInvitationStatus(id, status string) error
	}

	// UserDirectory resolves invited users; satisfied by user.Repository.
	UserDirectory interface {
		GetUserByEmail(email string) (user.User, error)
	}

	Service struct {
		repo    Repository
		users   UserDirectory
		mailSvc core.EmailService
		clock   core.Clock
		conf    *core.Config
	}
)

func NewService(repo Repository, users UserDirectory, mailSvc core.EmailService, clock core.Clock, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		mailSvc: mailSvc,
		clock:   clock,
		conf:    conf,
	}
}

// Create persists a new class. The creator lands in both admins and members;
// the join code is retried until unique.
func (svc *Service) Create(creatorID string, nc NewClass) (Class, error) {
	code, err := svc.generateUniqueCode()
	if err != nil {
		return Class{}, err
	}
	cls := Class{
		Name:        nc.Name,
		Description: nc.Description,
		Code:        code,
		CreatedBy:   creatorID,
		CreatedAt:   svc.clock.Now(),
		Members:     []string{creatorID},
		Experts:     []string{},
		Admins:      []string{creatorID},
		Tasks:       []string{},
		Invites:     []string{},
	}
	return svc.repo.CreateClass(cls)
}

func (svc *Service) QueryAll() ([]Class, error) {
	return svc.repo.QueryAllClasses()
}

func (svc *Service) GetByID(id string) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *Service) GetByCode(code string) (Class, error) {
	return svc.repo.GetClassByCode(strings.ToUpper(core.CleanString(code)))
}

func (svc *Service) QueryByUser(uid string) ([]Class, error) {
	return svc.repo.QueryClassesByUser(uid)
}

// Update applies admin-gated partial changes; code, creator and creation
// timestamp stay untouched.
func (svc *Service) Update(id, actorID string, uc UpdateClass) (Class, error) {
	cls, err := svc.repo.GetClassByID(id)
	if err != nil {
		return Class{}, err
	}
	if !cls.CanMutate(actorID) {
		return Class{}, ErrNotAdmin
	}
	if err := uc.Validate(cls); err != nil {
		return Class{}, err
	}
	cls.Name = uc.Name
	cls.Description = uc.Description
	return svc.repo.UpdateClass(cls)
}

func (svc *Service) Delete(id, actorID string) error {
	cls, err := svc.repo.GetClassByID(id)
	if err != nil {
		return err
	}
	if !cls.CanMutate(actorID) {
		return ErrNotAdmin
	}
	return svc.repo.DeleteClass(id)
}

// Join adds uid to the member set. A user already present in any of the
// three role sets cannot join again.
func (svc *Service) Join(classID, uid string) (Class, error) {
	cls, err := svc.repo.GetClassByID(classID)
	if err != nil {
		return Class{}, err
	}
	return svc.join(cls, uid)
}

// JoinByCode is Join keyed by the human-readable class code.
func (svc *Service) JoinByCode(code, uid string) (Class, error) {
	cls, err := svc.GetByCode(code)
	if err != nil {
		return Class{}, err
	}
	return svc.join(cls, uid)
}

func (svc *Service) join(cls Class, uid string) (Class, error) {
	if cls.HasUser(uid) {
		return Class{}, ErrAlreadyInClass
	}
	cls.Members = append(cls.Members, uid)
	return svc.repo.UpdateClass(cls)
}

// Leave removes uid from whichever role sets contain it.
func (svc *Service) Leave(classID, uid string) (Class, error) {
	cls, err := svc.repo.GetClassByID(classID)
	if err != nil {
		return Class{}, err
	}
	if !cls.HasUser(uid) {
		return Class{}, ErrNotInClass
	}
	cls.Members = remove(cls.Members, uid)
	cls.Experts = remove(cls.Experts, uid)
	cls.Admins = remove(cls.Admins, uid)
	return svc.repo.UpdateClass(cls)
}

// ChangeRole moves the target between the member and expert sets in a single
// persisted write; the two sets stay disjoint throughout.
func (svc *Service) ChangeRole(classID, actorID string, cr ChangeRole) (Class, error) {
	cls, err := svc.repo.GetClassByID(classID)
	if err != nil {
		return Class{}, err
	}
	if !cls.CanMutate(actorID) {
		return Class{}, ErrNotAdmin
	}

	isMember := cls.IsMember(cr.UserID)
	isExpert := cls.IsExpert(cr.UserID)
	if !isMember && !isExpert {
		return Class{}, core.NewValidationError(errTargetNotInClass,
			core.FieldError{Field: "user_id", Error: errTargetNotInClass.Error()})
	}

	switch cr.NewRole {
	case RoleExpert:
		if !isMember {
			return Class{}, core.NewValidationError(errTargetNotMember,
				core.FieldError{Field: "user_id", Error: errTargetNotMember.Error()})
		}
		cls.Members = remove(cls.Members, cr.UserID)
		if !cls.IsExpert(cr.UserID) {
			cls.Experts = append(cls.Experts, cr.UserID)
		}
	case RoleMember:
		if !isExpert {
			return Class{}, core.NewValidationError(errTargetNotExpert,
				core.FieldError{Field: "user_id", Error: errTargetNotExpert.Error()})
		}
		cls.Experts = remove(cls.Experts, cr.UserID)
		if !cls.IsMember(cr.UserID) {
			cls.Members = append(cls.Members, cr.UserID)
		}
	}
	return svc.repo.UpdateClass(cls)
}

// Invite creates a pending invitation for a registered user and mails them
// the join link. Admin only.
func (svc *Service) Invite(classID, actorID string, ni NewInvitation) (Invitation, error) {
	cls, err := svc.repo.GetClassByID(classID)
	if err != nil {
		return Invitation{}, err
	}
	if !cls.CanMutate(actorID) {
		return Invitation{}, ErrNotAdmin
	}

	invitee, err := svc.users.GetUserByEmail(ni.Email)
	if err != nil {
		return Invitation{}, err
	}
	if cls.HasUser(invitee.ID) {
		return Invitation{}, ErrAlreadyInClass
	}

	now := svc.clock.Now()
	inv := Invitation{
		ClassID:     cls.ID,
		InvitedBy:   actorID,
		InvitedUser: invitee.ID,
		Email:       invitee.Email,
		Status:      InviteStatusPending,
		Token:       uuid.New().String(),
		ExpiresAt:   now.Add(svc.conf.InviteExpirationDelta),
		CreatedAt:   now,
	}
	inv, err = svc.repo.CreateInvitation(inv)
	if err != nil {
		return Invitation{}, err
	}

	cls.Invites = append(cls.Invites, inv.Token)
	if _, err = svc.repo.UpdateClass(cls); err != nil {
		return Invitation{}, errors.Wrap(err, "recording invite token on class")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: invitee.Username, Address: invitee.Email}},
		Subject: fmt.Sprintf("You are invited to join %q", cls.Name),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou have been invited to join the class %q.\n"+
				"Accept the invitation here: %s/invitations/%s\n\n"+
				"This invitation expires on %s.",
			invitee.Username, cls.Name, svc.conf.FrontendBaseURL, inv.Token,
			inv.ExpiresAt.Format("Jan 2, 2006"),
		),
	})
	return inv, nil
}

// RespondInvitation accepts or declines a pending invitation by token.
// Accepting joins the invitee as a member.
func (svc *Service) RespondInvitation(token string, accept bool) (Invitation, error) {
	inv, err := svc.repo.GetInvitationByToken(token)
	if err != nil {
		return Invitation{}, err
	}
	if !inv.IsPending() {
		return Invitation{}, ErrInviteClosed
	}
	if inv.IsExpired(svc.clock.Now()) {
		if err = svc.repo.UpdateInvitationStatus(inv.ID, InviteStatusExpired); err != nil {
			return Invitation{}, errors.Wrap(err, "expiring invitation")
		}
		return Invitation{}, ErrInviteExpired
	}

	cls, err := svc.repo.GetClassByID(inv.ClassID)
	if err != nil {
		return Invitation{}, err
	}

	status := InviteStatusDeclined
	if accept {
		if cls.HasUser(inv.InvitedUser) {
			return Invitation{}, ErrAlreadyInClass
		}
		cls.Members = append(cls.Members, inv.InvitedUser)
		status = InviteStatusAccepted
	}
	cls.Invites = remove(cls.Invites, inv.Token)
	if _, err = svc.repo.UpdateClass(cls); err != nil {
		return Invitation{}, err
	}
	if err = svc.repo.UpdateInvitationStatus(inv.ID, status); err != nil {
		return Invitation{}, errors.Wrap(err, "updating invitation status")
	}
	inv.Status = status
	return inv, nil
}
