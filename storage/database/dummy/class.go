package dummydb

import (
	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
)

type classRepository struct {
	db      *classTable
	invites *invitationTable
}

// interface compliance checks
var (
	_ class.Repository          = (*classRepository)(nil)
	_ task.ClassDirectory       = (*classRepository)(nil)
	_ submission.ClassDirectory = (*classRepository)(nil)
)

func NewClassRepository(db *DB) *classRepository {
	return &classRepository{db: db.class, invites: db.invitation}
}

func (repo *classRepository) ClassCodeExists(code string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.table {
		if cls.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (repo *classRepository) CreateClass(cls class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cls.ID = uuid.New().String()
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) QueryAllClasses() ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]class.Class, 0, len(repo.db.table))
	for _, cls := range repo.db.table {
		classes = append(classes, *cls)
	}
	return classes, nil
}

func (repo *classRepository) GetClassByID(id string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.db.table[id]; ok {
		return *cls, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) GetClassByCode(code string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.table {
		if cls.Code == code {
			return *cls, nil
		}
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) GetClassByTaskID(taskID string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.table {
		for _, tid := range cls.Tasks {
			if tid == taskID {
				return *cls, nil
			}
		}
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) QueryClassesByUser(uid string) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]class.Class, 0)
	for _, cls := range repo.db.table {
		if cls.IsMember(uid) || cls.IsExpert(uid) {
			classes = append(classes, *cls)
		}
	}
	return classes, nil
}

func (repo *classRepository) UpdateClass(cls class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[cls.ID]
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	stored.Name = cls.Name
	stored.Description = cls.Description
	stored.Members = cls.Members
	stored.Experts = cls.Experts
	stored.Admins = cls.Admins
	stored.Invites = cls.Invites
	return *stored, nil
}

func (repo *classRepository) DeleteClass(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return class.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *classRepository) AddClassTask(classID, taskID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	cls, ok := repo.db.table[classID]
	if !ok {
		return class.ErrNotFound
	}
	cls.Tasks = append(cls.Tasks, taskID)
	return nil
}

func (repo *classRepository) RemoveClassTask(classID, taskID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	cls, ok := repo.db.table[classID]
	if !ok {
		return class.ErrNotFound
	}
	tasks := make([]string, 0, len(cls.Tasks))
	for _, tid := range cls.Tasks {
		if tid != taskID {
			tasks = append(tasks, tid)
		}
	}
	cls.Tasks = tasks
	return nil
}

func (repo *classRepository) CreateInvitation(inv class.Invitation) (class.Invitation, error) {
	repo.invites.Lock()
	defer repo.invites.Unlock()

	inv.ID = uuid.New().String()
	repo.invites.table[inv.ID] = &inv
	return inv, nil
}

func (repo *classRepository) GetInvitationByToken(token string) (class.Invitation, error) {
	repo.invites.RLock()
	defer repo.invites.RUnlock()

	for _, inv := range repo.invites.table {
		if inv.Token == token {
			return *inv, nil
		}
	}
	return class.Invitation{}, class.ErrInviteNotFound
}

func (repo *classRepository) UpdateInvitationStatus(id, status string) error {
	repo.invites.Lock()
	defer repo.invites.Unlock()

	inv, ok := repo.invites.table[id]
	if !ok {
		return class.ErrInviteNotFound
	}
	inv.Status = status
	return nil
}
