package mongorepos

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
)

type classRepository struct {
	coll    *mongo.Collection
	invites *mongo.Collection
}

// interface compliance checks
var (
	_ class.Repository          = (*classRepository)(nil)
	_ task.ClassDirectory       = (*classRepository)(nil)
	_ submission.ClassDirectory = (*classRepository)(nil)
)

func NewClassRepository(db *mongo.Database) *classRepository {
	return &classRepository{
		coll:    db.Collection(classCollection),
		invites: db.Collection(invitationCollection),
	}
}

func (repo *classRepository) ClassCodeExists(code string) (bool, error) {
	ctx, cancel := opCtx()
	defer cancel()

	n, err := repo.coll.CountDocuments(ctx, bson.M{"class_code": code})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (repo *classRepository) CreateClass(cls class.Class) (class.Class, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cls.ID = primitive.NewObjectID().Hex()
	if _, err := repo.coll.InsertOne(ctx, cls); err != nil {
		return class.Class{}, err
	}
	return cls, nil
}

func (repo *classRepository) QueryAllClasses() ([]class.Class, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cur, err := repo.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	classes := make([]class.Class, 0)
	if err = cur.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (repo *classRepository) getClass(filter bson.M) (class.Class, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var cls class.Class
	if err := repo.coll.FindOne(ctx, filter).Decode(&cls); err != nil {
		if err == mongo.ErrNoDocuments {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, err
	}
	return cls, nil
}

func (repo *classRepository) GetClassByID(id string) (class.Class, error) {
	return repo.getClass(bson.M{"_id": id})
}

func (repo *classRepository) GetClassByCode(code string) (class.Class, error) {
	return repo.getClass(bson.M{"class_code": code})
}

func (repo *classRepository) GetClassByTaskID(taskID string) (class.Class, error) {
	return repo.getClass(bson.M{"tasks": taskID})
}

func (repo *classRepository) QueryClassesByUser(uid string) ([]class.Class, error) {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"members": uid},
		bson.M{"experts": uid},
	}}
	cur, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	classes := make([]class.Class, 0)
	if err = cur.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// UpdateClass replaces all mutable fields in one atomic document write;
// code, creator and creation timestamp are never touched.
func (repo *classRepository) UpdateClass(cls class.Class) (class.Class, error) {
	ctx, cancel := opCtx()
	defer cancel()

	update := bson.M{"$set": bson.M{
		"class_name":  cls.Name,
		"description": cls.Description,
		"members":     cls.Members,
		"experts":     cls.Experts,
		"admins":      cls.Admins,
		"invites":     cls.Invites,
	}}
	res, err := repo.coll.UpdateByID(ctx, cls.ID, update)
	if err != nil {
		return class.Class{}, err
	}
	if res.MatchedCount == 0 {
		return class.Class{}, class.ErrNotFound
	}
	return repo.GetClassByID(cls.ID)
}

func (repo *classRepository) DeleteClass(id string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return class.ErrNotFound
	}
	return nil
}

func (repo *classRepository) AddClassTask(classID, taskID string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := repo.coll.UpdateByID(ctx, classID, bson.M{"$push": bson.M{"tasks": taskID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return class.ErrNotFound
	}
	return nil
}

func (repo *classRepository) RemoveClassTask(classID, taskID string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := repo.coll.UpdateByID(ctx, classID, bson.M{"$pull": bson.M{"tasks": taskID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return class.ErrNotFound
	}
	return nil
}

func (repo *classRepository) CreateInvitation(inv class.Invitation) (class.Invitation, error) {
	ctx, cancel := opCtx()
	defer cancel()

	inv.ID = primitive.NewObjectID().Hex()
	if _, err := repo.invites.InsertOne(ctx, inv); err != nil {
		return class.Invitation{}, err
	}
	return inv, nil
}

func (repo *classRepository) GetInvitationByToken(token string) (class.Invitation, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var inv class.Invitation
	if err := repo.invites.FindOne(ctx, bson.M{"token": token}).Decode(&inv); err != nil {
		if err == mongo.ErrNoDocuments {
			return class.Invitation{}, class.ErrInviteNotFound
		}
		return class.Invitation{}, err
	}
	return inv, nil
}

func (repo *classRepository) UpdateInvitationStatus(id, status string) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := repo.invites.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return class.ErrInviteNotFound
	}
	return nil
}
