package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

const collectionEngineers = "engineers"

// engineerSchema is installed as the collection validator so malformed
// documents are rejected by the store itself.
var engineerSchema = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"name", "available"},
		"properties": bson.M{
			"name":             bson.M{"bsonType": "string", "minLength": 1},
			"specialty":        bson.M{"bsonType": "string"},
			"years_experience": bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0},
			"available":        bson.M{"bsonType": "bool"},
		},
	},
}

type EngineerRepository struct {
	col *mongo.Collection
}

func NewEngineerRepository(db *mongo.Database) *EngineerRepository {
	return &EngineerRepository{col: db.Collection(collectionEngineers)}
}

type mongoEngineer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Specialty       string             `bson:"specialty"`
	YearsExperience float64            `bson:"years_experience"`
	Available       bool               `bson:"available"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (me *mongoEngineer) toDomain() *domain.Engineer {
	return &domain.Engineer{
		ID:              me.ID.Hex(),
		Name:            me.Name,
		Specialty:       me.Specialty,
		YearsExperience: me.YearsExperience,
		Available:       me.Available,
		CreatedAt:       me.CreatedAt.UTC(),
		UpdatedAt:       me.UpdatedAt.UTC(),
	}
}

// Create inserts a new engineer document.
func (r *EngineerRepository) Create(ctx context.Context, e *domain.Engineer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoEngineer{
		ID:              primitive.NewObjectID(),
		Name:            e.Name,
		Specialty:       e.Specialty,
		YearsExperience: e.YearsExperience,
		Available:       e.Available,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if isValidationError(err) {
			return fmt.Errorf("%w: rejected by store", domain.ErrValidation)
		}
		return fmt.Errorf("insert engineer: %w", err)
	}

	e.ID = doc.ID.Hex()
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (r *EngineerRepository) FindAll(ctx context.Context) ([]*domain.Engineer, error) {
	return r.find(ctx, bson.M{})
}

// FindByIDs skips malformed and unknown ids, so dangling ownership
// references never surface.
func (r *EngineerRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Engineer, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.Engineer{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *EngineerRepository) find(ctx context.Context, filter bson.M) ([]*domain.Engineer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find engineers: %w", err)
	}

	var docs []mongoEngineer
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode engineers: %w", err)
	}

	out := make([]*domain.Engineer, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// FindByID reports domain.ErrEngineerNotFound for malformed ids as well as
// unknown ones.
func (r *EngineerRepository) FindByID(ctx context.Context, id string) (*domain.Engineer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEngineerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEngineer
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEngineerNotFound
		}
		return nil, fmt.Errorf("find engineer: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies the patch with a single $set and returns the post-update document.
func (r *EngineerRepository) Update(ctx context.Context, id string, patch domain.EngineerPatch) (*domain.Engineer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEngineerNotFound
	}

	set := bson.M{
		"available":  patch.Available,
		"updated_at": time.Now().UTC(),
	}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Specialty != nil {
		set["specialty"] = *patch.Specialty
	}
	if patch.YearsExperience != nil {
		set["years_experience"] = *patch.YearsExperience
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEngineer
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrEngineerNotFound
		case isValidationError(err):
			return nil, fmt.Errorf("%w: rejected by store", domain.ErrValidation)
		}
		return nil, fmt.Errorf("update engineer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EngineerRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEngineerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete engineer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEngineerNotFound
	}
	return nil
}

// EnsureSchema installs engineerSchema, creating the collection on first run.
func (r *EngineerRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db := r.col.Database()
	err := db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: collectionEngineers},
		{Key: "validator", Value: engineerSchema},
	}).Err()

	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == codeNamespaceNotFound {
		return db.CreateCollection(ctx, collectionEngineers, options.CreateCollection().SetValidator(engineerSchema))
	}
	return err
}
