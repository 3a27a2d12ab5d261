// Package cats is a small CRUD example over a single MongoDB collection.
package cats

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the collection cats are stored in.
const CollectionName = "cats"

// Cat is a single document.
type Cat struct {
	Name     string   `bson:"name" json:"name"`
	Age      int      `bson:"age" json:"age"`
	Features []string `bson:"features" json:"features"`
}

// UpdateResult reports matched and modified counts of an update.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Repository is the set of operations the console drives.
type Repository interface {
	Drop(ctx context.Context) error
	Insert(ctx context.Context, cat Cat) (string, error)
	FindAll(ctx context.Context) ([]Cat, error)
	// FindByName returns nil when no cat matches.
	FindByName(ctx context.Context, name string) (*Cat, error)
	UpdateAge(ctx context.Context, name string, age int) (UpdateResult, error)
	AddFeature(ctx context.Context, name, feature string) (UpdateResult, error)
	DeleteByName(ctx context.Context, name string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// MongoRepository implements Repository on a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository uses the cats collection of db.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Drop(ctx context.Context) error {
	return eris.Wrap(r.coll.Drop(ctx), "cats: drop")
}

func (r *MongoRepository) Insert(ctx context.Context, cat Cat) (string, error) {
	if cat.Features == nil {
		cat.Features = []string{}
	}
	res, err := r.coll.InsertOne(ctx, cat)
	if err != nil {
		return "", eris.Wrap(err, "cats: insert")
	}
	return formatID(res.InsertedID), nil
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]Cat, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, eris.Wrap(err, "cats: find all")
	}
	var out []Cat
	if err := cur.All(ctx, &out); err != nil {
		return nil, eris.Wrap(err, "cats: decode")
	}
	return out, nil
}

func (r *MongoRepository) FindByName(ctx context.Context, name string) (*Cat, error) {
	var cat Cat
	err := r.coll.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&cat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "cats: find %s", name)
	}
	return &cat, nil
}

func (r *MongoRepository) UpdateAge(ctx context.Context, name string, age int) (UpdateResult, error) {
	return r.update(ctx, name, bson.D{{Key: "$set", Value: bson.D{{Key: "age", Value: age}}}})
}

func (r *MongoRepository) AddFeature(ctx context.Context, name, feature string) (UpdateResult, error) {
	return r.update(ctx, name, bson.D{{Key: "$addToSet", Value: bson.D{{Key: "features", Value: feature}}}})
}

func (r *MongoRepository) update(ctx context.Context, name string, update bson.D) (UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "name", Value: name}}, update)
	if err != nil {
		return UpdateResult{}, eris.Wrapf(err, "cats: update %s", name)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (r *MongoRepository) DeleteByName(ctx context.Context, name string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, eris.Wrapf(err, "cats: delete %s", name)
	}
	return res.DeletedCount == 1, nil
}

func (r *MongoRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, eris.Wrap(err, "cats: delete all")
	}
	return res.DeletedCount, nil
}
