package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mirado/clinic-console-api/internal/models"
)

// MongoAccounts is the MongoDB-backed AccountStore.
type MongoAccounts struct {
	coll *mongo.Collection
}

func NewMongoAccounts(db *mongo.Database) *MongoAccounts {
	return &MongoAccounts{coll: db.Collection(accountsCollection)}
}

func (s *MongoAccounts) ListByOwner(ctx context.Context, owner string) ([]models.Account, error) {
	return s.list(ctx, bson.M{"createdBy": owner})
}

func (s *MongoAccounts) ListByOwnerAndStatus(ctx context.Context, owner, status string) ([]models.Account, error) {
	return s.list(ctx, bson.M{"createdBy": owner, "status": status})
}

func (s *MongoAccounts) list(ctx context.Context, filter bson.M) ([]models.Account, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		if isPermissionDenied(err) {
			return []models.Account{}, nil
		}
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []models.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = make([]models.Account, 0)
	}
	return accounts, nil
}

// Create stamps the owner and a server-assigned creation time.
func (s *MongoAccounts) Create(ctx context.Context, acc models.Account, owner string) (string, error) {
	acc.ID = primitive.NewObjectID()
	acc.CreatedBy = owner
	acc.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, acc); err != nil {
		return "", err
	}
	return acc.ID.Hex(), nil
}

// GetByEmail is the portal's cross-tenant lookup: any admin's account record
// is a candidate for portal login.
func (s *MongoAccounts) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var acc models.Account
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&acc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Account{}, ErrNotFound
	}
	return acc, err
}

// SetStatus applies one status transition. A transition to rejected stores
// the reason and timestamp; any other target clears both.
func (s *MongoAccounts) SetStatus(ctx context.Context, id, owner, status, reason string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	set := bson.M{"status": status}
	update := bson.M{"$set": set}
	if status == models.StatusRejected {
		set["rejectionReason"] = reason
		set["rejectedAt"] = at
	} else {
		update["$unset"] = bson.M{"rejectionReason": "", "rejectedAt": ""}
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid, "createdBy": owner}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoAccounts) CountByOwner(ctx context.Context, owner string) (int64, error) {
	return s.count(ctx, bson.M{"createdBy": owner})
}

func (s *MongoAccounts) CountByOwnerAndStatus(ctx context.Context, owner, status string) (int64, error) {
	return s.count(ctx, bson.M{"createdBy": owner, "status": status})
}

func (s *MongoAccounts) count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		if isPermissionDenied(err) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func (s *MongoAccounts) PushImage(ctx context.Context, accountID string, img models.ImageRef) error {
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"images": img}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullImage removes the first array element equal to img on every field.
// This is a read-modify-write: the store's $pull would remove every matching
// element, and there is no primitive that stops after the first match.
func (s *MongoAccounts) PullImage(ctx context.Context, accountID string, img models.ImageRef) error {
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return ErrNotFound
	}

	var acc models.Account
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&acc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	kept := make([]models.ImageRef, 0, len(acc.Images))
	removed := false
	for _, existing := range acc.Images {
		if !removed && existing.Equal(img) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return ErrNotFound
	}

	_, err = s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"images": kept}})
	return err
}
