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

// MongoDocuments is the MongoDB-backed DocumentStore.
type MongoDocuments struct {
	coll *mongo.Collection
}

func NewMongoDocuments(db *mongo.Database) *MongoDocuments {
	return &MongoDocuments{coll: db.Collection(documentsCollection)}
}

func (s *MongoDocuments) ListByOwner(ctx context.Context, owner string) ([]models.Document, error) {
	return s.list(ctx, bson.M{"createdBy": owner})
}

// ListByAssignedEmail is the portal's read path: documents from any admin
// whose assignment snapshot contains the portal email.
func (s *MongoDocuments) ListByAssignedEmail(ctx context.Context, email string) ([]models.Document, error) {
	return s.list(ctx, bson.M{"assignedUsers.email": email})
}

func (s *MongoDocuments) list(ctx context.Context, filter bson.M) ([]models.Document, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		if isPermissionDenied(err) {
			return []models.Document{}, nil
		}
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = make([]models.Document, 0)
	}
	return docs, nil
}

func (s *MongoDocuments) GetByOwner(ctx context.Context, id, owner string) (models.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Document{}, ErrNotFound
	}
	var doc models.Document
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "createdBy": owner}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Document{}, ErrNotFound
	}
	return doc, err
}

func (s *MongoDocuments) Create(ctx context.Context, doc models.Document, owner string) (string, error) {
	doc.ID = primitive.NewObjectID()
	doc.CreatedBy = owner
	doc.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}

func (s *MongoDocuments) Delete(ctx context.Context, id, owner string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid, "createdBy": owner})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoDocuments) CountByOwner(ctx context.Context, owner string) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"createdBy": owner})
	if err != nil {
		if isPermissionDenied(err) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
