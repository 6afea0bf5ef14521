package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mirado/clinic-console-api/internal/models"
)

// MongoAdmins is the MongoDB-backed AdminStore.
type MongoAdmins struct {
	coll *mongo.Collection
}

func NewMongoAdmins(db *mongo.Database) *MongoAdmins {
	return &MongoAdmins{coll: db.Collection(adminsCollection)}
}

// Create inserts a new admin. Duplicate-email errors are returned raw so the
// handler can map them to a conflict response.
func (s *MongoAdmins) Create(ctx context.Context, admin models.Admin) (string, error) {
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, admin); err != nil {
		return "", err
	}
	return admin.ID.Hex(), nil
}

func (s *MongoAdmins) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Admin{}, ErrNotFound
	}
	return admin, err
}
