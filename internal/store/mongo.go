package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the backing database.
const (
	accountsCollection  = "users"
	documentsCollection = "documents"
	clinicsCollection   = "clinics"
	adminsCollection    = "admins"
)

// EnsureIndexes creates the unique email indexes the duplicate-key checks
// rely on. Safe to call on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(accountsCollection).Indexes().CreateOne(ctx, emailIndex); err != nil {
		return err
	}
	_, err := db.Collection(adminsCollection).Indexes().CreateOne(ctx, emailIndex)
	return err
}

// isPermissionDenied reports whether err is the server's Unauthorized error.
// Restrictive deployments surface it when a tenant lists a collection nothing
// has ever been written to; it is treated as zero results, not a failure.
func isPermissionDenied(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 13
	}
	return false
}
