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

// MongoClinics is the MongoDB-backed ClinicStore.
type MongoClinics struct {
	coll *mongo.Collection
}

func NewMongoClinics(db *mongo.Database) *MongoClinics {
	return &MongoClinics{coll: db.Collection(clinicsCollection)}
}

func (s *MongoClinics) ListByOwner(ctx context.Context, owner string) ([]models.Clinic, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"createdBy": owner}, findOptions)
	if err != nil {
		if isPermissionDenied(err) {
			return []models.Clinic{}, nil
		}
		return nil, err
	}
	defer cursor.Close(ctx)

	var clinics []models.Clinic
	if err := cursor.All(ctx, &clinics); err != nil {
		return nil, err
	}
	if clinics == nil {
		clinics = make([]models.Clinic, 0)
	}
	return clinics, nil
}

func (s *MongoClinics) GetByOwner(ctx context.Context, id, owner string) (models.Clinic, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Clinic{}, ErrNotFound
	}
	var clinic models.Clinic
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "createdBy": owner}).Decode(&clinic)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Clinic{}, ErrNotFound
	}
	return clinic, err
}

func (s *MongoClinics) Create(ctx context.Context, clinic models.Clinic, owner string) (string, error) {
	clinic.ID = primitive.NewObjectID()
	clinic.CreatedBy = owner
	clinic.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, clinic); err != nil {
		return "", err
	}
	return clinic.ID.Hex(), nil
}

func (s *MongoClinics) Update(ctx context.Context, id, owner string, patch ClinicPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.ClinicName != nil {
		set["clinicName"] = *patch.ClinicName
	}
	if patch.DoctorName != nil {
		set["doctorName"] = *patch.DoctorName
	}
	if patch.ClinicMail != nil {
		set["clinicMail"] = *patch.ClinicMail
	}
	if patch.ClinicNumber != nil {
		set["clinicNumber"] = *patch.ClinicNumber
	}
	if patch.EstablishmentDate != nil {
		set["establishmentDate"] = *patch.EstablishmentDate
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Panchakrma != nil {
		set["panchakrma"] = *patch.Panchakrma
	}
	if patch.NumberOfPatients != nil {
		set["numberOfPatients"] = *patch.NumberOfPatients
	}
	if patch.Revenue != nil {
		set["revenue"] = *patch.Revenue
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid, "createdBy": owner}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoClinics) Delete(ctx context.Context, id, owner string) error {
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
