package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Clinic struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClinicName        string             `bson:"clinicName" json:"clinicName"`
	DoctorName        string             `bson:"doctorName" json:"doctorName"`
	ClinicMail        string             `bson:"clinicMail" json:"clinicMail"`
	ClinicNumber      string             `bson:"clinicNumber,omitempty" json:"clinicNumber,omitempty"`
	EstablishmentDate string             `bson:"establishmentDate,omitempty" json:"establishmentDate,omitempty"`
	Location          string             `bson:"location,omitempty" json:"location,omitempty"`
	Panchakrma        string             `bson:"panchakrma,omitempty" json:"panchakrma,omitempty"`
	NumberOfPatients  *int               `bson:"numberOfPatients,omitempty" json:"numberOfPatients,omitempty"`
	Revenue           *float64           `bson:"revenue,omitempty" json:"revenue,omitempty"`
	CreatedBy         string             `bson:"createdBy" json:"createdBy"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
