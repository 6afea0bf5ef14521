package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignedUser is a snapshot of an account taken when the document is created.
// Later changes to the account's username or email do not propagate here.
type AssignedUser struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
}

type Document struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentName  string             `bson:"documentName" json:"documentName"`
	AssignedUsers []AssignedUser     `bson:"assignedUsers" json:"assignedUsers"`
	CreatedBy     string             `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
