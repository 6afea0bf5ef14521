package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account statuses. Portal access requires StatusApproved.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// MaxAccountImages caps the images array on an account.
const MaxAccountImages = 3

// ImageRef points at a file stored on the external image host. The host keeps
// the binary; we only keep its URLs. Deleting a ref does not delete the hosted
// file (the host's free tier has no delete API).
type ImageRef struct {
	URL        string    `bson:"url" json:"url"`
	DisplayURL string    `bson:"display_url" json:"display_url"`
	ThumbURL   string    `bson:"thumb_url" json:"thumb_url"`
	MediumURL  string    `bson:"medium_url" json:"medium_url"`
	DeleteURL  string    `bson:"delete_url" json:"delete_url"`
	ImageID    string    `bson:"image_id" json:"image_id"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
	Filename   string    `bson:"filename" json:"filename"`
}

// Equal compares every field. Image refs have no identity of their own; array
// membership operations match on the full value.
func (r ImageRef) Equal(other ImageRef) bool {
	return r.URL == other.URL &&
		r.DisplayURL == other.DisplayURL &&
		r.ThumbURL == other.ThumbURL &&
		r.MediumURL == other.MediumURL &&
		r.DeleteURL == other.DeleteURL &&
		r.ImageID == other.ImageID &&
		r.UploadedAt.Equal(other.UploadedAt) &&
		r.Filename == other.Filename
}

// Account is an end-user record created by an admin. Visibility is restricted
// to the admin recorded in CreatedBy; the portal reads it by email only.
type Account struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username        string             `bson:"username" json:"username"`
	Email           string             `bson:"email" json:"email"`
	Role            string             `bson:"role" json:"role"`
	Status          string             `bson:"status" json:"status"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	RejectedAt      *time.Time         `bson:"rejectedAt,omitempty" json:"rejectedAt,omitempty"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	Images          []ImageRef         `bson:"images,omitempty" json:"images"`
}
