package store

import (
	"context"
	"errors"
	"time"

	"github.com/mirado/clinic-console-api/internal/models"
)

// ErrNotFound is returned when a record does not exist or is not visible to
// the requesting owner. Callers cannot distinguish the two on purpose.
var ErrNotFound = errors.New("record not found")

// AccountStore persists end-user accounts. All ListByOwner/Count reads are
// restricted to records whose createdBy matches the owner email; GetByEmail
// is the portal's deliberate cross-tenant lookup.
type AccountStore interface {
	ListByOwner(ctx context.Context, owner string) ([]models.Account, error)
	ListByOwnerAndStatus(ctx context.Context, owner, status string) ([]models.Account, error)
	Create(ctx context.Context, acc models.Account, owner string) (string, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	SetStatus(ctx context.Context, id, owner, status, reason string, at time.Time) error
	CountByOwner(ctx context.Context, owner string) (int64, error)
	CountByOwnerAndStatus(ctx context.Context, owner, status string) (int64, error)
	PushImage(ctx context.Context, accountID string, img models.ImageRef) error
	PullImage(ctx context.Context, accountID string, img models.ImageRef) error
}

// DocumentStore persists documents and their assignment snapshots.
// ListByAssignedEmail is the portal's read path and ignores ownership.
type DocumentStore interface {
	ListByOwner(ctx context.Context, owner string) ([]models.Document, error)
	ListByAssignedEmail(ctx context.Context, email string) ([]models.Document, error)
	GetByOwner(ctx context.Context, id, owner string) (models.Document, error)
	Create(ctx context.Context, doc models.Document, owner string) (string, error)
	Delete(ctx context.Context, id, owner string) error
	CountByOwner(ctx context.Context, owner string) (int64, error)
}

// ClinicPatch carries the fields of a clinic update. Nil fields are left
// untouched.
type ClinicPatch struct {
	ClinicName        *string
	DoctorName        *string
	ClinicMail        *string
	ClinicNumber      *string
	EstablishmentDate *string
	Location          *string
	Panchakrma        *string
	NumberOfPatients  *int
	Revenue           *float64
}

// ClinicStore persists clinic records, fully owner-scoped.
type ClinicStore interface {
	ListByOwner(ctx context.Context, owner string) ([]models.Clinic, error)
	GetByOwner(ctx context.Context, id, owner string) (models.Clinic, error)
	Create(ctx context.Context, clinic models.Clinic, owner string) (string, error)
	Update(ctx context.Context, id, owner string, patch ClinicPatch) error
	Delete(ctx context.Context, id, owner string) error
}

// AdminStore persists console operators.
type AdminStore interface {
	Create(ctx context.Context, admin models.Admin) (string, error)
	GetByEmail(ctx context.Context, email string) (models.Admin, error)
}
