package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mirado/clinic-console-api/internal/models"
)

// ErrDuplicateEmail is returned by the memory stores when an email is taken.
// The Mongo stores surface the driver's duplicate-key error instead.
var ErrDuplicateEmail = errors.New("email already exists")

// MemoryAccounts is an in-memory AccountStore used in tests.
type MemoryAccounts struct {
	mu       sync.RWMutex
	accounts []models.Account
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{}
}

func (s *MemoryAccounts) ListByOwner(ctx context.Context, owner string) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Account, 0)
	for i := len(s.accounts) - 1; i >= 0; i-- {
		if s.accounts[i].CreatedBy == owner {
			out = append(out, s.accounts[i])
		}
	}
	return out, nil
}

func (s *MemoryAccounts) ListByOwnerAndStatus(ctx context.Context, owner, status string) ([]models.Account, error) {
	all, err := s.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]models.Account, 0)
	for _, acc := range all {
		if acc.Status == status {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (s *MemoryAccounts) Create(ctx context.Context, acc models.Account, owner string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].Email == acc.Email {
			return "", ErrDuplicateEmail
		}
	}
	acc.ID = primitive.NewObjectID()
	acc.CreatedBy = owner
	acc.CreatedAt = time.Now().UTC()
	s.accounts = append(s.accounts, acc)
	return acc.ID.Hex(), nil
}

func (s *MemoryAccounts) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.accounts {
		if s.accounts[i].Email == email {
			return s.accounts[i], nil
		}
	}
	return models.Account{}, ErrNotFound
}

func (s *MemoryAccounts) SetStatus(ctx context.Context, id, owner, status, reason string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID.Hex() != id || s.accounts[i].CreatedBy != owner {
			continue
		}
		s.accounts[i].Status = status
		if status == models.StatusRejected {
			s.accounts[i].RejectionReason = reason
			stamped := at
			s.accounts[i].RejectedAt = &stamped
		} else {
			s.accounts[i].RejectionReason = ""
			s.accounts[i].RejectedAt = nil
		}
		return nil
	}
	return ErrNotFound
}

func (s *MemoryAccounts) CountByOwner(ctx context.Context, owner string) (int64, error) {
	all, err := s.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (s *MemoryAccounts) CountByOwnerAndStatus(ctx context.Context, owner, status string) (int64, error) {
	matched, err := s.ListByOwnerAndStatus(ctx, owner, status)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (s *MemoryAccounts) PushImage(ctx context.Context, accountID string, img models.ImageRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID.Hex() == accountID {
			s.accounts[i].Images = append(s.accounts[i].Images, img)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryAccounts) PullImage(ctx context.Context, accountID string, img models.ImageRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID.Hex() != accountID {
			continue
		}
		kept := make([]models.ImageRef, 0, len(s.accounts[i].Images))
		removed := false
		for _, existing := range s.accounts[i].Images {
			if !removed && existing.Equal(img) {
				removed = true
				continue
			}
			kept = append(kept, existing)
		}
		if !removed {
			return ErrNotFound
		}
		s.accounts[i].Images = kept
		return nil
	}
	return ErrNotFound
}

// MemoryDocuments is an in-memory DocumentStore used in tests.
type MemoryDocuments struct {
	mu   sync.RWMutex
	docs []models.Document
}

func NewMemoryDocuments() *MemoryDocuments {
	return &MemoryDocuments{}
}

func (s *MemoryDocuments) ListByOwner(ctx context.Context, owner string) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, 0)
	for i := len(s.docs) - 1; i >= 0; i-- {
		if s.docs[i].CreatedBy == owner {
			out = append(out, s.docs[i])
		}
	}
	return out, nil
}

func (s *MemoryDocuments) ListByAssignedEmail(ctx context.Context, email string) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, 0)
	for i := len(s.docs) - 1; i >= 0; i-- {
		for _, u := range s.docs[i].AssignedUsers {
			if u.Email == email {
				out = append(out, s.docs[i])
				break
			}
		}
	}
	return out, nil
}

func (s *MemoryDocuments) GetByOwner(ctx context.Context, id, owner string) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.docs {
		if s.docs[i].ID.Hex() == id && s.docs[i].CreatedBy == owner {
			return s.docs[i], nil
		}
	}
	return models.Document{}, ErrNotFound
}

func (s *MemoryDocuments) Create(ctx context.Context, doc models.Document, owner string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.ID = primitive.NewObjectID()
	doc.CreatedBy = owner
	doc.CreatedAt = time.Now().UTC()
	s.docs = append(s.docs, doc)
	return doc.ID.Hex(), nil
}

func (s *MemoryDocuments) Delete(ctx context.Context, id, owner string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		if s.docs[i].ID.Hex() == id && s.docs[i].CreatedBy == owner {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryDocuments) CountByOwner(ctx context.Context, owner string) (int64, error) {
	all, err := s.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

// MemoryClinics is an in-memory ClinicStore used in tests.
type MemoryClinics struct {
	mu      sync.RWMutex
	clinics []models.Clinic
}

func NewMemoryClinics() *MemoryClinics {
	return &MemoryClinics{}
}

func (s *MemoryClinics) ListByOwner(ctx context.Context, owner string) ([]models.Clinic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Clinic, 0)
	for i := len(s.clinics) - 1; i >= 0; i-- {
		if s.clinics[i].CreatedBy == owner {
			out = append(out, s.clinics[i])
		}
	}
	return out, nil
}

func (s *MemoryClinics) GetByOwner(ctx context.Context, id, owner string) (models.Clinic, error) {
	if err := ctx.Err(); err != nil {
		return models.Clinic{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.clinics {
		if s.clinics[i].ID.Hex() == id && s.clinics[i].CreatedBy == owner {
			return s.clinics[i], nil
		}
	}
	return models.Clinic{}, ErrNotFound
}

func (s *MemoryClinics) Create(ctx context.Context, clinic models.Clinic, owner string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clinic.ID = primitive.NewObjectID()
	clinic.CreatedBy = owner
	clinic.CreatedAt = time.Now().UTC()
	s.clinics = append(s.clinics, clinic)
	return clinic.ID.Hex(), nil
}

func (s *MemoryClinics) Update(ctx context.Context, id, owner string, patch ClinicPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clinics {
		if s.clinics[i].ID.Hex() != id || s.clinics[i].CreatedBy != owner {
			continue
		}
		c := &s.clinics[i]
		if patch.ClinicName != nil {
			c.ClinicName = *patch.ClinicName
		}
		if patch.DoctorName != nil {
			c.DoctorName = *patch.DoctorName
		}
		if patch.ClinicMail != nil {
			c.ClinicMail = *patch.ClinicMail
		}
		if patch.ClinicNumber != nil {
			c.ClinicNumber = *patch.ClinicNumber
		}
		if patch.EstablishmentDate != nil {
			c.EstablishmentDate = *patch.EstablishmentDate
		}
		if patch.Location != nil {
			c.Location = *patch.Location
		}
		if patch.Panchakrma != nil {
			c.Panchakrma = *patch.Panchakrma
		}
		if patch.NumberOfPatients != nil {
			c.NumberOfPatients = patch.NumberOfPatients
		}
		if patch.Revenue != nil {
			c.Revenue = patch.Revenue
		}
		now := time.Now().UTC()
		c.UpdatedAt = &now
		return nil
	}
	return ErrNotFound
}

func (s *MemoryClinics) Delete(ctx context.Context, id, owner string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clinics {
		if s.clinics[i].ID.Hex() == id && s.clinics[i].CreatedBy == owner {
			s.clinics = append(s.clinics[:i], s.clinics[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryAdmins is an in-memory AdminStore used in tests.
type MemoryAdmins struct {
	mu     sync.RWMutex
	admins []models.Admin
}

func NewMemoryAdmins() *MemoryAdmins {
	return &MemoryAdmins{}
}

func (s *MemoryAdmins) Create(ctx context.Context, admin models.Admin) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].Email == admin.Email {
			return "", ErrDuplicateEmail
		}
	}
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now().UTC()
	s.admins = append(s.admins, admin)
	return admin.ID.Hex(), nil
}

func (s *MemoryAdmins) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	if err := ctx.Err(); err != nil {
		return models.Admin{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.admins {
		if s.admins[i].Email == email {
			return s.admins[i], nil
		}
	}
	return models.Admin{}, ErrNotFound
}
