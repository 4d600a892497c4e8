package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/repository"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/prom"
	"github.com/google/uuid"
)

type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
	List(ctx context.Context) ([]*model.Contact, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) (*model.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[model.ContactStatus]int64, error)
}

// Notifier announces a stored contact. Implementations must return quickly
// and must not let a delivery failure reach the caller.
type Notifier interface {
	Notify(ctx context.Context, n model.ContactNotification)
}

type ContactService struct {
	repo     ContactRepository
	notifier Notifier
}

func NewContactService(repo ContactRepository, notifier Notifier) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
	}
}

// Create validates and stores a submission, then hands it to the notifier.
// New contacts always start as pending.
func (s *ContactService) Create(ctx context.Context, req model.ContactCreateRequest) (*model.Contact, error) {
	if err := req.Validate(); err != nil {
		prom.AddContactOperation("create", "invalid")
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	req = req.Normalize()

	created, err := s.repo.Create(ctx, &model.Contact{
		Name:    req.Name,
		Phone:   req.Phone,
		Message: req.Message,
		Status:  model.ContactStatusPending,
	})
	if err != nil {
		prom.AddContactOperation("create", "error")
		logger.Error("failed to store contact", "error", err)
		return nil, fmt.Errorf("%w: create contact: %w", ErrStore, err)
	}
	prom.AddContactOperation("create", "ok")
	logger.Info("contact stored", "contact_id", created.ID)

	if s.notifier != nil {
		s.notifier.Notify(ctx, model.NewContactNotification(created))
	}
	return created, nil
}

// List returns all contacts newest first. The slice is never nil.
func (s *ContactService) List(ctx context.Context) ([]*model.Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		prom.AddContactOperation("list", "error")
		return nil, fmt.Errorf("%w: list contacts: %w", ErrStore, err)
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	return contacts, nil
}

// UpdateStatus rejects an unknown status before looking the contact up.
func (s *ContactService) UpdateStatus(ctx context.Context, id string, status string) (*model.Contact, error) {
	parsed, err := model.ParseContactStatus(status)
	if err != nil {
		prom.AddContactOperation("update_status", "invalid")
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	contactID, err := parseID(id)
	if err != nil {
		prom.AddContactOperation("update_status", "not_found")
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, contactID, parsed)
	if err != nil {
		return nil, s.mapRepoError("update_status", contactID, err)
	}
	prom.AddContactOperation("update_status", "ok")
	logger.Info("contact status updated", "contact_id", contactID, "status", parsed)
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	contactID, err := parseID(id)
	if err != nil {
		prom.AddContactOperation("delete", "not_found")
		return err
	}
	if err := s.repo.Delete(ctx, contactID); err != nil {
		return s.mapRepoError("delete", contactID, err)
	}
	prom.AddContactOperation("delete", "ok")
	logger.Info("contact deleted", "contact_id", contactID)
	return nil
}

// ContactStats is the admin dashboard summary.
type ContactStats struct {
	Total    int64
	ByStatus map[model.ContactStatus]int64
}

func (s *ContactService) Stats(ctx context.Context) (*ContactStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count contacts: %w", ErrStore, err)
	}
	stats := &ContactStats{ByStatus: counts}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *ContactService) mapRepoError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		prom.AddContactOperation(op, "not_found")
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prom.AddContactOperation(op, "error")
	logger.Error("contact store failure", "op", op, "contact_id", id, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// parseID treats an id that can't be a contact id as a missing contact.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return parsed, nil
}
