// Package service contains business logic for contacts and companies.
package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"outreach_backend/internal/activity"
	"outreach_backend/internal/contacts/repository"
	"outreach_backend/platform/logger"
)

// Store is the data access surface the service needs.
type Store interface {
	CreateContact(ctx context.Context, params repository.CreateContactParams) (repository.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (repository.Contact, error)
	ListContacts(ctx context.Context, companyID *uuid.UUID) ([]repository.Contact, error)
	UpdateContact(ctx context.Context, params repository.UpdateContactParams) (repository.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
	CreateCompany(ctx context.Context, params repository.CreateCompanyParams) (repository.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (repository.Company, error)
	ListCompanies(ctx context.Context) ([]repository.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	InsertActivity(ctx context.Context, contactID uuid.UUID, activityType string, metadata []byte) error
	ListActivities(ctx context.Context, contactID uuid.UUID) ([]repository.Activity, error)
}

// Service provides contact and company operations.
type Service struct {
	store Store
	log   *logger.Logger
}

// New creates a new contacts service.
func New(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// CreateContact inserts a contact and records it on the timeline.
func (s *Service) CreateContact(ctx context.Context, params repository.CreateContactParams) (repository.Contact, error) {
	contact, err := s.store.CreateContact(ctx, params)
	if err != nil {
		return repository.Contact{}, err
	}
	if err := s.store.InsertActivity(ctx, contact.ID, activity.TypeContactCreated, nil); err != nil {
		s.log.Error("record contact_created activity", "error", err, "contact_id", contact.ID)
	}
	return contact, nil
}

// GetContact retrieves a contact by ID.
func (s *Service) GetContact(ctx context.Context, id uuid.UUID) (repository.Contact, error) {
	return s.store.GetContact(ctx, id)
}

// ListContacts lists contacts, optionally filtered by company.
func (s *Service) ListContacts(ctx context.Context, companyID *uuid.UUID) ([]repository.Contact, error) {
	return s.store.ListContacts(ctx, companyID)
}

// UpdateContact applies a partial update and records it on the timeline.
func (s *Service) UpdateContact(ctx context.Context, params repository.UpdateContactParams) (repository.Contact, error) {
	contact, err := s.store.UpdateContact(ctx, params)
	if err != nil {
		return repository.Contact{}, err
	}
	if err := s.store.InsertActivity(ctx, contact.ID, activity.TypeContactUpdated, nil); err != nil {
		s.log.Error("record contact_updated activity", "error", err, "contact_id", contact.ID)
	}
	return contact, nil
}

// DeleteContact removes a contact.
func (s *Service) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteContact(ctx, id)
}

// AddNote records a free-form note on the contact's timeline.
func (s *Service) AddNote(ctx context.Context, contactID uuid.UUID, note string) error {
	if _, err := s.store.GetContact(ctx, contactID); err != nil {
		return err
	}
	metadata, err := json.Marshal(map[string]string{"note": note})
	if err != nil {
		return err
	}
	return s.store.InsertActivity(ctx, contactID, activity.TypeNoteAdded, metadata)
}

// ListActivities returns the contact's timeline, newest first.
func (s *Service) ListActivities(ctx context.Context, contactID uuid.UUID) ([]repository.Activity, error) {
	return s.store.ListActivities(ctx, contactID)
}

// CreateCompany inserts a company.
func (s *Service) CreateCompany(ctx context.Context, params repository.CreateCompanyParams) (repository.Company, error) {
	return s.store.CreateCompany(ctx, params)
}

// GetCompany retrieves a company by ID.
func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (repository.Company, error) {
	return s.store.GetCompany(ctx, id)
}

// ListCompanies lists all companies.
func (s *Service) ListCompanies(ctx context.Context) ([]repository.Company, error) {
	return s.store.ListCompanies(ctx)
}

// DeleteCompany removes a company.
func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteCompany(ctx, id)
}
