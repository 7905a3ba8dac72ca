package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"outreach_backend/internal/activity"
	"outreach_backend/internal/contacts/repository"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

type recordedActivity struct {
	contactID uuid.UUID
	kind      string
	metadata  []byte
}

type fakeStore struct {
	Store
	contacts   map[uuid.UUID]repository.Contact
	activities []recordedActivity
}

func newFakeStore() *fakeStore {
	return &fakeStore{contacts: make(map[uuid.UUID]repository.Contact)}
}

func (f *fakeStore) CreateContact(_ context.Context, params repository.CreateContactParams) (repository.Contact, error) {
	c := repository.Contact{ID: uuid.New(), Email: params.Email, Notes: params.Notes}
	f.contacts[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetContact(_ context.Context, id uuid.UUID) (repository.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return repository.Contact{}, apperr.NotFound("contact not found")
	}
	return c, nil
}

func (f *fakeStore) UpdateContact(_ context.Context, params repository.UpdateContactParams) (repository.Contact, error) {
	c, ok := f.contacts[params.ID]
	if !ok {
		return repository.Contact{}, apperr.NotFound("contact not found")
	}
	if params.Email != nil {
		c.Email = *params.Email
	}
	f.contacts[params.ID] = c
	return c, nil
}

func (f *fakeStore) InsertActivity(_ context.Context, contactID uuid.UUID, kind string, metadata []byte) error {
	f.activities = append(f.activities, recordedActivity{contactID: contactID, kind: kind, metadata: metadata})
	return nil
}

func TestCreateContactRecordsActivity(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("test"))

	contact, err := svc.CreateContact(context.Background(), repository.CreateContactParams{Email: "jo@example.com"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if len(store.activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(store.activities))
	}
	if got := store.activities[0]; got.kind != activity.TypeContactCreated || got.contactID != contact.ID {
		t.Errorf("activity = %+v", got)
	}
}

func TestUpdateContactRecordsActivity(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("test"))

	contact, err := svc.CreateContact(context.Background(), repository.CreateContactParams{Email: "jo@example.com"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	email := "jo+new@example.com"
	updated, err := svc.UpdateContact(context.Background(), repository.UpdateContactParams{ID: contact.ID, Email: &email})
	if err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	if updated.Email != email {
		t.Errorf("email = %q, want %q", updated.Email, email)
	}
	if len(store.activities) != 2 || store.activities[1].kind != activity.TypeContactUpdated {
		t.Errorf("activities = %+v", store.activities)
	}
}

func TestAddNoteRequiresExistingContact(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("test"))

	err := svc.AddNote(context.Background(), uuid.New(), "followed up by phone")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(store.activities) != 0 {
		t.Errorf("no activity expected for missing contact")
	}
}

func TestAddNoteStoresMetadata(t *testing.T) {
	store := newFakeStore()
	svc := New(store, logger.New("test"))

	contact, err := svc.CreateContact(context.Background(), repository.CreateContactParams{Email: "jo@example.com"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	if err := svc.AddNote(context.Background(), contact.ID, "followed up by phone"); err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	last := store.activities[len(store.activities)-1]
	if last.kind != activity.TypeNoteAdded {
		t.Fatalf("activity type = %q", last.kind)
	}
	var meta map[string]string
	if err := json.Unmarshal(last.metadata, &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta["note"] != "followed up by phone" {
		t.Errorf("note metadata = %q", meta["note"])
	}
}
