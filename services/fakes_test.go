package services

import (
	"errors"
	"io"
	"sync"
	"time"

	"estate-listings-server/models"
)

// In-memory collaborators mirroring the behavior of the gorm-backed stores.

type memStore struct {
	mu          sync.Mutex
	nextID      uint
	nextMediaID uint
	listings    map[uint]*models.Listing
	media       map[uint][]models.ListingMedia
	failSave    bool
	failMedia   bool
}

func newMemStore() *memStore {
	return &memStore{
		listings: make(map[uint]*models.Listing),
		media:    make(map[uint][]models.ListingMedia),
	}
}

func (m *memStore) copyOf(l *models.Listing) *models.Listing {
	cp := *l
	cp.Media = append([]models.ListingMedia(nil), m.media[l.ID]...)
	return &cp
}

func (m *memStore) FindByID(id uint) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	return m.copyOf(l), nil
}

func (m *memStore) FindAll() ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Listing
	for _, l := range m.listings {
		out = append(out, *m.copyOf(l))
	}
	return out, nil
}

func (m *memStore) Search(query string) ([]models.Listing, error) {
	return m.FindAll()
}

func (m *memStore) FindByType(t models.ListingType) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Listing
	for _, l := range m.listings {
		if l.Type == t {
			out = append(out, *m.copyOf(l))
		}
	}
	return out, nil
}

func (m *memStore) FindByStatus(s models.ListingStatus) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Listing
	for _, l := range m.listings {
		if l.Status == s {
			out = append(out, *m.copyOf(l))
		}
	}
	return out, nil
}

func (m *memStore) FindByOwnerEmail(email string) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Listing
	for _, l := range m.listings {
		if l.OwnerEmail == email {
			out = append(out, *m.copyOf(l))
		}
	}
	return out, nil
}

func (m *memStore) Save(l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("save failed")
	}
	if l.ID == 0 {
		m.nextID++
		l.ID = m.nextID
		if l.CreatedAt.IsZero() {
			l.CreatedAt = time.Now()
		}
	}
	cp := *l
	cp.Media = nil
	m.listings[l.ID] = &cp
	return nil
}

func (m *memStore) AddMedia(media *models.ListingMedia) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failMedia {
		return errors.New("media insert failed")
	}
	m.nextMediaID++
	media.ID = m.nextMediaID
	m.media[media.ListingID] = append(m.media[media.ListingID], *media)
	return nil
}

func (m *memStore) MarkDecided(id uint, expect models.ListingStatus, decided *models.Listing) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok || l.Status != expect {
		return false, nil
	}
	l.Status = decided.Status
	l.RejectionReason = decided.RejectionReason
	l.AdminDecisionMessage = decided.AdminDecisionMessage
	l.ReviewedAt = decided.ReviewedAt
	return true, nil
}

func (m *memStore) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listings, id)
	delete(m.media, id)
	return nil
}

func (m *memStore) InTransaction(fn func(ListingStore) error) error {
	m.mu.Lock()
	listingsSnap := make(map[uint]*models.Listing, len(m.listings))
	for id, l := range m.listings {
		cp := *l
		listingsSnap[id] = &cp
	}
	mediaSnap := make(map[uint][]models.ListingMedia, len(m.media))
	for id, rows := range m.media {
		mediaSnap[id] = append([]models.ListingMedia(nil), rows...)
	}
	nextID, nextMediaID := m.nextID, m.nextMediaID
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.listings = listingsSnap
		m.media = mediaSnap
		m.nextID = nextID
		m.nextMediaID = nextMediaID
		m.mu.Unlock()
		return err
	}
	return nil
}

type fakeFiles struct {
	stored      []string
	deleted     []string
	failStoreAt int // 1-based call index that fails; 0 never fails
	deleteErr   error
}

func (f *fakeFiles) Store(filename string, content io.Reader) (string, error) {
	if f.failStoreAt > 0 && len(f.stored)+1 == f.failStoreAt {
		return "", errors.New("disk full")
	}
	path := "/uploads/" + filename
	f.stored = append(f.stored, path)
	return path, nil
}

func (f *fakeFiles) Delete(pathOrName string) error {
	f.deleted = append(f.deleted, pathOrName)
	return f.deleteErr
}

type fakeUsers struct {
	byEmail map[string]*models.User
	byName  map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{
		byEmail: make(map[string]*models.User),
		byName:  make(map[string]*models.User),
	}
	for _, u := range users {
		f.byEmail[u.Email] = u
		if _, taken := f.byName[u.Name]; !taken {
			f.byName[u.Name] = u
		}
	}
	return f
}

func (f *fakeUsers) FindByEmail(email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUsers) FindByName(name string) (*models.User, error) {
	return f.byName[name], nil
}

type decisionEvent struct {
	ownerEmail string
	listingID  uint
	message    string
	decision   string
}

type fakeNotifier struct {
	events []decisionEvent
	err    error
}

func (f *fakeNotifier) PublishListingDecision(ownerEmail string, listingID uint, message, decision string) error {
	f.events = append(f.events, decisionEvent{ownerEmail, listingID, message, decision})
	return f.err
}

func newTestService(users ...*models.User) (*ListingService, *memStore, *fakeFiles, *fakeNotifier) {
	store := newMemStore()
	files := &fakeFiles{}
	notifier := &fakeNotifier{}
	svc := NewListingService(store, newFakeUsers(users...), files, notifier)
	return svc, store, files, notifier
}
