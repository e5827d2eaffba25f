package services

import (
	"estate-listings-server/models"
	"io"
	"log"
	"strings"
	"time"
)

// FileUpload is one uploaded blob, decoupled from any transport framing.
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

func (f FileUpload) Empty() bool {
	return f.Size == 0 || f.Content == nil
}

// FileStore stores uploaded blobs and returns a stable reference path.
type FileStore interface {
	Store(filename string, content io.Reader) (string, error)
	Delete(pathOrName string) error
}

// UserDirectory resolves identities for attribution. Lookups return
// (nil, nil) when no identity matches.
type UserDirectory interface {
	FindByEmail(email string) (*models.User, error)
	FindByName(name string) (*models.User, error)
}

// DecisionNotifier delivers the moderation outcome to the owner. It is
// fire-and-forget from the workflow's perspective.
type DecisionNotifier interface {
	PublishListingDecision(ownerEmail string, listingID uint, message, decision string) error
}

// ListingStore is the persistence collaborator for listings and their media.
// Finders return (nil, nil) / empty slices when nothing matches.
type ListingStore interface {
	FindByID(id uint) (*models.Listing, error)
	FindAll() ([]models.Listing, error)
	Search(query string) ([]models.Listing, error)
	FindByType(t models.ListingType) ([]models.Listing, error)
	FindByStatus(s models.ListingStatus) ([]models.Listing, error)
	FindByOwnerEmail(email string) ([]models.Listing, error)
	Save(l *models.Listing) error
	AddMedia(m *models.ListingMedia) error
	// MarkDecided persists the decision fields only while the listing is
	// still in the expected status. Returns false when another decision
	// already won the race.
	MarkDecided(id uint, expect models.ListingStatus, decided *models.Listing) (bool, error)
	Delete(id uint) error
	InTransaction(fn func(ListingStore) error) error
}

// ListingService owns the listing lifecycle: intake of public submissions,
// direct creation, the PENDING -> AVAILABLE/REJECTED decision, updates and
// deletion. HTTP handlers pass the authenticated principal's email in
// explicitly; the service never inspects a session itself.
type ListingService struct {
	store    ListingStore
	users    UserDirectory
	files    FileStore
	notifier DecisionNotifier
}

func NewListingService(store ListingStore, users UserDirectory, files FileStore, notifier DecisionNotifier) *ListingService {
	return &ListingService{store: store, users: users, files: files, notifier: notifier}
}

func (s *ListingService) All() ([]models.Listing, error) {
	return s.store.FindAll()
}

func (s *ListingService) Get(id uint) (*models.Listing, error) {
	listing, err := s.store.FindByID(id)
	if err != nil {
		return nil, &StorageError{Op: "load listing", Err: err}
	}
	if listing == nil {
		return nil, &NotFoundError{Resource: "listing", ID: id}
	}
	return listing, nil
}

// Search matches the query against title and address.
func (s *ListingService) Search(query string) ([]models.Listing, error) {
	return s.store.Search(query)
}

func (s *ListingService) ByType(t models.ListingType) ([]models.Listing, error) {
	return s.store.FindByType(t)
}

// Pending returns the admin review queue.
func (s *ListingService) Pending() ([]models.Listing, error) {
	return s.store.FindByStatus(models.StatusPending)
}

// ByOwnerEmail backs "my listings": every listing attributed to the email,
// including ones that came in through the public submission flow.
func (s *ListingService) ByOwnerEmail(email string) ([]models.Listing, error) {
	return s.store.FindByOwnerEmail(email)
}

// CreateDirect persists an agent/admin-created listing. Status defaults to
// AVAILABLE, bypassing moderation. When a principal is present their identity
// is recorded as the handling agent, and owner fields are backfilled from it
// only when the caller left them blank.
func (s *ListingService) CreateDirect(l *models.Listing, principalEmail string) (*models.Listing, error) {
	if principalEmail != "" {
		agent, err := s.users.FindByEmail(principalEmail)
		if err == nil && agent != nil {
			l.AgentID = &agent.ID
			if strings.TrimSpace(l.OwnerName) == "" && agent.Name != "" {
				l.OwnerName = agent.Name
			}
		}
		// Keep owner email in sync so "my listings" returns
		// agent-created records too.
		if strings.TrimSpace(l.OwnerEmail) == "" {
			l.OwnerEmail = principalEmail
		}
	}

	if l.Status == "" {
		l.Status = models.StatusAvailable
	}

	if err := s.store.Save(l); err != nil {
		return nil, &StorageError{Op: "persist listing", Err: err}
	}
	return l, nil
}

// Submit persists an assembled draft at PENDING together with its uploaded
// blobs. Listing row, media rows and the thumbnail update run in one storage
// transaction; blobs stored before a later failure are removed best-effort,
// the aborted transaction being the authoritative rollback.
func (s *ListingService) Submit(draft *models.Listing, files []FileUpload) (*models.Listing, error) {
	var storedPaths []string

	err := s.store.InTransaction(func(tx ListingStore) error {
		if err := tx.Save(draft); err != nil {
			return &StorageError{Op: "persist listing", Err: err}
		}

		for _, f := range files {
			if f.Empty() {
				continue
			}

			path, err := s.files.Store(f.Filename, f.Content)
			if err != nil {
				return &StorageError{Op: "store upload " + f.Filename, Err: err}
			}
			storedPaths = append(storedPaths, path)

			media := models.ListingMedia{ListingID: draft.ID, FilePath: path}
			if err := tx.AddMedia(&media); err != nil {
				return &StorageError{Op: "persist media", Err: err}
			}
			draft.Media = append(draft.Media, media)

			if draft.ImageURL == "" {
				draft.ImageURL = path
			}
		}

		if len(storedPaths) > 0 {
			if err := tx.Save(draft); err != nil {
				return &StorageError{Op: "persist thumbnail", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		s.cleanupStoredFiles(storedPaths)
		return nil, err
	}

	return draft, nil
}

// Approve moves a PENDING listing to AVAILABLE.
func (s *ListingService) Approve(id uint, message string) (*models.Listing, error) {
	return s.decide(id, models.StatusAvailable, message, "Approved")
}

// Reject moves a PENDING listing to REJECTED with the given reason.
func (s *ListingService) Reject(id uint, reason string) (*models.Listing, error) {
	return s.decide(id, models.StatusRejected, reason, "Rejected")
}

func (s *ListingService) decide(id uint, terminal models.ListingStatus, message, label string) (*models.Listing, error) {
	listing, err := s.store.FindByID(id)
	if err != nil {
		return nil, &StorageError{Op: "load listing", Err: err}
	}
	if listing == nil {
		return nil, &NotFoundError{Resource: "listing", ID: id}
	}
	if listing.Status != models.StatusPending {
		return nil, &StateConflictError{Message: "listing is not in PENDING status"}
	}

	now := time.Now()
	listing.Status = terminal
	listing.AdminDecisionMessage = message
	if terminal == models.StatusRejected {
		listing.RejectionReason = message
	}
	listing.ReviewedAt = &now

	// Conditional update guards the concurrent double-decision race:
	// whichever decision commits first wins, the loser sees zero rows.
	decided, err := s.store.MarkDecided(id, models.StatusPending, listing)
	if err != nil {
		return nil, &StorageError{Op: "persist decision", Err: err}
	}
	if !decided {
		return nil, &StateConflictError{Message: "listing was already decided"}
	}

	// The decision is committed; notification is best-effort downstream.
	if err := s.notifier.PublishListingDecision(listing.OwnerEmail, listing.ID, message, label); err != nil {
		log.Printf("decision notification for listing %d failed: %v", listing.ID, err)
	}

	return listing, nil
}

// ListingUpdate is a full overwrite of the mutable attributes. It does not
// participate in the status machine beyond carrying the stored value.
type ListingUpdate struct {
	Title       string
	Description string
	Address     string
	Price       float64
	Type        models.ListingType
	HouseType   *models.HouseType
	Status      models.ListingStatus
	ImageURL    string
	Bedrooms    *int
	Bathrooms   *int
	AreaSqFt    *float64
	AgentID     *uint
}

func (s *ListingService) Update(id uint, in ListingUpdate) (*models.Listing, error) {
	listing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	listing.Title = in.Title
	listing.Description = in.Description
	listing.Address = in.Address
	listing.Price = in.Price
	listing.Type = in.Type
	listing.HouseType = in.HouseType
	listing.Status = in.Status
	listing.ImageURL = in.ImageURL
	listing.Bedrooms = in.Bedrooms
	listing.Bathrooms = in.Bathrooms
	listing.AreaSqFt = in.AreaSqFt
	listing.AgentID = in.AgentID

	if err := s.store.Save(listing); err != nil {
		return nil, &StorageError{Op: "persist listing", Err: err}
	}
	return listing, nil
}

// Delete removes the listing and, by cascade, its media rows.
func (s *ListingService) Delete(id uint) error {
	listing, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(listing.ID); err != nil {
		return &StorageError{Op: "delete listing", Err: err}
	}
	return nil
}

func (s *ListingService) cleanupStoredFiles(paths []string) {
	for _, p := range paths {
		name := p
		if i := strings.LastIndex(p, "/"); i >= 0 {
			name = p[i+1:]
		}
		if err := s.files.Delete(name); err != nil {
			// Best-effort: the aborted transaction already reverted the
			// listing and media rows.
			log.Printf("cleanup: could not remove stored file %s: %v", name, err)
		}
	}
}
