// Package invoice holds draft-level business logic: creating empty drafts
// and allocating temporary offline numbers before the remote store has
// assigned a canonical one.
package invoice

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/primesolution/invoicer/internal/client/models"
)

// TempIDPrefix marks client-generated placeholder numbers. The remote store
// recognizes the prefix when building its id mapping.
const TempIDPrefix = "OFF-"

// PlaceholderNumber is shown before the first save.
const PlaceholderNumber = "DRAFT"

// DefaultDueDays is how far in the future the due date of a fresh draft is set.
const DefaultDueDays = 15

// Service creates drafts and allocates temp ids. Allocation is local-only:
// no network access, no error conditions.
type Service struct {
	mu        sync.Mutex
	lastStamp int64
	now       func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// Defaults carries seller identity and tax settings applied to new drafts.
// Typically loaded from the remote store's global defaults, with local
// fallbacks.
type Defaults struct {
	SellerName    string
	SellerEmail   string
	SellerAddress string
	SellerPhone   string
	Currency      string
	TaxRate       float64
	Language      string
}

// NewDraft returns a fresh unsaved draft with a stable client-side UUID.
// CreatedBy stays empty here; it is attributed at first save from whoever is
// logged in at that point.
func (s *Service) NewDraft(d Defaults) *models.Invoice {
	now := s.now()
	currency := d.Currency
	if currency == "" {
		currency = "EGP"
	}
	language := d.Language
	if language == "" {
		language = "en"
	}
	taxRate := d.TaxRate
	if taxRate == 0 {
		taxRate = 14
	}

	return &models.Invoice{
		Id:            uuid.NewString(),
		InvoiceNumber: PlaceholderNumber,
		SyncStatus:    models.SyncStatusUnsaved,
		DocumentType:  models.DocumentTypeInvoice,
		Language:      language,
		Title:         "Invoice",
		Date:          now.Format("2006-01-02"),
		DueDate:       now.AddDate(0, 0, DefaultDueDays).Format("2006-01-02"),
		Currency:      currency,
		SellerName:    d.SellerName,
		SellerEmail:   d.SellerEmail,
		SellerAddress: d.SellerAddress,
		SellerPhone:   d.SellerPhone,
		Items:         []models.Item{{ID: "1", Description: "", Quantity: 1, Price: 0}},
		TaxRate:       taxRate,
		CreatedAt:     now.UTC().Format(time.RFC3339),
	}
}

// AllocateTempID assigns a temporary offline number to an unsaved draft and
// flips it to pending. The number is the prefix plus the wall-clock
// timestamp in uppercase base-36, so it is short and sorts by creation time.
// Uniqueness is only required within this client; collisions across clients
// are resolved by the server, which issues the real number regardless.
//
// Calling it on a draft that is already pending or synced is a no-op and
// returns the existing number.
func (s *Service) AllocateTempID(inv *models.Invoice) string {
	if inv.SyncStatus != models.SyncStatusUnsaved {
		return inv.InvoiceNumber
	}

	tempID := TempIDPrefix + strings.ToUpper(strconv.FormatInt(s.nextStamp(), 36))

	inv.InvoiceNumber = tempID
	inv.TempId = tempID
	inv.SyncStatus = models.SyncStatusPending
	return tempID
}

// nextStamp returns the current time in milliseconds, bumped forward when
// two allocations land on the same millisecond so ids stay pairwise distinct.
func (s *Service) nextStamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.now().UnixMilli()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	s.lastStamp = stamp
	return stamp
}
