package listing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/venuelink/marketplace-backend/pkg/enums"
)

// Listing is the canonical, server-owned representation of a seller's single
// marketplace item. All media here is persisted; staged media lives only in
// the draft.
type Listing struct {
	ID           string
	Title        string
	Description  string
	Price        decimal.Decimal
	Category     enums.ListingCategory
	Condition    enums.ItemCondition
	Status       enums.ListingStatus
	Location     *enums.PickupCity
	ContactPhone string
	ContactEmail string
	SellerType   enums.SellerType
	CreatedAt    time.Time

	// Photos is the ordered persisted photo collection, at most MaxPhotos.
	Photos []MediaAsset
	// Videos should hold at most one entry. A longer collection is a
	// violated invariant that the VideoReconciler repairs.
	Videos []MediaAsset
}

// Video returns the single persisted video, or nil when absent. It refuses to
// pick one when the invariant is violated.
func (l *Listing) Video() (*MediaAsset, error) {
	if l == nil || len(l.Videos) == 0 {
		return nil, nil
	}
	if len(l.Videos) > 1 {
		return nil, fmt.Errorf("listing %s holds %d videos, expected at most 1", l.ID, len(l.Videos))
	}
	return &l.Videos[0], nil
}

// Schema parameterizes the listing shape for a deployment: which status
// vocabulary applies and how many media slots exist.
type Schema struct {
	Vocabulary enums.StatusVocabulary
	MaxPhotos  int
	MaxVideos  int
}

// DefaultSchema returns the marketplace-surface schema: 5 photos, 1 video,
// {active, draft, sold, reserved}.
func DefaultSchema() Schema {
	return Schema{
		Vocabulary: enums.MarketplaceStatusVocabulary,
		MaxPhotos:  5,
		MaxVideos:  1,
	}
}

// Validate checks the schema itself is usable.
func (s Schema) Validate() error {
	if s.MaxPhotos <= 0 {
		return fmt.Errorf("schema max photos must be positive")
	}
	if s.MaxVideos <= 0 {
		return fmt.Errorf("schema max videos must be positive")
	}
	if len(s.Vocabulary.Values()) == 0 {
		return fmt.Errorf("schema status vocabulary is empty")
	}
	return nil
}

// Accountant returns the slot accountant for this schema's limits.
func (s Schema) Accountant() SlotAccountant {
	return SlotAccountant{MaxPhotos: s.MaxPhotos, MaxVideos: s.MaxVideos}
}
