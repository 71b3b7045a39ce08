package enums

import "fmt"

// ListingStatus represents the publication state of a seller's listing.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusSold     ListingStatus = "sold"
	ListingStatusReserved ListingStatus = "reserved"
	ListingStatusHidden   ListingStatus = "hidden"
)

// String implements fmt.Stringer.
func (s ListingStatus) String() string {
	return string(s)
}

// StatusVocabulary is the configured set of statuses a listing schema admits.
// The marketplace and seller surfaces historically disagree on the set, so the
// vocabulary is a schema parameter rather than a single hard-coded enum.
type StatusVocabulary struct {
	name   string
	values []ListingStatus
}

var (
	// MarketplaceStatusVocabulary is the vocabulary used by the marketplace
	// listing surface: {active, draft, sold, reserved}.
	MarketplaceStatusVocabulary = StatusVocabulary{
		name: "marketplace",
		values: []ListingStatus{
			ListingStatusActive,
			ListingStatusDraft,
			ListingStatusSold,
			ListingStatusReserved,
		},
	}

	// SellerStatusVocabulary is the vocabulary used by the seller dashboard
	// surface: {active, sold, hidden}.
	SellerStatusVocabulary = StatusVocabulary{
		name: "seller",
		values: []ListingStatus{
			ListingStatusActive,
			ListingStatusSold,
			ListingStatusHidden,
		},
	}
)

// Name returns the vocabulary identifier.
func (v StatusVocabulary) Name() string {
	return v.name
}

// Values returns a copy of the admitted statuses.
func (v StatusVocabulary) Values() []ListingStatus {
	return append([]ListingStatus(nil), v.values...)
}

// Contains reports whether the status belongs to the vocabulary.
func (v StatusVocabulary) Contains(status ListingStatus) bool {
	for _, candidate := range v.values {
		if candidate == status {
			return true
		}
	}
	return false
}

// Default returns the status a fresh draft starts in.
func (v StatusVocabulary) Default() ListingStatus {
	return ListingStatusActive
}

// Parse converts raw input into a ListingStatus admitted by the vocabulary.
// Unknown values are rejected, never coerced.
func (v StatusVocabulary) Parse(value string) (ListingStatus, error) {
	for _, candidate := range v.values {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q for %s vocabulary", value, v.name)
}

// StatusVocabularyByName resolves a configured vocabulary by identifier.
func StatusVocabularyByName(name string) (StatusVocabulary, error) {
	switch name {
	case MarketplaceStatusVocabulary.name:
		return MarketplaceStatusVocabulary, nil
	case SellerStatusVocabulary.name:
		return SellerStatusVocabulary, nil
	}
	return StatusVocabulary{}, fmt.Errorf("unknown status vocabulary %q", name)
}
