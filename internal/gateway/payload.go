package gateway

import (
	"github.com/shopspring/decimal"
	"github.com/venuelink/marketplace-backend/internal/listing"
	"github.com/venuelink/marketplace-backend/pkg/enums"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"github.com/venuelink/marketplace-backend/pkg/types"
)

// FromPayload converts the wire shape into the domain listing, interpreting
// the status through the caller's configured vocabulary. A store response the
// schema cannot interpret is a dependency fault, not a validation one.
func FromPayload(p *types.ListingPayload, schema listing.Schema) (*listing.Listing, error) {
	if p == nil {
		return nil, nil
	}

	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store returned unparseable price")
	}
	status, err := schema.Vocabulary.Parse(p.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store returned unknown status")
	}
	category, err := enums.ParseListingCategory(p.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store returned unknown category")
	}
	condition, err := enums.ParseItemCondition(p.Condition)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store returned unknown condition")
	}
	sellerType, err := enums.ParseSellerType(p.SellerType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store returned unknown seller type")
	}
	var location *enums.PickupCity
	if p.Location != nil {
		city, err := enums.ParsePickupCity(*p.Location)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store returned unknown pickup city")
		}
		location = &city
	}

	result := &listing.Listing{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        price,
		Category:     category,
		Condition:    condition,
		Status:       status,
		Location:     location,
		ContactPhone: p.ContactPhone,
		ContactEmail: p.ContactEmail,
		SellerType:   sellerType,
		CreatedAt:    p.CreatedAt,
	}
	for _, photo := range p.Photos {
		result.Photos = append(result.Photos, listing.PersistedAsset(photo.URL, photo.UploadedAt))
	}
	for _, video := range p.Videos {
		result.Videos = append(result.Videos, listing.PersistedAsset(video.URL, video.UploadedAt))
	}
	return result, nil
}

// ToPayload converts a domain listing back into the wire shape. Staged assets
// never travel this way; only persisted media carries a URL.
func ToPayload(l *listing.Listing) *types.ListingPayload {
	if l == nil {
		return nil
	}
	payload := &types.ListingPayload{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price.String(),
		Category:     string(l.Category),
		Condition:    string(l.Condition),
		Status:       string(l.Status),
		ContactPhone: l.ContactPhone,
		ContactEmail: l.ContactEmail,
		SellerType:   string(l.SellerType),
		CreatedAt:    l.CreatedAt,
	}
	if l.Location != nil {
		city := string(*l.Location)
		payload.Location = &city
	}
	for _, photo := range l.Photos {
		payload.Photos = append(payload.Photos, types.MediaPayload{URL: photo.URL, UploadedAt: photo.UploadedAt})
	}
	for _, video := range l.Videos {
		payload.Videos = append(payload.Videos, types.MediaPayload{URL: video.URL, UploadedAt: video.UploadedAt})
	}
	return payload
}
