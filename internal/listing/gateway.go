package listing

import (
	"context"
	"strings"

	"github.com/venuelink/marketplace-backend/pkg/enums"
)

// StagedFile is the wire form of a staged asset: one multipart file part.
type StagedFile struct {
	FieldName string
	FileName  string
	MimeType  string
	Payload   []byte
}

// Submission is the full payload a submit transmits: scalar fields plus the
// staged media, as one atomic multipart request. Last-write-wins: the
// retained photo URLs carry the full persisted set the draft was built from,
// not a diff.
type Submission struct {
	Title        string
	Description  string
	Price        string
	Status       enums.ListingStatus
	Category     enums.ListingCategory
	Condition    enums.ItemCondition
	Location     *enums.PickupCity
	ContactPhone string
	ContactEmail string
	SellerType   enums.SellerType

	RetainedPhotoURLs []string
	StagedPhotos      []StagedFile
	StagedVideo       *StagedFile
}

// Submission builds the wire payload from the draft's current state. Only
// staged payloads travel as file parts; persisted media is referenced by URL.
func (d *Draft) Submission() Submission {
	sub := Submission{
		Title:        strings.TrimSpace(d.Title),
		Description:  strings.TrimSpace(d.Description),
		Price:        strings.TrimSpace(d.Price),
		Status:       d.Status,
		Category:     d.Category,
		Condition:    d.Condition,
		Location:     d.Location,
		ContactPhone: strings.TrimSpace(d.ContactPhone),
		ContactEmail: strings.TrimSpace(d.ContactEmail),
		SellerType:   d.SellerType,
	}
	for _, asset := range d.persistedPhotos {
		sub.RetainedPhotoURLs = append(sub.RetainedPhotoURLs, asset.URL)
	}
	for _, asset := range d.stagedPhotos {
		sub.StagedPhotos = append(sub.StagedPhotos, StagedFile{
			FieldName: "photos",
			FileName:  asset.FileName,
			MimeType:  asset.MimeType,
			Payload:   asset.Payload,
		})
	}
	if len(d.stagedVideos) > 0 {
		video := d.stagedVideos[0]
		sub.StagedVideo = &StagedFile{
			FieldName: "video",
			FileName:  video.FileName,
			MimeType:  video.MimeType,
			Payload:   video.Payload,
		}
	}
	return sub
}

// Gateway is the consumed CRUD surface of the remote listing store. A nil
// listing from FetchMine means the seller has none yet; implementations must
// not surface store-side "not found" as an error there.
type Gateway interface {
	FetchMine(ctx context.Context, token string) (*Listing, error)
	Create(ctx context.Context, token string, sub Submission) (*Listing, error)
	Update(ctx context.Context, token, listingID string, sub Submission) (*Listing, error)
	Delete(ctx context.Context, token, listingID string) error
	// DeletePhotoAt removes one persisted photo by index and returns the
	// listing with that photo gone. Implementations without a dedicated
	// endpoint may return NOT_FOUND, in which case the session falls back to
	// a full update carrying the remaining photo list.
	DeletePhotoAt(ctx context.Context, token, listingID string, index int) (*Listing, error)
}

// TokenSource supplies the seller identity token. Token acquisition and
// storage belong to an external collaborator; this core only consumes it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource wraps a fixed token string.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}
