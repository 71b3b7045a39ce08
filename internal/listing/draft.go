package listing

import (
	"fmt"

	"github.com/venuelink/marketplace-backend/pkg/enums"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"go.uber.org/multierr"
)

// StagedUpload is the raw material for a staged asset: a binary payload the
// user selected locally.
type StagedUpload struct {
	FileName string
	MimeType string
	Payload  []byte
}

// Draft is the mutable form state for a listing being created or edited.
// Scalar fields are kept as entered; Validate parses and reports violations.
// Media mutation funnels through the schema's SlotAccountant so the photo and
// video invariants hold after every operation.
type Draft struct {
	schema Schema
	ledger *PreviewLedger

	// BoundID is the persisted listing id when the draft was opened for
	// editing, empty for a create draft.
	BoundID string

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

	persistedPhotos []MediaAsset
	stagedPhotos    []MediaAsset
	persistedVideos []MediaAsset
	stagedVideos    []MediaAsset
}

// NewDraft opens an empty create draft against the given schema. The ledger
// tracks every preview reference the draft acquires.
func NewDraft(schema Schema, ledger *PreviewLedger) (*Draft, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, fmt.Errorf("preview ledger required")
	}
	return &Draft{
		schema: schema,
		ledger: ledger,
		Status: schema.Vocabulary.Default(),
	}, nil
}

// SeedFrom copies a persisted listing into the draft: scalars verbatim, the
// listing's media into the persisted arm, staged arms empty.
func (d *Draft) SeedFrom(l *Listing) {
	if l == nil {
		return
	}
	d.BoundID = l.ID
	d.Title = l.Title
	d.Description = l.Description
	d.Price = l.Price.String()
	d.Status = l.Status
	d.Category = l.Category
	d.Condition = l.Condition
	d.Location = l.Location
	d.ContactPhone = l.ContactPhone
	d.ContactEmail = l.ContactEmail
	d.SellerType = l.SellerType
	d.persistedPhotos = append([]MediaAsset(nil), l.Photos...)
	d.persistedVideos = append([]MediaAsset(nil), l.Videos...)
	d.stagedPhotos = nil
	d.stagedVideos = nil
}

// MediaCounts is a snapshot of the draft's slot usage.
type MediaCounts struct {
	PersistedPhotos int
	StagedPhotos    int
	PersistedVideos int
	StagedVideos    int
}

// Counts returns the current slot usage.
func (d *Draft) Counts() MediaCounts {
	return MediaCounts{
		PersistedPhotos: len(d.persistedPhotos),
		StagedPhotos:    len(d.stagedPhotos),
		PersistedVideos: len(d.persistedVideos),
		StagedVideos:    len(d.stagedVideos),
	}
}

// RemainingPhotoSlots reports how many more photos the draft can take.
func (d *Draft) RemainingPhotoSlots() int {
	return d.schema.Accountant().RemainingPhotoSlots(len(d.persistedPhotos), len(d.stagedPhotos))
}

// RemainingVideoSlots reports how many more videos the draft can take.
func (d *Draft) RemainingVideoSlots() int {
	return d.schema.Accountant().RemainingVideoSlots(len(d.persistedVideos), len(d.stagedVideos))
}

// StagedPhotos returns the staged photo collection in admission order.
func (d *Draft) StagedPhotos() []MediaAsset {
	return append([]MediaAsset(nil), d.stagedPhotos...)
}

// PersistedPhotos returns the persisted photo collection in server order.
func (d *Draft) PersistedPhotos() []MediaAsset {
	return append([]MediaAsset(nil), d.persistedPhotos...)
}

// StagedVideo returns the staged video, or nil.
func (d *Draft) StagedVideo() *MediaAsset {
	if len(d.stagedVideos) == 0 {
		return nil
	}
	v := d.stagedVideos[0]
	return &v
}

// StagePhotos admits as many candidates as fit, in order, acquiring a preview
// reference per admitted upload. When candidates overflow the remaining
// capacity the overflow is dropped and a CAPACITY_EXCEEDED error reports how
// many; the admitted subset is still applied.
func (d *Draft) StagePhotos(candidates []StagedUpload) (admitted int, err error) {
	remaining := d.RemainingPhotoSlots()
	fit, rejected := AdmitPhotos(candidates, remaining)
	for _, candidate := range fit {
		d.stagedPhotos = append(d.stagedPhotos, d.stage(candidate))
	}
	if rejected > 0 {
		return len(fit), pkgerrors.New(pkgerrors.CodeCapacity,
			fmt.Sprintf("%d of %d photos dropped, %d slots were available", rejected, len(candidates), remaining)).
			WithDetails(map[string]int{"admitted": len(fit), "rejected": rejected})
	}
	return len(fit), nil
}

// StageVideo admits the candidate only when a video slot is open; otherwise
// the whole candidate is rejected.
func (d *Draft) StageVideo(candidate StagedUpload) error {
	if !AdmitVideo(d.RemainingVideoSlots()) {
		return pkgerrors.New(pkgerrors.CodeCapacity, "video slot already occupied")
	}
	d.stagedVideos = append(d.stagedVideos, d.stage(candidate))
	return nil
}

func (d *Draft) stage(upload StagedUpload) MediaAsset {
	return MediaAsset{
		Kind:     AssetStaged,
		FileName: upload.FileName,
		MimeType: upload.MimeType,
		Payload:  upload.Payload,
		preview:  d.ledger.Acquire(),
	}
}

// RemoveStagedPhoto drops the staged photo at index and releases its preview
// reference.
func (d *Draft) RemoveStagedPhoto(index int) error {
	if index < 0 || index >= len(d.stagedPhotos) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no staged photo at index %d", index))
	}
	asset := d.stagedPhotos[index]
	d.stagedPhotos = append(d.stagedPhotos[:index], d.stagedPhotos[index+1:]...)
	return asset.releasePreview()
}

// RemoveStagedVideo drops the staged video and releases its preview reference.
func (d *Draft) RemoveStagedVideo() error {
	if len(d.stagedVideos) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no staged video to remove")
	}
	asset := d.stagedVideos[0]
	d.stagedVideos = d.stagedVideos[1:]
	return asset.releasePreview()
}

// DropPersistedPhoto removes the persisted photo at index from the draft's
// view. The server-side delete is the session's job; this only adjusts the
// retained set the next submit will carry.
func (d *Draft) DropPersistedPhoto(index int) error {
	if index < 0 || index >= len(d.persistedPhotos) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no persisted photo at index %d", index))
	}
	d.persistedPhotos = append(d.persistedPhotos[:index], d.persistedPhotos[index+1:]...)
	return nil
}

// DiscardStaged releases every staged preview reference and empties the
// staged arms. Used on cancel, on successful submit (server URLs supersede
// the staged payloads), and on listing delete.
func (d *Draft) DiscardStaged() error {
	var errs error
	for _, asset := range d.stagedPhotos {
		errs = multierr.Append(errs, asset.releasePreview())
	}
	for _, asset := range d.stagedVideos {
		errs = multierr.Append(errs, asset.releasePreview())
	}
	d.stagedPhotos = nil
	d.stagedVideos = nil
	return errs
}
