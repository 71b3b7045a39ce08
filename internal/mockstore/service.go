package mockstore

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/venuelink/marketplace-backend/internal/listing"
	"github.com/venuelink/marketplace-backend/pkg/enums"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"github.com/venuelink/marketplace-backend/pkg/logger"
	"github.com/venuelink/marketplace-backend/pkg/types"
)

// FileUpload is one uploaded file as extracted from a multipart request.
type FileUpload struct {
	FileName string
	MimeType string
	Content  []byte
}

// SubmissionInput is the parsed form of a create or update request. Scalars
// arrive as raw strings and are validated against the store's schema here.
type SubmissionInput struct {
	Title        string
	Description  string
	Price        string
	Status       string
	Category     string
	Condition    string
	Location     *string
	ContactPhone string
	ContactEmail string
	SellerType   string

	RetainedPhotoURLs []string
	Photos            []FileUpload
	Video             *FileUpload
}

type parsedSubmission struct {
	price      decimal.Decimal
	status     enums.ListingStatus
	category   enums.ListingCategory
	condition  enums.ItemCondition
	sellerType enums.SellerType
	location   *enums.PickupCity
}

// Service implements the listing store semantics on top of the repository.
type Service struct {
	repo         Repository
	schema       listing.Schema
	log          *logger.Logger
	mediaBaseURL string
	now          func() time.Time
	newID        func() string
}

// NewService wires the store service. mediaBaseURL is the absolute prefix
// under which uploaded media is served back, e.g. http://localhost:8080/api/v1/media.
func NewService(repo Repository, schema listing.Schema, log *logger.Logger, mediaBaseURL string) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if mediaBaseURL == "" {
		return nil, fmt.Errorf("media base url is required")
	}
	return &Service{
		repo:         repo,
		schema:       schema,
		log:          log,
		mediaBaseURL: strings.TrimRight(mediaBaseURL, "/"),
		now:          time.Now,
		newID:        uuid.NewString,
	}, nil
}

// GetListing returns the seller's listing, or NOT_FOUND when none exists.
func (s *Service) GetListing(ctx context.Context, sellerID string) (*types.ListingPayload, error) {
	row, err := s.repo.GetBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return s.toPayload(row), nil
}

// CreateListing stores a brand new listing. A second create for the same
// seller is a CONFLICT regardless of payload.
func (s *Service) CreateListing(ctx context.Context, sellerID string, in SubmissionInput) (*types.ListingPayload, error) {
	parsed, err := s.validate(in, len(in.Photos))
	if err != nil {
		return nil, err
	}

	now := s.now()
	row := &ListingRow{
		ID:        s.newID(),
		SellerID:  sellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.applyScalars(row, in, parsed)

	position := 0
	for _, photo := range in.Photos {
		row.Media = append(row.Media, s.newMediaRow(row.ID, MediaKindPhoto, photo, position, now))
		position++
	}
	if in.Video != nil {
		row.Media = append(row.Media, s.newMediaRow(row.ID, MediaKindVideo, *in.Video, 0, now))
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}
	ctx = s.log.WithListingID(s.log.WithSellerID(ctx, sellerID), row.ID)
	s.log.Info(ctx, "listing created")
	return s.toPayload(row), nil
}

// UpdateListing overwrites the listing wholesale. Persisted photos survive
// only when their URL appears in the retained set; a staged video replaces
// every stored video. Last write wins, no merge.
func (s *Service) UpdateListing(ctx context.Context, sellerID string, in SubmissionInput) (*types.ListingPayload, error) {
	row, err := s.repo.GetBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	retained := s.retainedPhotos(row, in.RetainedPhotoURLs)
	parsed, err := s.validate(in, len(retained)+len(in.Photos))
	if err != nil {
		return nil, err
	}

	now := s.now()
	s.applyScalars(row, in, parsed)
	row.UpdatedAt = now

	media := make([]MediaRow, 0, len(retained)+len(in.Photos)+1)
	position := 0
	for _, kept := range retained {
		kept.Position = position
		media = append(media, kept)
		position++
	}
	for _, photo := range in.Photos {
		media = append(media, s.newMediaRow(row.ID, MediaKindPhoto, photo, position, now))
		position++
	}
	if in.Video != nil {
		media = append(media, s.newMediaRow(row.ID, MediaKindVideo, *in.Video, 0, now))
	} else {
		media = append(media, VideosOf(row.Media)...)
	}

	if err := s.repo.Replace(ctx, row, media); err != nil {
		return nil, err
	}
	row.Media = media
	ctx = s.log.WithListingID(s.log.WithSellerID(ctx, sellerID), row.ID)
	s.log.Info(ctx, "listing replaced")
	return s.toPayload(row), nil
}

// DeleteListing removes the seller's listing and all of its media.
func (s *Service) DeleteListing(ctx context.Context, sellerID string) error {
	if err := s.repo.DeleteBySeller(ctx, sellerID); err != nil {
		return err
	}
	s.log.Info(s.log.WithSellerID(ctx, sellerID), "listing deleted")
	return nil
}

// DeletePhotoAt removes one stored photo by its position in the ordered photo
// collection and returns the updated listing.
func (s *Service) DeletePhotoAt(ctx context.Context, sellerID string, index int) (*types.ListingPayload, error) {
	row, err := s.repo.GetBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	photos := PhotosOf(row.Media)
	if index < 0 || index >= len(photos) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no photo at index %d", index))
	}

	media := make([]MediaRow, 0, len(row.Media)-1)
	position := 0
	for i, photo := range photos {
		if i == index {
			continue
		}
		photo.Position = position
		media = append(media, photo)
		position++
	}
	media = append(media, VideosOf(row.Media)...)
	row.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, row, media); err != nil {
		return nil, err
	}
	row.Media = media
	return s.toPayload(row), nil
}

// DeleteVideoByURL removes one stored video identified by its public URL.
func (s *Service) DeleteVideoByURL(ctx context.Context, sellerID, videoURL string) error {
	row, err := s.repo.GetBySeller(ctx, sellerID)
	if err != nil {
		return err
	}

	target := path.Base(videoURL)
	found := false
	media := make([]MediaRow, 0, len(row.Media))
	for _, item := range row.Media {
		if item.Kind == MediaKindVideo && item.ID == target {
			found = true
			continue
		}
		media = append(media, item)
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "video not found")
	}
	row.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, row, media); err != nil {
		return err
	}
	s.log.Info(s.log.WithListingID(s.log.WithSellerID(ctx, sellerID), row.ID), "video deleted")
	return nil
}

// Media loads one stored media file for serving.
func (s *Service) Media(ctx context.Context, mediaID string) (*MediaRow, error) {
	return s.repo.GetMedia(ctx, mediaID)
}

// Schema exposes the store's listing schema.
func (s *Service) Schema() listing.Schema {
	return s.schema
}

func (s *Service) validate(in SubmissionInput, totalPhotos int) (parsedSubmission, error) {
	var parsed parsedSubmission
	fields := map[string]string{}

	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "is required"
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	switch {
	case err != nil:
		fields["price"] = "must be a decimal number"
	case !price.IsPositive():
		fields["price"] = "must be greater than zero"
	default:
		parsed.price = price
	}

	if parsed.status, err = s.schema.Vocabulary.Parse(in.Status); err != nil {
		fields["status"] = fmt.Sprintf("must be one of the %s statuses", s.schema.Vocabulary.Name())
	}
	if parsed.category, err = enums.ParseListingCategory(in.Category); err != nil {
		fields["category"] = "is not a known category"
	}
	if parsed.condition, err = enums.ParseItemCondition(in.Condition); err != nil {
		fields["condition"] = "is not a known condition"
	}
	if parsed.sellerType, err = enums.ParseSellerType(in.SellerType); err != nil {
		fields["seller_type"] = "is not a known seller type"
	}
	if in.Location != nil {
		city, err := enums.ParsePickupCity(*in.Location)
		if err != nil {
			fields["location"] = "is not a known pickup city"
		} else {
			parsed.location = &city
		}
	}

	if totalPhotos < 1 {
		fields["photos"] = "at least one photo is required"
	}
	if totalPhotos > s.schema.MaxPhotos {
		fields["photos"] = fmt.Sprintf("at most %d photos are allowed", s.schema.MaxPhotos)
	}

	if len(fields) > 0 {
		return parsed, pkgerrors.New(pkgerrors.CodeValidation, "listing validation failed").WithDetails(fields)
	}
	return parsed, nil
}

func (s *Service) applyScalars(row *ListingRow, in SubmissionInput, parsed parsedSubmission) {
	row.Title = strings.TrimSpace(in.Title)
	row.Description = strings.TrimSpace(in.Description)
	row.Price = parsed.price
	row.Status = string(parsed.status)
	row.Category = string(parsed.category)
	row.Condition = string(parsed.condition)
	row.ContactPhone = strings.TrimSpace(in.ContactPhone)
	row.ContactEmail = strings.TrimSpace(in.ContactEmail)
	row.SellerType = string(parsed.sellerType)
	if parsed.location != nil {
		city := string(*parsed.location)
		row.Location = &city
	} else {
		row.Location = nil
	}
}

func (s *Service) newMediaRow(listingID, kind string, file FileUpload, position int, now time.Time) MediaRow {
	return MediaRow{
		ID:         s.newID(),
		ListingID:  listingID,
		Kind:       kind,
		FileName:   file.FileName,
		MimeType:   file.MimeType,
		Content:    file.Content,
		Position:   position,
		UploadedAt: now,
	}
}

// retainedPhotos resolves retained URLs back to stored photo rows. URLs that
// do not match a stored photo are dropped silently; the client owns the final
// photo set, not a merge.
func (s *Service) retainedPhotos(row *ListingRow, urls []string) []MediaRow {
	byID := map[string]MediaRow{}
	for _, photo := range PhotosOf(row.Media) {
		byID[photo.ID] = photo
	}
	var kept []MediaRow
	for _, raw := range urls {
		if photo, ok := byID[path.Base(raw)]; ok {
			kept = append(kept, photo)
		}
	}
	return kept
}

func (s *Service) mediaURL(id string) string {
	return s.mediaBaseURL + "/" + id
}

func (s *Service) toPayload(row *ListingRow) *types.ListingPayload {
	if row == nil {
		return nil
	}
	payload := &types.ListingPayload{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Price:        row.Price.String(),
		Category:     row.Category,
		Condition:    row.Condition,
		Status:       row.Status,
		Location:     row.Location,
		ContactPhone: row.ContactPhone,
		ContactEmail: row.ContactEmail,
		SellerType:   row.SellerType,
		CreatedAt:    row.CreatedAt,
	}
	for _, photo := range PhotosOf(row.Media) {
		payload.Photos = append(payload.Photos, types.MediaPayload{
			URL:        s.mediaURL(photo.ID),
			UploadedAt: photo.UploadedAt,
		})
	}
	for _, video := range VideosOf(row.Media) {
		payload.Videos = append(payload.Videos, types.MediaPayload{
			URL:        s.mediaURL(video.ID),
			UploadedAt: video.UploadedAt,
		})
	}
	return payload
}
