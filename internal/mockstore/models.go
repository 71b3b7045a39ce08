package mockstore

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Media kinds as persisted in the media table.
const (
	MediaKindPhoto = "photo"
	MediaKindVideo = "video"
)

// ListingRow is the persisted listing record. The unique index on SellerID is
// what enforces the one-listing-per-seller rule at the storage layer.
type ListingRow struct {
	ID           string          `gorm:"primaryKey;size:36"`
	SellerID     string          `gorm:"uniqueIndex;size:64;not null"`
	Title        string          `gorm:"size:200;not null"`
	Description  string          `gorm:"type:text;not null"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Category     string          `gorm:"size:32;not null"`
	Condition    string          `gorm:"size:32;not null"`
	Status       string          `gorm:"size:32;not null"`
	Location     *string         `gorm:"size:64"`
	ContactPhone string          `gorm:"size:32"`
	ContactEmail string          `gorm:"size:128"`
	SellerType   string          `gorm:"size:32;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Media []MediaRow `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the listing table name stable.
func (ListingRow) TableName() string { return "listings" }

// MediaRow is one persisted media file. Content holds the uploaded bytes; the
// store serves them back under /api/v1/media/{id}.
type MediaRow struct {
	ID         string `gorm:"primaryKey;size:36"`
	ListingID  string `gorm:"index;size:36;not null"`
	Kind       string `gorm:"size:8;not null"`
	FileName   string `gorm:"size:255"`
	MimeType   string `gorm:"size:64"`
	Content    []byte `gorm:"type:blob"`
	Position   int    `gorm:"not null"`
	UploadedAt time.Time
}

// TableName keeps the media table name stable.
func (MediaRow) TableName() string { return "listing_media" }

// PhotosOf filters and orders the photo rows of a listing.
func PhotosOf(media []MediaRow) []MediaRow {
	return mediaOfKind(media, MediaKindPhoto)
}

// VideosOf filters and orders the video rows of a listing.
func VideosOf(media []MediaRow) []MediaRow {
	return mediaOfKind(media, MediaKindVideo)
}

func mediaOfKind(media []MediaRow, kind string) []MediaRow {
	var out []MediaRow
	for _, row := range media {
		if row.Kind == kind {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
