package mockstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelink/marketplace-backend/pkg/config"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
)

func setupRepoTestDB(t *testing.T) Repository {
	t.Helper()
	db, err := OpenDB(config.DBConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, err)
	return NewRepository(db)
}

func sampleRow(sellerID string) *ListingRow {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.NewString()
	return &ListingRow{
		ID:          id,
		SellerID:    sellerID,
		Title:       "Manfrotto 055 tripod",
		Description: "Aluminium, three sections",
		Price:       decimal.NewFromInt(120),
		Category:    "accessories",
		Condition:   "used",
		Status:      "active",
		SellerType:  "photographer",
		CreatedAt:   now,
		UpdatedAt:   now,
		Media: []MediaRow{
			{ID: uuid.NewString(), ListingID: id, Kind: MediaKindPhoto, FileName: "p0.jpg", Content: []byte{1}, Position: 0, UploadedAt: now},
			{ID: uuid.NewString(), ListingID: id, Kind: MediaKindVideo, FileName: "v0.mp4", Content: []byte{2}, Position: 0, UploadedAt: now},
		},
	}
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := setupRepoTestDB(t)
	ctx := context.Background()

	row := sampleRow("seller-1")
	require.NoError(t, repo.Create(ctx, row))

	got, err := repo.GetBySeller(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
	assert.Len(t, got.Media, 2)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(120)))

	_, err = repo.GetBySeller(ctx, "seller-2")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestRepositoryUniqueSeller(t *testing.T) {
	repo := setupRepoTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleRow("seller-1")))
	err := repo.Create(ctx, sampleRow("seller-1"))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestRepositoryReplace(t *testing.T) {
	repo := setupRepoTestDB(t)
	ctx := context.Background()

	row := sampleRow("seller-1")
	require.NoError(t, repo.Create(ctx, row))

	row.Title = "Manfrotto 055 carbon"
	replacement := []MediaRow{
		{ID: uuid.NewString(), ListingID: row.ID, Kind: MediaKindPhoto, FileName: "p1.jpg", Content: []byte{3}, Position: 0, UploadedAt: time.Now()},
	}
	require.NoError(t, repo.Replace(ctx, row, replacement))

	got, err := repo.GetBySeller(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, "Manfrotto 055 carbon", got.Title)
	require.Len(t, got.Media, 1)
	assert.Equal(t, "p1.jpg", got.Media[0].FileName)
}

func TestRepositoryDeleteBySeller(t *testing.T) {
	repo := setupRepoTestDB(t)
	ctx := context.Background()

	row := sampleRow("seller-1")
	require.NoError(t, repo.Create(ctx, row))
	mediaID := row.Media[0].ID

	require.NoError(t, repo.DeleteBySeller(ctx, "seller-1"))

	_, err := repo.GetBySeller(ctx, "seller-1")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	// media rows go with the listing
	_, err = repo.GetMedia(ctx, mediaID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	err = repo.DeleteBySeller(ctx, "seller-1")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestRepositoryGetMedia(t *testing.T) {
	repo := setupRepoTestDB(t)
	ctx := context.Background()

	row := sampleRow("seller-1")
	require.NoError(t, repo.Create(ctx, row))

	got, err := repo.GetMedia(ctx, row.Media[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, got.Content)
}
