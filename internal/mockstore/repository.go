package mockstore

import (
	"context"
	"errors"

	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository defines the persistence operations the store service needs.
type Repository interface {
	GetBySeller(ctx context.Context, sellerID string) (*ListingRow, error)
	Create(ctx context.Context, row *ListingRow) error
	Replace(ctx context.Context, row *ListingRow, media []MediaRow) error
	DeleteBySeller(ctx context.Context, sellerID string) error
	GetMedia(ctx context.Context, mediaID string) (*MediaRow, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetBySeller(ctx context.Context, sellerID string) (*ListingRow, error) {
	var row ListingRow
	err := r.db.WithContext(ctx).
		Preload("Media").
		Where("seller_id = ?", sellerID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no listing for seller")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return &row, nil
}

func (r *gormRepository) Create(ctx context.Context, row *ListingRow) error {
	err := r.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.New(pkgerrors.CodeConflict, "seller already has a listing")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	return nil
}

// Replace persists a full overwrite of the listing: scalar columns plus the
// complete replacement media set, in one transaction.
func (r *gormRepository) Replace(ctx context.Context, row *ListingRow, media []MediaRow) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Media").Save(row).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", row.ID).Delete(&MediaRow{}).Error; err != nil {
			return err
		}
		if len(media) == 0 {
			return nil
		}
		return tx.Create(&media).Error
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace listing")
	}
	return nil
}

func (r *gormRepository) DeleteBySeller(ctx context.Context, sellerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row ListingRow
		err := tx.Where("seller_id = ?", sellerID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no listing for seller")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
		}
		if err := tx.Where("listing_id = ?", row.ID).Delete(&MediaRow{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing media")
		}
		if err := tx.Delete(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
		}
		return nil
	})
}

func (r *gormRepository) GetMedia(ctx context.Context, mediaID string) (*MediaRow, error) {
	var row MediaRow
	err := r.db.WithContext(ctx).Where("id = ?", mediaID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
	}
	return &row, nil
}
