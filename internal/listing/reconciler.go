package listing

import (
	"context"
	"fmt"
	"sort"

	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"github.com/venuelink/marketplace-backend/pkg/logger"
	"go.uber.org/multierr"
)

// videoDeleter is the slice of the remote store the reconciler consumes: one
// destructive delete per excess video.
type videoDeleter interface {
	DeleteVideo(ctx context.Context, token, listingID, videoURL string) error
}

// VideoReconciler repairs listings whose persisted video collection exceeds
// the single-slot invariant. It is invoked explicitly by the user, never
// automatically: the deletes it issues are remote and irreversible.
type VideoReconciler struct {
	deleter videoDeleter
	log     *logger.Logger
}

// NewVideoReconciler constructs the repair routine.
func NewVideoReconciler(deleter videoDeleter, log *logger.Logger) (*VideoReconciler, error) {
	if deleter == nil {
		return nil, fmt.Errorf("video deleter required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &VideoReconciler{deleter: deleter, log: log}, nil
}

// ReconcileReport describes the outcome of one repair pass.
type ReconcileReport struct {
	// KeptURL is the most recently uploaded video, the one retained.
	KeptURL string
	// Deleted counts the excess videos successfully removed.
	Deleted int
	// Failed aggregates the per-item delete failures; a failed delete of one
	// excess item does not abort deletion of the others.
	Failed error
}

// Reconcile sorts the persisted videos by upload timestamp descending, keeps
// the newest, and deletes the rest one at a time, best effort.
func (r *VideoReconciler) Reconcile(ctx context.Context, token string, l *Listing) (*ReconcileReport, error) {
	if l == nil || l.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a persisted listing is required")
	}
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller token missing")
	}

	if len(l.Videos) <= 1 {
		report := &ReconcileReport{}
		if len(l.Videos) == 1 {
			report.KeptURL = l.Videos[0].URL
		}
		return report, nil
	}

	sorted := append([]MediaAsset(nil), l.Videos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UploadedAt.After(sorted[j].UploadedAt)
	})

	ctx = r.log.WithOperation(r.log.WithListingID(ctx, l.ID), "reconcile_videos")
	r.log.Warn(ctx, fmt.Sprintf("listing holds %d videos, repairing down to 1", len(sorted)))

	report := &ReconcileReport{KeptURL: sorted[0].URL}
	for _, excess := range sorted[1:] {
		if err := r.deleter.DeleteVideo(ctx, token, l.ID, excess.URL); err != nil {
			r.log.Error(ctx, "excess video delete failed, continuing", err)
			report.Failed = multierr.Append(report.Failed,
				fmt.Errorf("delete video %s: %w", excess.URL, err))
			continue
		}
		report.Deleted++
	}
	return report, nil
}
