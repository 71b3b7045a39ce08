package listing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/venuelink/marketplace-backend/pkg/enums"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
)

func newTestDraft(t *testing.T) (*Draft, *PreviewLedger) {
	t.Helper()
	ledger := NewPreviewLedger()
	draft, err := NewDraft(DefaultSchema(), ledger)
	if err != nil {
		t.Fatalf("NewDraft: %v", err)
	}
	return draft, ledger
}

func uploads(names ...string) []StagedUpload {
	out := make([]StagedUpload, 0, len(names))
	for _, name := range names {
		out = append(out, StagedUpload{FileName: name, MimeType: "image/jpeg", Payload: []byte{0xFF}})
	}
	return out
}

func TestStagePhotosWithinCapacity(t *testing.T) {
	t.Parallel()

	draft, ledger := newTestDraft(t)

	admitted, err := draft.StagePhotos(uploads("a.jpg", "b.jpg", "c.jpg"))
	if err != nil {
		t.Fatalf("StagePhotos: %v", err)
	}
	if admitted != 3 {
		t.Fatalf("expected 3 admitted, got %d", admitted)
	}
	if got := draft.Counts(); got.StagedPhotos != 3 || got.PersistedPhotos != 0 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if ledger.OpenCount() != 3 {
		t.Fatalf("each staged photo should hold a preview ref, open=%d", ledger.OpenCount())
	}
}

func TestStagePhotosOverflowDropsExcess(t *testing.T) {
	t.Parallel()

	draft, ledger := newTestDraft(t)

	admitted, err := draft.StagePhotos(uploads("1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg", "7.jpg"))
	if err == nil {
		t.Fatal("overflow must signal capacity exceeded")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeCapacity) {
		t.Fatalf("expected capacity code, got %v", err)
	}
	if admitted != 5 {
		t.Fatalf("expected the truncated subset of 5 admitted, got %d", admitted)
	}
	if draft.Counts().StagedPhotos != 5 {
		t.Fatalf("draft should hold exactly 5 staged photos, got %d", draft.Counts().StagedPhotos)
	}
	if ledger.OpenCount() != 5 {
		t.Fatalf("rejected candidates must not acquire refs, open=%d", ledger.OpenCount())
	}
	// Admission order is preserved; the overflow was the tail.
	staged := draft.StagedPhotos()
	if staged[0].FileName != "1.jpg" || staged[4].FileName != "5.jpg" {
		t.Fatalf("unexpected admission order %v", staged)
	}
}

func TestStagePhotosHonorsPersistedCounts(t *testing.T) {
	t.Parallel()

	draft, _ := newTestDraft(t)
	draft.SeedFrom(&Listing{
		ID:    "L1",
		Price: decimal.RequireFromString("10"),
		Photos: []MediaAsset{
			PersistedAsset("u1", time.Now()),
			PersistedAsset("u2", time.Now()),
			PersistedAsset("u3", time.Now()),
		},
	})

	admitted, err := draft.StagePhotos(uploads("a.jpg", "b.jpg", "c.jpg"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeCapacity) {
		t.Fatalf("expected capacity code, got %v", err)
	}
	if admitted != 2 {
		t.Fatalf("3 persisted + 2 staged = 5; expected 2 admitted, got %d", admitted)
	}
	counts := draft.Counts()
	if counts.PersistedPhotos+counts.StagedPhotos != 5 {
		t.Fatalf("photo invariant violated: %+v", counts)
	}
}

func TestStageVideoSingleSlot(t *testing.T) {
	t.Parallel()

	draft, ledger := newTestDraft(t)

	if err := draft.StageVideo(StagedUpload{FileName: "v.mp4", MimeType: "video/mp4"}); err != nil {
		t.Fatalf("first video should stage: %v", err)
	}
	err := draft.StageVideo(StagedUpload{FileName: "w.mp4", MimeType: "video/mp4"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeCapacity) {
		t.Fatalf("second video must be rejected whole, got %v", err)
	}
	counts := draft.Counts()
	if counts.StagedVideos != 1 || counts.PersistedVideos != 0 {
		t.Fatalf("video invariant violated: %+v", counts)
	}
	if ledger.OpenCount() != 1 {
		t.Fatalf("rejected video must not leak a ref, open=%d", ledger.OpenCount())
	}
}

func TestStageVideoRejectedWhenPersistedVideoExists(t *testing.T) {
	t.Parallel()

	draft, _ := newTestDraft(t)
	draft.SeedFrom(&Listing{
		ID:     "L1",
		Price:  decimal.RequireFromString("10"),
		Videos: []MediaAsset{PersistedAsset("v1", time.Now())},
	})

	err := draft.StageVideo(StagedUpload{FileName: "v.mp4"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeCapacity) {
		t.Fatalf("persisted video occupies the slot, got %v", err)
	}
}

func TestRemoveStagedPhotoReleasesRefOnce(t *testing.T) {
	t.Parallel()

	draft, ledger := newTestDraft(t)
	if _, err := draft.StagePhotos(uploads("a.jpg", "b.jpg")); err != nil {
		t.Fatalf("StagePhotos: %v", err)
	}
	removed := draft.StagedPhotos()[0]

	if err := draft.RemoveStagedPhoto(0); err != nil {
		t.Fatalf("RemoveStagedPhoto: %v", err)
	}
	if ledger.OpenCount() != 1 {
		t.Fatalf("expected 1 open ref after removal, got %d", ledger.OpenCount())
	}
	if !removed.PreviewRef().Released() {
		t.Fatal("removed photo's ref should be released")
	}
	if err := removed.PreviewRef().Release(); err == nil {
		t.Fatal("a second release of the same ref must fail")
	}
	if draft.StagedPhotos()[0].FileName != "b.jpg" {
		t.Fatal("remaining staged photo should shift down")
	}

	if err := draft.RemoveStagedPhoto(5); err == nil {
		t.Fatal("out of range removal must fail")
	}
}

func TestRemoveStagedVideo(t *testing.T) {
	t.Parallel()

	draft, ledger := newTestDraft(t)
	if err := draft.StageVideo(StagedUpload{FileName: "v.mp4"}); err != nil {
		t.Fatalf("StageVideo: %v", err)
	}
	if err := draft.RemoveStagedVideo(); err != nil {
		t.Fatalf("RemoveStagedVideo: %v", err)
	}
	if ledger.OpenCount() != 0 {
		t.Fatalf("video ref should be released, open=%d", ledger.OpenCount())
	}
	if err := draft.RemoveStagedVideo(); err == nil {
		t.Fatal("removing a missing video must fail")
	}
}

func TestSeedFromCopiesScalarsAndMediaArms(t *testing.T) {
	t.Parallel()

	city := enums.PickupCityTampere
	persisted := &Listing{
		ID:           "L9",
		Title:        "Fresnel kit",
		Description:  "Three lamps and barn doors",
		Price:        decimal.RequireFromString("420.50"),
		Category:     enums.ListingCategoryLighting,
		Condition:    enums.ItemConditionUsed,
		Status:       enums.ListingStatusActive,
		Location:     &city,
		ContactPhone: "+358401234567",
		ContactEmail: "venue@example.fi",
		SellerType:   enums.SellerTypeVenue,
		Photos: []MediaAsset{
			PersistedAsset("p1", time.Now()),
			PersistedAsset("p2", time.Now()),
			PersistedAsset("p3", time.Now()),
		},
		Videos: []MediaAsset{PersistedAsset("v1", time.Now())},
	}

	draft, _ := newTestDraft(t)
	draft.SeedFrom(persisted)

	if draft.BoundID != "L9" {
		t.Fatalf("draft should bind the listing id, got %q", draft.BoundID)
	}
	if draft.Title != persisted.Title || draft.Description != persisted.Description {
		t.Fatal("scalars must copy verbatim")
	}
	if draft.Price != "420.5" {
		t.Fatalf("price should render from the decimal, got %q", draft.Price)
	}
	counts := draft.Counts()
	if counts.PersistedPhotos != 3 || counts.PersistedVideos != 1 {
		t.Fatalf("persisted arms should seed from the listing: %+v", counts)
	}
	if counts.StagedPhotos != 0 || counts.StagedVideos != 0 {
		t.Fatalf("staged arms must start empty: %+v", counts)
	}
}

func TestDiscardStagedReleasesEverything(t *testing.T) {
	t.Parallel()

	draft, ledger := newTestDraft(t)
	if _, err := draft.StagePhotos(uploads("a.jpg", "b.jpg", "c.jpg")); err != nil {
		t.Fatalf("StagePhotos: %v", err)
	}
	if err := draft.StageVideo(StagedUpload{FileName: "v.mp4"}); err != nil {
		t.Fatalf("StageVideo: %v", err)
	}

	if err := draft.DiscardStaged(); err != nil {
		t.Fatalf("DiscardStaged: %v", err)
	}
	if ledger.OpenCount() != 0 {
		t.Fatalf("discard must drain the ledger, open=%d", ledger.OpenCount())
	}
	if ledger.AcquiredCount() != ledger.ReleasedCount() {
		t.Fatalf("acquired %d != released %d", ledger.AcquiredCount(), ledger.ReleasedCount())
	}
	counts := draft.Counts()
	if counts.StagedPhotos != 0 || counts.StagedVideos != 0 {
		t.Fatalf("staged arms should be empty after discard: %+v", counts)
	}
}

func TestDropPersistedPhoto(t *testing.T) {
	t.Parallel()

	draft, _ := newTestDraft(t)
	draft.SeedFrom(&Listing{
		ID:    "L1",
		Price: decimal.RequireFromString("10"),
		Photos: []MediaAsset{
			PersistedAsset("u1", time.Now()),
			PersistedAsset("u2", time.Now()),
		},
	})

	if err := draft.DropPersistedPhoto(0); err != nil {
		t.Fatalf("DropPersistedPhoto: %v", err)
	}
	remaining := draft.PersistedPhotos()
	if len(remaining) != 1 || remaining[0].URL != "u2" {
		t.Fatalf("unexpected remaining photos %v", remaining)
	}
	if err := draft.DropPersistedPhoto(7); err == nil {
		t.Fatal("out of range drop must fail")
	}
}
