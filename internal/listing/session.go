package listing

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"github.com/venuelink/marketplace-backend/pkg/logger"
)

// State names a position in the listing lifecycle.
type State string

const (
	// StateAbsent means nothing has been loaded yet.
	StateAbsent State = "absent"
	// StateBrowsing means a persisted listing exists and no draft is open.
	StateBrowsing State = "browsing"
	// StateCreating means no persisted listing exists and a create draft is
	// open with no id bound.
	StateCreating State = "creating"
	// StateEditing means a draft bound to the persisted listing's id is open.
	StateEditing State = "editing"
	// StateSubmitting means a create or update is in flight.
	StateSubmitting State = "submitting"
	// StateDeleting means a delete is in flight.
	StateDeleting State = "deleting"
)

// Session is the explicit per-seller context object that owns the lifecycle
// state machine, the draft, and the preview-reference ledger. One logical
// actor drives it; it does not coordinate concurrent edits — the remote store
// is the sole arbiter of conflicts and submits are last-write-wins.
type Session struct {
	schema  Schema
	gateway Gateway
	tokens  TokenSource
	log     *logger.Logger
	ledger  *PreviewLedger

	state   State
	listing *Listing
	draft   *Draft
}

// SessionParams bundles the session dependencies.
type SessionParams struct {
	Schema  Schema
	Gateway Gateway
	Tokens  TokenSource
	Logger  *logger.Logger
}

// NewSession constructs a session in the Absent state.
func NewSession(params SessionParams) (*Session, error) {
	if err := params.Schema.Validate(); err != nil {
		return nil, err
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("listing gateway required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Session{
		schema:  params.Schema,
		gateway: params.Gateway,
		tokens:  params.Tokens,
		log:     params.Logger,
		ledger:  NewPreviewLedger(),
		state:   StateAbsent,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Listing returns the persisted listing the session currently mirrors, nil
// when the seller has none.
func (s *Session) Listing() *Listing {
	return s.listing
}

// Draft returns the open draft, nil while browsing or absent.
func (s *Session) Draft() *Draft {
	return s.draft
}

// Ledger exposes the preview-reference ledger for leak accounting.
func (s *Session) Ledger() *PreviewLedger {
	return s.ledger
}

func (s *Session) token(ctx context.Context) (string, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "seller token unavailable")
	}
	if strings.TrimSpace(token) == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "seller token missing")
	}
	return token, nil
}

func (s *Session) rejectInFlight(action string) error {
	if s.state == StateSubmitting || s.state == StateDeleting {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot %s while a %s operation is in flight", action, s.state))
	}
	return nil
}

// Load fetches the seller's listing and settles into Creating (none exists,
// the create view is the default) or Browsing (one does). Store-side "not
// found" is the same as "no listing yet".
func (s *Session) Load(ctx context.Context) error {
	if err := s.rejectInFlight("load"); err != nil {
		return err
	}
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	ctx = s.log.WithOperation(ctx, "load_listing")
	loaded, err := s.gateway.FetchMine(ctx, token)
	if err != nil {
		s.log.Error(ctx, "failed to load seller listing", err)
		return err
	}

	if s.draft != nil {
		if relErr := s.draft.DiscardStaged(); relErr != nil {
			s.log.Warn(ctx, "stale draft held unreleasable preview refs")
		}
		s.draft = nil
	}

	s.listing = loaded
	if loaded == nil {
		return s.openCreateDraft()
	}
	s.state = StateBrowsing
	s.log.Info(s.log.WithListingID(ctx, loaded.ID), "seller listing loaded")
	return nil
}

func (s *Session) openCreateDraft() error {
	draft, err := NewDraft(s.schema, s.ledger)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open create draft")
	}
	s.draft = draft
	s.state = StateCreating
	return nil
}

// OpenCreate opens a create draft by explicit user action. The guard: while a
// persisted listing exists, a second create flow is refused outright so the
// caller can explain why, never silently ignored.
func (s *Session) OpenCreate() error {
	if err := s.rejectInFlight("open create"); err != nil {
		return err
	}
	if s.listing != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			"a listing already exists for this seller; each seller may publish at most one")
	}
	return s.openCreateDraft()
}

// OpenEdit seeds a draft from the persisted listing and enters Editing.
func (s *Session) OpenEdit() error {
	if err := s.rejectInFlight("open edit"); err != nil {
		return err
	}
	if s.state != StateBrowsing || s.listing == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no persisted listing to edit")
	}
	draft, err := NewDraft(s.schema, s.ledger)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open edit draft")
	}
	draft.SeedFrom(s.listing)
	s.draft = draft
	s.state = StateEditing
	return nil
}

// Cancel abandons an edit draft: every staged preview reference is released
// and scalar edits are discarded. The persisted listing is untouched.
func (s *Session) Cancel() error {
	if err := s.rejectInFlight("cancel"); err != nil {
		return err
	}
	if s.state != StateEditing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no edit in progress to cancel")
	}
	err := s.draft.DiscardStaged()
	s.draft = nil
	s.state = StateBrowsing
	return err
}

// Submit validates the draft and performs the create or update. Validation
// failures never reach the network. On success the server's listing replaces
// the local one wholesale, staged references are released (the returned URLs
// supersede them), and the session lands in Browsing. On failure the draft —
// staged media included — is retained for retry and the prior state restored.
func (s *Session) Submit(ctx context.Context) (*Listing, error) {
	if err := s.rejectInFlight("submit"); err != nil {
		return nil, err
	}
	if s.state != StateCreating && s.state != StateEditing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no draft open to submit")
	}

	if result := s.draft.Validate(); !result.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft has invalid fields").
			WithDetails(map[string]string(result))
	}

	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	prior := s.state
	sub := s.draft.Submission()
	s.state = StateSubmitting

	var (
		saved *Listing
		opErr error
	)
	if prior == StateCreating {
		ctx = s.log.WithOperation(ctx, "create_listing")
		saved, opErr = s.gateway.Create(ctx, token, sub)
	} else {
		ctx = s.log.WithOperation(s.log.WithListingID(ctx, s.draft.BoundID), "update_listing")
		saved, opErr = s.gateway.Update(ctx, token, s.draft.BoundID, sub)
	}

	if opErr != nil {
		s.state = prior
		s.log.Error(ctx, "listing submit failed, draft retained", opErr)
		return nil, opErr
	}

	if relErr := s.draft.DiscardStaged(); relErr != nil {
		s.log.Warn(ctx, "staged preview refs were not cleanly released after submit")
	}
	s.draft = nil
	s.listing = saved
	s.state = StateBrowsing
	s.log.Info(s.log.WithListingID(ctx, saved.ID), "listing saved")
	return saved, nil
}

// DeleteListing removes the persisted listing. Success releases every
// client-held media reference and re-opens the create view: the "at most one"
// invariant has a free slot again. Failure restores the prior state.
func (s *Session) DeleteListing(ctx context.Context) error {
	if err := s.rejectInFlight("delete"); err != nil {
		return err
	}
	if s.state != StateBrowsing && s.state != StateEditing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no persisted listing to delete")
	}
	if s.listing == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no persisted listing to delete")
	}

	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	prior := s.state
	s.state = StateDeleting
	ctx = s.log.WithOperation(s.log.WithListingID(ctx, s.listing.ID), "delete_listing")

	if err := s.gateway.Delete(ctx, token, s.listing.ID); err != nil {
		s.state = prior
		s.log.Error(ctx, "listing delete failed", err)
		return err
	}

	if s.draft != nil {
		if relErr := s.draft.DiscardStaged(); relErr != nil {
			s.log.Warn(ctx, "staged preview refs were not cleanly released after delete")
		}
		s.draft = nil
	}
	s.listing = nil
	s.log.Info(ctx, "listing deleted")
	return s.openCreateDraft()
}

// DeletePhoto removes one persisted photo while editing. It tries the
// dedicated endpoint first; when the store does not offer it, it falls back
// to a full update carrying the remaining photo list minus the target.
func (s *Session) DeletePhoto(ctx context.Context, index int) error {
	if err := s.rejectInFlight("delete photo"); err != nil {
		return err
	}
	if s.state != StateEditing || s.draft == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "photo deletion requires an open edit draft")
	}
	persisted := s.draft.PersistedPhotos()
	if index < 0 || index >= len(persisted) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no persisted photo at index %d", index))
	}

	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	ctx = s.log.WithOperation(s.log.WithListingID(ctx, s.draft.BoundID), "delete_photo")
	updated, err := s.gateway.DeletePhotoAt(ctx, token, s.draft.BoundID, index)
	if err != nil && pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		// Endpoint unavailable: send the full remaining photo list instead.
		if dropErr := s.draft.DropPersistedPhoto(index); dropErr != nil {
			return dropErr
		}
		updated, err = s.gateway.Update(ctx, token, s.draft.BoundID, s.draft.Submission())
	}
	if err != nil {
		s.log.Error(ctx, "photo delete failed", err)
		return err
	}

	s.listing = updated
	// Re-seed the persisted arm from the server's canonical media set while
	// keeping staged media and scalar edits the user already made.
	s.draft.persistedPhotos = append([]MediaAsset(nil), updated.Photos...)
	s.draft.persistedVideos = append([]MediaAsset(nil), updated.Videos...)
	return nil
}
