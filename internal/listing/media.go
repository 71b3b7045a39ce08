package listing

import (
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
)

// AssetKind distinguishes the two arms of the MediaAsset union.
type AssetKind string

const (
	// AssetPersisted marks media the remote store already owns; the client
	// holds only the durable URL.
	AssetPersisted AssetKind = "persisted"
	// AssetStaged marks media selected locally and not yet submitted. The
	// payload lives in memory and the preview reference must be released
	// exactly once.
	AssetStaged AssetKind = "staged"
)

// MediaAsset is the tagged union for listing media. Exactly one arm is
// populated depending on Kind; no runtime type probing is needed.
type MediaAsset struct {
	Kind AssetKind

	// Persisted arm.
	URL        string
	UploadedAt time.Time

	// Staged arm.
	FileName string
	MimeType string
	Payload  []byte
	preview  *PreviewRef
}

// PersistedAsset builds the persisted arm from a durable URL.
func PersistedAsset(url string, uploadedAt time.Time) MediaAsset {
	return MediaAsset{
		Kind:       AssetPersisted,
		URL:        url,
		UploadedAt: uploadedAt,
	}
}

// PreviewRef returns the ephemeral reference for a staged asset, nil for
// persisted ones.
func (a MediaAsset) PreviewRef() *PreviewRef {
	return a.preview
}

// releasePreview frees the staged arm's ephemeral reference. Releasing a
// persisted asset is a no-op.
func (a MediaAsset) releasePreview() error {
	if a.Kind != AssetStaged || a.preview == nil {
		return nil
	}
	return a.preview.Release()
}

// PreviewRef is an ephemeral, locally-valid-only handle to a staged payload.
// The draft that acquired it owns it exclusively and must release it on every
// exit path: removal, cancel, submit success, or listing delete.
type PreviewRef struct {
	id     string
	ledger *PreviewLedger

	mu       sync.Mutex
	released bool
}

// ID returns the locally-unique reference identifier.
func (r *PreviewRef) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

// Released reports whether the reference has been freed.
func (r *PreviewRef) Released() bool {
	if r == nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// Release frees the reference. A second call is an error: the owner released
// something it no longer holds.
func (r *PreviewRef) Release() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "preview reference already released")
	}
	r.released = true
	r.ledger.markReleased(r.id)
	return nil
}

// PreviewLedger tracks every acquired preview reference so leak tests can
// assert the open count drains to zero.
type PreviewLedger struct {
	mu       sync.Mutex
	open     map[string]struct{}
	acquired int
	released int
}

// NewPreviewLedger constructs an empty ledger.
func NewPreviewLedger() *PreviewLedger {
	return &PreviewLedger{open: make(map[string]struct{})}
}

// Acquire mints a new reference owned by the calling draft.
func (l *PreviewLedger) Acquire() *PreviewRef {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := uuid.NewString()
	l.open[id] = struct{}{}
	l.acquired++
	return &PreviewRef{id: id, ledger: l}
}

func (l *PreviewLedger) markReleased(id string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.open, id)
	l.released++
}

// OpenCount returns how many references are still held.
func (l *PreviewLedger) OpenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.open)
}

// AcquiredCount returns the total number of references ever minted.
func (l *PreviewLedger) AcquiredCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquired
}

// ReleasedCount returns the total number of references freed.
func (l *PreviewLedger) ReleasedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}
