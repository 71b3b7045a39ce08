package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/venuelink/marketplace-backend/internal/listing"
	"github.com/venuelink/marketplace-backend/pkg/config"
	"github.com/venuelink/marketplace-backend/pkg/enums"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"github.com/venuelink/marketplace-backend/pkg/logger"
	"github.com/venuelink/marketplace-backend/pkg/types"
)

func newTestGateway(t *testing.T, handler http.Handler) (*HTTPGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := New(
		config.StoreConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second},
		listing.DefaultSchema(),
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		nil,
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return gw, srv
}

func samplePayload() *types.ListingPayload {
	uploaded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	city := "helsinki"
	return &types.ListingPayload{
		ID:          "L1",
		Title:       "Aputure 600d",
		Description: "Barely used daylight fixture",
		Price:       "420.5",
		Category:    "lighting",
		Condition:   "like_new",
		Status:      "active",
		Location:    &city,
		SellerType:  "venue",
		CreatedAt:   uploaded,
		Photos: []types.MediaPayload{
			{URL: "https://cdn.example/L1/p0.jpg", UploadedAt: uploaded},
		},
		Videos: []types.MediaPayload{
			{URL: "https://cdn.example/L1/v0.mp4", UploadedAt: uploaded},
		},
	}
}

func writeListing(t *testing.T, w http.ResponseWriter, payload *types.ListingPayload) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(types.SuccessEnvelope{
		Data: types.ListingEnvelope{Listing: payload},
	})
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestFetchMine(t *testing.T) {
	t.Parallel()

	var gotAuth string
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/sellers/me/listing" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeListing(t, w, samplePayload())
	}))

	got, err := gw.FetchMine(context.Background(), "seller-token")
	if err != nil {
		t.Fatalf("FetchMine() error = %v", err)
	}
	if got == nil || got.ID != "L1" {
		t.Fatalf("FetchMine() = %+v, want listing L1", got)
	}
	if gotAuth != "Bearer seller-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if got.Price.String() != "420.5" {
		t.Errorf("Price = %s, want 420.5", got.Price)
	}
	if len(got.Photos) != 1 || got.Photos[0].Kind != listing.AssetPersisted {
		t.Errorf("Photos = %+v, want one persisted asset", got.Photos)
	}
}

func TestFetchMineNoListing(t *testing.T) {
	t.Parallel()

	t.Run("store 404", func(t *testing.T) {
		t.Parallel()
		gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		got, err := gw.FetchMine(context.Background(), "seller-token")
		if err != nil {
			t.Fatalf("FetchMine() error = %v, want nil on 404", err)
		}
		if got != nil {
			t.Fatalf("FetchMine() = %+v, want nil", got)
		}
	})

	t.Run("null listing", func(t *testing.T) {
		t.Parallel()
		gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeListing(t, w, nil)
		}))
		got, err := gw.FetchMine(context.Background(), "seller-token")
		if err != nil {
			t.Fatalf("FetchMine() error = %v", err)
		}
		if got != nil {
			t.Fatalf("FetchMine() = %+v, want nil", got)
		}
	})
}

func TestCreateSendsMultipart(t *testing.T) {
	t.Parallel()

	type received struct {
		retained string
		photos   []string
		video    string
		title    string
	}
	var got received
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		got.title = r.FormValue("title")
		got.retained = r.FormValue("retained_photos")
		for _, part := range r.MultipartForm.File["photos"] {
			got.photos = append(got.photos, part.Filename)
		}
		if parts := r.MultipartForm.File["video"]; len(parts) == 1 {
			got.video = parts[0].Filename
		}
		writeListing(t, w, samplePayload())
	}))

	sub := listing.Submission{
		Title:             "Aputure 600d",
		Price:             "420.50",
		RetainedPhotoURLs: []string{"https://cdn.example/L1/p0.jpg"},
		StagedPhotos: []listing.StagedFile{
			{FieldName: "photos", FileName: "new-a.jpg", MimeType: "image/jpeg", Payload: []byte("a")},
			{FieldName: "photos", FileName: "new-b.jpg", MimeType: "image/jpeg", Payload: []byte("b")},
		},
		StagedVideo: &listing.StagedFile{FieldName: "video", FileName: "demo.mp4", MimeType: "video/mp4", Payload: []byte("v")},
	}
	if _, err := gw.Create(context.Background(), "seller-token", sub); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got.title != "Aputure 600d" {
		t.Errorf("title = %q", got.title)
	}
	if got.retained != `["https://cdn.example/L1/p0.jpg"]` {
		t.Errorf("retained_photos = %q", got.retained)
	}
	if len(got.photos) != 2 || got.photos[0] != "new-a.jpg" || got.photos[1] != "new-b.jpg" {
		t.Errorf("photo parts = %v", got.photos)
	}
	if got.video != "demo.mp4" {
		t.Errorf("video part = %q, want demo.mp4", got.video)
	}
}

func TestUpdateUsesPut(t *testing.T) {
	t.Parallel()

	var gotMethod string
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		writeListing(t, w, samplePayload())
	}))

	_, err := gw.Update(context.Background(), "seller-token", "L1", listing.Submission{Title: "x"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		want   pkgerrors.Code
	}{
		{name: "bad request", status: 400, want: pkgerrors.CodeValidation},
		{name: "unauthorized", status: 401, want: pkgerrors.CodeUnauthorized},
		{name: "conflict", status: 409, want: pkgerrors.CodeConflict},
		{name: "server error", status: 500, want: pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(types.ErrorEnvelope{
					Error: types.APIError{Code: "X", Message: "store said no"},
				})
			}))
			_, err := gw.Create(context.Background(), "seller-token", listing.Submission{})
			if !pkgerrors.HasCode(err, tc.want) {
				t.Fatalf("Create() error = %v, want code %s", err, tc.want)
			}
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Message() != "store said no" {
				t.Errorf("message not carried through: %v", err)
			}
		})
	}
}

func TestDeletePhotoAt(t *testing.T) {
	t.Parallel()

	t.Run("supported", func(t *testing.T) {
		t.Parallel()
		var gotPath string
		gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			payload := samplePayload()
			payload.Photos = nil
			writeListing(t, w, payload)
		}))

		got, err := gw.DeletePhotoAt(context.Background(), "seller-token", "L1", 2)
		if err != nil {
			t.Fatalf("DeletePhotoAt() error = %v", err)
		}
		if gotPath != "/api/v1/sellers/me/listing/photos/2" {
			t.Errorf("path = %q", gotPath)
		}
		if len(got.Photos) != 0 {
			t.Errorf("Photos = %+v, want empty", got.Photos)
		}
	})

	t.Run("unsupported store reports not found", func(t *testing.T) {
		t.Parallel()
		gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		_, err := gw.DeletePhotoAt(context.Background(), "seller-token", "L1", 0)
		if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			t.Fatalf("DeletePhotoAt() error = %v, want NOT_FOUND", err)
		}
	})
}

func TestDeleteVideo(t *testing.T) {
	t.Parallel()

	var gotURL string
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/sellers/me/listing/videos" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotURL = r.URL.Query().Get("url")
		w.WriteHeader(http.StatusNoContent)
	}))

	err := gw.DeleteVideo(context.Background(), "seller-token", "L1", "https://cdn.example/L1/v1.mp4")
	if err != nil {
		t.Fatalf("DeleteVideo() error = %v", err)
	}
	if gotURL != "https://cdn.example/L1/v1.mp4" {
		t.Errorf("url query = %q", gotURL)
	}
}

func mustVocabulary(t *testing.T, name string) enums.StatusVocabulary {
	t.Helper()
	vocab, err := enums.StatusVocabularyByName(name)
	if err != nil {
		t.Fatalf("StatusVocabularyByName(%q) error = %v", name, err)
	}
	return vocab
}

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	parsed, err := FromPayload(samplePayload(), listing.DefaultSchema())
	if err != nil {
		t.Fatalf("FromPayload() error = %v", err)
	}
	back := ToPayload(parsed)
	if back.Price != "420.5" || back.Status != "active" || len(back.Photos) != 1 {
		t.Errorf("round trip lost data: %+v", back)
	}

	seller := listing.Schema{Vocabulary: mustVocabulary(t, "seller"), MaxPhotos: 5, MaxVideos: 1}
	payload := samplePayload()
	payload.Status = "reserved"
	if _, err := FromPayload(payload, seller); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Errorf("FromPayload() with out-of-vocabulary status: error = %v, want DEPENDENCY_ERROR", err)
	}
}
