package listings

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/venuelink/marketplace-backend/api/middleware"
	"github.com/venuelink/marketplace-backend/api/responses"
	"github.com/venuelink/marketplace-backend/internal/mockstore"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"github.com/venuelink/marketplace-backend/pkg/logger"
	"github.com/venuelink/marketplace-backend/pkg/types"
)

// ListingFetch returns the caller's listing, 404 when none exists.
func ListingFetch(svc *mockstore.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := svc.GetListing(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.ListingEnvelope{Listing: payload})
	}
}

// ListingCreate stores a brand new listing for the caller.
func ListingCreate(svc *mockstore.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		in, err := decodeSubmission(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := svc.CreateListing(r.Context(), sellerID, in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, types.ListingEnvelope{Listing: payload})
	}
}

// ListingUpdate overwrites the caller's listing wholesale.
func ListingUpdate(svc *mockstore.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		in, err := decodeSubmission(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := svc.UpdateListing(r.Context(), sellerID, in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.ListingEnvelope{Listing: payload})
	}
}

// ListingDelete removes the caller's listing.
func ListingDelete(svc *mockstore.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteListing(r.Context(), sellerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// PhotoDelete removes one stored photo by index and returns the listing.
func PhotoDelete(svc *mockstore.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "photo index must be an integer"))
			return
		}

		payload, err := svc.DeletePhotoAt(r.Context(), sellerID, index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.ListingEnvelope{Listing: payload})
	}
}

// VideoDelete removes one stored video addressed by its public URL.
func VideoDelete(svc *mockstore.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := sellerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		videoURL := r.URL.Query().Get("url")
		if videoURL == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "url query parameter is required"))
			return
		}

		if err := svc.DeleteVideoByURL(r.Context(), sellerID, videoURL); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MediaFetch serves stored media bytes back to clients.
func MediaFetch(svc *mockstore.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := svc.Media(r.Context(), chi.URLParam(r, "mediaID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if row.MimeType != "" {
			w.Header().Set("Content-Type", row.MimeType)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(row.Content); err != nil && logg != nil {
			logg.Error(r.Context(), "write media response", err)
		}
	}
}

func sellerFromContext(r *http.Request) (string, error) {
	sellerID := middleware.SellerIDFromContext(r.Context())
	if sellerID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing seller identity")
	}
	return sellerID, nil
}
