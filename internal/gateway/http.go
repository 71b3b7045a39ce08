package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/venuelink/marketplace-backend/internal/listing"
	"github.com/venuelink/marketplace-backend/pkg/config"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"github.com/venuelink/marketplace-backend/pkg/logger"
	"github.com/venuelink/marketplace-backend/pkg/metrics"
	"github.com/venuelink/marketplace-backend/pkg/types"
)

const listingPath = "/api/v1/sellers/me/listing"

// HTTPGateway talks to any store that speaks the listing contract: the
// production backend or the bundled mockstore.
type HTTPGateway struct {
	client  *resty.Client
	schema  listing.Schema
	log     *logger.Logger
	metrics *metrics.GatewayMetrics
}

// New constructs the HTTP gateway against the configured store base URL.
func New(cfg config.StoreConfig, schema listing.Schema, log *logger.Logger, m *metrics.GatewayMetrics) (*HTTPGateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("store base url required")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")

	return &HTTPGateway{
		client:  client,
		schema:  schema,
		log:     log,
		metrics: m,
	}, nil
}

type listingResponse struct {
	Data types.ListingEnvelope `json:"data"`
}

// FetchMine loads the current seller's listing. Both a null listing and a
// store-side 404 mean "no listing yet", never an error.
func (g *HTTPGateway) FetchMine(ctx context.Context, token string) (*listing.Listing, error) {
	started := time.Now()
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(listingPath)
	g.metrics.ObserveDuration("fetch", time.Since(started))
	if err != nil {
		g.metrics.IncFailure("fetch", string(pkgerrors.CodeDependency))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch listing")
	}
	if resp.StatusCode() == 404 {
		g.metrics.IncSuccess("fetch")
		return nil, nil
	}
	if resp.IsError() {
		mapped := g.mapError(resp, "fetch listing")
		g.metrics.IncFailure("fetch", string(mapped.Code()))
		return nil, mapped
	}

	parsed, err := g.decodeListing(resp.Body())
	if err != nil {
		g.metrics.IncFailure("fetch", string(pkgerrors.CodeDependency))
		return nil, err
	}
	g.metrics.IncSuccess("fetch")
	return parsed, nil
}

// Create submits a new listing as one atomic multipart request.
func (g *HTTPGateway) Create(ctx context.Context, token string, sub listing.Submission) (*listing.Listing, error) {
	return g.submit(ctx, token, sub, "create", func(req *resty.Request) (*resty.Response, error) {
		return req.Post(listingPath)
	})
}

// Update overwrites the seller's listing wholesale, last write wins.
func (g *HTTPGateway) Update(ctx context.Context, token, listingID string, sub listing.Submission) (*listing.Listing, error) {
	return g.submit(ctx, token, sub, "update", func(req *resty.Request) (*resty.Response, error) {
		return req.Put(listingPath)
	})
}

func (g *HTTPGateway) submit(ctx context.Context, token string, sub listing.Submission, operation string, send func(*resty.Request) (*resty.Response, error)) (*listing.Listing, error) {
	req := g.client.R().
		SetContext(ctx).
		SetAuthToken(token)

	fields := map[string]string{
		"title":         sub.Title,
		"description":   sub.Description,
		"price":         sub.Price,
		"status":        string(sub.Status),
		"category":      string(sub.Category),
		"condition":     string(sub.Condition),
		"contact_phone": sub.ContactPhone,
		"contact_email": sub.ContactEmail,
		"seller_type":   string(sub.SellerType),
	}
	if sub.Location != nil {
		fields["location"] = string(*sub.Location)
	}
	retained, err := json.Marshal(sub.RetainedPhotoURLs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode retained photos")
	}
	fields["retained_photos"] = string(retained)
	req.SetMultipartFormData(fields)

	for _, file := range sub.StagedPhotos {
		req.SetMultipartField(file.FieldName, file.FileName, file.MimeType, bytes.NewReader(file.Payload))
	}
	if sub.StagedVideo != nil {
		req.SetMultipartField(sub.StagedVideo.FieldName, sub.StagedVideo.FileName, sub.StagedVideo.MimeType, bytes.NewReader(sub.StagedVideo.Payload))
	}

	started := time.Now()
	resp, err := send(req)
	g.metrics.ObserveDuration(operation, time.Since(started))
	if err != nil {
		g.metrics.IncFailure(operation, string(pkgerrors.CodeDependency))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, operation+" listing")
	}
	if resp.IsError() {
		mapped := g.mapError(resp, operation+" listing")
		g.metrics.IncFailure(operation, string(mapped.Code()))
		return nil, mapped
	}

	parsed, err := g.decodeListing(resp.Body())
	if err != nil {
		g.metrics.IncFailure(operation, string(pkgerrors.CodeDependency))
		return nil, err
	}
	if parsed == nil {
		g.metrics.IncFailure(operation, string(pkgerrors.CodeDependency))
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store returned no listing")
	}
	g.metrics.IncSuccess(operation)
	return parsed, nil
}

// Delete removes the seller's listing.
func (g *HTTPGateway) Delete(ctx context.Context, token, listingID string) error {
	started := time.Now()
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(listingPath)
	g.metrics.ObserveDuration("delete", time.Since(started))
	if err != nil {
		g.metrics.IncFailure("delete", string(pkgerrors.CodeDependency))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	if resp.IsError() {
		mapped := g.mapError(resp, "delete listing")
		g.metrics.IncFailure("delete", string(mapped.Code()))
		return mapped
	}
	g.metrics.IncSuccess("delete")
	return nil
}

// DeletePhotoAt removes one persisted photo by index.
func (g *HTTPGateway) DeletePhotoAt(ctx context.Context, token, listingID string, index int) (*listing.Listing, error) {
	started := time.Now()
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(listingPath + "/photos/" + strconv.Itoa(index))
	g.metrics.ObserveDuration("delete_photo", time.Since(started))
	if err != nil {
		g.metrics.IncFailure("delete_photo", string(pkgerrors.CodeDependency))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete photo")
	}
	if resp.IsError() {
		mapped := g.mapError(resp, "delete photo")
		g.metrics.IncFailure("delete_photo", string(mapped.Code()))
		return nil, mapped
	}

	parsed, err := g.decodeListing(resp.Body())
	if err != nil {
		g.metrics.IncFailure("delete_photo", string(pkgerrors.CodeDependency))
		return nil, err
	}
	g.metrics.IncSuccess("delete_photo")
	return parsed, nil
}

// DeleteVideo removes one persisted video by URL; the reconciler drives it.
func (g *HTTPGateway) DeleteVideo(ctx context.Context, token, listingID, videoURL string) error {
	started := time.Now()
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("url", videoURL).
		Delete(listingPath + "/videos")
	g.metrics.ObserveDuration("delete_video", time.Since(started))
	if err != nil {
		g.metrics.IncFailure("delete_video", string(pkgerrors.CodeDependency))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete video")
	}
	if resp.IsError() {
		mapped := g.mapError(resp, "delete video")
		g.metrics.IncFailure("delete_video", string(mapped.Code()))
		return mapped
	}
	g.metrics.IncSuccess("delete_video")
	return nil
}

func (g *HTTPGateway) mapError(resp *resty.Response, operation string) *pkgerrors.Error {
	var envelope types.ErrorEnvelope
	message := operation + " failed"
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}

	var code pkgerrors.Code
	switch resp.StatusCode() {
	case 400:
		code = pkgerrors.CodeValidation
	case 401:
		code = pkgerrors.CodeUnauthorized
	case 403:
		code = pkgerrors.CodeForbidden
	case 404:
		code = pkgerrors.CodeNotFound
	case 409:
		code = pkgerrors.CodeConflict
	case 422:
		code = pkgerrors.CodeStateConflict
	default:
		code = pkgerrors.CodeDependency
	}
	return pkgerrors.New(code, message)
}

func (g *HTTPGateway) decodeListing(body []byte) (*listing.Listing, error) {
	var resp listingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode store response")
	}
	if resp.Data.Listing == nil {
		return nil, nil
	}
	return FromPayload(resp.Data.Listing, g.schema)
}
