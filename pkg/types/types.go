package types

import "time"

// SuccessEnvelope wraps every successful response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope wraps every error response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// APIError is the public error shape.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ListingEnvelope is the data payload for every listing-bearing response.
// Listing is null when the seller has none yet.
type ListingEnvelope struct {
	Listing *ListingPayload `json:"listing"`
}

// ListingPayload is the wire shape of a listing, shared by the store and the
// gateway client.
type ListingPayload struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Price        string         `json:"price"`
	Category     string         `json:"category"`
	Condition    string         `json:"condition"`
	Status       string         `json:"status"`
	Location     *string        `json:"location,omitempty"`
	ContactPhone string         `json:"contact_phone,omitempty"`
	ContactEmail string         `json:"contact_email,omitempty"`
	SellerType   string         `json:"seller_type"`
	CreatedAt    time.Time      `json:"created_at"`
	Photos       []MediaPayload `json:"photos"`
	Videos       []MediaPayload `json:"videos"`
}

// MediaPayload is the wire shape of one persisted media item.
type MediaPayload struct {
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}
