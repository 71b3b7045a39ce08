package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/venuelink/marketplace-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	SellerID   string
	SellerType enums.SellerType
}

// AccessTokenClaims represents the typed JWT issued to sellers.
type AccessTokenClaims struct {
	SellerID   string           `json:"seller_id"`
	SellerType enums.SellerType `json:"seller_type"`
	jwt.RegisteredClaims
}
