package model

import "github.com/golang-jwt/jwt/v5"

// Claims is the verified payload of a bearer token.
type Claims struct {
	UserID string `json:"userId" validate:"required"`
	jwt.RegisteredClaims
}
