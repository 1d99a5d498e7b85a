package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	Actor string `json:"actor"`
	jwt.RegisteredClaims
}
