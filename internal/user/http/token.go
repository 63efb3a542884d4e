package http

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func (h *Handler) issueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"usr": username,
		"iat": now.Unix(),
		"exp": now.Add(h.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.jwtSecret)
}
