package models

import "github.com/golang-jwt/jwt/v4"

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID      uint   `json:"user_id"`
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	jwt.RegisteredClaims
}

// Session identifies the authenticated caller of a request. It is built by
// the JWT middleware from verified claims and passed to handlers through the
// request context; nothing in the process holds a current-user global.
type Session struct {
	UserID      uint
	FirebaseUID string
	Email       string
	Name        string
}

// SessionFromClaims builds a Session from verified token claims.
func SessionFromClaims(claims *JwtCustomClaims) *Session {
	return &Session{
		UserID:      claims.UserID,
		FirebaseUID: claims.FirebaseUID,
		Email:       claims.Email,
		Name:        claims.Name,
	}
}
