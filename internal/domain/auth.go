package domain

import "time"

// Session is the result of an email login: the user plus a signed bearer token.
type Session struct {
	User      User
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
