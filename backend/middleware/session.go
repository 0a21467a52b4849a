package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const SessionCookie = "skilllist_session"

// NewSessionStore keeps per-client overlay state in memory.
func NewSessionStore(ttl time.Duration) *session.Store {
	return session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + SessionCookie,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}
