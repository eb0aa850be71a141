package form

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// CookieName holds the form session token.
	CookieName = "smoothie_session"
	sessionKey = "form_session"
)

var ErrInvalidSession = errors.New("invalid form session")

// Sessions issues and checks the short-lived token that ties a form post to
// a page this server rendered. It identifies a browser tab, not a person.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a new session token and returns it with its id.
func (s *Sessions) Issue() (token, id string, err error) {
	now := s.now()
	id = uuid.NewString()
	claims := jwt.MapClaims{
		"jti": id,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign form session: %w", err)
	}
	return token, id, nil
}

// Parse checks a token and returns its session id.
func (s *Sessions) Parse(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	id := idFromToken(parsed)
	if id == "" {
		return "", ErrInvalidSession
	}
	return id, nil
}

// SetCookie issues a token and attaches it to the response.
func (s *Sessions) SetCookie(c *fiber.Ctx) (string, error) {
	token, id, err := s.Issue()
	if err != nil {
		return "", err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id, nil
}

// Middleware rejects requests without a valid session cookie by calling
// onError instead of the next handler.
func (s *Sessions) Middleware(onError fiber.ErrorHandler) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    s.secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		TokenLookup:   "cookie:" + CookieName,
		ContextKey:    sessionKey,
		ErrorHandler:  onError,
	})
}

// SessionID returns the id of the session Middleware accepted, or "".
func SessionID(c *fiber.Ctx) string {
	tok, ok := c.Locals(sessionKey).(*jwt.Token)
	if !ok {
		return ""
	}
	return idFromToken(tok)
}

func idFromToken(tok *jwt.Token) string {
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	id, _ := claims["jti"].(string)
	return id
}
