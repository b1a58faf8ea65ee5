package utils // package utils issues and verifies browsing session tokens

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
)

// SessionToken is a signed JWT identifying one browsing session.  The
// session id travels in the subject claim; it is also the namespace of the
// session's stored selection and bookings.
type SessionToken struct {
    Token     string    `json:"token"`
    SessionID string    `json:"session_id"`
    Exp       time.Time `json:"expires_at"`
}

// ErrInvalidToken covers every reason a session token is refused.
var ErrInvalidToken = errors.New("invalid session token")

// NewSessionToken starts a new session with a random id and signs an
// HS256 token for it valid for ttl.
func NewSessionToken(secret string, ttl time.Duration) (SessionToken, error) {
    return SignSessionToken(secret, uuid.NewString(), ttl)
}

// SignSessionToken signs a token for an existing session id.
func SignSessionToken(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.RegisteredClaims{
        Subject:   sessionID,
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(exp),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, SessionID: sessionID, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns its session id.  Only HMAC
// signed tokens with a uuid subject are accepted.
func ParseSessionToken(secret, raw string) (string, error) {
    var claims jwt.RegisteredClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    if _, err := uuid.Parse(claims.Subject); err != nil {
        return "", fmt.Errorf("%w: bad subject", ErrInvalidToken)
    }
    return claims.Subject, nil
}
