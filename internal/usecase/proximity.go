package usecase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops-microservice/internal/pkg/errors"
)

// ProximityIssuer mints and verifies short-lived proximity tokens.
// A token is issued only after the server has seen the device inside
// the fence, and submitting modules that require one present it back,
// proving the fence check was not skipped client-side.
type ProximityIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewProximityIssuer(secret string, ttl time.Duration) *ProximityIssuer {
	return &ProximityIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a token bound to the target and the current time:
// base64url("targetID|unixExpiry") + "." + hex(HMAC-SHA256).
func (p *ProximityIssuer) Issue(targetID uuid.UUID) string {
	expiry := p.now().Add(p.ttl).Unix()
	payload := fmt.Sprintf("%s|%d", targetID, expiry)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + p.sign(payload)
}

// Verify checks the signature, target binding and expiry of a token.
func (p *ProximityIssuer) Verify(token string, targetID uuid.UUID) error {
	encoded, mac, ok := strings.Cut(token, ".")
	if !ok {
		return errors.ErrInvalidProximityToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return errors.ErrInvalidProximityToken
	}
	payload := string(raw)
	if !hmac.Equal([]byte(p.sign(payload)), []byte(mac)) {
		return errors.ErrInvalidProximityToken
	}

	boundTo, expiryStr, ok := strings.Cut(payload, "|")
	if !ok || boundTo != targetID.String() {
		return errors.ErrInvalidProximityToken
	}
	var expiry int64
	if _, err := fmt.Sscanf(expiryStr, "%d", &expiry); err != nil {
		return errors.ErrInvalidProximityToken
	}
	if p.now().Unix() > expiry {
		return errors.ErrInvalidProximityToken
	}
	return nil
}

func (p *ProximityIssuer) sign(payload string) string {
	h := hmac.New(sha256.New, p.secret)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
