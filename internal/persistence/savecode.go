package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CodecConfig configures the save-code codec.
type CodecConfig struct {
	// Secret signs the codes. Required.
	Secret string
	// TTL bounds how long an exported code stays importable.
	// Zero means codes never expire; negative codes are born expired.
	TTL time.Duration
}

// Codec turns snapshots into portable save codes and back.
//
// A save code is an HMAC-signed JWT carrying the full snapshot, so a
// player can move progress between installs without shared storage and
// a tampered code is rejected rather than loaded.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec with the given configuration.
//
// Returns:
//   - error: ErrNoSecret when the secret is empty
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{secret: []byte(cfg.Secret), ttl: cfg.TTL}, nil
}

type saveClaims struct {
	State json.RawMessage `json:"state"`
	jwt.RegisteredClaims
}

// Encode produces a signed save code for the snapshot.
func (c *Codec) Encode(state *GameState) (string, error) {
	state.Version = SchemaVersion

	payload, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("persistence: encode snapshot: %w", err)
	}

	claims := saveClaims{
		State: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   "wattquest",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if c.ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(c.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("persistence: sign save code: %w", err)
	}
	return signed, nil
}

// Decode verifies a save code and returns the snapshot it carries.
// Any failure (bad signature, expired, garbage input, incompatible
// snapshot) yields ErrInvalidCode; the caller never sees a partial state.
func (c *Codec) Decode(code string) (*GameState, error) {
	var claims saveClaims
	token, err := jwt.ParseWithClaims(code, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}

	var state GameState
	if err := json.Unmarshal(claims.State, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	if !state.Valid() {
		return nil, fmt.Errorf("%w: incompatible snapshot version %d", ErrInvalidCode, state.Version)
	}
	return &state, nil
}
