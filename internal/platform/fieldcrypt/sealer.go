package fieldcrypt

import (
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
)

// Sealer encrypts case-note fields before they are stored. With no key
// configured it runs disabled and passes values through unchanged.
type Sealer struct {
	enc     Encryptor
	enabled bool
}

// NewSealer creates a Sealer from a 64-character hex key. An empty key
// yields a disabled Sealer; a malformed key is an error so the server
// refuses to start.
func NewSealer(key string, logger zerolog.Logger) (*Sealer, error) {
	if key == "" {
		logger.Warn().Msg("case note encryption disabled: NOTE_ENCRYPTION_KEY is not set")
		return &Sealer{}, nil
	}

	keyBytes, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("NOTE_ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("NOTE_ENCRYPTION_KEY must be 32 bytes (64 hex chars), got %d bytes", len(keyBytes))
	}

	enc, err := NewAESGCM(keyBytes)
	if err != nil {
		return nil, err
	}

	logger.Info().Msg("case note field encryption enabled")
	return &Sealer{enc: enc, enabled: true}, nil
}

// NewSealerWith wraps an existing Encryptor. Used by tests and tooling.
func NewSealerWith(enc Encryptor) *Sealer {
	return &Sealer{enc: enc, enabled: enc != nil}
}

func (s *Sealer) Enabled() bool {
	return s != nil && s.enabled
}

// Seal encrypts each pointed-to string in place. Empty strings stay empty.
func (s *Sealer) Seal(fields ...*string) error {
	if !s.Enabled() {
		return nil
	}
	for _, f := range fields {
		if f == nil || *f == "" {
			continue
		}
		ct, err := s.enc.Encrypt(*f)
		if err != nil {
			return err
		}
		*f = ct
	}
	return nil
}

// Open decrypts each pointed-to string in place.
func (s *Sealer) Open(fields ...*string) error {
	if !s.Enabled() {
		return nil
	}
	for _, f := range fields {
		if f == nil || *f == "" {
			continue
		}
		pt, err := s.enc.Decrypt(*f)
		if err != nil {
			return err
		}
		*f = pt
	}
	return nil
}
