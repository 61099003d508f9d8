package filestore

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	envelopeVersion = 1
	saltLength      = 16

	// argon2id parameters
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

// envelope is the on-disk format of an encrypted store.
type envelope struct {
	Version int    `json:"v"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

type sealer struct {
	passphrase []byte
}

func newSealer(passphrase string) *sealer {
	return &sealer{passphrase: []byte(passphrase)}
}

func (s *sealer) key(salt []byte) []byte {
	return argon2.IDKey(s.passphrase, salt, kdfTime, kdfMemory, kdfThreads, chacha20poly1305.KeySize)
}

func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("[filestore seal] salt: %w", err)
	}
	aead, err := chacha20poly1305.NewX(s.key(salt))
	if err != nil {
		return nil, fmt.Errorf("[filestore seal] cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("[filestore seal] nonce: %w", err)
	}

	return json.Marshal(envelope{
		Version: envelopeVersion,
		Salt:    salt,
		Nonce:   nonce,
		Data:    aead.Seal(nil, nonce, plaintext, nil),
	})
}

func (s *sealer) open(data []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Version != envelopeVersion {
		return nil, errors.ErrDecryptStore
	}
	aead, err := chacha20poly1305.NewX(s.key(env.Salt))
	if err != nil {
		return nil, fmt.Errorf("[filestore open] cipher: %w", err)
	}
	if len(env.Nonce) != aead.NonceSize() {
		return nil, errors.ErrDecryptStore
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Data, nil)
	if err != nil {
		return nil, errors.ErrDecryptStore
	}
	return plaintext, nil
}
