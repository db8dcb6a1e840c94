// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package keys manages the user's Nostr identity.
//
// The secret key lives in ~/.nostrum/identity.json. With a passphrase it
// is stored encrypted (AES-256-GCM, PBKDF2-SHA-256 derivation); without
// one it is stored plaintext with 0600 permissions and the CLI warns
// about it. Key generation, bech32 encoding and event signing are
// delegated to go-nostr.
package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// ERRORS AND CONSTANTS
// =============================================================================

var (
	ErrNoIdentity    = errors.New("no identity configured")
	ErrLocked        = errors.New("identity is encrypted, passphrase required")
	ErrBadPassphrase = errors.New("wrong passphrase")
)

const (
	// encryptedPrefix marks an encrypted secret key:
	// ENC:base64(salt | nonce | ciphertext)
	encryptedPrefix = "ENC:"

	saltSize  = 32
	nonceSize = 12
	keySize   = 32

	// OWASP 2023 recommendation for PBKDF2-SHA-256.
	pbkdf2Iterations = 600_000
)

// =============================================================================
// IDENTITY
// =============================================================================

// Identity is a loaded keypair. SecretKey may be empty for a read-only
// (npub-only) identity.
type Identity struct {
	SecretKey string
	PubKey    string
}

// Npub returns the bech32 public key.
func (id *Identity) Npub() string {
	encoded, err := nip19.EncodePublicKey(id.PubKey)
	if err != nil {
		return id.PubKey
	}
	return encoded
}

// Nsec returns the bech32 secret key, "" for read-only identities.
func (id *Identity) Nsec() string {
	if id.SecretKey == "" {
		return ""
	}
	encoded, err := nip19.EncodePrivateKey(id.SecretKey)
	if err != nil {
		return ""
	}
	return encoded
}

// CanSign reports whether the identity holds a secret key.
func (id *Identity) CanSign() bool { return id.SecretKey != "" }

// Sign signs an event in place with this identity's key.
func (id *Identity) Sign(evt *nostr.Event) error {
	if !id.CanSign() {
		return ErrNoIdentity
	}
	return evt.Sign(id.SecretKey)
}

// Generate creates a fresh keypair.
func Generate() (*Identity, error) {
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}
	return &Identity{SecretKey: sk, PubKey: pk}, nil
}

// ParseSecretKey accepts an nsec bech32 string or raw hex and returns the
// identity it derives.
func ParseSecretKey(input string) (*Identity, error) {
	input = strings.TrimSpace(input)
	sk := input
	if strings.HasPrefix(input, "nsec1") {
		prefix, value, err := nip19.Decode(input)
		if err != nil || prefix != "nsec" {
			return nil, fmt.Errorf("invalid nsec key")
		}
		sk = value.(string)
	}
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	return &Identity{SecretKey: sk, PubKey: pk}, nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// identityFile is the on-disk format.
type identityFile struct {
	Version   int    `json:"version"`
	PubKey    string `json:"pubkey"`
	SecretKey string `json:"seckey,omitempty"` // hex or ENC:...
}

func identityPath(dir string) string {
	return filepath.Join(dir, "identity.json")
}

// Save writes the identity to dir, encrypting the secret key when a
// passphrase is given.
func Save(dir string, id *Identity, passphrase string) error {
	file := identityFile{Version: 1, PubKey: id.PubKey}

	if id.SecretKey != "" {
		if passphrase != "" {
			sealed, err := encrypt(id.SecretKey, passphrase)
			if err != nil {
				return fmt.Errorf("failed to encrypt secret key: %w", err)
			}
			file.SecretKey = sealed
		} else {
			file.SecretKey = id.SecretKey
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(identityPath(dir), data, 0600)
}

// Load reads the identity from dir. Returns ErrNoIdentity if absent,
// ErrLocked if the key is encrypted and passphrase is empty, and
// ErrBadPassphrase on a failed decrypt.
func Load(dir string, passphrase string) (*Identity, error) {
	data, err := os.ReadFile(identityPath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoIdentity
	}
	if err != nil {
		return nil, err
	}

	var file identityFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("corrupt identity file: %w", err)
	}

	id := &Identity{PubKey: file.PubKey}
	switch {
	case file.SecretKey == "":
		// Read-only identity.
	case strings.HasPrefix(file.SecretKey, encryptedPrefix):
		if passphrase == "" {
			return nil, ErrLocked
		}
		sk, err := decrypt(file.SecretKey, passphrase)
		if err != nil {
			return nil, err
		}
		id.SecretKey = sk
	default:
		id.SecretKey = file.SecretKey
	}

	// The stored pubkey is advisory; rederive when we hold the secret.
	if id.SecretKey != "" {
		pk, err := nostr.GetPublicKey(id.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("stored secret key is invalid: %w", err)
		}
		id.PubKey = pk
	}
	return id, nil
}

// Exists reports whether an identity file is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(identityPath(dir))
	return err == nil
}

// Encrypted reports whether the stored secret key requires a passphrase.
func Encrypted(dir string) bool {
	data, err := os.ReadFile(identityPath(dir))
	if err != nil {
		return false
	}
	var file identityFile
	if json.Unmarshal(data, &file) != nil {
		return false
	}
	return strings.HasPrefix(file.SecretKey, encryptedPrefix)
}

// =============================================================================
// ENCRYPTION (AES-256-GCM, PBKDF2-SHA-256)
// =============================================================================

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
}

func encrypt(plaintext, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := deriveKey(passphrase, salt)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	payload := append(append(salt, nonce...), sealed...)
	return encryptedPrefix + base64.StdEncoding.EncodeToString(payload), nil
}

func decrypt(sealed, passphrase string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, encryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("corrupt encrypted key: %w", err)
	}
	if len(payload) < saltSize+nonceSize+1 {
		return "", fmt.Errorf("corrupt encrypted key: too short")
	}

	salt := payload[:saltSize]
	nonce := payload[saltSize : saltSize+nonceSize]
	ciphertext := payload[saltSize+nonceSize:]

	key := deriveKey(passphrase, salt)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrBadPassphrase
	}
	return string(plaintext), nil
}

// zeroBytes clears key material so it does not linger in crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
