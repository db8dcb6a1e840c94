// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/jeranaias/nostrum/internal/config"
	"github.com/jeranaias/nostrum/internal/keys"
	"github.com/jeranaias/nostrum/internal/relay"
)

// LoadConfig resolves the effective configuration for a command run:
// the explicit --config path when given, the default search otherwise,
// with --relay overriding the relay list.
func LoadConfig(args Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if args.Relay != "" {
		cfg.Relays = []string{args.Relay}
	}
	return cfg, nil
}

// DataDir returns the directory holding bookmarks, snapshots, and the
// event cache. It is created on first use.
func DataDir() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// OpenPool builds a relay pool from the configuration.
func OpenPool(cfg *config.Config) *relay.Pool {
	return relay.NewPool(relay.OptionsFromConfig(cfg))
}

// LoadIdentity loads the stored identity, prompting for the passphrase
// when the key file is encrypted. Returns nil (not an error) when no
// identity exists.
func LoadIdentity(dir string) (*keys.Identity, error) {
	if !keys.Exists(dir) {
		return nil, nil
	}
	passphrase := ""
	if keys.Encrypted(dir) {
		pw, err := ReadPassword("Key passphrase: ")
		if err != nil {
			return nil, err
		}
		passphrase = pw
	}
	return keys.Load(dir, passphrase)
}

// ResolveNoteID accepts a hex note id, note1, or nevent reference and
// returns the hex id.
func ResolveNoteID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "note1") || strings.HasPrefix(ref, "nevent1") {
		prefix, value, err := nip19.Decode(ref)
		if err != nil {
			return "", fmt.Errorf("invalid note reference: %w", err)
		}
		switch prefix {
		case "note":
			return value.(string), nil
		case "nevent":
			return value.(nostr.EventPointer).ID, nil
		}
		return "", fmt.Errorf("unsupported reference type %q", prefix)
	}
	if len(ref) != 64 {
		return "", fmt.Errorf("note id must be 64 hex characters or a note1/nevent1 string")
	}
	return strings.ToLower(ref), nil
}

// exitError prints an error and exits non-zero; handlers use it for
// unrecoverable setup failures.
func exitError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
