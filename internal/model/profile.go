// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for notes, profiles and
// bookmarks.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// PROFILE
// =============================================================================

// Profile is the decoded kind-0 metadata for a pubkey: display name,
// avatar, bio, and the payment/verification addresses the client shows.
type Profile struct {
	PubKey string `json:"pubkey"`

	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	About       string `json:"about,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Banner      string `json:"banner,omitempty"`
	Website     string `json:"website,omitempty"`
	NIP05       string `json:"nip05,omitempty"`
	Lud16       string `json:"lud16,omitempty"`
	Lud06       string `json:"lud06,omitempty"`

	// FetchedAt drives cache staleness, not part of the event.
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// profileContent mirrors the kind-0 JSON content fields we care about.
// Unknown fields are ignored; the wild carries plenty.
type profileContent struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	About       string `json:"about"`
	Picture     string `json:"picture"`
	Banner      string `json:"banner"`
	Website     string `json:"website"`
	NIP05       string `json:"nip05"`
	Lud16       string `json:"lud16"`
	Lud06       string `json:"lud06"`
}

// ProfileFromEvent decodes a kind-0 metadata event. Malformed JSON yields
// a profile with only the pubkey set; the UI then falls back to the npub.
func ProfileFromEvent(evt *nostr.Event) (*Profile, error) {
	if evt == nil {
		return nil, fmt.Errorf("nil event")
	}
	if evt.Kind != nostr.KindProfileMetadata {
		return nil, fmt.Errorf("event kind %d is not profile metadata", evt.Kind)
	}

	p := &Profile{
		PubKey:    evt.PubKey,
		FetchedAt: time.Now(),
	}

	var content profileContent
	if err := json.Unmarshal([]byte(evt.Content), &content); err != nil {
		// Best-effort: a broken profile still identifies its author.
		return p, nil
	}

	p.Name = strings.TrimSpace(content.Name)
	p.DisplayName = strings.TrimSpace(content.DisplayName)
	p.About = content.About
	p.Picture = content.Picture
	p.Banner = content.Banner
	p.Website = content.Website
	p.NIP05 = content.NIP05
	p.Lud16 = content.Lud16
	p.Lud06 = content.Lud06
	return p, nil
}

// BestName returns the preferred display string: display_name, then name,
// then the shortened npub.
func (p *Profile) BestName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Name != "" {
		return p.Name
	}
	return util.ShortKey(p.Npub(), 10, 5)
}

// Npub returns the bech32 public key, falling back to hex on encode error.
func (p *Profile) Npub() string {
	encoded, err := nip19.EncodePublicKey(p.PubKey)
	if err != nil {
		return p.PubKey
	}
	return encoded
}

// CanZap reports whether the profile carries a Lightning address or LNURL.
func (p *Profile) CanZap() bool {
	return p.Lud16 != "" || p.Lud06 != ""
}

// Npub is the package-level helper for contexts without a Profile.
func Npub(pubkey string) string {
	encoded, err := nip19.EncodePublicKey(pubkey)
	if err != nil {
		return pubkey
	}
	return encoded
}
