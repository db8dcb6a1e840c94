// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation.
//
// Command: status
// Aliases: s
//
// Examples:
//   nostrum status                Show relay and cache health
//   nostrum status --json         Structured output
//
// Status Sections:
//   Identity:  stored key, npub, encryption
//   Relays:    per-relay connectivity probe
//   Storage:   cached events/profiles, bookmark count

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/keys"
	"github.com/jeranaias/nostrum/internal/storage"
)

// statusReport is the --json output shape.
type statusReport struct {
	Version  string       `json:"version"`
	Identity identityInfo `json:"identity"`
	Relays   []relayInfo  `json:"relays"`
	Storage  storageInfo  `json:"storage"`
}

type identityInfo struct {
	Present   bool   `json:"present"`
	Encrypted bool   `json:"encrypted"`
	Npub      string `json:"npub,omitempty"`
}

type relayInfo struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

type storageInfo struct {
	CachedEvents   int `json:"cached_events"`
	CachedProfiles int `json:"cached_profiles"`
	Bookmarks      int `json:"bookmarks"`
}

// HandleStatus probes relays and reports local storage state.
func HandleStatus(args Args) {
	cfg, err := LoadConfig(args)
	if err != nil {
		exitError(err)
	}
	dir, err := DataDir()
	if err != nil {
		exitError(err)
	}

	report := statusReport{Version: Version}

	// Identity without decrypting: presence and encryption flag only.
	report.Identity.Present = keys.Exists(dir)
	report.Identity.Encrypted = keys.Encrypted(dir)
	if report.Identity.Present && !report.Identity.Encrypted {
		if id, err := keys.Load(dir, ""); err == nil {
			report.Identity.Npub = id.Npub()
		}
	}

	report.Relays = probeRelays(cfg.Relays, time.Duration(cfg.Network.ConnectTimeoutSeconds)*time.Second)

	if db, err := storage.OpenCacheDB(dir); err == nil {
		if events, profiles, err := db.Stats(); err == nil {
			report.Storage.CachedEvents = events
			report.Storage.CachedProfiles = profiles
		}
		_ = db.Close()
	}
	if bm, err := storage.OpenBookmarks(dir); err == nil {
		report.Storage.Bookmarks = bm.Len()
	}

	if args.JSON {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
		return
	}
	printStatus(report)
}

// probeRelays dials each relay once with a short deadline.
func probeRelays(urls []string, timeout time.Duration) []relayInfo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	infos := make([]relayInfo, len(urls))
	for i, url := range urls {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		r, err := nostr.RelayConnect(ctx, url)
		cancel()

		infos[i] = relayInfo{URL: url, Reachable: err == nil}
		if err != nil {
			infos[i].Error = err.Error()
		} else {
			r.Close()
		}
	}
	return infos
}

// printStatus renders the human-readable report.
func printStatus(report statusReport) {
	fmt.Println(titleStyle.Render("nostrum status"))

	fmt.Println(sectionStyle.Render("Identity"))
	switch {
	case !report.Identity.Present:
		fmt.Println(statusLine("Key", "none (read-only)", valueDimStyle))
	case report.Identity.Encrypted:
		fmt.Println(statusLine("Key", "present (encrypted)", valueGreenStyle))
	default:
		fmt.Println(statusLine("Key", "present", valueGreenStyle))
		fmt.Println(statusLine("Npub", report.Identity.Npub, valueStyle))
	}

	fmt.Println(sectionStyle.Render("Relays"))
	for _, r := range report.Relays {
		if r.Reachable {
			fmt.Println(statusLine("OK", r.URL, valueGreenStyle))
		} else {
			fmt.Println(statusLine("FAIL", r.URL+"  ("+r.Error+")", valueRedStyle))
		}
	}

	fmt.Println(sectionStyle.Render("Storage"))
	fmt.Println(statusLine("Events", fmt.Sprintf("%d cached", report.Storage.CachedEvents), valueStyle))
	fmt.Println(statusLine("Profiles", fmt.Sprintf("%d cached", report.Storage.CachedProfiles), valueStyle))
	fmt.Println(statusLine("Bookmarks", fmt.Sprintf("%d saved", report.Storage.Bookmarks), valueStyle))
}
