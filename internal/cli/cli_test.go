// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"

	"github.com/jeranaias/nostrum/internal/config"
)

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParserFlagFormats(t *testing.T) {
	parser := NewArgParser([]string{"generate", "--passphrase", "--relay=wss://r", "--output", "dir"})

	if parser.Subcommand() != "generate" {
		t.Errorf("Subcommand() = %q", parser.Subcommand())
	}
	if !parser.BoolFlag("passphrase") {
		t.Error("BoolFlag(passphrase) = false")
	}
	if parser.Flag("relay") != "wss://r" {
		t.Errorf("Flag(relay) = %q", parser.Flag("relay"))
	}
	if parser.Flag("output") != "dir" {
		t.Errorf("Flag(output) = %q", parser.Flag("output"))
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	parser := NewArgParser([]string{"--json=false", "--quiet=true"})

	if parser.BoolFlag("json") {
		t.Error("BoolFlag(json) = true, want false")
	}
	if !parser.BoolFlag("quiet") {
		t.Error("BoolFlag(quiet) = false")
	}
}

func TestArgParserPositional(t *testing.T) {
	parser := NewArgParser([]string{"set", "feed.page_size", "50"})

	if parser.PositionalCount() != 3 {
		t.Fatalf("PositionalCount() = %d", parser.PositionalCount())
	}
	if parser.Positional(1) != "feed.page_size" {
		t.Errorf("Positional(1) = %q", parser.Positional(1))
	}
	if parser.Positional(99) != "" {
		t.Error("out-of-range positional should be empty")
	}
}

func TestJoinPositionalArgs(t *testing.T) {
	parser := NewArgParser([]string{"hello", "nostr", "world", "--quiet"})
	if got := JoinPositionalArgs(parser, 0); got != "hello nostr world" {
		t.Errorf("JoinPositionalArgs() = %q", got)
	}
}

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parseArgv(nil)
	if cmd != CmdTUI {
		t.Errorf("parseArgv(nil) = %d, want CmdTUI", cmd)
	}
}

func TestParseCommands(t *testing.T) {
	cases := []struct {
		argv []string
		want Command
	}{
		{[]string{"post", "hi"}, CmdPost},
		{[]string{"note", "hi"}, CmdPost},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"keys", "generate"}, CmdKeys},
		{[]string{"identity", "show"}, CmdKeys},
		{[]string{"export", "note1abc"}, CmdExport},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}
	for _, tc := range cases {
		cmd, _ := parseArgv(tc.argv)
		if cmd != tc.want {
			t.Errorf("parseArgv(%v) = %d, want %d", tc.argv, cmd, tc.want)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgv([]string{"--relay", "wss://one", "--json", "status"})

	if cmd != CmdStatus {
		t.Fatalf("cmd = %d, want CmdStatus", cmd)
	}
	if args.Relay != "wss://one" {
		t.Errorf("Relay = %q", args.Relay)
	}
	if !args.JSON {
		t.Error("JSON = false")
	}
}

func TestParsePostArgs(t *testing.T) {
	cmd, args := parseArgv([]string{"post", "--reply-to", "note1xyz", "hello", "there"})

	if cmd != CmdPost {
		t.Fatalf("cmd = %d", cmd)
	}
	if args.ReplyTo != "note1xyz" {
		t.Errorf("ReplyTo = %q", args.ReplyTo)
	}
	if args.Message != "hello there" {
		t.Errorf("Message = %q", args.Message)
	}
}

func TestParseSubcommandCapture(t *testing.T) {
	_, args := parseArgv([]string{"keys", "import", "deadbeef"})
	if args.Subcommand != "import" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
}

// =============================================================================
// NOTE ID RESOLUTION
// =============================================================================

func TestResolveNoteIDHex(t *testing.T) {
	hex := strings.Repeat("AB", 32)
	got, err := ResolveNoteID(hex)
	if err != nil {
		t.Fatalf("ResolveNoteID() error: %v", err)
	}
	if got != strings.ToLower(hex) {
		t.Errorf("ResolveNoteID() = %q, want lowercase hex", got)
	}
}

func TestResolveNoteIDRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "short", "note1notbech32!!", strings.Repeat("x", 63)} {
		if _, err := ResolveNoteID(bad); err == nil {
			t.Errorf("ResolveNoteID(%q) succeeded, want error", bad)
		}
	}
}

// =============================================================================
// CONFIG SET
// =============================================================================

func TestApplyConfigSet(t *testing.T) {
	cfg := config.Default()

	if err := applyConfigSet(cfg, "feed.page_size", "25"); err != nil {
		t.Fatalf("set feed.page_size: %v", err)
	}
	if cfg.Feed.PageSize != 25 {
		t.Errorf("PageSize = %d", cfg.Feed.PageSize)
	}

	if err := applyConfigSet(cfg, "relays", "wss://a, wss://b"); err != nil {
		t.Fatalf("set relays: %v", err)
	}
	if len(cfg.Relays) != 2 || cfg.Relays[1] != "wss://b" {
		t.Errorf("Relays = %v", cfg.Relays)
	}

	if err := applyConfigSet(cfg, "zap.default_amount_sats", "210"); err != nil {
		t.Fatalf("set zap amount: %v", err)
	}
	if cfg.Zap.DefaultAmountSats != 210 {
		t.Errorf("DefaultAmountSats = %d", cfg.Zap.DefaultAmountSats)
	}
}

func TestApplyConfigSetRejectsInvalid(t *testing.T) {
	cfg := config.Default()

	cases := []struct{ key, value string }{
		{"feed.page_size", "zero"},
		{"feed.page_size", "-1"},
		{"relays", " , "},
		{"ui.theme", "neon"},
		{"no.such.key", "1"},
	}
	for _, tc := range cases {
		if err := applyConfigSet(cfg, tc.key, tc.value); err == nil {
			t.Errorf("applyConfigSet(%q, %q) succeeded, want error", tc.key, tc.value)
		}
	}
}

// =============================================================================
// TEXT WRAPPING
// =============================================================================

func TestWrapTextPreservesNewlines(t *testing.T) {
	in := "first line\nsecond line"
	if got := WrapText(in, 40); got != in {
		t.Errorf("WrapText() = %q, want unchanged", got)
	}
}

func TestWrapTextBreaksLongLines(t *testing.T) {
	in := strings.Repeat("word ", 30)
	out := WrapText(in, 40)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 40 {
			t.Errorf("line %q longer than 40 chars", line)
		}
	}
}
