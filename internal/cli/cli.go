// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and the command table for nostrum.

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdPost
	CmdStatus
	CmdConfig
	CmdKeys
	CmdExport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Relay      string // override relay list with a single relay
	ConfigPath string // explicit config file
	JSON       bool
	Quiet      bool

	// Command-specific
	Message    string // post body, when given inline
	ReplyTo    string // note id or nevent the post replies to
	Subcommand string

	// Raw args remaining after the command word.
	Raw []string
}

const usageText = `nostrum %s - a terminal nostr client

Nostrum reads and writes the nostr network from your terminal: a note
feed, threaded replies, profiles, bookmarks, and Lightning zaps.

Usage:
  nostrum                      Start the TUI (default)
  nostrum post ["message"]     Publish a note (prompts when no message given)
    --reply-to ID              Reply to a note id or nevent
    --relay URL                Publish to a single relay instead of the config list
  nostrum status               Relay and cache health
    --json                     Structured output
  nostrum keys <subcommand>    Identity management
    generate                   Create a new keypair
      --passphrase             Encrypt the stored key with a passphrase
    import <nsec|hex>          Import an existing secret key
    show                       Show the stored public key
    export                     Print the secret key (asks for confirmation)
  nostrum config [show|set|path]
    show                       Print the active configuration
    set <key> <value>          Set a value (e.g. feed.page_size 50)
    path                       Print the config file location
  nostrum export <note-id>     Export a thread to a file
    --format md|json           Output format (default: md)
    --output DIR               Output directory (default: .)
  nostrum version              Print version information
  nostrum help                 Show this help

Keys are stored under the config directory; generate once, then every
write action (post, reply, zap) signs with that identity. Without a key
nostrum runs read-only.
`

// PrintUsage prints the top-level usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("nostrum version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgv(os.Args[1:])
}

// parseArgv is Parse over an explicit argv, for tests.
func parseArgv(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "post", "note":
		parsePostArgs(&args, remaining)
		return CmdPost, args

	case "status", "s":
		return CmdStatus, args

	case "config":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdConfig, args

	case "keys", "key", "identity":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdKeys, args

	case "export":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdExport, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown word: not a command, leave it for the TUI to ignore.
		args.Raw = append([]string{cmd}, remaining...)
		return CmdTUI, args
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
			i++
		case arg == "--quiet" || arg == "-q":
			args.Quiet = true
			i++
		case arg == "--relay" && i+1 < len(argv):
			args.Relay = argv[i+1]
			i += 2
		case strings.HasPrefix(arg, "--relay="):
			args.Relay = strings.TrimPrefix(arg, "--relay=")
			i++
		case arg == "--config" && i+1 < len(argv):
			args.ConfigPath = argv[i+1]
			i += 2
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
			i++
		default:
			remaining = append(remaining, arg)
			i++
		}
	}
	return remaining, args
}

// parsePostArgs pulls the reply target and inline message out of the
// post command's arguments.
func parsePostArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.ReplyTo = parser.Flag("reply-to")
	if r := parser.Flag("relay"); r != "" {
		args.Relay = r
	}
	args.Message = JoinPositionalArgs(parser, 0)
}
