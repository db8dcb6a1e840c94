// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection and editing.
//
// Command: config
//
// Examples:
//   nostrum config show                      Print the active configuration
//   nostrum config set feed.page_size 50     Set a value
//   nostrum config set relays wss://a,wss://b
//   nostrum config path                      Print the config file location

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/nostrum/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) {
	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "show", "":
		handleConfigShow(args)
	case "set":
		handleConfigSet(args, parser)
	case "path":
		handleConfigPath()
	default:
		exitError(fmt.Errorf("unknown config subcommand %q (show, set, path)", parser.Subcommand()))
	}
}

func handleConfigShow(args Args) {
	cfg, err := LoadConfig(args)
	if err != nil {
		exitError(err)
	}
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		exitError(err)
	}
	fmt.Println(string(out))
}

func handleConfigPath() {
	path, err := config.ConfigPathTOML()
	if err != nil {
		exitError(err)
	}
	fmt.Println(path)
}

func handleConfigSet(args Args, parser *ArgParser) {
	key := parser.Positional(1)
	value := parser.Positional(2)
	if key == "" || value == "" {
		exitError(fmt.Errorf("usage: nostrum config set <key> <value>"))
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		exitError(err)
	}

	if err := applyConfigSet(cfg, key, value); err != nil {
		exitError(err)
	}
	if err := config.Save(cfg); err != nil {
		exitError(err)
	}
	fmt.Printf("%s = %s\n", key, value)
}

// applyConfigSet maps a dotted key to its config field. Only the
// commonly tuned settings are exposed; everything else is a file edit.
func applyConfigSet(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "relays":
		var relays []string
		for _, r := range strings.Split(value, ",") {
			r = strings.TrimSpace(r)
			if r != "" {
				relays = append(relays, r)
			}
		}
		if len(relays) == 0 {
			return fmt.Errorf("relays cannot be empty")
		}
		cfg.Relays = relays
		return nil

	case "feed.page_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("feed.page_size must be a positive integer")
		}
		cfg.Feed.PageSize = n
		return nil

	case "feed.show_replies":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("feed.show_replies must be true or false")
		}
		cfg.Feed.ShowReplies = b
		return nil

	case "feed.show_reposts":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("feed.show_reposts must be true or false")
		}
		cfg.Feed.ShowReposts = b
		return nil

	case "thread.max_age_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("thread.max_age_seconds must be a positive integer")
		}
		cfg.Thread.MaxAgeSeconds = n
		return nil

	case "zap.default_amount_sats":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("zap.default_amount_sats must be a positive integer")
		}
		cfg.Zap.DefaultAmountSats = n
		return nil

	case "zap.comment":
		cfg.Zap.Comment = value
		return nil

	case "ui.theme":
		switch value {
		case "dark", "light", "auto":
			cfg.UI.Theme = value
			return nil
		}
		return fmt.Errorf("ui.theme must be dark, light, or auto")

	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}
