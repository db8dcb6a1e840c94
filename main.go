// nostrum - a terminal client for the nostr network.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nostrum/internal/cli"
	"github.com/jeranaias/nostrum/internal/config"
	"github.com/jeranaias/nostrum/internal/storage"
	"github.com/jeranaias/nostrum/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdPost:
		cli.HandlePost(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdKeys:
		cli.HandleKeys(args)
	case cli.CmdExport:
		cli.HandleExport(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// runTUI wires the stores and relay pool together and runs the app.
func runTUI(args cli.Args) {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fatal(err)
	}
	config.SetGlobal(cfg)

	dataDir, err := cli.DataDir()
	if err != nil {
		fatal(err)
	}

	// Identity is optional: without a key the client browses read-only.
	// The passphrase prompt has to happen before the terminal goes raw.
	identity, err := cli.LoadIdentity(dataDir)
	if err != nil {
		fatal(err)
	}

	bookmarks, err := storage.OpenBookmarks(dataDir)
	if err != nil {
		fatal(err)
	}
	snapshots, err := storage.OpenSnapshots(dataDir)
	if err != nil {
		fatal(err)
	}

	// The event cache is best-effort: a corrupt database file should not
	// keep the client from starting.
	cacheDB, err := storage.OpenCacheDB(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: event cache unavailable: %v\n", err)
		cacheDB = nil
	}
	if cacheDB != nil {
		defer cacheDB.Close()
	}

	pool := cli.OpenPool(cfg)
	defer pool.Close()

	model := app.New(app.Deps{
		Config:    cfg,
		Pool:      pool,
		Identity:  identity,
		Bookmarks: bookmarks,
		Snapshots: snapshots,
		CacheDB:   cacheDB,
		DataDir:   dataDir,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Live config reload: mute-list edits apply without a restart.
	watcher, err := config.Watch(func(fresh *config.Config) {
		program.Send(app.ConfigReloadedMsg{Config: fresh})
	})
	if err == nil && watcher != nil {
		defer watcher.Close()
	}

	if _, err := program.Run(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
