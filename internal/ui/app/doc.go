// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app holds the top-level Bubble Tea model: view routing, key
// handling, and the commands that talk to relays in the background.
//
// The model is a thin coordinator. Data lives in the feed, thread, and
// storage packages; rendering lives in ui/components. Everything slow
// runs as a tea.Cmd and comes back as a typed message.
package app
