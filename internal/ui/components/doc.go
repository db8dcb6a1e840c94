// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the TUI:
// header, status bar, spinner, toast notifications, the note and thread
// row renderers, profile cards, long-form article rendering, and the
// help overlay. Components take a *styles.Theme and render strings;
// state and key handling live in the app package.
package components
