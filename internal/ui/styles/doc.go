// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles holds the adaptive color palette, the Theme of Lip Gloss
// styles used across every view, spinner animations, and the tree
// connector characters for rendering reply structure.
package styles
