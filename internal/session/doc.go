// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the interactive session: user activity, the
// dirty flag driving periodic auto-save of thread snapshots, staleness
// hints after long idle periods, and per-view scroll positions persisted
// across restarts.
package session
