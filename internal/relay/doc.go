// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package relay provides relay connectivity for nostrum.
//
// The wire protocol, subscriptions and event signing all come from
// go-nostr; this package only adds the client-side plumbing around it:
// a lazy connection pool over the configured relays, fan-out queries with
// merge-and-dedupe, simple backoff retry, and per-relay request
// throttling.
//
// Error handling is deliberately best-effort: a query succeeds if any
// relay answered, failures are recorded per relay for the status view and
// otherwise stay silent.
package relay
