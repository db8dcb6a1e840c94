// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed implements the feed/query layer.
package feed

import (
	"strings"

	"github.com/jeranaias/nostrum/internal/config"
	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// NOTE FILTER
// =============================================================================

// NoteFilter holds the client-side screening rules applied after relay
// results arrive. Zero value allows everything.
type NoteFilter struct {
	ShowReplies   bool
	ShowReposts   bool
	HideSensitive bool

	mutedPubkeys   map[string]struct{}
	mutedWords     []string // pre-folded
	sensitiveWords []string // pre-folded
}

// FilterFromConfig builds the screening rules from the live config.
func FilterFromConfig(cfg *config.Config) NoteFilter {
	f := NoteFilter{
		ShowReplies:   cfg.Feed.ShowReplies,
		ShowReposts:   cfg.Feed.ShowReposts,
		HideSensitive: cfg.Filters.HideSensitive,
		mutedPubkeys:  make(map[string]struct{}, len(cfg.Filters.MutedPubkeys)),
	}
	for _, pk := range cfg.Filters.MutedPubkeys {
		f.mutedPubkeys[strings.ToLower(pk)] = struct{}{}
	}
	for _, w := range cfg.Filters.MutedWords {
		if w = strings.TrimSpace(w); w != "" {
			f.mutedWords = append(f.mutedWords, util.FoldForSearch(w))
		}
	}
	for _, w := range cfg.Filters.SensitiveWords {
		if w = strings.TrimSpace(w); w != "" {
			f.sensitiveWords = append(f.sensitiveWords, util.FoldForSearch(w))
		}
	}
	return f
}

// Allow reports whether the note survives every screening rule.
func (f NoteFilter) Allow(n *model.Note) bool {
	if n == nil {
		return false
	}
	if !f.ShowReplies && n.IsReply() {
		return false
	}
	if !f.ShowReposts && n.IsRepost() {
		return false
	}
	if f.Muted(n) {
		return false
	}
	if f.HideSensitive && f.Sensitive(n) {
		return false
	}
	return true
}

// Muted reports whether the note (or, for reposts, the reposted note)
// comes from a muted author or contains a muted word.
func (f NoteFilter) Muted(n *model.Note) bool {
	if f.mutedAuthor(n.PubKey) {
		return true
	}
	if f.containsAny(n.Content, f.mutedWords) {
		return true
	}
	if inner := n.RepostedNote(); inner != nil {
		return f.mutedAuthor(inner.PubKey) || f.containsAny(inner.Content, f.mutedWords)
	}
	return false
}

// Sensitive reports whether the note carries a content warning or matches
// a configured sensitive word.
func (f NoteFilter) Sensitive(n *model.Note) bool {
	if n.ContentWarning != "" {
		return true
	}
	return f.containsAny(n.Content, f.sensitiveWords)
}

func (f NoteFilter) mutedAuthor(pubkey string) bool {
	if len(f.mutedPubkeys) == 0 {
		return false
	}
	_, muted := f.mutedPubkeys[strings.ToLower(pubkey)]
	return muted
}

func (f NoteFilter) containsAny(content string, words []string) bool {
	if len(words) == 0 {
		return false
	}
	folded := util.FoldForSearch(content)
	for _, w := range words {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}
