// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package zaps implements Lightning zaps (NIP-57).
//
// A zap is three steps: resolve the recipient's Lightning address to an
// LNURL-pay endpoint, send it a signed kind-9734 zap request to obtain a
// bolt11 invoice, and later count the kind-9735 receipts relays return
// for a note. The invoice itself is paid by an external wallet; this
// client only produces the invoice and displays totals.
//
// LNURL-pay is plain HTTPS+JSON (LUD-06/LUD-16), done here with net/http.
// lud16 name@domain addresses map to the well-known path; bech32-encoded
// lud06 strings decode directly to the endpoint URL.
package zaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/keys"
	"github.com/jeranaias/nostrum/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNoLightningAddress = errors.New("profile has no lightning address")
	ErrZapsNotAllowed     = errors.New("recipient's lightning service does not support zaps")
	ErrAmountOutOfRange   = errors.New("amount outside the recipient's allowed range")
)

// httpClient is shared; LNURL endpoints are small JSON services.
var httpClient = &http.Client{Timeout: 15 * time.Second}

// =============================================================================
// LNURL-PAY RESOLUTION
// =============================================================================

// PayEndpoint is the decoded LNURL-pay descriptor for a Lightning address.
type PayEndpoint struct {
	Callback    string `json:"callback"`
	MinSendable int64  `json:"minSendable"` // millisats
	MaxSendable int64  `json:"maxSendable"` // millisats
	AllowsNostr bool   `json:"allowsNostr"`
	NostrPubkey string `json:"nostrPubkey"`

	CommentAllowed int `json:"commentAllowed"`
}

// lud16URL maps name@domain to the well-known LNURL-pay endpoint.
func lud16URL(address string) (string, error) {
	name, domain, ok := strings.Cut(strings.TrimSpace(address), "@")
	if !ok || name == "" || domain == "" {
		return "", fmt.Errorf("malformed lightning address %q", address)
	}
	return "https://" + domain + "/.well-known/lnurlp/" + url.PathEscape(name), nil
}

// lud06URL decodes a bech32 "lnurl1..." string to its endpoint URL.
func lud06URL(lnurl string) (string, error) {
	hrp, data, err := bech32.DecodeNoLimit(strings.TrimSpace(lnurl))
	if err != nil {
		return "", fmt.Errorf("malformed lnurl string: %w", err)
	}
	if hrp != "lnurl" {
		return "", fmt.Errorf("unexpected bech32 prefix %q", hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", fmt.Errorf("malformed lnurl payload: %w", err)
	}
	endpoint := string(raw)
	if !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "http://") {
		return "", fmt.Errorf("lnurl payload is not a URL")
	}
	return endpoint, nil
}

// ResolveEndpoint fetches the LNURL-pay descriptor for a profile. A lud16
// Lightning address wins over a lud06 LNURL when both are set.
func ResolveEndpoint(ctx context.Context, profile *model.Profile) (*PayEndpoint, error) {
	if profile == nil || !profile.CanZap() {
		return nil, ErrNoLightningAddress
	}

	var endpoint string
	var err error
	if profile.Lud16 != "" {
		endpoint, err = lud16URL(profile.Lud16)
	} else {
		endpoint, err = lud06URL(profile.Lud06)
	}
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lnurl endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lnurl endpoint returned %s", resp.Status)
	}

	var pay PayEndpoint
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&pay); err != nil {
		return nil, fmt.Errorf("malformed lnurl response: %w", err)
	}
	if pay.Callback == "" {
		return nil, fmt.Errorf("lnurl response missing callback")
	}
	return &pay, nil
}

// =============================================================================
// ZAP REQUEST AND INVOICE
// =============================================================================

// BuildZapRequest creates and signs the kind-9734 zap request for a note.
// amountMsat is in millisats; relays tells the recipient's wallet where to
// publish the receipt.
func BuildZapRequest(id *keys.Identity, recipientPubkey, noteID string, relays []string, amountMsat int64, comment string) (*nostr.Event, error) {
	if id == nil || !id.CanSign() {
		return nil, keys.ErrNoIdentity
	}

	tags := nostr.Tags{
		append(nostr.Tag{"relays"}, relays...),
		{"amount", strconv.FormatInt(amountMsat, 10)},
		{"p", recipientPubkey},
	}
	if noteID != "" {
		tags = append(tags, nostr.Tag{"e", noteID})
	}

	evt := &nostr.Event{
		Kind:      nostr.KindZapRequest,
		CreatedAt: nostr.Now(),
		Content:   comment,
		Tags:      tags,
	}
	if err := id.Sign(evt); err != nil {
		return nil, err
	}
	return evt, nil
}

// FetchInvoice asks the LNURL callback for a bolt11 invoice carrying the
// zap request.
func FetchInvoice(ctx context.Context, pay *PayEndpoint, zapRequest *nostr.Event, amountMsat int64) (string, error) {
	if !pay.AllowsNostr {
		return "", ErrZapsNotAllowed
	}
	if amountMsat < pay.MinSendable || (pay.MaxSendable > 0 && amountMsat > pay.MaxSendable) {
		return "", ErrAmountOutOfRange
	}

	reqJSON, err := json.Marshal(zapRequest)
	if err != nil {
		return "", err
	}

	callback, err := url.Parse(pay.Callback)
	if err != nil {
		return "", fmt.Errorf("malformed lnurl callback: %w", err)
	}
	q := callback.Query()
	q.Set("amount", strconv.FormatInt(amountMsat, 10))
	q.Set("nostr", string(reqJSON))
	callback.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, callback.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lnurl callback unreachable: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		PR     string `json:"pr"`
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return "", fmt.Errorf("malformed invoice response: %w", err)
	}
	if strings.EqualFold(result.Status, "ERROR") {
		return "", fmt.Errorf("lnurl error: %s", result.Reason)
	}
	if result.PR == "" {
		return "", fmt.Errorf("invoice response missing pr field")
	}
	return result.PR, nil
}

// =============================================================================
// RECEIPTS
// =============================================================================

// Receipt is a decoded kind-9735 zap receipt.
type Receipt struct {
	NoteID     string
	Sender     string // pubkey that paid, from the embedded zap request
	AmountMsat int64
	Comment    string
}

// ParseReceipt decodes a zap receipt event. The amount and sender come
// from the zap request the wallet embeds in the description tag; a
// receipt without a parseable description still counts with amount 0.
func ParseReceipt(evt *nostr.Event) (*Receipt, error) {
	if evt == nil || evt.Kind != nostr.KindZap {
		return nil, fmt.Errorf("not a zap receipt")
	}

	r := &Receipt{}
	var description string
	for _, tag := range evt.Tags {
		if len(tag) < 2 {
			continue
		}
		switch tag[0] {
		case "e":
			r.NoteID = tag[1]
		case "description":
			description = tag[1]
		}
	}

	if description != "" {
		var request nostr.Event
		if err := json.Unmarshal([]byte(description), &request); err == nil {
			r.Sender = request.PubKey
			r.Comment = request.Content
			for _, tag := range request.Tags {
				if len(tag) >= 2 && tag[0] == "amount" {
					if msat, err := strconv.ParseInt(tag[1], 10, 64); err == nil {
						r.AmountMsat = msat
					}
				}
			}
		}
	}
	return r, nil
}

// TotalsByNote sums receipt amounts per note id, in sats, for feed and
// thread display.
func TotalsByNote(events []*nostr.Event) map[string]int64 {
	totals := make(map[string]int64)
	for _, evt := range events {
		receipt, err := ParseReceipt(evt)
		if err != nil || receipt.NoteID == "" {
			continue
		}
		totals[receipt.NoteID] += receipt.AmountMsat / 1000
	}
	return totals
}
