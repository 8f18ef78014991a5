// Package sms provides the outbound SMS gateway client. The gateway speaks an
// Infobip-style JSON API: one POST per recipient, authorized with an App key.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Sender is the interface for sending a single SMS message.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// gateway payload: {"messages":[{"from":..,"destinations":[{"to":..}],"text":..}]}

type destination struct {
	To string `json:"to"`
}

type message struct {
	From         string        `json:"from"`
	Destinations []destination `json:"destinations"`
	Text         string        `json:"text"`
}

type payload struct {
	Messages []message `json:"messages"`
}

// GatewayClient sends messages through the HTTP SMS gateway. The embedded
// http.Client carries an explicit timeout so a stalled gateway call is
// classified as a failed send rather than blocking the dispatch loop.
type GatewayClient struct {
	baseURL string
	apiKey  string
	sender  string
	client  *http.Client
}

func NewGatewayClient(baseURL, apiKey, sender string, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		sender:  sender,
		client:  &http.Client{Timeout: timeout},
	}
}

// Send delivers one message to one recipient. Any outcome other than HTTP 200
// from the gateway is an error; the caller decides what to do with it.
func (g *GatewayClient) Send(ctx context.Context, to, body string) error {
	p := payload{
		Messages: []message{{
			From:         g.sender,
			Destinations: []destination{{To: to}},
			Text:         body,
		}},
	}

	buf, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/sms/2/text/advanced", bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Authorization", "App "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// Call records a single call to a MockSender.
type Call struct {
	To   string
	Body string
}

// MockSender is a test double for Sender.
type MockSender struct {
	mu         sync.Mutex
	calls      []Call
	ShouldFail bool
	FailError  string

	// FailFor marks specific recipient numbers as failing while the rest
	// succeed, for mixed-outcome dispatch tests.
	FailFor map[string]bool
}

// Send records the call and optionally returns an error.
func (m *MockSender) Send(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{To: to, Body: body})
	if m.ShouldFail || m.FailFor[to] {
		msg := m.FailError
		if msg == "" {
			msg = "send failed"
		}
		return errors.New(msg)
	}
	return nil
}

// Calls returns a copy of recorded calls.
func (m *MockSender) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}
