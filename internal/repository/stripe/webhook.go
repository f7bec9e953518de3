package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"comprasmart/domain"
)

// Events older than this are rejected to limit replay of captured payloads.
const signatureTolerance = 5 * time.Minute

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
)

// ConstructEvent verifies the Stripe-Signature header against the raw
// payload and decodes the event. Header format: "t=<unix>,v1=<hex hmac>",
// signed over "<t>.<payload>" with the endpoint secret.
func (r *StripeRepository) ConstructEvent(payload []byte, sigHeader string) (domain.StripeEvent, error) {
	return constructEvent(payload, sigHeader, r.stripeConfig.WebhookSecret, time.Now())
}

func constructEvent(payload []byte, sigHeader, secret string, now time.Time) (domain.StripeEvent, error) {
	var timestamp string
	var signatures []string

	for _, part := range strings.Split(sigHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return domain.StripeEvent{}, ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return domain.StripeEvent{}, ErrInvalidSignature
	}

	if now.Sub(time.Unix(ts, 0)) > signatureTolerance {
		return domain.StripeEvent{}, ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			valid = true
			break
		}
	}
	if !valid {
		return domain.StripeEvent{}, ErrInvalidSignature
	}

	var event domain.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return domain.StripeEvent{}, fmt.Errorf("failed to decode webhook event: %w", err)
	}

	return event, nil
}
