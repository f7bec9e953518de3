package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func sign(t *testing.T, payload []byte, ts time.Time, secret string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestConstructEventValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)
	now := time.Now()

	event, err := constructEvent(payload, sign(t, payload, now, testSecret), testSecret, now)
	require.NoError(t, err)

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Equal(t, "pi_1", event.Data.Object["id"])
}

func TestConstructEventRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	_, err := constructEvent(payload, sign(t, payload, now, "whsec_other"), testSecret, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()
	header := sign(t, payload, now, testSecret)

	tampered := []byte(`{"id":"evt_1","type":"payment_intent.payment_failed"}`)
	_, err := constructEvent(tampered, header, testSecret, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-10 * time.Minute)

	_, err := constructEvent(payload, sign(t, payload, signedAt, testSecret), testSecret, time.Now())
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestConstructEventAcceptsWithinTolerance(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-4 * time.Minute)

	_, err := constructEvent(payload, sign(t, payload, signedAt, testSecret), testSecret, time.Now())
	assert.NoError(t, err)
}

func TestConstructEventRejectsMalformedHeaders(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	for _, header := range []string{
		"",
		"t=123",
		"v1=deadbeef",
		"t=notanumber,v1=deadbeef",
		"garbage",
	} {
		_, err := constructEvent(payload, header, testSecret, now)
		assert.Error(t, err, "header %q", header)
	}
}

func TestConstructEventAcceptsSecondSignature(t *testing.T) {
	// During secret rotation the header carries one v1 entry per secret.
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", now.Unix(), payload)
	good := hex.EncodeToString(mac.Sum(nil))

	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), "00ff00ff", good)
	_, err := constructEvent(payload, header, testSecret, now)
	assert.NoError(t, err)
}
