package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageAppendsLine(t *testing.T) {
	dir := t.TempDir()
	seats := 7
	body, err := json.Marshal(TicketPurchasedEvent{
		TicketID:       "t1",
		UserID:         "u1",
		EventID:        "e1",
		EventName:      "George Enescu Festival",
		EventStartsAt:  "2026-09-01T19:00:00Z",
		PriceCents:     4500,
		Currency:       "RON",
		PurchasedAt:    "2026-08-01T10:00:00Z",
		RemainingSeats: &seats,
	})
	require.NoError(t, err)

	require.NoError(t, HandleMessage(dir, body))
	require.NoError(t, HandleMessage(dir, body))

	raw, err := os.ReadFile(filepath.Join(dir, "tickets.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ticket_id=t1")
	assert.Contains(t, lines[0], `event="George Enescu Festival"`)
	assert.Contains(t, lines[0], "remaining=7")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, HandleMessage(dir, []byte("{not json")))
	assert.Error(t, HandleMessage(dir, []byte(`{"user_id":"u1"}`)))

	_, err := os.Stat(filepath.Join(dir, "tickets.log"))
	assert.True(t, os.IsNotExist(err))
}
