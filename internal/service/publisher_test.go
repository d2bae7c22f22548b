package service

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/iliyamo/bucharest-discover/internal/queue"
)

// silentBroker accepts TCP connections and never answers the AMQP
// handshake. It returns an amqp:// URL pointing at itself.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestAMQPPublisherHonoursContextDeadline(t *testing.T) {
	p := NewAMQPPublisher(silentBroker(t))
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.PublishTicketPurchased(ctx, q.TicketPurchasedEvent{TicketID: "t1"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestAMQPPublisherExpiredContext(t *testing.T) {
	p := NewAMQPPublisher(silentBroker(t))
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err := p.PublishTicketPurchased(ctx, q.TicketPurchasedEvent{TicketID: "t1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPurchaseNotHeldBySilentBroker(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "u1")
	ev := env.event(t, nil)
	env.ticketing.publisher = NewAMQPPublisher(silentBroker(t))
	env.ticketing.publishTimeout = 300 * time.Millisecond

	start := time.Now()
	tk, err := env.ticketing.Purchase(env.ctx, "u1", ev.ID)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)

	list, err := env.ticketing.ListForUser(env.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tk.ID, list[0].ID)
}
