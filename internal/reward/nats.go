package reward

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/user"
)

// drainTimeout bounds how long Subscribe waits for buffered events after ctx
// is done. It stays below bootstrap.DefaultGracePeriod.
const drainTimeout = 5 * time.Second

// Connect opens a NATS connection with the configured reconnect policy.
func Connect(cfg config.NATSConfig) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("reward.nats.url is required for the nats sink")
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name("verbdrill"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s (max_reconnects=%d, wait=%s): %w",
			cfg.URL, cfg.MaxReconnects, cfg.ReconnectWait, err)
	}
	return nc, nil
}

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes reward events for an external XP service.
type NATSSink struct {
	publisher Publisher
	subject   string
}

// NewNATSSink creates a new NATSSink.
func NewNATSSink(publisher Publisher, subject string) *NATSSink {
	return &NATSSink{publisher: publisher, subject: subject}
}

func (s *NATSSink) ApplyReward(_ context.Context, userID int64, amount int) error {
	event := newEvent(userID, amount)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal() > %w", err)
	}
	if err := s.publisher.Publish(s.subject, data); err != nil {
		return fmt.Errorf("publisher.Publish(%s) > %w", s.subject, err)
	}
	slog.Default().Debug("reward event published",
		"subject", s.subject,
		"event_id", event.EventID,
		"user_id", userID,
		"amount", amount,
	)
	return nil
}

// Consumer applies reward events to users' total XP. Events already seen by
// this process are skipped. The seen set is kept in memory and starts empty
// after a restart, so it only guards against redelivery within one process.
type Consumer struct {
	users user.Repository

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewConsumer creates a new Consumer.
func NewConsumer(users user.Repository) *Consumer {
	return &Consumer{
		users: users,
		seen:  make(map[string]struct{}),
	}
}

// Handle applies one encoded event. It returns applied=false for redeliveries.
func (c *Consumer) Handle(ctx context.Context, data []byte) (applied bool, err error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return false, fmt.Errorf("json.Unmarshal() > %w", err)
	}
	if event.EventID == "" || event.UserID <= 0 {
		return false, fmt.Errorf("invalid reward event %q for user %d", event.EventID, event.UserID)
	}

	c.mu.Lock()
	if _, ok := c.seen[event.EventID]; ok {
		c.mu.Unlock()
		return false, nil
	}
	c.seen[event.EventID] = struct{}{}
	c.mu.Unlock()

	if err := c.users.AddXP(ctx, event.UserID, event.Amount); err != nil {
		c.mu.Lock()
		delete(c.seen, event.EventID)
		c.mu.Unlock()
		return false, fmt.Errorf("users.AddXP(%d) > %w", event.UserID, err)
	}
	return true, nil
}

// Subscribe consumes events on the subject until ctx is done, then drains the
// subscription so buffered events are still applied.
func (c *Consumer) Subscribe(ctx context.Context, nc *nats.Conn, subject string) error {
	sub, err := nc.Subscribe(subject, c.messageHandler(ctx))
	if err != nil {
		return fmt.Errorf("nc.Subscribe(%s) > %w", subject, err)
	}
	closed := sub.StatusChanged(nats.SubscriptionClosed)
	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("sub.Drain() > %w", err)
	}

	timer := time.NewTimer(drainTimeout)
	defer timer.Stop()
	select {
	case <-closed:
		return nil
	case <-timer.C:
		return fmt.Errorf("subscription on %s not drained within %s", subject, drainTimeout)
	}
}

// messageHandler applies each message with a context that is not cancelled
// together with ctx, since drained messages arrive after ctx is done.
func (c *Consumer) messageHandler(ctx context.Context) nats.MsgHandler {
	handleCtx := context.WithoutCancel(ctx)
	return func(msg *nats.Msg) {
		applied, err := c.Handle(handleCtx, msg.Data)
		if err != nil {
			slog.Default().Error("failed to apply reward event", "subject", msg.Subject, "error", err)
			return
		}
		if !applied {
			slog.Default().Debug("skipped duplicate reward event", "subject", msg.Subject)
		}
	}
}
