package reward

import (
	"fmt"

	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/user"
)

// New builds the configured sink. The returned close function releases any
// connection the sink holds and is never nil.
func New(cfg config.RewardConfig, users user.Repository) (Sink, func() error, error) {
	noop := func() error { return nil }

	var (
		sink    Sink
		closeFn = noop
	)
	switch cfg.Sink {
	case config.SinkNone:
		return NopSink{}, noop, nil
	case config.SinkDatabase, "":
		sink = NewDBSink(users)
	case config.SinkNATS:
		nc, err := Connect(cfg.NATS)
		if err != nil {
			return nil, nil, err
		}
		sink = NewNATSSink(nc, cfg.NATS.Subject)
		closeFn = nc.Drain
	case config.SinkHTTP:
		if cfg.HTTP.BaseURL == "" {
			return nil, nil, fmt.Errorf("reward.http.base_url is required for the http sink")
		}
		httpSink := NewHTTPSink(cfg.HTTP.BaseURL, cfg.HTTP.Path, cfg.HTTP.Token, cfg.HTTP.Timeout)
		sink = httpSink
		closeFn = httpSink.Close
	default:
		return nil, nil, fmt.Errorf("unknown reward sink %q", cfg.Sink)
	}

	if cfg.RetryAttempts > 0 {
		sink = NewRetrying(sink, cfg.RetryAttempts)
	}
	return sink, closeFn, nil
}
