package reward

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"
)

// ErrRejected is returned when the XP service refuses a reward with a 4xx
// status other than 429.
var ErrRejected = errors.New("reward rejected")

// HTTPSink posts reward events to an external XP service.
type HTTPSink struct {
	httpClient *resty.Client
	path       string
}

// NewHTTPSink creates a new HTTPSink. An empty token sends no Authorization header.
func NewHTTPSink(baseURL, path, token string, timeout time.Duration) *HTTPSink {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPSink{
		httpClient: client,
		path:       path,
	}
}

func (s *HTTPSink) Close() error {
	return s.httpClient.Close()
}

func (s *HTTPSink) ApplyReward(ctx context.Context, userID int64, amount int) error {
	response, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(newEvent(userID, amount)).
		Post(s.path)
	if err != nil {
		return fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		err := fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
		if response.StatusCode() < http.StatusInternalServerError && response.StatusCode() != http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", ErrRejected, err)
		}
		return err
	}
	return nil
}
