// internal/agent/health.go
//
// Reachability check run before a match starts. An agent counts as
// reachable when its service answers HTTP at all below 500; agents without
// a /health route (404) still count.

package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"
)

// DefaultHealthTimeout bounds a single reachability check.
const DefaultHealthTimeout = 3 * time.Second

// ErrUnhealthy marks an agent that answered its health check with a 5xx.
var ErrUnhealthy = errors.New("agent: unhealthy")

// HealthURL derives the health endpoint from a guess endpoint by replacing
// the last path segment: http://host:5001/get_guess → http://host:5001/health.
func HealthURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("parse endpoint: %q is not an absolute URL", endpoint)
	}
	dir := path.Dir(u.Path)
	if dir == "." {
		dir = "/"
	}
	u.Path = path.Join(dir, "health")
	u.RawQuery = ""
	return u.String(), nil
}

// Ping reports whether the agent behind endpoint is reachable.
func (c *Client) Ping(ctx context.Context, endpoint string) error {
	target, err := HealthURL(endpoint)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultHealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	res.Body.Close()
	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, res.StatusCode)
	}
	return nil
}
