package chankit

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chankit-dev/chankit/internal/logger"
	"github.com/chankit-dev/chankit/internal/metrics"
	"github.com/chankit-dev/chankit/internal/ratelimit"
	"github.com/chankit-dev/chankit/internal/utils"
)

const (
	defaultAPIBase   = "https://a.4cdn.org"
	defaultUserAgent = "chankit/1.0"
	defaultInterval  = time.Second
	defaultTimeout   = 30 * time.Second
)

// Client handles all communication with the JSON API and answers board
// name lookups. A single Client may be shared by any number of Boards; its
// rate limiter paces their combined request stream.
type Client struct {
	apiBase   string
	userAgent string
	http      *http.Client
	limiter   *ratelimit.Limiter

	mu     sync.Mutex
	boards map[string]BoardInfo
}

// Options configures a Client. The zero value selects the public API host,
// one request per second and a 30 second request timeout.
type Options struct {
	// APIBase is the scheme and host requests are sent to.
	APIBase string
	// UserAgent is sent with every request.
	UserAgent string
	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
	// RequestInterval is the minimum spacing between requests.
	RequestInterval time.Duration
}

// NewClient creates a Client ready for use by one or more Boards.
func NewClient(opts Options) *Client {
	if opts.APIBase == "" {
		opts.APIBase = defaultAPIBase
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if opts.RequestInterval <= 0 {
		opts.RequestInterval = defaultInterval
	}

	return &Client{
		apiBase:   opts.APIBase,
		userAgent: opts.UserAgent,
		http:      opts.HTTPClient,
		limiter:   ratelimit.Every(opts.RequestInterval),
	}
}

// BoardInfo describes one board from the site's board directory.
type BoardInfo struct {
	Board    string `json:"board" validate:"required"`
	Title    string `json:"title"`
	WorkSafe int    `json:"ws_board"`
	PerPage  int    `json:"per_page"`
	Pages    int    `json:"pages"`
}

type boardsPayload struct {
	Boards []BoardInfo `json:"boards" validate:"required,dive"`
}

// Boards returns the site's board directory keyed by board name, fetching
// it on first use and serving it from memory afterwards.
func (c *Client) Boards() (map[string]BoardInfo, error) {
	boards, err := c.boardDirectory()
	if err != nil {
		return nil, err
	}

	out := make(map[string]BoardInfo, len(boards))
	for name, b := range boards {
		out[name] = b
	}
	return out, nil
}

// IsValidBoard reports whether name is on the site's board list.
func (c *Client) IsValidBoard(name string) (bool, error) {
	boards, err := c.boardDirectory()
	if err != nil {
		return false, err
	}
	_, ok := boards[name]
	return ok, nil
}

// boardDirectory returns the memoized board list, fetching it if no call
// has succeeded yet. The lock is not held across the fetch, so concurrent
// first calls may fetch twice; the first stored result wins.
func (c *Client) boardDirectory() (map[string]BoardInfo, error) {
	c.mu.Lock()
	boards := c.boards
	c.mu.Unlock()
	if boards != nil {
		return boards, nil
	}

	boards, err := c.fetchBoards()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.boards == nil {
		c.boards = boards
	}
	boards = c.boards
	c.mu.Unlock()

	return boards, nil
}

func (c *Client) fetchBoards() (map[string]BoardInfo, error) {
	resp, err := c.get("boards", "/boards.json", "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode}
	}

	var payload boardsPayload
	if err := utils.DecodeValidate(resp.Body, &payload); err != nil {
		return nil, &ResponseError{URL: resp.Request.URL.String(), Err: err}
	}

	boards := make(map[string]BoardInfo, len(payload.Boards))
	for _, b := range payload.Boards {
		boards[b.Board] = b
	}
	return boards, nil
}

// get is the single helper for making API requests. A non-empty
// ifModifiedSince is attached as an If-Modified-Since header. Callers own
// the response body.
func (c *Client) get(endpoint, path, ifModifiedSince string) (*http.Response, error) {
	c.limiter.Wait()

	req, err := http.NewRequest(http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create api request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if ifModifiedSince != "" {
		req.Header.Set("If-Modified-Since", ifModifiedSince)
	}

	id := uuid.NewString()
	logger.Log.Debug("api request", "id", id, "url", req.URL.String(), "conditional", ifModifiedSince != "")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("api unavailable: %w", err)
	}

	logger.Log.Debug("api response", "id", id, "status", resp.StatusCode)

	return resp, nil
}
