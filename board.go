package chankit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/chankit-dev/chankit/internal/logger"
	"github.com/chankit-dev/chankit/internal/metrics"
	"github.com/chankit-dev/chankit/internal/utils"
)

// Board caches the threads of one board. Catalog seeds the cache and keeps
// it current with conditional requests; GetThread and FindCached revalidate
// cached threads lazily on access.
type Board struct {
	Name  string
	Cache *ThreadCache

	client *Client

	mu           sync.Mutex
	lastModified time.Time // zero until the first successful catalog fetch
}

// NewBoard creates a Board after checking name against the site's board
// list. Boards may share one Client.
func NewBoard(client *Client, name string) (*Board, error) {
	ok, err := client.IsValidBoard(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBoard, name)
	}

	return &Board{
		Name:   name,
		Cache:  NewThreadCache(name),
		client: client,
	}, nil
}

// Catalog fetches the board's current catalog and seeds the thread cache
// with a thread for every topic in it. Existing entries for the same thread
// number are replaced. It returns nil with no error when the catalog has
// not changed since the last successful fetch; the cache is left untouched.
func (b *Board) Catalog() (*Catalog, error) {
	ims := ""
	b.mu.Lock()
	if !b.lastModified.IsZero() {
		ims = b.lastModified.UTC().Format(http.TimeFormat)
	}
	b.mu.Unlock()

	resp, err := b.client.get("catalog", "/"+b.Name+"/catalog.json", ims)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		b.mu.Lock()
		b.lastModified = time.Now()
		b.mu.Unlock()

		// The wire format is a bare array of pages; wrap it so it
		// decodes into the envelope Catalog expects.
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog body: %w", err)
		}
		wrapped := append(append([]byte(`{"pages":`), body...), '}')

		var catalog Catalog
		if err := utils.DecodeValidate(bytes.NewReader(wrapped), &catalog); err != nil {
			return nil, &ResponseError{URL: resp.Request.URL.String(), Err: err}
		}

		topics := catalog.Topics()
		for _, topic := range topics {
			b.Cache.Insert(threadFromTopic(*topic, b.Name, b.client))
		}

		metrics.CatalogFetches.WithLabelValues(b.Name, metrics.ResultModified).Inc()
		logger.Log.Debug("catalog updated",
			"board", b.Name,
			"topics", len(topics),
			"cached", b.Cache.Len())

		return &catalog, nil
	case http.StatusNotModified:
		metrics.CatalogFetches.WithLabelValues(b.Name, metrics.ResultNotModified).Inc()
		return nil, nil
	default:
		return nil, &StatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode}
	}
}

// GetThread returns the current snapshot of one thread. A cached thread is
// revalidated in place first; an unknown one is fetched, cached and
// returned. Either way the caller gets its own copy.
func (b *Board) GetThread(no int64) (*Thread, error) {
	updated, err := b.Cache.UpdateEntry(no)
	if err != nil {
		return nil, err
	}
	if updated {
		if t, ok := b.Cache.Get(no); ok {
			return t, nil
		}
		// Evicted between the update and the read; fetch fresh.
	}

	path := fmt.Sprintf("/%s/thread/%d.json", b.Name, no)
	resp, err := b.client.get("thread", path, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode}
	}

	var payload threadPayload
	if err := utils.DecodeValidate(resp.Body, &payload); err != nil {
		return nil, &ResponseError{URL: resp.Request.URL.String(), Err: err}
	}

	thread := threadFromPayload(payload, b.Name, b.client)
	b.Cache.Insert(thread)
	metrics.ThreadFetches.WithLabelValues(b.Name, metrics.ResultFetched).Inc()

	return thread, nil
}

// FindCached returns every cached, still-live thread whose opening post's
// author name, comment text, subject or filename matches query, compiled as
// a case-insensitive regular expression. Matching threads are revalidated
// before they are returned; threads that turn out to be expired are evicted
// from the cache and dropped from the result.
func (b *Board) FindCached(query string) ([]*Thread, error) {
	re, err := compileQuery(query)
	if err != nil {
		return nil, err
	}

	matches := b.Cache.Matching(re)

	threads := make([]*Thread, 0, len(matches))
	for _, t := range matches {
		if err := t.Update(); err != nil {
			return nil, err
		}
		if t.Expired {
			b.Cache.Remove(t.No())
			continue
		}
		threads = append(threads, t)
	}

	return threads, nil
}

// LastModified returns the time of the last catalog fetch that yielded new
// data, and false if none has succeeded yet. The time is read from the
// local clock when the response arrives, not from a server header, so
// clock skew can widen or narrow the revalidation window.
func (b *Board) LastModified() (time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastModified, !b.lastModified.IsZero()
}
