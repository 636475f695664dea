package chankit

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/chankit-dev/chankit/internal/metrics"
	"github.com/chankit-dev/chankit/internal/utils"
)

// Thread is one thread's cached state: the opening post plus any replies
// fetched so far. Values handed out by a ThreadCache are snapshots; mutation
// happens only through cache operations.
type Thread struct {
	Topic   Post
	Replies []Post
	Board   string
	Expired bool

	client      *Client
	lastFetched time.Time
}

type threadPayload struct {
	Posts []Post `json:"posts" validate:"required,dive"`
}

// threadFromTopic builds a thread stub from a catalog opening post. Replies
// are unknown until the first Update.
func threadFromTopic(topic Post, board string, client *Client) *Thread {
	return &Thread{Topic: topic, Board: board, client: client}
}

// threadFromPayload builds a thread from a full thread response. The payload
// has been validated, so Posts holds at least the opening post.
func threadFromPayload(payload threadPayload, board string, client *Client) *Thread {
	return &Thread{
		Topic:       payload.Posts[0],
		Replies:     append([]Post(nil), payload.Posts[1:]...),
		Board:       board,
		client:      client,
		lastFetched: time.Now(),
	}
}

// No returns the thread number, which is the opening post's no.
func (t *Thread) No() int64 {
	return t.Topic.No
}

// Update re-synchronizes the thread against the API. A "not modified"
// answer leaves the thread as is and a 404 marks it expired; neither is an
// error. The first update after catalog seeding is unconditional since only
// the opening post is known at that point.
func (t *Thread) Update() error {
	ims := ""
	if !t.lastFetched.IsZero() {
		ims = t.lastFetched.UTC().Format(http.TimeFormat)
	}

	path := fmt.Sprintf("/%s/thread/%d.json", t.Board, t.Topic.No)
	resp, err := t.client.get("thread", path, ims)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		t.lastFetched = time.Now()

		var payload threadPayload
		if err := utils.DecodeValidate(resp.Body, &payload); err != nil {
			return &ResponseError{URL: resp.Request.URL.String(), Err: err}
		}
		t.Topic = payload.Posts[0]
		t.Replies = append([]Post(nil), payload.Posts[1:]...)

		metrics.ThreadFetches.WithLabelValues(t.Board, metrics.ResultFetched).Inc()
	case http.StatusNotModified:
		metrics.ThreadFetches.WithLabelValues(t.Board, metrics.ResultNotModified).Inc()
	case http.StatusNotFound:
		t.Expired = true
		metrics.ThreadFetches.WithLabelValues(t.Board, metrics.ResultExpired).Inc()
	default:
		return &StatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode}
	}

	return nil
}

// Clone returns a deep copy of the thread.
func (t *Thread) Clone() *Thread {
	clone := *t
	clone.Replies = append([]Post(nil), t.Replies...)
	return &clone
}

// Matches reports whether re matches the thread's opening post.
func (t *Thread) Matches(re *regexp.Regexp) bool {
	return t.Topic.Matches(re)
}
