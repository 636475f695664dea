package main

import (
	"context"
	"strings"
	"time"

	"github.com/chankit-dev/chankit"
	"github.com/chankit-dev/chankit/internal/logger"
)

// Watcher polls one board's catalog and reports threads matching a query.
type Watcher struct {
	board *chankit.Board
	query string
	fetch bool
	seen  map[int64]bool
}

func NewWatcher(board *chankit.Board, query string, fetchThreads bool) *Watcher {
	return &Watcher{
		board: board,
		query: query,
		fetch: fetchThreads,
		seen:  make(map[int64]bool),
	}
}

// Run polls immediately and then on every tick until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	logger.Log.Info("watching board",
		"board", w.board.Name,
		"query", w.query,
		"interval", interval)

	if err := w.Poll(); err != nil {
		logger.Log.Error("poll failed", "board", w.board.Name, "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := w.Poll(); err != nil {
				logger.Log.Error("poll failed", "board", w.board.Name, "error", err)
			}
		case <-ctx.Done():
			logger.Log.Info("watcher shutting down", "board", w.board.Name)
			return
		}
	}
}

// Poll fetches the catalog once and reports matching threads it has not
// seen before. Threads that left the catalog are forgotten so their numbers
// can be reported again if they reappear.
func (w *Watcher) Poll() error {
	catalog, err := w.board.Catalog()
	if err != nil {
		return err
	}
	if catalog == nil {
		logger.Log.Debug("catalog unchanged", "board", w.board.Name)
		return nil
	}

	current := make(map[int64]bool)
	for _, topic := range catalog.Topics() {
		current[topic.No] = true
	}
	for no := range w.seen {
		if !current[no] {
			delete(w.seen, no)
		}
	}

	matches, err := catalog.Find(w.query)
	if err != nil {
		return err
	}

	for _, topic := range matches {
		if w.seen[topic.No] {
			continue
		}
		w.seen[topic.No] = true

		logger.Log.Info("thread matched",
			"board", w.board.Name,
			"no", topic.No,
			"subject", topic.Sub,
			"replies", topic.Replies,
			"snippet", snippet(topic.CommentText(), 80))

		if w.fetch {
			thread, err := w.board.GetThread(topic.No)
			if err != nil {
				logger.Log.Error("thread fetch failed",
					"board", w.board.Name,
					"no", topic.No,
					"error", err)
				continue
			}
			logger.Log.Info("thread detail",
				"board", w.board.Name,
				"no", thread.No(),
				"replies", len(thread.Replies),
				"expired", thread.Expired)
		}
	}

	return nil
}

// snippet returns at most n runes of s, collapsed to one line.
func snippet(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
