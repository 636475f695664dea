package chankit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chankit-dev/chankit/internal/fakechan"
)

func newTestClient(srv *fakechan.Server) *Client {
	return NewClient(Options{
		APIBase:         srv.URL,
		RequestInterval: time.Millisecond,
	})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})

	assert.Equal(t, defaultAPIBase, c.apiBase)
	assert.Equal(t, defaultUserAgent, c.userAgent)
	require.NotNil(t, c.http)
	assert.Equal(t, defaultTimeout, c.http.Timeout)
}

func TestClient_Boards(t *testing.T) {
	t.Run("returns the board directory", func(t *testing.T) {
		srv := fakechan.New()
		defer srv.Close()
		srv.SetBoards("g", "v")

		c := newTestClient(srv)

		boards, err := c.Boards()
		require.NoError(t, err)
		assert.Len(t, boards, 2)
		assert.Equal(t, "g", boards["g"].Board)
	})

	t.Run("memoizes after the first fetch", func(t *testing.T) {
		srv := fakechan.New()
		defer srv.Close()
		srv.SetBoards("g")

		c := newTestClient(srv)

		_, err := c.Boards()
		require.NoError(t, err)
		_, err = c.Boards()
		require.NoError(t, err)

		assert.Equal(t, 1, srv.Hits("/boards.json"))
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		srv := fakechan.New()
		defer srv.Close()
		srv.SetBoards("g")

		c := newTestClient(srv)

		boards, err := c.Boards()
		require.NoError(t, err)
		delete(boards, "g")

		fresh, err := c.Boards()
		require.NoError(t, err)
		assert.Contains(t, fresh, "g")
	})

	t.Run("failed fetch is not memoized", func(t *testing.T) {
		srv := fakechan.New()
		defer srv.Close()
		srv.SetBoardsStatus(http.StatusInternalServerError)

		c := newTestClient(srv)

		_, err := c.Boards()
		require.Error(t, err)
		assert.True(t, Is[*StatusError](err))

		srv.SetBoards("g")
		boards, err := c.Boards()
		require.NoError(t, err)
		assert.Contains(t, boards, "g")
	})

	t.Run("empty directory is an invalid response", func(t *testing.T) {
		srv := fakechan.New()
		defer srv.Close()
		srv.SetBoards()

		c := newTestClient(srv)

		_, err := c.Boards()
		require.Error(t, err)
		assert.True(t, Is[*ResponseError](err))
	})
}

func TestClient_IsValidBoard(t *testing.T) {
	srv := fakechan.New()
	defer srv.Close()
	srv.SetBoards("g", "v")

	c := newTestClient(srv)

	ok, err := c.IsValidBoard("g")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsValidBoard("z")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_RequestHeaders(t *testing.T) {
	srv := fakechan.New()
	defer srv.Close()
	srv.SetBoards("g")

	c := NewClient(Options{
		APIBase:         srv.URL,
		UserAgent:       "chanwatch-test",
		RequestInterval: time.Millisecond,
	})

	_, err := c.Boards()
	require.NoError(t, err)

	assert.Equal(t, "chanwatch-test", srv.LastUserAgent("/boards.json"))
	assert.Equal(t, "", srv.LastIMS("/boards.json"))
}

func TestClient_Unreachable(t *testing.T) {
	srv := fakechan.New()
	srv.Close()

	c := newTestClient(srv)

	_, err := c.Boards()
	require.Error(t, err)
	assert.ErrorContains(t, err, "api unavailable")
}
