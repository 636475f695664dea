package chankit

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusError(t *testing.T) {
	err := &StatusError{URL: "http://example.com/g/catalog.json", StatusCode: 500}

	assert.Equal(t, "unexpected status 500 from http://example.com/g/catalog.json", err.Error())
}

func TestResponseError(t *testing.T) {
	inner := errors.New("boom")
	err := &ResponseError{URL: "http://example.com/g/catalog.json", Err: inner}

	assert.Contains(t, err.Error(), "invalid response from")
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, errors.Is(err, inner))
}

func TestQueryError(t *testing.T) {
	_, inner := regexp.Compile("[")
	require.Error(t, inner)

	err := &QueryError{Pattern: "[", Err: inner}

	assert.Contains(t, err.Error(), `invalid query "["`)
	assert.True(t, errors.Is(err, inner))
}

func TestIs(t *testing.T) {
	t.Run("matches the concrete type", func(t *testing.T) {
		var err error = &StatusError{StatusCode: 500}
		assert.True(t, Is[*StatusError](err))
		assert.False(t, Is[*ResponseError](err))
	})

	t.Run("sees through wrapping", func(t *testing.T) {
		err := fmt.Errorf("catalog refresh: %w", &StatusError{StatusCode: 404})
		assert.True(t, Is[*StatusError](err))
	})

	t.Run("nil error", func(t *testing.T) {
		assert.False(t, Is[*StatusError](nil))
	})
}

func TestErrInvalidBoard(t *testing.T) {
	err := fmt.Errorf("%w: %q", ErrInvalidBoard, "zz")

	assert.True(t, errors.Is(err, ErrInvalidBoard))
	assert.Contains(t, err.Error(), `"zz"`)
}
