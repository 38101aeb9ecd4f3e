package lumina

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageError(t *testing.T) {
	t.Run("Error returns formatted message", func(t *testing.T) {
		err := &ImageError{Op: "fetch", URL: "https://example.com/a.jpg", Err: errors.New("status 404")}
		assert.Equal(t, "image fetch error for https://example.com/a.jpg: status 404", err.Error())
	})

	t.Run("Unwrap exposes the cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := fmt.Errorf("wrapped: %w", &ImageError{Op: "read", URL: "u", Err: cause})
		assert.ErrorIs(t, err, cause)
	})
}

func TestCategorizeStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want ErrorCategory
	}{
		{429, ErrorTransient},
		{500, ErrorTransient},
		{503, ErrorTransient},
		{401, ErrorPermanent},
		{403, ErrorPermanent},
		{400, ErrorUserInput},
		{404, ErrorUserInput},
		{422, ErrorUserInput},
		{418, ErrorPermanent},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeStatusCode(tt.code))
		})
	}
}

func TestWrapStatusError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapStatusError(500, nil))
	})

	t.Run("rate limits are transient", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		err := WrapStatusError(429, cause)

		assert.True(t, IsTransient(err))
		assert.False(t, IsPermanent(err))
		assert.Equal(t, 429, StatusCodeOf(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("bad requests are user input", func(t *testing.T) {
		err := WrapStatusError(400, errors.New("bad"))
		assert.True(t, IsUserInput(err))
	})

	t.Run("uncategorized errors report nothing", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsTransient(err))
		assert.False(t, IsUserInput(err))
		assert.Equal(t, 0, StatusCodeOf(err))
	})
}
