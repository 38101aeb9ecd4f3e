package openai

import (
	"errors"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/lumina"
)

// wrapError categorizes an OpenAI API error by its status code.
// Non-API errors are returned as-is.
func wrapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return lumina.WrapStatusError(apiErr.StatusCode, err)
	}
	return err
}
