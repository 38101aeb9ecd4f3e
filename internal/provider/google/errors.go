package google

import (
	"errors"

	"google.golang.org/genai"

	"github.com/spetersoncode/lumina"
)

// wrapError categorizes a genai API error by its status code.
// Errors that are not API errors (network failures) are returned as-is.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return lumina.WrapStatusError(apiErr.Code, err)
	}
	return err
}
