package google

import (
	"errors"

	ai "github.com/spetersoncode/postflow"
	"google.golang.org/genai"
)

// wrapError categorizes a Google GenAI error by its HTTP status code.
// genai.APIError does not expose headers, so Retry-After is unavailable.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Likely a network error, left for the retry heuristics.
		return err
	}

	code := apiErr.Code
	msg := err.Error()

	switch categorizeStatusCode(code) {
	case ai.ErrorTransient:
		return ai.NewTransientError(msg, code, err)
	case ai.ErrorPermanent:
		return ai.NewPermanentError(msg, code, err)
	case ai.ErrorUserInput:
		return ai.NewUserInputError(msg, code, err)
	default:
		return err
	}
}

// categorizeStatusCode determines the error category from an HTTP status code.
func categorizeStatusCode(code int) ai.ErrorCategory {
	switch {
	case code == 429:
		return ai.ErrorTransient
	case code >= 500 && code < 600:
		return ai.ErrorTransient
	case code == 401 || code == 403:
		return ai.ErrorPermanent
	case code == 400 || code == 404 || code == 422:
		return ai.ErrorUserInput
	default:
		return ai.ErrorPermanent
	}
}
