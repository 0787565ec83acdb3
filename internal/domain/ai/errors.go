package ai

import "errors"

// ErrNotConfigured indicates the model API key is missing from configuration.
var ErrNotConfigured = errors.New("OPENAI_API_KEY is not configured")

// ErrBadReply indicates the model's reply contained no extractable JSON
// object, or the object did not parse. Distinct from transport failures.
var ErrBadReply = errors.New("unparsable model reply")
