package envelope

import (
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/hush/internal/errors"
)

// Encode returns the standard, padded base64 form of data.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode parses base64 text produced by Encode.
//
// Surrounding whitespace is ignored and missing trailing '=' characters are
// restored before decoding. This keeps text that lost its padding in transit
// (chat clients, URL fields) decryptable. It is a compatibility rule only: a
// string truncated by a multiple of four characters still decodes, and is
// caught later by the envelope length checks, not here.
func Decode(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", kerrors.ErrMalformedEnvelope)
	}

	if rem := len(text) % 4; rem != 0 {
		if rem == 1 {
			return nil, fmt.Errorf("%w: invalid base64 length %d", kerrors.ErrMalformedEnvelope, len(text))
		}
		text += strings.Repeat("=", 4-rem)
	}

	data, err := base64.StdEncoding.Strict().DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedEnvelope, err)
	}
	return data, nil
}
