package envelope

import (
	"encoding/binary"
	"fmt"
	"math"

	kerrors "github.com/PolarWolf314/hush/internal/errors"
)

const (
	// PrefixSize is the width of the big-endian length prefix.
	PrefixSize = 2

	// IVSize is the AES block size used as the CBC initialization vector.
	IVSize = 16

	// BlockSize is the cipher block size the ciphertext must align to.
	BlockSize = 16
)

// Envelope is the binary structure produced by one encryption:
//
//	uint16be(len(EncryptedKey)) || EncryptedKey || IV || Ciphertext
type Envelope struct {
	EncryptedKey []byte
	IV           []byte
	Ciphertext   []byte
}

// Len returns the marshalled size of e.
func (e Envelope) Len() int {
	return PrefixSize + len(e.EncryptedKey) + len(e.IV) + len(e.Ciphertext)
}

// Marshal lays e out in its fixed order.
func (e Envelope) Marshal() ([]byte, error) {
	if len(e.EncryptedKey) == 0 || len(e.EncryptedKey) > math.MaxUint16 {
		return nil, fmt.Errorf("encrypted key length %d does not fit the %d-byte prefix", len(e.EncryptedKey), PrefixSize)
	}
	if len(e.IV) != IVSize {
		return nil, fmt.Errorf("IV must be %d bytes, got %d", IVSize, len(e.IV))
	}

	out := make([]byte, 0, e.Len())
	out = binary.BigEndian.AppendUint16(out, uint16(len(e.EncryptedKey)))
	out = append(out, e.EncryptedKey...)
	out = append(out, e.IV...)
	out = append(out, e.Ciphertext...)
	return out, nil
}

// Parse slices data into its parts. When keySize is positive the declared
// encrypted key length must equal it. The ciphertext must be a non-empty
// multiple of BlockSize, since PKCS#7 padding always adds at least one byte.
//
// The returned slices alias data.
func Parse(data []byte, keySize int) (Envelope, error) {
	if len(data) < PrefixSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes is shorter than the length prefix", kerrors.ErrMalformedEnvelope, len(data))
	}

	keyLen := int(binary.BigEndian.Uint16(data[:PrefixSize]))
	if keyLen == 0 {
		return Envelope{}, fmt.Errorf("%w: declared key length is zero", kerrors.ErrMalformedEnvelope)
	}
	if keySize > 0 && keyLen != keySize {
		return Envelope{}, fmt.Errorf("%w: declared key length %d, expected %d", kerrors.ErrMalformedEnvelope, keyLen, keySize)
	}

	body := data[PrefixSize:]
	if len(body) < keyLen+IVSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes after prefix, need at least %d", kerrors.ErrMalformedEnvelope, len(body), keyLen+IVSize)
	}

	ciphertext := body[keyLen+IVSize:]
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return Envelope{}, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d", kerrors.ErrMalformedEnvelope, len(ciphertext), BlockSize)
	}

	return Envelope{
		EncryptedKey: body[:keyLen],
		IV:           body[keyLen : keyLen+IVSize],
		Ciphertext:   ciphertext,
	}, nil
}
