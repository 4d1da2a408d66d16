// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
)

const (
	// DefaultKeyBits is the modulus size used for host keys.
	DefaultKeyBits = 2048

	// MinKeyBits is the smallest modulus accepted.
	MinKeyBits = 1024
)

// ErrKeyTooSmall is returned for key sizes below MinKeyBits.
var ErrKeyTooSmall = errors.New("key size too small")

// NewKeyGeneration returns a job that generates an RSA private key of the
// given size. Generating a 2048-bit key takes long enough to visibly stall the
// UI, which is why it runs on a worker.
func NewKeyGeneration(bits int, done func(h *Handle, key *rsa.PrivateKey, err error)) *Job[*rsa.PrivateKey] {
	return NewJob(func(ctx context.Context) (*rsa.PrivateKey, error) {
		return generateKey(ctx, bits)
	}, done)
}

func generateKey(ctx context.Context, bits int) (*rsa.PrivateKey, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("%w: %d bits (minimum %d)", ErrKeyTooSmall, bits, MinKeyBits)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate %d-bit RSA key: %w", bits, err)
	}
	return key, nil
}
