//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package rng provides the randomness sources of the share dealers. A
// Source is a stream of 32-bit words; the Device source draws from
// the operating system CSPRNG and the ChaCha source expands a fixed
// seed into a reproducible stream for tests and benchmarks.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/xerrors"
)

const bufSize = 1024

// Source produces uniformly distributed random values.
type Source interface {
	// Uint32 returns the next 32-bit word of the stream.
	Uint32() uint32

	// Bit returns the next random bit in the low bit of the result.
	Bit() uint32
}

// Device reads random words from the operating system CSPRNG. Reads
// are buffered; a read failure from the kernel device panics since no
// secure fallback exists.
type Device struct {
	buf []byte
	pos int
}

// NewDevice creates a CSPRNG-backed randomness source.
func NewDevice() *Device {
	return &Device{
		buf: make([]byte, bufSize),
		pos: bufSize,
	}
}

// Uint32 implements Source.
func (d *Device) Uint32() uint32 {
	if d.pos+4 > len(d.buf) {
		if _, err := io.ReadFull(rand.Reader, d.buf); err != nil {
			panic(xerrors.Errorf("rng: system random source failed: %v", err))
		}
		d.pos = 0
	}
	val := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return val
}

// Bit implements Source.
func (d *Device) Bit() uint32 {
	return d.Uint32() & 1
}

// ChaCha expands a seed into a deterministic random stream with the
// ChaCha20 keystream. Two sources created from the same seed produce
// identical streams, which lets both parties of a test derive the
// same dealer output without exchanging it.
type ChaCha struct {
	cipher *chacha20.Cipher
	buf    []byte
	pos    int
}

// NewChaCha creates a seeded randomness source. The seed may be of
// any non-zero length; it is repeated or trimmed to the 32-byte
// cipher key. An empty seed panics.
func NewChaCha(seed []byte) *ChaCha {
	key := make([]byte, chacha20.KeySize)
	for i := range key {
		key[i] = seed[i%len(seed)]
	}
	nonce := make([]byte, chacha20.NonceSize)
	cipher, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// Key and nonce sizes are correct by construction.
		panic(err)
	}
	return &ChaCha{
		cipher: cipher,
		buf:    make([]byte, bufSize),
		pos:    bufSize,
	}
}

// Uint32 implements Source.
func (c *ChaCha) Uint32() uint32 {
	if c.pos+4 > len(c.buf) {
		for i := range c.buf {
			c.buf[i] = 0
		}
		c.cipher.XORKeyStream(c.buf, c.buf)
		c.pos = 0
	}
	val := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return val
}

// Bit implements Source.
func (c *ChaCha) Bit() uint32 {
	return c.Uint32() & 1
}
