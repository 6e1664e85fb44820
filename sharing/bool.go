//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package sharing

import (
	"golang.org/x/xerrors"

	"github.com/markkurossi/beaver/party"
	"github.com/markkurossi/beaver/rng"
)

// Boolean implements XOR secret sharing of single bits. Each share
// occupies the low bit of a 32-bit word; the high bits are always
// zero. The reconstruction of two shares is their XOR, and AND is
// evaluated with boolean Beaver triples.
type Boolean struct {
	rand rng.Source
}

// NewBoolean creates a boolean sharing scheme.
func NewBoolean(src rng.Source) *Boolean {
	return &Boolean{
		rand: src,
	}
}

// Share splits the low bit of the value into two shares.
func (b *Boolean) Share(v uint32) (uint32, uint32) {
	s0 := b.rand.Bit()
	return s0, (v ^ s0) & 1
}

// ShareVector splits a bit vector element-wise.
func (b *Boolean) ShareVector(vals []uint32) ([]uint32, []uint32) {
	s0 := make([]uint32, len(vals))
	s1 := make([]uint32, len(vals))
	for i, v := range vals {
		s0[i], s1[i] = b.Share(v)
	}
	return s0, s1
}

// Reconst recombines a bit share with the peer's in one network
// round.
func (b *Boolean) Reconst(p *party.Party, share uint32) (uint32, error) {
	var x0, x1 uint32
	if p.ID() == 0 {
		x0 = share
	} else {
		x1 = share
	}
	if err := p.SendRecv(&x0, &x1); err != nil {
		return 0, err
	}
	return (x0 ^ x1) & 1, nil
}

// ReconstVector recombines a bit vector share element-wise in one
// network round.
func (b *Boolean) ReconstVector(p *party.Party, shares []uint32) (
	[]uint32, error) {

	x0 := make([]uint32, len(shares))
	x1 := make([]uint32, len(shares))
	if p.ID() == 0 {
		copy(x0, shares)
	} else {
		copy(x1, shares)
	}
	if err := p.SendRecvVector(x0, x1); err != nil {
		return nil, err
	}
	for i := range x0 {
		x0[i] = (x0[i] ^ x1[i]) & 1
	}
	return x0, nil
}

// GenTriples generates n boolean multiplication triples.
func (b *Boolean) GenTriples(n int) []Triple {
	triples := make([]Triple, n)
	for i := range triples {
		t := Triple{
			A: b.rand.Bit(),
			B: b.rand.Bit(),
		}
		t.C = t.A & t.B
		triples[i] = t
	}
	return triples
}

// ShareTriples splits boolean triples component-wise. The product
// component is derived from its first share so the shares recombine
// to a valid triple.
func (b *Boolean) ShareTriples(triples []Triple) ([]Triple, []Triple) {
	t0 := make([]Triple, len(triples))
	t1 := make([]Triple, len(triples))
	for i, t := range triples {
		t0[i] = Triple{
			A: b.rand.Bit(),
			B: b.rand.Bit(),
			C: b.rand.Bit(),
		}
		t1[i] = Triple{
			A: t.A ^ t0[i].A,
			B: t.B ^ t0[i].B,
			C: t.C ^ t0[i].C,
		}
	}
	return t0, t1
}

// And evaluates the AND of two shared bits with Beaver's protocol.
// Party 0 alone XORs in the d AND e bridge term.
func (b *Boolean) And(p *party.Party, t Triple, x, y uint32) (uint32, error) {
	masked := [2]uint32{
		(x ^ t.A) & 1,
		(y ^ t.B) & 1,
	}
	var s0, s1 [2]uint32
	if p.ID() == 0 {
		s0 = masked
	} else {
		s1 = masked
	}
	if err := p.SendRecv2(&s0, &s1); err != nil {
		return 0, err
	}
	d := (s0[0] ^ s1[0]) & 1
	e := (s0[1] ^ s1[1]) & 1

	z := (e & t.A) ^ (d & t.B) ^ t.C
	if p.ID() == 0 {
		z ^= d & e
	}
	return z & 1, nil
}

// AndVector evaluates element-wise AND of bit vector shares in a
// single network round of 2n masked differences.
func (b *Boolean) AndVector(p *party.Party, ts []Triple, x, y []uint32) (
	[]uint32, error) {

	n := len(x)
	if len(y) != n || len(ts) != n {
		return nil, xerrors.Errorf(
			"sharing: operands %d, %d and triples %d: %w",
			len(x), len(y), len(ts), ErrLengthMismatch)
	}
	s0 := make([]uint32, 2*n)
	s1 := make([]uint32, 2*n)
	own := s1
	if p.ID() == 0 {
		own = s0
	}
	for i := range ts {
		own[2*i] = (x[i] ^ ts[i].A) & 1
		own[2*i+1] = (y[i] ^ ts[i].B) & 1
	}
	if err := p.SendRecvVector(s0, s1); err != nil {
		return nil, err
	}
	z := make([]uint32, n)
	for i := range ts {
		d := (s0[2*i] ^ s1[2*i]) & 1
		e := (s0[2*i+1] ^ s1[2*i+1]) & 1
		z[i] = (e & ts[i].A) ^ (d & ts[i].B) ^ ts[i].C
		if p.ID() == 0 {
			z[i] ^= d & e
		}
		z[i] &= 1
	}
	return z, nil
}

// Or evaluates the OR of two shared bits as NOT(NOT x AND NOT y).
// Negation is XOR with the public constant 1, so only party 0 flips
// its operand shares before the AND and the result share after it;
// party 1 runs a plain AND.
func (b *Boolean) Or(p *party.Party, t Triple, x, y uint32) (uint32, error) {
	if p.ID() == 0 {
		x ^= 1
		y ^= 1
	}
	z, err := b.And(p, t, x, y)
	if err != nil {
		return 0, err
	}
	if p.ID() == 0 {
		z ^= 1
	}
	return z, nil
}

// OrVector evaluates element-wise OR of bit vector shares in a single
// network round.
func (b *Boolean) OrVector(p *party.Party, ts []Triple, x, y []uint32) (
	[]uint32, error) {

	if p.ID() == 0 {
		x = flipped(x)
		y = flipped(y)
	}
	z, err := b.AndVector(p, ts, x, y)
	if err != nil {
		return nil, err
	}
	if p.ID() == 0 {
		for i := range z {
			z[i] ^= 1
		}
	}
	return z, nil
}

func flipped(vals []uint32) []uint32 {
	out := make([]uint32, len(vals))
	for i, v := range vals {
		out[i] = v ^ 1
	}
	return out
}
