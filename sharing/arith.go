//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package sharing

import (
	"errors"

	"golang.org/x/xerrors"

	"github.com/markkurossi/beaver/party"
	"github.com/markkurossi/beaver/rng"
)

var (
	// ErrBitsize is returned for ring bit sizes outside [2, 32].
	ErrBitsize = errors.New("sharing: bit size out of range")

	// ErrLengthMismatch is returned when the lengths of vector
	// operands and triple vectors disagree.
	ErrLengthMismatch = errors.New("sharing: vector length mismatch")
)

// Additive implements additive secret sharing over the ring of k-bit
// integers. All values are canonicalized to the low k bits; the
// reconstruction of two shares is their sum in the ring.
type Additive struct {
	bits int
	mask uint32
	rand rng.Source
}

// NewAdditive creates an additive sharing scheme for k-bit values.
// The bit size must be from 2 to 32.
func NewAdditive(bits int, src rng.Source) (*Additive, error) {
	if bits < 2 || bits > 32 {
		return nil, xerrors.Errorf("sharing: bit size %d: %w", bits, ErrBitsize)
	}
	return &Additive{
		bits: bits,
		mask: uint32((uint64(1) << uint(bits)) - 1),
		rand: src,
	}, nil
}

// Bits returns the ring bit size.
func (a *Additive) Bits() int {
	return a.bits
}

// Mask returns the ring modulus mask 2ᵏ-1.
func (a *Additive) Mask() uint32 {
	return a.mask
}

func (a *Additive) random() uint32 {
	return a.rand.Uint32() & a.mask
}

// Share splits the value into two shares. The first share is drawn
// uniformly from the ring so neither share alone reveals anything
// about the value.
func (a *Additive) Share(v uint32) (uint32, uint32) {
	s0 := a.random()
	return s0, (v - s0) & a.mask
}

// ShareVector splits a vector element-wise.
func (a *Additive) ShareVector(vals []uint32) ([]uint32, []uint32) {
	s0 := make([]uint32, len(vals))
	s1 := make([]uint32, len(vals))
	for i, v := range vals {
		s0[i], s1[i] = a.Share(v)
	}
	return s0, s1
}

// Reconst recombines a scalar share with the peer's in one network
// round. Both parties return the same value.
func (a *Additive) Reconst(p *party.Party, share uint32) (uint32, error) {
	var x0, x1 uint32
	if p.ID() == 0 {
		x0 = share
	} else {
		x1 = share
	}
	if err := p.SendRecv(&x0, &x1); err != nil {
		return 0, err
	}
	return (x0 + x1) & a.mask, nil
}

// ReconstVector recombines a vector share element-wise in one network
// round.
func (a *Additive) ReconstVector(p *party.Party, shares []uint32) (
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
		x0[i] = (x0[i] + x1[i]) & a.mask
	}
	return x0, nil
}

// Reconst2 recombines a two-element array share in one network round.
func (a *Additive) Reconst2(p *party.Party, shares [2]uint32) (
	[2]uint32, error) {

	var x0, x1 [2]uint32
	if p.ID() == 0 {
		x0 = shares
	} else {
		x1 = shares
	}
	if err := p.SendRecv2(&x0, &x1); err != nil {
		return x0, err
	}
	for i := range x0 {
		x0[i] = (x0[i] + x1[i]) & a.mask
	}
	return x0, nil
}

// Reconst4 recombines a four-element array share in one network
// round.
func (a *Additive) Reconst4(p *party.Party, shares [4]uint32) (
	[4]uint32, error) {

	var x0, x1 [4]uint32
	if p.ID() == 0 {
		x0 = shares
	} else {
		x1 = shares
	}
	if err := p.SendRecv4(&x0, &x1); err != nil {
		return x0, err
	}
	for i := range x0 {
		x0[i] = (x0[i] + x1[i]) & a.mask
	}
	return x0, nil
}

// GenTriples generates n multiplication triples with uniformly random
// factors.
func (a *Additive) GenTriples(n int) []Triple {
	triples := make([]Triple, n)
	for i := range triples {
		t := Triple{
			A: a.random(),
			B: a.random(),
		}
		t.C = (t.A * t.B) & a.mask
		triples[i] = t
	}
	return triples
}

// ShareTriples splits triples component-wise into per-party triple
// shares. The product component is derived from its first share so
// the shares recombine to a valid triple.
func (a *Additive) ShareTriples(triples []Triple) ([]Triple, []Triple) {
	t0 := make([]Triple, len(triples))
	t1 := make([]Triple, len(triples))
	for i, t := range triples {
		t0[i] = Triple{
			A: a.random(),
			B: a.random(),
			C: a.random(),
		}
		t1[i] = Triple{
			A: (t.A - t0[i].A) & a.mask,
			B: (t.B - t0[i].B) & a.mask,
			C: (t.C - t0[i].C) & a.mask,
		}
	}
	return t0, t1
}

// Mult multiplies two shared values with Beaver's protocol. Each
// party masks its operand shares with its triple share, the masked
// differences are reconstructed in one round, and the product share
// is combined locally. Party 0 alone adds the d*e bridge term so the
// shares sum to the product.
func (a *Additive) Mult(p *party.Party, t Triple, x, y uint32) (
	uint32, error) {

	masked := [2]uint32{
		(x - t.A) & a.mask,
		(y - t.B) & a.mask,
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
	d := (s0[0] + s1[0]) & a.mask
	e := (s0[1] + s1[1]) & a.mask

	z := e*t.A + d*t.B + t.C
	if p.ID() == 0 {
		z += d * e
	}
	return z & a.mask, nil
}

// Mult2 performs two independent multiplications in a single network
// round.
func (a *Additive) Mult2(p *party.Party, ts [2]Triple, x, y [2]uint32) (
	[2]uint32, error) {

	masked := [4]uint32{
		(x[0] - ts[0].A) & a.mask,
		(y[0] - ts[0].B) & a.mask,
		(x[1] - ts[1].A) & a.mask,
		(y[1] - ts[1].B) & a.mask,
	}
	var s0, s1 [4]uint32
	if p.ID() == 0 {
		s0 = masked
	} else {
		s1 = masked
	}
	if err := p.SendRecv4(&s0, &s1); err != nil {
		return [2]uint32{}, err
	}
	var z [2]uint32
	for i := 0; i < 2; i++ {
		d := (s0[2*i] + s1[2*i]) & a.mask
		e := (s0[2*i+1] + s1[2*i+1]) & a.mask
		z[i] = e*ts[i].A + d*ts[i].B + ts[i].C
		if p.ID() == 0 {
			z[i] += d * e
		}
		z[i] &= a.mask
	}
	return z, nil
}

// MultVector multiplies vector shares element-wise in a single
// network round of 2n masked differences. The operand and triple
// vectors must have equal lengths; each triple is consumed by one
// element.
func (a *Additive) MultVector(p *party.Party, ts []Triple, x, y []uint32) (
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
		own[2*i] = (x[i] - ts[i].A) & a.mask
		own[2*i+1] = (y[i] - ts[i].B) & a.mask
	}
	if err := p.SendRecvVector(s0, s1); err != nil {
		return nil, err
	}
	z := make([]uint32, n)
	for i := range ts {
		d := (s0[2*i] + s1[2*i]) & a.mask
		e := (s0[2*i+1] + s1[2*i+1]) & a.mask
		z[i] = e*ts[i].A + d*ts[i].B + ts[i].C
		if p.ID() == 0 {
			z[i] += d * e
		}
		z[i] &= a.mask
	}
	return z, nil
}
