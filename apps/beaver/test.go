//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/markkurossi/beaver/party"
	"github.com/markkurossi/beaver/rng"
	"github.com/markkurossi/beaver/sharing"
	"github.com/markkurossi/beaver/shareio"
)

// Both parties expand the same seed so they derive identical dealer
// material without a third dealer process.
var dealerSeed = []byte("beaver harness dealer material")

var testNames = []string{"share", "mult", "mult_vector", "bool", "share_io"}

func testHandlers() map[string]func(*party.Party, int) error {
	handlers := map[string]func(*party.Party, int) error{
		"share":       testShare,
		"mult":        testMult,
		"mult_vector": testMultVector,
		"bool":        testBool,
		"share_io":    testShareIo,
	}
	handlers["all"] = func(p *party.Party, mode int) error {
		for _, name := range testNames {
			if err := handlers[name](p, mode); err != nil {
				return xerrors.Errorf("%s: %w", name, err)
			}
			log.Info().Msgf("%s: test ok", name)
		}
		return nil
	}
	return handlers
}

func pick(p *party.Party, s0, s1 uint32) uint32 {
	if p.ID() == 0 {
		return s0
	}
	return s1
}

func pickVec(p *party.Party, s0, s1 []uint32) []uint32 {
	if p.ID() == 0 {
		return s0
	}
	return s1
}

func pickTriples(p *party.Party, t0, t1 []sharing.Triple) []sharing.Triple {
	if p.ID() == 0 {
		return t0
	}
	return t1
}

func testShare(p *party.Party, mode int) error {
	arith, err := sharing.NewAdditive(32, rng.NewChaCha(dealerSeed))
	if err != nil {
		return err
	}

	const secret = 0xDEADBEEF
	s0, s1 := arith.Share(secret)
	got, err := arith.Reconst(p, pick(p, s0, s1))
	if err != nil {
		return err
	}
	if got != secret {
		return xerrors.Errorf("scalar reconst %#x, expected %#x", got, secret)
	}

	vals := []uint32{0, 1, 0xFFFFFFFF, 12345, 0x80000000}
	v0, v1 := arith.ShareVector(vals)
	gotVec, err := arith.ReconstVector(p, pickVec(p, v0, v1))
	if err != nil {
		return err
	}
	for i, v := range vals {
		if gotVec[i] != v {
			return xerrors.Errorf("vector reconst [%d]=%d, expected %d",
				i, gotVec[i], v)
		}
	}
	return nil
}

func testMult(p *party.Party, mode int) error {
	for _, bits := range []int{32, 8} {
		arith, err := sharing.NewAdditive(bits, rng.NewChaCha(dealerSeed))
		if err != nil {
			return err
		}
		mask := arith.Mask()

		u := uint32(200)
		v := uint32(200)
		expected := (u * v) & mask

		t0, t1 := arith.ShareTriples(arith.GenTriples(3))
		myTriples := pickTriples(p, t0, t1)

		u0, u1 := arith.Share(u)
		v0, v1 := arith.Share(v)

		z, err := arith.Mult(p, myTriples[0], pick(p, u0, u1), pick(p, v0, v1))
		if err != nil {
			return err
		}
		got, err := arith.Reconst(p, z)
		if err != nil {
			return err
		}
		if got != expected {
			return xerrors.Errorf("k=%d: mult %d, expected %d",
				bits, got, expected)
		}

		z2, err := arith.Mult2(p, [2]sharing.Triple{myTriples[1], myTriples[2]},
			[2]uint32{pick(p, u0, u1), pick(p, v0, v1)},
			[2]uint32{pick(p, v0, v1), pick(p, u0, u1)})
		if err != nil {
			return err
		}
		got2, err := arith.Reconst2(p, z2)
		if err != nil {
			return err
		}
		if got2[0] != expected || got2[1] != expected {
			return xerrors.Errorf("k=%d: mult2 %v, expected %d",
				bits, got2, expected)
		}
	}
	return nil
}

func testMultVector(p *party.Party, mode int) error {
	arith, err := sharing.NewAdditive(32, rng.NewChaCha(dealerSeed))
	if err != nil {
		return err
	}

	x := []uint32{1, 2, 3, 4}
	y := []uint32{10, 20, 30, 40}

	t0, t1 := arith.ShareTriples(arith.GenTriples(len(x)))
	x0, x1 := arith.ShareVector(x)
	y0, y1 := arith.ShareVector(y)

	z, err := arith.MultVector(p, pickTriples(p, t0, t1),
		pickVec(p, x0, x1), pickVec(p, y0, y1))
	if err != nil {
		return err
	}
	got, err := arith.ReconstVector(p, z)
	if err != nil {
		return err
	}
	for i := range x {
		if got[i] != x[i]*y[i] {
			return xerrors.Errorf("mult_vector [%d]=%d, expected %d",
				i, got[i], x[i]*y[i])
		}
	}
	return nil
}

func testBool(p *party.Party, mode int) error {
	boolean := sharing.NewBoolean(rng.NewChaCha(dealerSeed))

	for _, x := range []uint32{0, 1} {
		for _, y := range []uint32{0, 1} {
			t0, t1 := boolean.ShareTriples(boolean.GenTriples(2))
			myTriples := pickTriples(p, t0, t1)

			x0, x1 := boolean.Share(x)
			y0, y1 := boolean.Share(y)

			z, err := boolean.And(p, myTriples[0],
				pick(p, x0, x1), pick(p, y0, y1))
			if err != nil {
				return err
			}
			got, err := boolean.Reconst(p, z)
			if err != nil {
				return err
			}
			if got != x&y {
				return xerrors.Errorf("and(%d,%d)=%d, expected %d",
					x, y, got, x&y)
			}

			z, err = boolean.Or(p, myTriples[1],
				pick(p, x0, x1), pick(p, y0, y1))
			if err != nil {
				return err
			}
			got, err = boolean.Reconst(p, z)
			if err != nil {
				return err
			}
			if got != x|y {
				return xerrors.Errorf("or(%d,%d)=%d, expected %d",
					x, y, got, x|y)
			}
		}
	}

	x := []uint32{0, 0, 1, 1}
	y := []uint32{0, 1, 0, 1}
	t0, t1 := boolean.ShareTriples(boolean.GenTriples(len(x)))
	x0, x1 := boolean.ShareVector(x)
	y0, y1 := boolean.ShareVector(y)

	z, err := boolean.AndVector(p, pickTriples(p, t0, t1),
		pickVec(p, x0, x1), pickVec(p, y0, y1))
	if err != nil {
		return err
	}
	got, err := boolean.ReconstVector(p, z)
	if err != nil {
		return err
	}
	for i := range x {
		if got[i] != x[i]&y[i] {
			return xerrors.Errorf("and_vector [%d]=%d, expected %d",
				i, got[i], x[i]&y[i])
		}
	}
	return nil
}

func testShareIo(p *party.Party, mode int) error {
	arith, err := sharing.NewAdditive(32, rng.NewChaCha(dealerSeed))
	if err != nil {
		return err
	}
	dir, err := os.MkdirTemp("", "beaver-share-io")
	if err != nil {
		return xerrors.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	handler := shareio.NewHandler("")

	vals := []uint32{7, 42, 0xDEADBEEF, 0}
	v0, v1 := arith.ShareVector(vals)
	path0 := filepath.Join(dir, "vec0")
	path1 := filepath.Join(dir, "vec1")
	if err := handler.ExportShares(path0, path1, v0, v1); err != nil {
		return err
	}
	mine := path0
	if p.ID() == 1 {
		mine = path1
	}
	loaded, err := handler.LoadShares(mine)
	if err != nil {
		return err
	}
	want := pickVec(p, v0, v1)
	if len(loaded) != len(want) {
		return xerrors.Errorf("loaded %d values, expected %d",
			len(loaded), len(want))
	}
	for i := range want {
		if loaded[i] != want[i] {
			return xerrors.Errorf("loaded [%d]=%d, expected %d",
				i, loaded[i], want[i])
		}
	}

	t0, t1 := arith.ShareTriples(arith.GenTriples(8))
	bt0 := filepath.Join(dir, "bt0")
	bt1 := filepath.Join(dir, "bt1")
	if err := handler.ExportTripleShares(bt0, bt1, t0, t1); err != nil {
		return err
	}
	mine = bt0
	if p.ID() == 1 {
		mine = bt1
	}
	triples, err := handler.LoadTripleShares(mine)
	if err != nil {
		return err
	}
	wantTriples := pickTriples(p, t0, t1)
	for i := range wantTriples {
		if triples[i] != wantTriples[i] {
			return xerrors.Errorf("loaded triple [%d]=%s, expected %s",
				i, triples[i], wantTriples[i])
		}
	}

	// The loaded triples must still drive a correct multiplication.
	u0, u1 := arith.Share(6)
	v0s, v1s := arith.Share(7)
	z, err := arith.Mult(p, triples[0], pick(p, u0, u1), pick(p, v0s, v1s))
	if err != nil {
		return err
	}
	got, err := arith.Reconst(p, z)
	if err != nil {
		return err
	}
	if got != 42 {
		return xerrors.Errorf("mult with loaded triple %d, expected 42", got)
	}
	return nil
}
