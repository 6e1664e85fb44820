//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/markkurossi/beaver/party"
	"github.com/markkurossi/beaver/rng"
	"github.com/markkurossi/beaver/sharing"
	"github.com/markkurossi/beaver/timing"
)

const benchVectorSize = 1 << 14

func benchHandlers(iteration int) map[string]func(*party.Party, int) error {
	handlers := map[string]func(*party.Party, int) error{
		"reconst": func(p *party.Party, mode int) error {
			return benchReconst(p, iteration)
		},
		"mult_vector": func(p *party.Party, mode int) error {
			return benchMultVector(p, iteration)
		},
	}
	handlers["all"] = func(p *party.Party, mode int) error {
		for _, name := range []string{"reconst", "mult_vector"} {
			if err := handlers[name](p, mode); err != nil {
				return xerrors.Errorf("%s: %w", name, err)
			}
		}
		return nil
	}
	return handlers
}

func benchReconst(p *party.Party, iteration int) error {
	arith, err := sharing.NewAdditive(32, rng.NewChaCha(dealerSeed))
	if err != nil {
		return err
	}
	p.ResetBytesSent()
	r := timing.NewReport()

	vals := make([]uint32, benchVectorSize)
	for i := range vals {
		vals[i] = uint32(i)
	}
	s0, s1 := arith.ShareVector(vals)
	r.Phase("Share", 0, 0)

	for i := 0; i < iteration; i++ {
		if _, err := arith.ReconstVector(p, pickVec(p, s0, s1)); err != nil {
			return err
		}
	}
	r.Phase("Reconst", 0, iteration*len(vals))

	log.Info().Msgf("%s: reconst bench done", p)
	r.Print(os.Stdout, p.Stats())
	return nil
}

func benchMultVector(p *party.Party, iteration int) error {
	arith, err := sharing.NewAdditive(32, rng.NewChaCha(dealerSeed))
	if err != nil {
		return err
	}
	p.ResetBytesSent()
	r := timing.NewReport()

	x := make([]uint32, benchVectorSize)
	y := make([]uint32, benchVectorSize)
	for i := range x {
		x[i] = uint32(i)
		y[i] = uint32(i * 3)
	}

	t0, t1 := arith.ShareTriples(arith.GenTriples(len(x) * iteration))
	myTriples := pickTriples(p, t0, t1)
	r.Phase("Triples", len(myTriples), 0)

	x0, x1 := arith.ShareVector(x)
	y0, y1 := arith.ShareVector(y)
	r.Phase("Share", 0, 0)

	for i := 0; i < iteration; i++ {
		ts := myTriples[i*len(x) : (i+1)*len(x)]
		z, err := arith.MultVector(p, ts, pickVec(p, x0, x1),
			pickVec(p, y0, y1))
		if err != nil {
			return err
		}
		got, err := arith.ReconstVector(p, z)
		if err != nil {
			return err
		}
		for j := range x {
			if got[j] != x[j]*y[j] {
				return xerrors.Errorf("mult_vector [%d]=%d, expected %d",
					j, got[j], x[j]*y[j])
			}
		}
	}
	r.Phase("Mult", iteration*len(x), iteration*3*len(x))

	log.Info().Msgf("%s: mult_vector bench done", p)
	r.Print(os.Stdout, p.Stats())
	return nil
}
