//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package shareio

import (
	"github.com/markkurossi/beaver/sharing"
)

// Handler exports and loads share material in the dealer role. The
// export operations write both parties' halves to separate files; the
// load operations read back one party's half.
type Handler struct {
	io *Io
}

// NewHandler creates a share handler with the argument file
// extension.
func NewHandler(ext string) *Handler {
	return &Handler{
		io: New(ext),
	}
}

// Io returns the underlying file I/O handler.
func (h *Handler) Io() *Io {
	return h.io
}

// ExportShare writes a scalar share pair to the two party files.
func (h *Handler) ExportShare(path0, path1 string, s0, s1 uint32) error {
	if err := h.io.WriteValue(path0, s0); err != nil {
		return err
	}
	return h.io.WriteValue(path1, s1)
}

// ExportShares writes a vector share pair to the two party files.
func (h *Handler) ExportShares(path0, path1 string, s0, s1 []uint32) error {
	if err := h.io.WriteVector(path0, s0); err != nil {
		return err
	}
	return h.io.WriteVector(path1, s1)
}

// LoadShare reads one party's scalar share.
func (h *Handler) LoadShare(path string) (uint32, error) {
	return h.io.ReadValue(path)
}

// LoadShares reads one party's vector share.
func (h *Handler) LoadShares(path string) ([]uint32, error) {
	return h.io.ReadVector(path)
}

// ExportTriples writes clear Beaver triples to one file.
func (h *Handler) ExportTriples(path string, triples []sharing.Triple) error {
	return h.io.WriteTriples(path, triples)
}

// ExportTripleShares writes a triple share pair to the two party
// files.
func (h *Handler) ExportTripleShares(path0, path1 string,
	t0, t1 []sharing.Triple) error {

	if err := h.io.WriteTriples(path0, t0); err != nil {
		return err
	}
	return h.io.WriteTriples(path1, t1)
}

// LoadTripleShares reads one party's triple shares.
func (h *Handler) LoadTripleShares(path string) ([]sharing.Triple, error) {
	return h.io.ReadTriples(path)
}
