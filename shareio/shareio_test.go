//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package shareio

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/markkurossi/beaver/rng"
	"github.com/markkurossi/beaver/sharing"
)

func TestValueRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fio := New("")

	path := filepath.Join(dir, "value")
	require.NoError(t, fio.WriteValue(path, 0xDEADBEEF))

	got, err := fio.ReadValue(path)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), got)

	// The default extension was appended.
	_, err = os.Stat(path + DefaultExt)
	require.NoError(t, err)
}

func TestVectorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fio := New(".share")
	src := rng.NewChaCha([]byte("shareio test seed"))

	vals := make([]uint32, 1024)
	for i := range vals {
		vals[i] = src.Uint32()
	}
	path := filepath.Join(dir, "vector")
	require.NoError(t, fio.WriteVector(path, vals))

	got, err := fio.ReadVector(path)
	require.NoError(t, err)
	require.Equal(t, vals, got)
}

func TestTriplesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fio := New("")
	src := rng.NewChaCha([]byte("shareio test seed"))

	arith, err := sharing.NewAdditive(32, src)
	require.NoError(t, err)

	triples := arith.GenTriples(100)
	path := filepath.Join(dir, "triples")
	require.NoError(t, fio.WriteTriples(path, triples))

	got, err := fio.ReadTriples(path)
	require.NoError(t, err)
	require.Equal(t, triples, got)
}

func TestAtomicOverwrite(t *testing.T) {
	dir := t.TempDir()
	fio := New("")

	path := filepath.Join(dir, "value")
	require.NoError(t, fio.WriteValue(path, 1))
	require.NoError(t, fio.WriteValue(path, 2))

	got, err := fio.ReadValue(path)
	require.NoError(t, err)
	require.Equal(t, uint32(2), got)

	// No temp files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestAppend(t *testing.T) {
	dir := t.TempDir()
	fio := New("")
	fio.SetAppend(true)

	path := filepath.Join(dir, "log.txt")
	require.NoError(t, fio.WriteValue(path, 1))
	require.NoError(t, fio.WriteValue(path, 2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", string(data))
}

func TestMissingFile(t *testing.T) {
	fio := New("")
	_, err := fio.ReadValue(filepath.Join(t.TempDir(), "nonexistent"))
	require.Error(t, err)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMalformed(t *testing.T) {
	dir := t.TempDir()
	fio := New("")

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	_, err := fio.ReadValue(write("empty.dat", ""))
	require.ErrorIs(t, err, ErrParse)

	_, err = fio.ReadValue(write("word.dat", "hello\n"))
	require.ErrorIs(t, err, ErrParse)

	_, err = fio.ReadValue(write("huge.dat", "4294967296\n"))
	require.ErrorIs(t, err, ErrParse)

	_, err = fio.ReadVector(write("count.dat", "x\n1\n"))
	require.ErrorIs(t, err, ErrParse)

	_, err = fio.ReadVector(write("negative.dat", "-1\n"))
	require.ErrorIs(t, err, ErrParse)

	_, err = fio.ReadVector(write("truncated.dat", "3\n1\n2\n"))
	require.ErrorIs(t, err, ErrParse)

	_, err = fio.ReadTriples(write("pair.dat", "1\n1,2\n"))
	require.ErrorIs(t, err, ErrParse)

	_, err = fio.ReadTriples(write("alpha.dat", "1\n1,2,x\n"))
	require.ErrorIs(t, err, ErrParse)
}

func TestHandler(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler("")
	src := rng.NewChaCha([]byte("shareio test seed"))

	arith, err := sharing.NewAdditive(32, src)
	require.NoError(t, err)

	s0, s1 := arith.Share(0xDEADBEEF)
	p0 := filepath.Join(dir, "x0")
	p1 := filepath.Join(dir, "x1")
	require.NoError(t, h.ExportShare(p0, p1, s0, s1))

	got0, err := h.LoadShare(p0)
	require.NoError(t, err)
	got1, err := h.LoadShare(p1)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), got0+got1)

	vals := []uint32{1, 2, 3, 4, 5}
	v0, v1 := arith.ShareVector(vals)
	require.NoError(t, h.ExportShares(
		filepath.Join(dir, "v0"), filepath.Join(dir, "v1"), v0, v1))
	gotVec, err := h.LoadShares(filepath.Join(dir, "v0"))
	require.NoError(t, err)
	require.Equal(t, v0, gotVec)

	triples := arith.GenTriples(10)
	require.NoError(t, h.ExportTriples(filepath.Join(dir, "bt"), triples))
	t0, t1 := arith.ShareTriples(triples)
	require.NoError(t, h.ExportTripleShares(
		filepath.Join(dir, "bt0"), filepath.Join(dir, "bt1"), t0, t1))
	gotTriples, err := h.LoadTripleShares(filepath.Join(dir, "bt1"))
	require.NoError(t, err)
	require.Equal(t, t1, gotTriples)
}
