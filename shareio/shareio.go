//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package shareio persists shares and Beaver triples as text files.
// A scalar file holds one decimal value, a vector file holds a count
// line followed by one value per line, and a triple file holds a
// count line followed by comma-separated a,b,c lines. Writes replace
// the target file atomically unless append mode is selected.
package shareio

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/markkurossi/beaver/sharing"
)

// DefaultExt is the file extension appended to file names given
// without one.
const DefaultExt = ".dat"

// ErrParse is the kind of all malformed share file contents.
var ErrParse = errors.New("shareio: malformed share file")

// Io reads and writes share material files.
type Io struct {
	ext    string
	append bool
}

// New creates a file I/O handler. The extension is appended to file
// names that do not already carry one; the empty string selects
// DefaultExt.
func New(ext string) *Io {
	if len(ext) == 0 {
		ext = DefaultExt
	}
	return &Io{
		ext: ext,
	}
}

// SetAppend selects between atomic overwrite (the default) and
// appending to the target file.
func (fio *Io) SetAppend(on bool) {
	fio.append = on
}

func (fio *Io) path(name string) string {
	if len(filepath.Ext(name)) == 0 {
		return name + fio.ext
	}
	return name
}

func (fio *Io) writeFile(name string, write func(w *bufio.Writer) error) error {
	path := fio.path(name)
	if fio.append {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return xerrors.Errorf("shareio: %w", err)
		}
		w := bufio.NewWriter(f)
		if err := write(w); err != nil {
			f.Close()
			return err
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return xerrors.Errorf("shareio: %w", err)
		}
		return f.Close()
	}

	dir, base := filepath.Split(path)
	f, err := os.CreateTemp(dir, base+".*")
	if err != nil {
		return xerrors.Errorf("shareio: %w", err)
	}
	tmp := f.Name()
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return xerrors.Errorf("shareio: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return xerrors.Errorf("shareio: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return xerrors.Errorf("shareio: %w", err)
	}
	return nil
}

// WriteValue writes one scalar share.
func (fio *Io) WriteValue(name string, val uint32) error {
	return fio.writeFile(name, func(w *bufio.Writer) error {
		_, err := fmt.Fprintf(w, "%d\n", val)
		return err
	})
}

// ReadValue reads one scalar share.
func (fio *Io) ReadValue(name string) (uint32, error) {
	path := fio.path(name)
	f, err := os.Open(path)
	if err != nil {
		return 0, xerrors.Errorf("shareio: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, parseErr(path, "missing value")
	}
	return parseWord(path, scanner.Text())
}

// WriteVector writes a vector share: the element count followed by
// one value per line.
func (fio *Io) WriteVector(name string, vals []uint32) error {
	err := fio.writeFile(name, func(w *bufio.Writer) error {
		if _, err := fmt.Fprintf(w, "%d\n", len(vals)); err != nil {
			return err
		}
		for _, val := range vals {
			if _, err := fmt.Fprintf(w, "%d\n", val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Debug().Msgf("shareio: wrote %d values to %s", len(vals),
		fio.path(name))
	return nil
}

// ReadVector reads a vector share.
func (fio *Io) ReadVector(name string) ([]uint32, error) {
	path := fio.path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("shareio: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count, err := readCount(path, scanner)
	if err != nil {
		return nil, err
	}
	vals := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return nil, parseErr(path,
				fmt.Sprintf("%d values, expected %d", i, count))
		}
		val, err := parseWord(path, scanner.Text())
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	return vals, nil
}

// WriteTriples writes Beaver triples: the triple count followed by
// one comma-separated a,b,c line per triple.
func (fio *Io) WriteTriples(name string, triples []sharing.Triple) error {
	err := fio.writeFile(name, func(w *bufio.Writer) error {
		if _, err := fmt.Fprintf(w, "%d\n", len(triples)); err != nil {
			return err
		}
		for _, t := range triples {
			if _, err := fmt.Fprintf(w, "%d,%d,%d\n", t.A, t.B, t.C); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Debug().Msgf("shareio: wrote %d triples to %s", len(triples),
		fio.path(name))
	return nil
}

// ReadTriples reads Beaver triples.
func (fio *Io) ReadTriples(name string) ([]sharing.Triple, error) {
	path := fio.path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("shareio: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count, err := readCount(path, scanner)
	if err != nil {
		return nil, err
	}
	triples := make([]sharing.Triple, 0, count)
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return nil, parseErr(path,
				fmt.Sprintf("%d triples, expected %d", i, count))
		}
		parts := strings.Split(scanner.Text(), ",")
		if len(parts) != 3 {
			return nil, parseErr(path, "triple is not a,b,c")
		}
		var t sharing.Triple
		if t.A, err = parseWord(path, parts[0]); err != nil {
			return nil, err
		}
		if t.B, err = parseWord(path, parts[1]); err != nil {
			return nil, err
		}
		if t.C, err = parseWord(path, parts[2]); err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
	return triples, nil
}

func readCount(path string, scanner *bufio.Scanner) (int, error) {
	if !scanner.Scan() {
		return 0, parseErr(path, "missing element count")
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || count < 0 {
		return 0, parseErr(path, "invalid element count")
	}
	return count, nil
}

func parseWord(path, text string) (uint32, error) {
	val, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return 0, parseErr(path, "invalid value")
	}
	return uint32(val), nil
}

func parseErr(path, detail string) error {
	return xerrors.Errorf("shareio: %s: %s: %w", path, detail, ErrParse)
}
