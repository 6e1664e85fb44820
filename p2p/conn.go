//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package p2p implements the framed two-party transport. A Conn
// carries ordered 32-bit words between exactly two endpoints; the
// Listener and Dialer types provide the accepting and connecting
// halves of the point-to-point link.
package p2p

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/xerrors"
)

// ErrTransport is the kind of all fatal transport failures. A failed
// send or receive leaves the peers permanently desynchronized; the
// session must be torn down and restarted.
var ErrTransport = errors.New("p2p: transport failure")

const (
	writeBufSize = 64 * 1024
	readBufSize  = 64 * 1024
)

// Conn implements a protocol connection. Words are serialized as
// little-endian unsigned 32-bit integers with no additional framing.
type Conn struct {
	conn      io.ReadWriter
	writeBuf  []byte
	writePos  int
	readBuf   []byte
	readStart int
	readEnd   int
	Stats     IOStats
}

// IOStats counts the bytes moved through a connection.
type IOStats struct {
	Sent    *atomic.Uint64
	Recvd   *atomic.Uint64
	Flushed *atomic.Uint64
}

// NewIOStats creates a new I/O statistics object.
func NewIOStats() IOStats {
	return IOStats{
		Sent:    new(atomic.Uint64),
		Recvd:   new(atomic.Uint64),
		Flushed: new(atomic.Uint64),
	}
}

// Reset clears the statistics counters.
func (stats IOStats) Reset() {
	stats.Sent.Store(0)
	stats.Recvd.Store(0)
	stats.Flushed.Store(0)
}

// Sum returns sum of sent and received bytes.
func (stats IOStats) Sum() uint64 {
	return stats.Sent.Load() + stats.Recvd.Load()
}

// NewConn creates a new connection around the argument connection.
func NewConn(conn io.ReadWriter) *Conn {
	return &Conn{
		conn:     conn,
		writeBuf: make([]byte, writeBufSize),
		readBuf:  make([]byte, readBufSize),
		Stats:    NewIOStats(),
	}
}

// Pipe returns two connections joined by an in-memory full-duplex
// link. Data moves directly between the peers without touching a
// socket; deadlines work as on network connections.
func Pipe() (*Conn, *Conn) {
	c0, c1 := net.Pipe()
	return NewConn(c0), NewConn(c1)
}

func transportErr(op string, err error) error {
	return xerrors.Errorf("p2p: %s: %v: %w", op, err, ErrTransport)
}

// Flush writes any buffered data to the connection. The write either
// transfers the full buffer to the kernel or fails.
func (c *Conn) Flush() error {
	if c.writePos == 0 {
		return nil
	}
	n, err := c.conn.Write(c.writeBuf[:c.writePos])
	if err != nil {
		return transportErr("write", err)
	}
	if n < c.writePos {
		return transportErr("write", io.ErrShortWrite)
	}
	c.Stats.Sent.Add(uint64(c.writePos))
	c.Stats.Flushed.Add(1)
	c.writePos = 0
	return nil
}

// need ensures the write buffer has space for count bytes, flushing
// pending output if necessary.
func (c *Conn) need(count int) error {
	if c.writePos+count > len(c.writeBuf) {
		return c.Flush()
	}
	return nil
}

// fill reads until the input buffer holds at least n unconsumed
// bytes. Unused data is moved to the beginning of the buffer.
func (c *Conn) fill(n int) error {
	if c.readStart < c.readEnd {
		copy(c.readBuf[0:], c.readBuf[c.readStart:c.readEnd])
		c.readEnd -= c.readStart
	} else {
		c.readEnd = 0
	}
	c.readStart = 0
	for c.readEnd < n {
		got, err := c.conn.Read(c.readBuf[c.readEnd:])
		if err != nil {
			return transportErr("read", err)
		}
		if got == 0 {
			return transportErr("read", io.ErrUnexpectedEOF)
		}
		c.Stats.Recvd.Add(uint64(got))
		c.readEnd += got
	}
	return nil
}

// SetDeadline sets the read and write deadline of the underlying
// connection. Connections without deadline support ignore the call.
func (c *Conn) SetDeadline(t time.Time) error {
	if d, ok := c.conn.(interface{ SetDeadline(time.Time) error }); ok {
		return d.SetDeadline(t)
	}
	return nil
}

// Close flushes any pending data and closes the connection.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	closer, ok := c.conn.(io.Closer)
	if ok {
		return closer.Close()
	}
	return nil
}

// SendUint32 sends an uint32 value.
func (c *Conn) SendUint32(val uint32) error {
	if err := c.need(4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(c.writeBuf[c.writePos:], val)
	c.writePos += 4
	return nil
}

// ReceiveUint32 receives an uint32 value.
func (c *Conn) ReceiveUint32() (uint32, error) {
	if c.readStart+4 > c.readEnd {
		if err := c.fill(4); err != nil {
			return 0, err
		}
	}
	val := binary.LittleEndian.Uint32(c.readBuf[c.readStart:])
	c.readStart += 4
	return val, nil
}

// SendWords sends a vector of uint32 values. The wire carries exactly
// 4*len(vals) bytes; the receiver must know the length out of band.
func (c *Conn) SendWords(vals []uint32) error {
	for _, val := range vals {
		if err := c.SendUint32(val); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveWords receives exactly len(vals) uint32 values.
func (c *Conn) ReceiveWords(vals []uint32) error {
	for i := range vals {
		val, err := c.ReceiveUint32()
		if err != nil {
			return err
		}
		vals[i] = val
	}
	return nil
}
