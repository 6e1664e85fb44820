//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package party implements the symmetric two-party exchange facade.
// It hides the listener/connector asymmetry of the transport: party 0
// accepts and sends first, party 1 connects and receives first, and
// both sides observe the same post-state after every exchange.
package party

import (
	"errors"
	"time"

	"github.com/markkurossi/text/superscript"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/markkurossi/beaver/p2p"
)

// Connection defaults. The port is shared by both parties; party 1
// dials the host where party 0 listens.
const (
	DefaultPort = 12345
	DefaultHost = "127.0.0.1"
)

var (
	// ErrPartyID is returned for party IDs outside {0, 1}.
	ErrPartyID = errors.New("party: party ID must be 0 or 1")

	// ErrNotStarted is returned when an exchange is attempted before
	// Start.
	ErrNotStarted = errors.New("party: communication not started")

	// ErrDesync is the kind of caller-induced exchange size
	// disagreements. A desynchronized exchange corrupts all
	// subsequent shares, so it is reported before any byte moves.
	ErrDesync = errors.New("party: peer exchange out of sync")
)

// Party is one of the two protocol endpoints. The zero party owns the
// listening socket; party 1 owns the outbound connection. A Party is
// set up once with Start, used for an arbitrary number of exchanges,
// and torn down once with Close.
type Party struct {
	id       int
	endpoint p2p.Endpoint
	conn     *p2p.Conn
	started  bool
}

// New creates a party endpoint. Party 0 will listen on port; party 1
// will connect to host:port.
func New(id int, host string, port int) (*Party, error) {
	var endpoint p2p.Endpoint
	switch id {
	case 0:
		endpoint = p2p.NewListener(port)
	case 1:
		endpoint = p2p.NewDialer(host, port)
	default:
		return nil, xerrors.Errorf("party: invalid ID %d: %w", id, ErrPartyID)
	}
	return &Party{
		id:       id,
		endpoint: endpoint,
	}, nil
}

// Pipe creates two connected in-memory parties. The parties are
// already started; their exchanges run over an in-process pipe
// instead of a TCP connection.
func Pipe() (*Party, *Party) {
	c0, c1 := p2p.Pipe()
	p0 := &Party{
		id:      0,
		conn:    c0,
		started: true,
	}
	p1 := &Party{
		id:      1,
		conn:    c1,
		started: true,
	}
	return p0, p1
}

// ID returns the party ID.
func (p *Party) ID() int {
	return p.id
}

func (p *Party) String() string {
	return "P" + superscript.Itoa(p.id)
}

// Start brings up the role-specific endpoint and resets the bytes
// sent counter. If the party is already started, Start returns
// immediately.
func (p *Party) Start() error {
	if p.started {
		return nil
	}
	conn, err := p.endpoint.Open()
	if err != nil {
		return err
	}
	p.conn = conn
	p.ResetBytesSent()
	p.started = true
	log.Info().Msgf("%s: communication started", p)
	return nil
}

// Close tears down the transport. Close is idempotent.
func (p *Party) Close() error {
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return err
		}
		p.conn = nil
	}
	if p.endpoint != nil {
		return p.endpoint.Close()
	}
	return nil
}

// SetDeadline sets the deadline of all following exchanges. The zero
// time means no deadline.
func (p *Party) SetDeadline(t time.Time) error {
	if p.conn == nil {
		return ErrNotStarted
	}
	return p.conn.SetDeadline(t)
}

// SendRecv exchanges one scalar share. The x0 slot holds party 0's
// share, x1 party 1's; each party submits its own value and receives
// the peer's into the other slot. Party 0 sends first, party 1
// receives first, so the exchange makes progress for any payload
// size.
func (p *Party) SendRecv(x0, x1 *uint32) error {
	if !p.started {
		return ErrNotStarted
	}
	if p.id == 0 {
		if err := p.send(*x0); err != nil {
			return err
		}
		return p.recv(x1)
	}
	if err := p.recv(x0); err != nil {
		return err
	}
	return p.send(*x1)
}

// SendRecvVector exchanges vector shares element-wise in one network
// round. Both parties must size the slots identically; the wire
// carries no length prefix.
func (p *Party) SendRecvVector(x0, x1 []uint32) error {
	if !p.started {
		return ErrNotStarted
	}
	if len(x0) != len(x1) {
		return xerrors.Errorf("party: slot sizes %d and %d: %w",
			len(x0), len(x1), ErrDesync)
	}
	if p.id == 0 {
		if err := p.sendWords(x0); err != nil {
			return err
		}
		return p.recvWords(x1)
	}
	if err := p.recvWords(x0); err != nil {
		return err
	}
	return p.sendWords(x1)
}

// SendRecv2 exchanges fixed two-element array shares.
func (p *Party) SendRecv2(x0, x1 *[2]uint32) error {
	if !p.started {
		return ErrNotStarted
	}
	if p.id == 0 {
		if err := p.sendWords(x0[:]); err != nil {
			return err
		}
		return p.recvWords(x1[:])
	}
	if err := p.recvWords(x0[:]); err != nil {
		return err
	}
	return p.sendWords(x1[:])
}

// SendRecv4 exchanges fixed four-element array shares.
func (p *Party) SendRecv4(x0, x1 *[4]uint32) error {
	if !p.started {
		return ErrNotStarted
	}
	if p.id == 0 {
		if err := p.sendWords(x0[:]); err != nil {
			return err
		}
		return p.recvWords(x1[:])
	}
	if err := p.recvWords(x0[:]); err != nil {
		return err
	}
	return p.sendWords(x1[:])
}

func (p *Party) send(val uint32) error {
	if err := p.conn.SendUint32(val); err != nil {
		return err
	}
	return p.conn.Flush()
}

func (p *Party) recv(val *uint32) error {
	v, err := p.conn.ReceiveUint32()
	if err != nil {
		return err
	}
	*val = v
	return nil
}

func (p *Party) sendWords(vals []uint32) error {
	if err := p.conn.SendWords(vals); err != nil {
		return err
	}
	return p.conn.Flush()
}

func (p *Party) recvWords(vals []uint32) error {
	return p.conn.ReceiveWords(vals)
}

// BytesSent returns the number of bytes sent since the last reset.
func (p *Party) BytesSent() uint64 {
	if p.conn == nil {
		return 0
	}
	return p.conn.Stats.Sent.Load()
}

// Stats returns the I/O statistics of the party's connection.
func (p *Party) Stats() p2p.IOStats {
	if p.conn == nil {
		return p2p.NewIOStats()
	}
	return p.conn.Stats
}

// ResetBytesSent clears the bytes sent counter.
func (p *Party) ResetBytesSent() {
	if p.conn != nil {
		p.conn.Stats.Reset()
	}
}

// LogBytesSent logs the bytes sent counter with the argument label.
func (p *Party) LogBytesSent(label string) uint64 {
	n := p.BytesSent()
	log.Info().Msgf("%s: %s: %d bytes sent", p, label, n)
	return n
}
