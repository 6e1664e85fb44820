//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
)

// Endpoint is one half of the point-to-point link: a Listener for the
// accepting party or a Dialer for the connecting party. Open blocks
// until the peer link is up; the returned Conn owns the socket.
// Close releases any endpoint-owned resources and is idempotent.
type Endpoint interface {
	Open() (*Conn, error)
	Close() error
}

const (
	dialAttempts = 12
	dialDelay    = 5 * time.Second
)

// Listener is the accepting endpoint. It binds all interfaces on the
// argument port and accepts exactly one incoming connection.
type Listener struct {
	port     int
	listener net.Listener
}

// NewListener creates a listening endpoint for the argument port.
func NewListener(port int) *Listener {
	return &Listener{
		port: port,
	}
}

// Listen binds the listening socket without accepting. Open binds
// implicitly; binding first is useful to learn the port of an
// endpoint created with port 0.
func (l *Listener) Listen() error {
	if l.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return transportErr("listen", err)
	}
	l.listener = listener
	log.Debug().Msgf("p2p: listening on %s", listener.Addr())
	return nil
}

// Open binds, listens, and blocks until a peer connects.
func (l *Listener) Open() (*Conn, error) {
	if err := l.Listen(); err != nil {
		return nil, err
	}
	nc, err := l.listener.Accept()
	if err != nil {
		l.listener.Close()
		l.listener = nil
		return nil, transportErr("accept", err)
	}
	log.Debug().Msgf("p2p: peer connected from %s", nc.RemoteAddr())

	return NewConn(nc), nil
}

// Port returns the port the endpoint is bound to. Useful when the
// listener was created with port 0.
func (l *Listener) Port() int {
	if l.listener != nil {
		return l.listener.Addr().(*net.TCPAddr).Port
	}
	return l.port
}

// Close releases the listening socket.
func (l *Listener) Close() error {
	if l.listener == nil {
		return nil
	}
	err := l.listener.Close()
	l.listener = nil
	return err
}

// Dialer is the connecting endpoint.
type Dialer struct {
	host string
	port int
}

// NewDialer creates a connecting endpoint for the argument peer
// address.
func NewDialer(host string, port int) *Dialer {
	return &Dialer{
		host: host,
		port: port,
	}
}

// Open establishes the outbound connection. The peer's listener may
// not be up yet, so the dial is retried a bounded number of times
// before giving up.
func (d *Dialer) Open() (*Conn, error) {
	addr := fmt.Sprintf("%s:%d", d.host, d.port)

	var nc net.Conn
	var err error
	for i := 0; i < dialAttempts; i++ {
		nc, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		log.Debug().Msgf("p2p: connect to %s failed, retrying in %s",
			addr, dialDelay)
		<-time.After(dialDelay)
	}
	if err != nil {
		return nil, transportErr("connect", err)
	}
	log.Debug().Msgf("p2p: connected to %s", addr)

	return NewConn(nc), nil
}

// Close implements Endpoint. The Dialer owns no resources beyond the
// connection returned by Open.
func (d *Dialer) Close() error {
	return nil
}
