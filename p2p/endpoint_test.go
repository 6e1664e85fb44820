//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"testing"
)

func TestEndpoint(t *testing.T) {
	l := NewListener(0)
	if err := l.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	port := l.Port()
	if port == 0 {
		t.Fatalf("Port: got 0 after Listen")
	}

	accepted := make(chan *Conn, 1)
	errs := make(chan error, 1)
	go func() {
		conn, err := l.Open()
		if err != nil {
			errs <- err
			return
		}
		accepted <- conn
	}()

	d := NewDialer("127.0.0.1", port)
	dc, err := d.Open()
	if err != nil {
		t.Fatalf("Dialer.Open: %v", err)
	}
	defer dc.Close()

	var lc *Conn
	select {
	case lc = <-accepted:
	case err := <-errs:
		t.Fatalf("Listener.Open: %v", err)
	}
	defer lc.Close()

	go func() {
		lc.SendUint32(42)
		lc.Flush()
	}()
	v, err := dc.ReceiveUint32()
	if err != nil {
		t.Fatalf("ReceiveUint32: %v", err)
	}
	if v != 42 {
		t.Errorf("ReceiveUint32: got %v, expected 42", v)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Listener.Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Listener.Close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Dialer.Close: %v", err)
	}
}
