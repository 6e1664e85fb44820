//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"testing"
)

var words = []uint32{0, 1, 42, 0xDEADBEEF, 0xFFFFFFFF}

func writer(c *Conn) {
	for _, w := range words {
		if err := c.SendUint32(w); err != nil {
			return
		}
	}
	vec := make([]uint32, 100000)
	for i := range vec {
		vec[i] = uint32(i)
	}
	if err := c.SendWords(vec); err != nil {
		return
	}
	c.Flush()
}

func TestConn(t *testing.T) {
	cw, c := Pipe()

	go writer(cw)

	for _, w := range words {
		v, err := c.ReceiveUint32()
		if err != nil {
			t.Fatalf("ReceiveUint32: %v", err)
		}
		if v != w {
			t.Errorf("ReceiveUint32: got %v, expected %v", v, w)
		}
	}
	vec := make([]uint32, 100000)
	if err := c.ReceiveWords(vec); err != nil {
		t.Fatalf("ReceiveWords: %v", err)
	}
	for i, v := range vec {
		if v != uint32(i) {
			t.Fatalf("ReceiveWords: got %v at %v, expected %v", v, i, i)
		}
	}
}

func TestConnStats(t *testing.T) {
	cw, c := Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		cw.SendUint32(1)
		cw.SendUint32(2)
		cw.Flush()
	}()

	for i := 0; i < 2; i++ {
		if _, err := c.ReceiveUint32(); err != nil {
			t.Fatalf("ReceiveUint32: %v", err)
		}
	}
	if got := c.Stats.Recvd.Load(); got != 8 {
		t.Errorf("Recvd: got %v, expected 8", got)
	}
	// The writer's counters are updated once its Flush returns.
	<-done
	if got := cw.Stats.Sent.Load(); got != 8 {
		t.Errorf("Sent: got %v, expected 8", got)
	}
	if got := cw.Stats.Flushed.Load(); got != 1 {
		t.Errorf("Flushed: got %v, expected 1", got)
	}
	cw.Stats.Reset()
	if got := cw.Stats.Sum(); got != 0 {
		t.Errorf("Sum after reset: got %v, expected 0", got)
	}
}

func TestConnWire(t *testing.T) {
	c0, c1 := Pipe()

	go func() {
		c0.SendUint32(0x04030201)
		c0.Flush()
	}()

	// Words travel in little-endian byte order.
	buf := make([]byte, 4)
	if err := c1.fill(4); err != nil {
		t.Fatalf("fill: %v", err)
	}
	copy(buf, c1.readBuf[c1.readStart:])
	for i, b := range []byte{0x01, 0x02, 0x03, 0x04} {
		if buf[i] != b {
			t.Errorf("byte %d: got %#x, expected %#x", i, buf[i], b)
		}
	}
}
