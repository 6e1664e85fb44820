//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package party

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func run2(t *testing.T, p0, p1 *Party, fn func(p *Party) error) {
	t.Helper()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, p := range []*Party{p0, p1} {
		wg.Add(1)
		go func(i int, p *Party) {
			defer wg.Done()
			errs[i] = fn(p)
		}(i, p)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
}

func TestNewInvalidID(t *testing.T) {
	_, err := New(2, DefaultHost, DefaultPort)
	require.ErrorIs(t, err, ErrPartyID)
}

func TestNotStarted(t *testing.T) {
	p, err := New(0, DefaultHost, DefaultPort)
	require.NoError(t, err)

	var x0, x1 uint32
	require.ErrorIs(t, p.SendRecv(&x0, &x1), ErrNotStarted)
	require.ErrorIs(t, p.SendRecvVector([]uint32{0}, []uint32{0}),
		ErrNotStarted)
	require.ErrorIs(t, p.SetDeadline(time.Time{}), ErrNotStarted)
}

func TestSendRecv(t *testing.T) {
	p0, p1 := Pipe()
	run2(t, p0, p1, func(p *Party) error {
		var x0, x1 uint32
		if p.ID() == 0 {
			x0 = 100
		} else {
			x1 = 200
		}
		if err := p.SendRecv(&x0, &x1); err != nil {
			return err
		}
		require.Equal(t, uint32(100), x0)
		require.Equal(t, uint32(200), x1)
		return nil
	})
}

func TestSendRecvVector(t *testing.T) {
	p0, p1 := Pipe()
	run2(t, p0, p1, func(p *Party) error {
		x0 := make([]uint32, 1000)
		x1 := make([]uint32, 1000)
		own := x1
		if p.ID() == 0 {
			own = x0
		}
		for i := range own {
			own[i] = uint32(i + 1000*p.ID())
		}
		if err := p.SendRecvVector(x0, x1); err != nil {
			return err
		}
		for i := range x0 {
			require.Equal(t, uint32(i), x0[i])
			require.Equal(t, uint32(i+1000), x1[i])
		}
		return nil
	})
}

func TestSendRecvArrays(t *testing.T) {
	p0, p1 := Pipe()
	run2(t, p0, p1, func(p *Party) error {
		var a0, a1 [2]uint32
		if p.ID() == 0 {
			a0 = [2]uint32{1, 2}
		} else {
			a1 = [2]uint32{3, 4}
		}
		if err := p.SendRecv2(&a0, &a1); err != nil {
			return err
		}
		require.Equal(t, [2]uint32{1, 2}, a0)
		require.Equal(t, [2]uint32{3, 4}, a1)

		var b0, b1 [4]uint32
		if p.ID() == 0 {
			b0 = [4]uint32{1, 2, 3, 4}
		} else {
			b1 = [4]uint32{5, 6, 7, 8}
		}
		if err := p.SendRecv4(&b0, &b1); err != nil {
			return err
		}
		require.Equal(t, [4]uint32{1, 2, 3, 4}, b0)
		require.Equal(t, [4]uint32{5, 6, 7, 8}, b1)
		return nil
	})
}

func TestDesync(t *testing.T) {
	p0, _ := Pipe()
	err := p0.SendRecvVector(make([]uint32, 2), make([]uint32, 3))
	require.ErrorIs(t, err, ErrDesync)
}

func TestBytesSent(t *testing.T) {
	p0, p1 := Pipe()
	run2(t, p0, p1, func(p *Party) error {
		var x0, x1 uint32
		if err := p.SendRecv(&x0, &x1); err != nil {
			return err
		}
		require.Equal(t, uint64(4), p.BytesSent())
		require.Equal(t, uint64(4), p.LogBytesSent("test"))
		require.Equal(t, uint64(8), p.Stats().Sum())
		p.ResetBytesSent()
		require.Equal(t, uint64(0), p.BytesSent())
		return nil
	})
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestSocketParties(t *testing.T) {
	port := freePort(t)

	p0, err := New(0, DefaultHost, port)
	require.NoError(t, err)
	p1, err := New(1, DefaultHost, port)
	require.NoError(t, err)

	run2(t, p0, p1, func(p *Party) error {
		if err := p.Start(); err != nil {
			return err
		}
		// Re-start is a no-op.
		if err := p.Start(); err != nil {
			return err
		}
		if err := p.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
			return err
		}
		var x0, x1 uint32
		if p.ID() == 0 {
			x0 = 7
		} else {
			x1 = 11
		}
		if err := p.SendRecv(&x0, &x1); err != nil {
			return err
		}
		require.Equal(t, uint32(7), x0)
		require.Equal(t, uint32(11), x1)
		if err := p.Close(); err != nil {
			return err
		}
		return p.Close()
	})
}

func TestString(t *testing.T) {
	p0, p1 := Pipe()
	require.Equal(t, "P⁰", p0.String())
	require.Equal(t, "P¹", p1.String())
}
