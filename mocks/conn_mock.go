package mocks

import (
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// Conn is a scripted net.Conn. Tests push inbound bytes with Feed and pop
// outbound lines with NextWrite. After Close, reads return io.EOF once the
// queued data is drained and writes fail. Read must be driven by a single
// goroutine.
type Conn struct {
	in   chan []byte
	errs chan error
	out  chan string

	dead      chan struct{}
	closeOnce sync.Once

	leftover []byte
}

// NewConn creates a scripted connection.
func NewConn() *Conn {
	return &Conn{
		in:   make(chan []byte, 64),
		errs: make(chan error, 1),
		out:  make(chan string, 64),
		dead: make(chan struct{}),
	}
}

// Feed queues raw bytes for the reader side.
func (m *Conn) Feed(data string) {
	select {
	case m.in <- []byte(data):
	case <-m.dead:
	}
}

// FeedLine queues one CRLF-terminated line for the reader side.
func (m *Conn) FeedLine(line string) {
	m.Feed(line + "\r\n")
}

// FeedError makes an upcoming Read fail with err, after the queued data
// has been drained.
func (m *Conn) FeedError(err error) {
	m.errs <- err
}

// NextWrite waits for the next outbound line, stripped of its CRLF pair.
// The second return is false if nothing was written within the timeout.
func (m *Conn) NextWrite(timeout time.Duration) (string, bool) {
	select {
	case line := <-m.out:
		return line, true
	case <-time.After(timeout):
		return "", false
	}
}

// Read hands queued bytes to the caller and io.EOF once the connection is
// dead and drained.
func (m *Conn) Read(buf []byte) (int, error) {
	if len(m.leftover) > 0 {
		n := copy(buf, m.leftover)
		m.leftover = m.leftover[n:]
		return n, nil
	}

	// Drain queued data before reporting death.
	select {
	case data := <-m.in:
		n := copy(buf, data)
		m.leftover = data[n:]
		return n, nil
	default:
	}

	select {
	case data := <-m.in:
		n := copy(buf, data)
		m.leftover = data[n:]
		return n, nil
	case err := <-m.errs:
		return 0, err
	case <-m.dead:
		return 0, io.EOF
	}
}

// Write records outbound data, splitting it into CRLF-terminated lines.
func (m *Conn) Write(p []byte) (int, error) {
	select {
	case <-m.dead:
		return 0, io.ErrClosedPipe
	default:
	}

	data := strings.TrimRight(string(p), "\r\n")
	if len(data) == 0 {
		return len(p), nil
	}

	for _, line := range strings.Split(data, "\r\n") {
		select {
		case m.out <- line:
		case <-m.dead:
			return 0, io.ErrClosedPipe
		}
	}
	return len(p), nil
}

// Close kills the connection. It is safe to call more than once.
func (m *Conn) Close() error {
	m.closeOnce.Do(func() {
		close(m.dead)
	})
	return nil
}

type connAddr string

func (a connAddr) Network() string {
	return "tcp"
}

func (a connAddr) String() string {
	return string(a)
}

func (m *Conn) LocalAddr() net.Addr {
	return connAddr("local")
}

func (m *Conn) RemoteAddr() net.Addr {
	return connAddr("remote")
}

func (m *Conn) SetDeadline(t time.Time) error {
	return nil
}

func (m *Conn) SetReadDeadline(t time.Time) error {
	return nil
}

func (m *Conn) SetWriteDeadline(t time.Time) error {
	return nil
}
