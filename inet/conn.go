/*
Package inet handles connecting to an irc server and reading and writing
lines on the connection.
*/
package inet

import (
	"bufio"
	"crypto/tls"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
	log15 "gopkg.in/inconshreveable/log15.v2"
)

// DialTimeout bounds the tcp connect, including the socks5 handshake.
const DialTimeout = 30 * time.Second

// Conn wraps a net.Conn with line-oriented reading and writing. A single
// reader goroutine splits the inbound stream on newlines, strips the
// trailing carriage return, and delivers whole lines on ReadChannel.
// Writes append CRLF and are serialized under a mutex.
type Conn struct {
	name string
	conn net.Conn
	log  log15.Logger

	read chan string

	writeProtect sync.Mutex

	kill      chan struct{}
	closeOnce sync.Once

	errProtect sync.RWMutex
	readErr    error
}

// NewConn wraps an established connection and starts its reader goroutine.
// A nil logger discards the transport's logging.
func NewConn(name string, conn net.Conn, logger log15.Logger) *Conn {
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}

	c := &Conn{
		name: name,
		conn: conn,
		log:  logger.New("conn", name),
		read: make(chan string),
		kill: make(chan struct{}),
	}
	go c.siphon()
	return c
}

// ReadChannel returns the channel inbound lines are delivered on. The
// channel closes when the connection dies, check Err afterwards to learn
// whether it died from a socket error.
func (c *Conn) ReadChannel() <-chan string {
	return c.read
}

// siphon reads the socket until it dies, delivering whole lines on the
// read channel. A trailing fragment handed back together with the final
// read error is delivered too; servers send their parting ERROR line
// without a terminator often enough that dropping it loses information.
func (c *Conn) siphon() {
	defer close(c.read)

	buf := bufio.NewReader(c.conn)
	for {
		line, err := buf.ReadString('\n')

		if err != nil {
			if last := strings.TrimRight(line, "\r\n"); len(last) > 0 {
				select {
				case c.read <- last:
					c.log.Debug("read", "line", last)
				case <-c.kill:
					return
				}
			}
			select {
			case <-c.kill:
			default:
				if err != io.EOF {
					c.setErr(err)
				}
				c.log.Debug("read loop ended", "err", err)
			}
			return
		}

		line = strings.TrimRight(line, "\r\n")
		if len(line) == 0 {
			continue
		}

		select {
		case c.read <- line:
			c.log.Debug("read", "line", line)
		case <-c.kill:
			return
		}
	}
}

// Write sends one line to the server, appending the CRLF pair. Concurrent
// writes are serialized and order preserving.
func (c *Conn) Write(line string) error {
	c.writeProtect.Lock()
	defer c.writeProtect.Unlock()

	if _, err := c.conn.Write(append([]byte(line), '\r', '\n')); err != nil {
		return errors.Wrap(err, "failed to write to connection")
	}
	c.log.Debug("write", "line", line)
	return nil
}

// Err reports the socket error that killed the reader, if any. EOF and
// local closes are not errors.
func (c *Conn) Err() error {
	c.errProtect.RLock()
	defer c.errProtect.RUnlock()
	return c.readErr
}

func (c *Conn) setErr(err error) {
	c.errProtect.Lock()
	c.readErr = err
	c.errProtect.Unlock()
}

// Close shuts the connection down, unblocking the reader. It is safe to
// call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.log.Debug("closing connection")
		close(c.kill)
		err = c.conn.Close()
	})
	return err
}

// Dial opens a tcp connection to addr, optionally through a socks5 proxy,
// optionally wrapped in TLS. A non-nil tlsConf turns TLS on; its
// ServerName is defaulted from addr when empty.
func Dial(addr string, tlsConf *tls.Config, socks5 string) (net.Conn, error) {
	forward := &net.Dialer{Timeout: DialTimeout}

	var conn net.Conn
	var err error
	if len(socks5) > 0 {
		var dialer proxy.Dialer
		dialer, err = proxy.SOCKS5("tcp", socks5, nil, forward)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create socks5 dialer")
		}
		conn, err = dialer.Dial("tcp", addr)
	} else {
		conn, err = forward.Dial("tcp", addr)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial")
	}

	if tlsConf == nil {
		return conn, nil
	}

	if len(tlsConf.ServerName) == 0 {
		tlsConf = tlsConf.Clone()
		if host, _, splitErr := net.SplitHostPort(addr); splitErr == nil {
			tlsConf.ServerName = host
		} else {
			tlsConf.ServerName = addr
		}
	}

	tlsConn := tls.Client(conn, tlsConf)
	if err = tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed tls handshake")
	}
	return tlsConn, nil
}
