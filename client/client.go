/*
Package client implements an IRC client engine. A Client owns one server
connection, performs registration, feeds every inbound line through a fixed
dispatch table, keeps channel and whois state synchronized, and publishes
typed events on a synchronous bus.

Clients are independent of each other; nothing is shared between instances.
All inbound processing happens on a single goroutine per connection, so
handlers observe events in arrival order.
*/
package client

import (
	"crypto/tls"
	"net"
	"sync"

	"github.com/pkg/errors"
	log15 "gopkg.in/inconshreveable/log15.v2"

	"github.com/ostafen/ircline/data"
	"github.com/ostafen/ircline/dispatch"
	"github.com/ostafen/ircline/inet"
	"github.com/ostafen/ircline/irc"
)

// Status is the lifecycle state of a client.
type Status int

// The lifecycle states. A client is Connected once the socket is up and
// registration is underway, and Ready once the server has finished the
// MOTD (or declared it missing).
const (
	Disconnected Status = iota
	Connecting
	Connected
	Ready
)

func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Config parameterizes a client. Server and Nick are required; the other
// identity fields default from Nick.
type Config struct {
	// Server is the host:port address of the irc server.
	Server string
	// TLS dials the server over tls when true.
	TLS bool
	// TLSConfig optionally overrides the tls client configuration.
	TLSConfig *tls.Config
	// Socks5 is the address of a socks5 proxy to route the connection
	// through. Empty means a direct connection.
	Socks5 string

	Nick     string
	Altnick  string
	Username string
	Realname string
	// Password is transmitted with PASS before registration when set.
	Password string

	// CTCPVersion is the answer to ctcp VERSION requests. Empty disables
	// the auto-reply.
	CTCPVersion string
	// Channels are joined automatically once the server signals ready.
	Channels []string

	// ConnProvider overrides dialing when non-nil. Used by tests to
	// supply an in-memory connection.
	ConnProvider func(addr string) (net.Conn, error)

	// Log is the parent logger. Nil discards all output.
	Log log15.Logger
}

// Client is the engine for one network connection.
//
// The embedded writer surface (Privmsg, Join, Mode, ...) may be called from
// any goroutine. The fields guarded by protect are shared; the remaining
// fields are owned exclusively by the read loop of the current connection.
type Client struct {
	cfg Config
	log log15.Logger

	bus   *dispatch.Bus
	state *data.State
	table map[string]func(*irc.Event)

	irc.Helper

	protect      sync.RWMutex
	conn         *inet.Conn
	status       Status
	disconnected bool

	handshaked   bool
	ready        bool
	motd         string
	whois        map[string]*data.WhoisBuilder
	namesPending map[string]bool
	nickTries    int
}

// New creates a client from a configuration. The state-tracking handlers
// are registered on the bus before New returns, so they always run ahead
// of handlers registered by the caller.
func New(cfg Config) (*Client, error) {
	if len(cfg.Server) == 0 {
		return nil, errors.New("client: server address required")
	}
	if len(cfg.Nick) == 0 {
		return nil, errors.New("client: nickname required")
	}
	if len(cfg.Username) == 0 {
		cfg.Username = cfg.Nick
	}
	if len(cfg.Realname) == 0 {
		cfg.Realname = cfg.Nick
	}

	logger := cfg.Log
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}

	c := &Client{
		cfg:   cfg,
		log:   logger.New("server", cfg.Server),
		bus:   dispatch.NewBus(),
		state: data.NewState(cfg.Nick),
	}
	c.Helper = irc.Helper{Writer: clientWriter{c}}
	c.table = c.dispatchTable()
	c.registerTracking()
	return c, nil
}

// Bus returns the event bus. Handlers registered here are invoked
// synchronously, in registration order, from the read loop.
func (c *Client) Bus() *dispatch.Bus {
	return c.bus
}

// State returns the tracked network state.
func (c *Client) State() *data.State {
	return c.state
}

// Status reports the lifecycle state of the client.
func (c *Client) Status() Status {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return c.status
}

func (c *Client) setStatus(status Status) {
	c.protect.Lock()
	c.status = status
	c.protect.Unlock()
}

// Connect dials the server and spawns the read loop. It returns once the
// connection is up; registration happens when the server sends its first
// line, and readiness is reported later by ReadyEvent.
func (c *Client) Connect() error {
	c.protect.Lock()
	if c.status != Disconnected {
		c.protect.Unlock()
		return errors.New("client: already connected")
	}
	c.status = Connecting
	c.protect.Unlock()

	c.log.Info("connecting", "tls", c.cfg.TLS)

	netconn, err := c.dial()
	if err != nil {
		c.setStatus(Disconnected)
		c.bus.Post(&ErrorEvent{
			Category: ErrSocket,
			Message:  "connect failed",
			Err:      err,
		})
		return err
	}

	conn := inet.NewConn(c.cfg.Server, netconn, c.cfg.Log)

	c.protect.Lock()
	c.conn = conn
	c.status = Connected
	c.handshaked = false
	c.ready = false
	c.disconnected = false
	c.motd = ""
	c.whois = make(map[string]*data.WhoisBuilder)
	c.namesPending = make(map[string]bool)
	c.nickTries = 0
	c.protect.Unlock()

	c.state.Reset(c.cfg.Nick)

	c.bus.Post(&ConnectEvent{Server: c.cfg.Server})
	go c.readLoop(conn)
	return nil
}

func (c *Client) dial() (net.Conn, error) {
	if c.cfg.ConnProvider != nil {
		return c.cfg.ConnProvider(c.cfg.Server)
	}

	var tlsConf *tls.Config
	if c.cfg.TLS {
		tlsConf = c.cfg.TLSConfig
		if tlsConf == nil {
			tlsConf = &tls.Config{}
		}
	}
	return inet.Dial(c.cfg.Server, tlsConf, c.cfg.Socks5)
}

// Close forces a disconnect. It unblocks the read loop, which then winds
// down and emits the usual DisconnectEvent.
func (c *Client) Close() error {
	c.protect.RLock()
	conn := c.conn
	c.protect.RUnlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

// readLoop drives the engine. Every inbound line is handled here, on one
// goroutine, in arrival order.
func (c *Client) readLoop(conn *inet.Conn) {
	for line := range conn.ReadChannel() {
		c.handleLine(line)
	}
	c.finishConn(conn)
}

// finishConn transitions to Disconnected after the read channel closes.
// A loop left over from an earlier connection must not clobber the state
// of the current one. Whether to announce the disconnect is decided in
// the same critical section that retires the connection, so a handler
// that reconnects while the events below are being posted cannot steal
// the flag from the next connection.
func (c *Client) finishConn(conn *inet.Conn) {
	c.protect.Lock()
	if c.conn != conn {
		c.protect.Unlock()
		return
	}
	c.conn = nil
	c.status = Disconnected
	announce := !c.disconnected
	c.disconnected = true
	c.protect.Unlock()

	if err := conn.Err(); err != nil {
		c.bus.Post(&ErrorEvent{
			Category: ErrSocket,
			Message:  "connection lost",
			Err:      err,
		})
	}
	if announce {
		c.bus.Post(&DisconnectEvent{})
	}
	c.log.Info("disconnected")
}

// handleLine processes one inbound line: registration is transmitted when
// the very first line arrives, then the line is parsed and dispatched
// through the command table. Unparsable lines are logged and dropped;
// commands outside the table are ignored.
func (c *Client) handleLine(line string) {
	if !c.handshaked {
		c.handshaked = true
		c.handshake()
	}

	ev, err := irc.ParseEvent(line)
	if err != nil {
		c.log.Debug("dropping unparsable line", "line", line, "err", err)
		return
	}

	if handler, ok := c.table[ev.Name]; ok {
		handler(ev)
	}
}

// handshake transmits the registration commands, once per connection.
func (c *Client) handshake() {
	c.log.Info("registering", "nick", c.cfg.Nick)
	if len(c.cfg.Password) > 0 {
		c.Pass(c.cfg.Password)
	}
	c.Nick(c.cfg.Nick)
	c.User(c.cfg.Username, c.cfg.Realname)
}

// Raw sends a raw protocol line.
func (c *Client) Raw(line string) error {
	return c.Send(line)
}

// clientWriter is the raw line layer beneath the command helpers. Oversized
// lines are flagged with an error event but still transmitted; write
// failures surface as socket error events.
type clientWriter struct {
	c *Client
}

func (w clientWriter) Write(p []byte) (int, error) {
	c := w.c

	if len(p) > irc.MaxLineLength {
		c.log.Warn("outbound line exceeds the protocol limit", "length", len(p))
		c.bus.Post(&ErrorEvent{
			Category: ErrGeneral,
			Message:  "outbound line exceeds the protocol limit",
			Line:     string(p),
		})
	}

	c.protect.RLock()
	conn := c.conn
	c.protect.RUnlock()

	if conn == nil {
		return 0, errors.New("client: not connected")
	}

	if err := conn.Write(string(p)); err != nil {
		if c.Status() != Disconnected {
			c.bus.Post(&ErrorEvent{
				Category: ErrSocket,
				Message:  "write failed",
				Err:      err,
			})
		}
		return 0, err
	}
	return len(p), nil
}
