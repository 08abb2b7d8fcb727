/*
Package config loads client configuration from toml files.

An example configuration looks like this:
	server = "irc.example.org"
	port = 6697
	ssl = true

	nick = "ircline"
	altnick = "ircline_"
	username = "ircline"
	realname = "ircline"

	channels = ["#go", "#irc"]
	ctcpversion = "ircline"
*/
package config

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/ostafen/ircline/client"
)

// Default ports for plain and ssl connections.
const (
	DefaultPort    = 6667
	DefaultSSLPort = 6697
)

// Config is the toml representation of a client configuration. Only server
// and nick are required; everything else has a sensible zero value or
// defaults from nick.
type Config struct {
	// Server is the hostname or address of the irc server. A port may be
	// appended with a colon instead of the port key.
	Server string `toml:"server"`
	// Port of the server. Zero selects the default plain or ssl port.
	Port uint16 `toml:"port"`
	// SSL connects over tls when true.
	SSL bool `toml:"ssl"`
	// NoVerifyCert skips verification of the server certificate.
	NoVerifyCert bool `toml:"noverifycert"`
	// Socks5 routes the connection through a socks5 proxy at this address.
	Socks5 string `toml:"socks5"`

	Nick     string `toml:"nick"`
	Altnick  string `toml:"altnick"`
	Username string `toml:"username"`
	Realname string `toml:"realname"`
	Password string `toml:"password"`

	// CTCPVersion is the reply to ctcp VERSION requests. Empty disables
	// the reply.
	CTCPVersion string `toml:"ctcpversion"`
	// Channels to join once the server is ready.
	Channels []string `toml:"channels"`
}

// Load reads and parses a toml configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrap(err, "config: parsing "+path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for problems. All of them are reported
// at once rather than one per call.
func (c *Config) Validate() error {
	var errs errList

	if len(c.Server) == 0 {
		errs = append(errs, "server is required")
	}
	if len(c.Nick) == 0 {
		errs = append(errs, "nick is required")
	}
	if strings.ContainsAny(c.Nick, " ") {
		errs = append(errs, "nick must not contain spaces")
	}
	if strings.Contains(c.Server, ":") && c.Port != 0 {
		errs = append(errs, "port given both in server and in port")
	}
	for _, channel := range c.Channels {
		if len(channel) == 0 || strings.ContainsAny(channel, " ,") {
			errs = append(errs, "bad channel name: "+strconv.Quote(channel))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Address resolves the host:port the client should dial.
func (c *Config) Address() string {
	if strings.Contains(c.Server, ":") {
		return c.Server
	}

	port := int(c.Port)
	if port == 0 {
		if c.SSL {
			port = DefaultSSLPort
		} else {
			port = DefaultPort
		}
	}
	return net.JoinHostPort(c.Server, strconv.Itoa(port))
}

// Client converts the configuration into the client package's form.
func (c *Config) Client() client.Config {
	var tlsConf *tls.Config
	if c.SSL && c.NoVerifyCert {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}

	return client.Config{
		Server:      c.Address(),
		TLS:         c.SSL,
		TLSConfig:   tlsConf,
		Socks5:      c.Socks5,
		Nick:        c.Nick,
		Altnick:     c.Altnick,
		Username:    c.Username,
		Realname:    c.Realname,
		Password:    c.Password,
		CTCPVersion: c.CTCPVersion,
		Channels:    c.Channels,
	}
}

// errList collects validation failures into one error.
type errList []string

func (e errList) Error() string {
	return fmt.Sprintf("config: %s", strings.Join(e, "; "))
}
