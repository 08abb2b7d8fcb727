package data

import (
	"strings"
	"time"
)

// WhoisChannel is a channel name paired with the roles the queried user
// holds on it.
type WhoisChannel struct {
	Name     string
	Operator bool
	Voiced   bool
}

// Whois aggregates everything the server reported about a user over the
// course of a whois query.
type Whois struct {
	Nick     string
	Username string
	Hostname string
	Realname string

	Server     string
	ServerInfo string

	Operator bool
	Idle     time.Duration
	Account  string

	Channels []WhoisChannel
}

// WhoisBuilder accumulates the numeric replies of an in-flight whois query
// until the end of whois arrives.
type WhoisBuilder struct {
	whois Whois
}

// NewWhoisBuilder starts a whois record from the identity fields of the
// first whois reply.
func NewWhoisBuilder(nick, username, hostname, realname string) *WhoisBuilder {
	return &WhoisBuilder{
		whois: Whois{
			Nick:     nick,
			Username: username,
			Hostname: hostname,
			Realname: realname,
		},
	}
}

// Nick gets the nickname the query is about.
func (b *WhoisBuilder) Nick() string {
	return b.whois.Nick
}

// SetServer records the server the user is connected to.
func (b *WhoisBuilder) SetServer(server, info string) {
	b.whois.Server = server
	b.whois.ServerInfo = info
}

// SetOperator marks the user as a network operator.
func (b *WhoisBuilder) SetOperator() {
	b.whois.Operator = true
}

// SetIdle records the user's idle time from the server's seconds count.
func (b *WhoisBuilder) SetIdle(seconds int) {
	b.whois.Idle = time.Duration(seconds) * time.Second
}

// SetAccount records the services account the user is logged in as.
func (b *WhoisBuilder) SetAccount(account string) {
	b.whois.Account = account
}

// AddChannels appends channels to the record, decoding any leading role
// symbols through the server's prefix mapping.
func (b *WhoisBuilder) AddChannels(names []string, modes, symbols string) {
	for _, name := range names {
		ch := WhoisChannel{}
		for len(name) > 0 {
			i := strings.IndexByte(symbols, name[0])
			if i < 0 || i >= len(modes) {
				break
			}
			switch modes[i] {
			case 'o':
				ch.Operator = true
			case 'v':
				ch.Voiced = true
			}
			name = name[1:]
		}
		if len(name) == 0 {
			continue
		}
		ch.Name = name
		b.whois.Channels = append(b.whois.Channels, ch)
	}
}

// Build returns the accumulated whois record.
func (b *WhoisBuilder) Build() Whois {
	whois := b.whois
	whois.Channels = make([]WhoisChannel, len(b.whois.Channels))
	copy(whois.Channels, b.whois.Channels)
	return whois
}
