package client

import (
	"github.com/ostafen/ircline/data"
	"github.com/ostafen/ircline/irc"
)

// ErrorCategory classifies the failures surfaced on ErrorEvent.
type ErrorCategory int

const (
	// ErrSocket is a read, write, or dial failure on the connection.
	ErrSocket ErrorCategory = iota
	// ErrGeneral is an engine-detected condition, such as an oversized
	// outbound line.
	ErrGeneral
	// ErrServer is an ERROR command sent by the server.
	ErrServer
)

func (e ErrorCategory) String() string {
	switch e {
	case ErrSocket:
		return "socket"
	case ErrGeneral:
		return "general"
	case ErrServer:
		return "server"
	}
	return "unknown"
}

// ConnectEvent fires when the transport comes up, before registration.
type ConnectEvent struct {
	Server string
}

// DisconnectEvent fires when the connection dies, for any reason.
type DisconnectEvent struct{}

// ReadyEvent fires once per connection, at the end of the MOTD.
type ReadyEvent struct{}

// MOTDEvent carries the complete message of the day.
type MOTDEvent struct {
	MOTD string
}

// MessageEvent is a PRIVMSG to a channel or to us.
type MessageEvent struct {
	Sender irc.Host
	Target string
	Text   string
}

// NoticeEvent is a NOTICE to a channel or to us. Pre-registration server
// notices target `*` and carry the raw source text as the sender.
type NoticeEvent struct {
	Sender irc.Host
	Target string
	Text   string
}

// CTCPEvent is a CTCP request embedded in a PRIVMSG.
type CTCPEvent struct {
	Sender irc.Host
	Target string
	Tag    string
	Data   string
}

// CTCPReplyEvent is a CTCP response embedded in a NOTICE.
type CTCPReplyEvent struct {
	Sender irc.Host
	Target string
	Tag    string
	Data   string
}

// ActionEvent is a /me action, derived from a CTCP ACTION request.
type ActionEvent struct {
	Sender irc.Host
	Target string
	Text   string
}

// SelfJoinEvent fires when we join a channel.
type SelfJoinEvent struct {
	Channel string
}

// UserJoinEvent fires when another user joins a channel we are on.
type UserJoinEvent struct {
	Channel string
	User    irc.Host
}

// SelfPartEvent fires when we leave a channel.
type SelfPartEvent struct {
	Channel string
	Reason  string
}

// UserPartEvent fires when another user leaves a channel we are on.
type UserPartEvent struct {
	Channel string
	User    irc.Host
	Reason  string
}

// UserQuitEvent fires when another user quits the network.
type UserQuitEvent struct {
	User   irc.Host
	Reason string
}

// KickEvent fires when someone is kicked from a channel we are on.
type KickEvent struct {
	Channel string
	Victim  string
	By      irc.Host
	Reason  string
}

// NickEvent fires when a user, possibly us, changes nickname.
type NickEvent struct {
	Old string
	New string
}

// NickInUseEvent fires when the server rejects a nickname as taken.
type NickInUseEvent struct {
	Rejected string
}

// ModeEvent fires on a channel mode change that is not a ban update.
type ModeEvent struct {
	Channel string
	Mode    string
	Args    []string
}

// TopicEvent fires when a channel topic is changed or first learned.
type TopicEvent struct {
	Channel string
	Topic   string
	By      irc.Host
}

// ISupportEvent carries the capability tokens of one 005 line, rejoined.
type ISupportEvent struct {
	Support string
}

// NamesEvent fires when a channel's names population completes.
type NamesEvent struct {
	Channel string
}

// PongEvent carries the payload of a PONG from the server.
type PongEvent struct {
	Message string
}

// WhoisEvent carries a completed whois record.
type WhoisEvent struct {
	data.Whois
}

// ErrorEvent surfaces a socket, engine, or server failure. Nothing on this
// channel is fatal to the engine.
type ErrorEvent struct {
	Category ErrorCategory
	Message  string

	// Line is the offending outbound line for general errors.
	Line string
	// Err is the wrapped cause for socket errors.
	Err error
}
