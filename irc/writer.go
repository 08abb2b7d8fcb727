package irc

import (
	"fmt"
	"io"
	"strings"
)

// MaxLineLength is the maximum length of a single protocol line, excluding
// the trailing crlf.
const MaxLineLength = 510

const (
	// fmtPrivmsgHeader creates the beginning of a privmsg.
	fmtPrivmsgHeader = PRIVMSG + " %s :"
	// fmtNoticeHeader creates the beginning of a notice.
	fmtNoticeHeader = NOTICE + " %s :"
	// fmtCTCP creates a CTCP request.
	fmtCTCP = PRIVMSG + " %s :%s"
	// fmtCTCPReply creates a CTCP reply.
	fmtCTCPReply = NOTICE + " %s :%s"
	// fmtJoin creates a join message.
	fmtJoin = JOIN + " :%s"
	// fmtPart creates a part message.
	fmtPart = PART + " %s"
	// fmtPartReason creates a part message with a reason.
	fmtPartReason = PART + " %s :%s"
	// fmtQuit creates a quit message.
	fmtQuit = QUIT + " :%s"
	// fmtKick creates a kick message.
	fmtKick = KICK + " %s %s"
	// fmtKickReason creates a kick message with a reason.
	fmtKickReason = KICK + " %s %s :%s"
	// fmtNick creates a nick change message.
	fmtNick = NICK + " %s"
	// fmtMode creates a mode change message.
	fmtMode = MODE + " %s %s"
	// fmtModeQuery creates a mode query.
	fmtModeQuery = MODE + " %s"
	// fmtTopic creates a topic change message.
	fmtTopic = TOPIC + " %s :%s"
	// fmtTopicQuery creates a topic query.
	fmtTopicQuery = TOPIC + " %s"
	// fmtWhois creates a whois query.
	fmtWhois = WHOIS + " %s"
	// fmtPong creates a pong message.
	fmtPong = PONG + " :%s"
	// fmtPass creates a pass message.
	fmtPass = PASS + " %s"
	// fmtUser creates a user registration message.
	fmtUser = USER + " %s 0 * :%s"
)

// Writer is the outbound protocol surface. Each method formats one kind of
// message and writes it as whole lines to the underlying io.Writer, one
// Write call per line, without the crlf terminator.
type Writer interface {
	io.Writer
	// Send writes a raw protocol line.
	Send(line string) error
	// Sendf writes a formatted raw protocol line.
	Sendf(format string, args ...interface{}) error

	// Privmsg sends a privmsg to a channel or user, fragmenting long
	// bodies over multiple lines.
	Privmsg(target, msg string) error
	// Privmsgf sends a formatted privmsg.
	Privmsgf(target, format string, args ...interface{}) error
	// Notice sends a notice, fragmenting long bodies over multiple lines.
	Notice(target, msg string) error
	// Noticef sends a formatted notice.
	Noticef(target, format string, args ...interface{}) error
	// CTCP sends a CTCP request inside a privmsg.
	CTCP(target, tag, data string) error
	// CTCPReply sends a CTCP reply inside a notice.
	CTCPReply(target, tag, data string) error
	// Action sends a CTCP ACTION to a channel or user.
	Action(target, msg string) error

	Join(channels ...string) error
	Part(channel, reason string) error
	Quit(reason string) error
	Kick(channel, nick, reason string) error
	Nick(nick string) error
	Mode(target string, modes ...string) error
	Topic(channel, topic string) error
	Whois(nick string) error
	Pong(payload string) error

	// Op grants channel operator to the given nicks.
	Op(channel string, nicks ...string) error
	// Deop removes channel operator from the given nicks.
	Deop(channel string, nicks ...string) error
	// Voice grants voice to the given nicks.
	Voice(channel string, nicks ...string) error
	// Devoice removes voice from the given nicks.
	Devoice(channel string, nicks ...string) error
	// Ban adds a ban mask on the channel.
	Ban(channel string, mask Mask) error
	// Unban removes a ban mask from the channel.
	Unban(channel string, mask Mask) error
}

// Fragment splits a message body into lines of at most MaxLineLength,
// each beginning with prefix. Chunks are the largest whole slices of the
// body that fit after the prefix, less one character of slack, in order;
// concatenating the chunks reproduces the body exactly.
func Fragment(prefix, msg string) []string {
	max := MaxLineLength - (len(prefix) + 1)
	if max <= 0 || len(msg) <= max {
		return []string{prefix + msg}
	}

	lines := make([]string, 0, len(msg)/max+1)
	for len(msg) > max {
		lines = append(lines, prefix+msg[:max])
		msg = msg[max:]
	}
	return append(lines, prefix+msg)
}

// Helper fulfills the Writer interface on top of any io.Writer.
type Helper struct {
	io.Writer
}

// Send writes a raw protocol line.
func (h Helper) Send(line string) error {
	_, err := h.Write([]byte(line))
	return err
}

// Sendf writes a formatted raw protocol line.
func (h Helper) Sendf(format string, args ...interface{}) error {
	return h.Send(fmt.Sprintf(format, args...))
}

// Privmsg sends a privmsg to a channel or user, fragmenting long bodies
// over multiple lines.
func (h Helper) Privmsg(target, msg string) error {
	return h.splitSend(fmt.Sprintf(fmtPrivmsgHeader, target), msg)
}

// Privmsgf sends a formatted privmsg.
func (h Helper) Privmsgf(target, format string, args ...interface{}) error {
	return h.Privmsg(target, fmt.Sprintf(format, args...))
}

// Notice sends a notice, fragmenting long bodies over multiple lines.
func (h Helper) Notice(target, msg string) error {
	return h.splitSend(fmt.Sprintf(fmtNoticeHeader, target), msg)
}

// Noticef sends a formatted notice.
func (h Helper) Noticef(target, format string, args ...interface{}) error {
	return h.Notice(target, fmt.Sprintf(format, args...))
}

// CTCP sends a CTCP request inside a privmsg.
func (h Helper) CTCP(target, tag, data string) error {
	return h.Sendf(fmtCTCP, target, CTCPpackString(tag, data))
}

// CTCPReply sends a CTCP reply inside a notice.
func (h Helper) CTCPReply(target, tag, data string) error {
	return h.Sendf(fmtCTCPReply, target, CTCPpackString(tag, data))
}

// Action sends a CTCP ACTION to a channel or user.
func (h Helper) Action(target, msg string) error {
	return h.CTCP(target, "ACTION", msg)
}

// Join sends a join message for one or more channels.
func (h Helper) Join(channels ...string) error {
	if len(channels) == 0 {
		return nil
	}
	return h.Sendf(fmtJoin, strings.Join(channels, ","))
}

// Part sends a part message, with an optional reason.
func (h Helper) Part(channel, reason string) error {
	if len(reason) == 0 {
		return h.Sendf(fmtPart, channel)
	}
	return h.Sendf(fmtPartReason, channel, reason)
}

// Quit sends a quit message.
func (h Helper) Quit(reason string) error {
	return h.Sendf(fmtQuit, reason)
}

// Kick kicks a user from a channel, with an optional reason.
func (h Helper) Kick(channel, nick, reason string) error {
	if len(reason) == 0 {
		return h.Sendf(fmtKick, channel, nick)
	}
	return h.Sendf(fmtKickReason, channel, nick, reason)
}

// Nick requests a nickname change.
func (h Helper) Nick(nick string) error {
	return h.Sendf(fmtNick, nick)
}

// Mode sends a mode change or query for a channel or user target.
func (h Helper) Mode(target string, modes ...string) error {
	if len(modes) == 0 {
		return h.Sendf(fmtModeQuery, target)
	}
	return h.Sendf(fmtMode, target, strings.Join(modes, " "))
}

// Topic sets a channel topic, or queries it when topic is empty.
func (h Helper) Topic(channel, topic string) error {
	if len(topic) == 0 {
		return h.Sendf(fmtTopicQuery, channel)
	}
	return h.Sendf(fmtTopic, channel, topic)
}

// Whois queries the server about a nickname.
func (h Helper) Whois(nick string) error {
	return h.Sendf(fmtWhois, nick)
}

// Pong answers a server ping with the given payload.
func (h Helper) Pong(payload string) error {
	return h.Sendf(fmtPong, payload)
}

// Pass sends the connection password.
func (h Helper) Pass(password string) error {
	return h.Sendf(fmtPass, password)
}

// User sends the user registration message.
func (h Helper) User(username, realname string) error {
	return h.Sendf(fmtUser, username, realname)
}

// Op grants channel operator to the given nicks.
func (h Helper) Op(channel string, nicks ...string) error {
	return h.modeNicks(channel, '+', 'o', nicks)
}

// Deop removes channel operator from the given nicks.
func (h Helper) Deop(channel string, nicks ...string) error {
	return h.modeNicks(channel, '-', 'o', nicks)
}

// Voice grants voice to the given nicks.
func (h Helper) Voice(channel string, nicks ...string) error {
	return h.modeNicks(channel, '+', 'v', nicks)
}

// Devoice removes voice from the given nicks.
func (h Helper) Devoice(channel string, nicks ...string) error {
	return h.modeNicks(channel, '-', 'v', nicks)
}

// Ban adds a ban mask on the channel.
func (h Helper) Ban(channel string, mask Mask) error {
	return h.Mode(channel, "+b", mask.String())
}

// Unban removes a ban mask from the channel.
func (h Helper) Unban(channel string, mask Mask) error {
	return h.Mode(channel, "-b", mask.String())
}

func (h Helper) modeNicks(channel string, dir, mode byte, nicks []string) error {
	if len(nicks) == 0 {
		return nil
	}
	modes := make([]byte, 0, len(nicks)+1)
	modes = append(modes, dir)
	for range nicks {
		modes = append(modes, mode)
	}
	args := append([]string{string(modes)}, nicks...)
	return h.Mode(channel, args...)
}

// splitSend fragments a message body under a header and writes each
// resulting line.
func (h Helper) splitSend(header, msg string) error {
	for _, line := range Fragment(header, msg) {
		if err := h.Send(line); err != nil {
			return err
		}
	}
	return nil
}
