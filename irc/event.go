/*
Package irc defines the protocol-level types shared by the rest of the
library: parsed events, host and mask types, CTCP helpers, outbound message
formatting, and network capability tracking. It is small and free of any
connection handling.
*/
package irc

import (
	"bytes"
	"strings"
	"time"

	"github.com/ergochat/irc-go/ircmsg"
)

// Event is a single parsed message received from the server.
type Event struct {
	// Name of the event. Uppercase command name or numeric.
	Name string
	// Sender is the server or user that sent the event, normally a fullhost.
	Sender string
	// Args of the event. A trailing argument is merged in as the last arg.
	Args []string
	// Time is the time this event was received.
	Time time.Time
}

// ParseEvent parses a raw protocol line into an Event. The heavy lifting
// is delegated to the ircmsg wire codec; a line it rejects yields a nil
// event and its error untouched.
func ParseEvent(line string) (*Event, error) {
	msg, err := ircmsg.ParseLine(line)
	if err != nil {
		return nil, err
	}

	return &Event{
		Name:   strings.ToUpper(msg.Command),
		Sender: msg.Source,
		Args:   msg.Params,
		Time:   time.Now().UTC(),
	}, nil
}

// NewEvent constructs an event with a timestamp.
func NewEvent(name, sender string, args ...string) *Event {
	var setArgs []string
	if len(args) > 0 {
		setArgs = make([]string, len(args))
		copy(setArgs, args)
	}
	return &Event{name, sender, setArgs, time.Now().UTC()}
}

// Nick returns the nick of the sender. Will be empty string if it was
// not able to parse the sender.
func (e *Event) Nick() string {
	return Nick(e.Sender)
}

// Username returns the username of the sender. Will be empty string if it
// was not able to parse the sender.
func (e *Event) Username() string {
	return Username(e.Sender)
}

// Hostname returns the host of the sender. Will be empty string if it was
// not able to parse the sender.
func (e *Event) Hostname() string {
	return Hostname(e.Sender)
}

// SplitHost splits the sender into its fragments: nick, user, and hostname.
// If the format is not acceptable empty string is returned for everything.
func (e *Event) SplitHost() (nick, user, hostname string) {
	return Split(e.Sender)
}

// SplitArgs splits a comma-delimited argument such as a JOIN target list.
func (e *Event) SplitArgs(index int) []string {
	return strings.Split(e.Args[index], ",")
}

// Target retrieves the channel or user this event was sent to. Before using
// this method it would be prudent to check that the Event.Name is a message
// that supports a Target argument.
func (e *Event) Target() string {
	if len(e.Args) == 0 {
		return ""
	}
	return e.Args[0]
}

// Message retrieves the message body of the event, which by convention is
// the last (trailing) argument. Empty string if the event has no args.
func (e *Event) Message() string {
	if len(e.Args) == 0 {
		return ""
	}
	return e.Args[len(e.Args)-1]
}

// IsCTCP checks if this event carries a CTCP payload. This means it's
// delimited by the CTCPDelim as well as being PRIVMSG or NOTICE only.
func (e *Event) IsCTCP() bool {
	return (e.Name == PRIVMSG || e.Name == NOTICE) && len(e.Args) >= 2 &&
		IsCTCPString(e.Args[1])
}

// UnpackCTCP retrieves the tag and data from a CTCP event.
func (e *Event) UnpackCTCP() (tag, data string) {
	return CTCPunpackString(e.Args[1])
}

// String turns this back into an IRC style message.
func (e *Event) String() string {
	b := &bytes.Buffer{}
	if len(e.Sender) > 0 {
		b.WriteByte(':')
		b.WriteString(e.Sender)
		b.WriteByte(' ')
	}
	b.WriteString(e.Name)

	lastArg := len(e.Args) - 1
	for i, arg := range e.Args {
		b.WriteByte(' ')
		if lastArg == i && (len(arg) == 0 || strings.ContainsRune(arg, ' ')) {
			b.WriteByte(':')
		}
		b.WriteString(arg)
	}

	return b.String()
}
