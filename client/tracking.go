package client

import (
	"strings"

	"github.com/ostafen/ircline/dispatch"
)

// registerTracking subscribes the state-keeping rules on the bus. They are
// plain handlers; because they register before any application handler and
// the bus dispatches in registration order, state is already updated when
// application code observes the same event.
func (c *Client) registerTracking() {
	c.bus.Register(&UserJoinEvent{}, dispatch.HandlerFunc(c.trackUserJoin))
	c.bus.Register(&SelfPartEvent{}, dispatch.HandlerFunc(c.trackSelfPart))
	c.bus.Register(&UserPartEvent{}, dispatch.HandlerFunc(c.trackUserPart))
	c.bus.Register(&UserQuitEvent{}, dispatch.HandlerFunc(c.trackUserQuit))
	c.bus.Register(&KickEvent{}, dispatch.HandlerFunc(c.trackKick))
	c.bus.Register(&NickEvent{}, dispatch.HandlerFunc(c.trackNick))
	c.bus.Register(&ModeEvent{}, dispatch.HandlerFunc(c.trackMode))
	c.bus.Register(&CTCPEvent{}, dispatch.HandlerFunc(c.deriveAction))
	c.bus.Register(&CTCPEvent{}, dispatch.HandlerFunc(c.autoReplyCTCP))
	c.bus.Register(&ReadyEvent{}, dispatch.HandlerFunc(c.autoJoin))
}

// trackUserJoin adds the joining user to the channel's plain members.
func (c *Client) trackUserJoin(ev interface{}) {
	join := ev.(*UserJoinEvent)
	if ch := c.state.Channel(join.Channel); ch != nil {
		ch.AddUser(join.User.Nick())
	}
}

// trackSelfPart drops the channel from the tracked set.
func (c *Client) trackSelfPart(ev interface{}) {
	c.state.DeleteChannel(ev.(*SelfPartEvent).Channel)
}

func (c *Client) trackUserPart(ev interface{}) {
	part := ev.(*UserPartEvent)
	if ch := c.state.Channel(part.Channel); ch != nil {
		ch.RemoveUser(part.User.Nick())
	}
}

// trackUserQuit removes the user from every channel at once.
func (c *Client) trackUserQuit(ev interface{}) {
	c.state.RemoveUser(ev.(*UserQuitEvent).User.Nick())
}

// trackKick removes the victim from the channel, or the whole channel when
// the victim is us.
func (c *Client) trackKick(ev interface{}) {
	kick := ev.(*KickEvent)
	if c.state.IsSelf(kick.Victim) {
		c.state.DeleteChannel(kick.Channel)
		return
	}
	if ch := c.state.Channel(kick.Channel); ch != nil {
		ch.RemoveUser(kick.Victim)
	}
}

// trackNick renames the user on every channel, keeping roles, and updates
// our own nickname when the rename was ours.
func (c *Client) trackNick(ev interface{}) {
	nick := ev.(*NickEvent)
	if c.state.IsSelf(nick.Old) {
		c.state.SetNick(nick.New)
	}
	c.state.RenameUser(nick.Old, nick.New)
}

// trackMode folds operator and voice changes into the channel's role sets.
// Arguments are paired with mode letters per the server's CHANMODES
// classes; a demotion only applies when the user holds that role, and a
// promotion only when the user is on the channel.
func (c *Client) trackMode(ev interface{}) {
	mode := ev.(*ModeEvent)
	ch := c.state.Channel(mode.Channel)
	if ch == nil {
		return
	}

	info := c.state.NetworkInfo()
	prefixModes, _ := info.Prefixes()
	chanmodes := info.Chanmodes()

	adding := true
	arg := 0
	for i := 0; i < len(mode.Mode); i++ {
		m := mode.Mode[i]
		switch m {
		case '+':
			adding = true
			continue
		case '-':
			adding = false
			continue
		}

		var target string
		if takesArgument(m, chanmodes, prefixModes, adding) {
			if arg >= len(mode.Args) {
				return
			}
			target = mode.Args[arg]
			arg++
		}

		switch m {
		case 'o':
			if !adding && ch.IsOperator(target) {
				ch.SetMember(target)
			} else if adding && ch.IsOn(target) {
				ch.SetOperator(target)
			}
		case 'v':
			if !adding && ch.IsVoiced(target) {
				ch.SetMember(target)
			} else if adding && ch.IsOn(target) {
				ch.SetVoiced(target)
			}
		}
	}
}

// takesArgument reports whether a channel mode consumes an argument in the
// given direction. List and always-parameter modes take one either way,
// set-only-parameter modes take one only when adding, and the prefix modes
// always name a nick.
func takesArgument(m byte, chanmodes, prefixModes string, adding bool) bool {
	if strings.IndexByte(prefixModes, m) >= 0 {
		return true
	}
	classes := strings.SplitN(chanmodes, ",", 4)
	if len(classes) >= 1 && strings.IndexByte(classes[0], m) >= 0 {
		return true
	}
	if len(classes) >= 2 && strings.IndexByte(classes[1], m) >= 0 {
		return true
	}
	if len(classes) >= 3 && adding && strings.IndexByte(classes[2], m) >= 0 {
		return true
	}
	return false
}

// deriveAction republishes a ctcp ACTION as an ActionEvent with the
// marker stripped.
func (c *Client) deriveAction(ev interface{}) {
	ctcp := ev.(*CTCPEvent)
	if ctcp.Tag != "ACTION" {
		return
	}
	c.bus.Post(&ActionEvent{
		Sender: ctcp.Sender,
		Target: ctcp.Target,
		Text:   ctcp.Data,
	})
}

// autoReplyCTCP answers VERSION and PING requests. The VERSION reply is
// disabled when no version string is configured.
func (c *Client) autoReplyCTCP(ev interface{}) {
	ctcp := ev.(*CTCPEvent)

	switch ctcp.Tag {
	case "VERSION":
		if len(c.cfg.CTCPVersion) > 0 {
			c.CTCPReply(ctcp.Sender.Nick(), "VERSION", c.cfg.CTCPVersion)
		}
	case "PING":
		c.CTCPReply(ctcp.Sender.Nick(), "PING", ctcp.Data)
	}
}

// autoJoin joins the configured channels once the server is ready.
func (c *Client) autoJoin(ev interface{}) {
	if len(c.cfg.Channels) > 0 {
		c.Join(c.cfg.Channels...)
	}
}
