package client

import (
	"strconv"
	"strings"

	"github.com/ostafen/ircline/data"
	"github.com/ostafen/ircline/irc"
)

// dispatchTable binds every command and numeric the engine consumes. The
// table is closed: a line whose command has no entry here is dropped
// without effect.
func (c *Client) dispatchTable() map[string]func(*irc.Event) {
	return map[string]func(*irc.Event){
		irc.PING:    c.onPing,
		irc.PONG:    c.onPong,
		irc.ERROR:   c.onError,
		irc.PRIVMSG: c.onPrivmsg,
		irc.NOTICE:  c.onNotice,
		irc.JOIN:    c.onJoin,
		irc.PART:    c.onPart,
		irc.QUIT:    c.onQuit,
		irc.KICK:    c.onKick,
		irc.NICK:    c.onNickChange,
		irc.MODE:    c.onMode,
		irc.TOPIC:   c.onTopic,

		irc.RPL_WELCOME:       c.onWelcome,
		irc.RPL_MYINFO:        c.onMyInfo,
		irc.RPL_ISUPPORT:      c.onISupport,
		irc.RPL_TOPIC:         c.onTopicReply,
		irc.RPL_NAMREPLY:      c.onNames,
		irc.RPL_ENDOFNAMES:    c.onEndOfNames,
		irc.RPL_BANLIST:       c.onBanList,
		irc.RPL_ENDOFBANLIST:  c.onEndOfBanList,
		irc.RPL_MOTDSTART:     c.onMOTDStart,
		irc.RPL_MOTD:          c.onMOTDLine,
		irc.RPL_ENDOFMOTD:     c.onEndOfMOTD,
		irc.ERR_NOMOTD:        c.onEndOfMOTD,
		irc.ERR_NICKNAMEINUSE: c.onNickInUse,

		irc.RPL_WHOISUSER:     c.onWhoisUser,
		irc.RPL_WHOISSERVER:   c.onWhoisServer,
		irc.RPL_WHOISOPERATOR: c.onWhoisOperator,
		irc.RPL_WHOISIDLE:     c.onWhoisIdle,
		irc.RPL_WHOISCHANNELS: c.onWhoisChannels,
		irc.RPL_WHOISACCOUNT:  c.onWhoisAccount,
		irc.RPL_ENDOFWHOIS:    c.onEndOfWhois,
	}
}

// onPing answers the server's liveness probe. No event is published.
func (c *Client) onPing(e *irc.Event) {
	c.Pong(e.Message())
}

func (c *Client) onPong(e *irc.Event) {
	c.bus.Post(&PongEvent{Message: e.Message()})
}

// onError surfaces the server's ERROR line. Servers close the connection
// right after sending it, so the disconnect follows on its own.
func (c *Client) onError(e *irc.Event) {
	c.bus.Post(&ErrorEvent{
		Category: ErrServer,
		Message:  e.Message(),
	})
}

func (c *Client) onPrivmsg(e *irc.Event) {
	if len(e.Args) < 2 {
		return
	}
	sender := irc.Host(e.Sender)
	if e.IsCTCP() {
		tag, payload := e.UnpackCTCP()
		c.bus.Post(&CTCPEvent{
			Sender: sender,
			Target: e.Target(),
			Tag:    tag,
			Data:   payload,
		})
		return
	}
	c.bus.Post(&MessageEvent{Sender: sender, Target: e.Target(), Text: e.Args[1]})
}

func (c *Client) onNotice(e *irc.Event) {
	if len(e.Args) < 2 {
		return
	}
	sender := irc.Host(e.Sender)
	if e.IsCTCP() {
		tag, payload := e.UnpackCTCP()
		c.bus.Post(&CTCPReplyEvent{
			Sender: sender,
			Target: e.Target(),
			Tag:    tag,
			Data:   payload,
		})
		return
	}
	c.bus.Post(&NoticeEvent{Sender: sender, Target: e.Target(), Text: e.Args[1]})
}

// onJoin creates the channel and reloads its banlist when we are the one
// joining. Joins by others on a channel we do not track arrived out of
// order and are dropped.
func (c *Client) onJoin(e *irc.Event) {
	if len(e.Args) < 1 {
		return
	}
	channel := e.Target()

	if c.state.IsSelf(e.Sender) {
		if !c.state.HasChannel(channel) {
			ch := data.NewChannel(channel)
			ch.AddUser(e.Nick())
			c.state.PutChannel(ch)
		}
		c.bus.Post(&SelfJoinEvent{Channel: channel})
		c.reloadBans(channel)
		return
	}

	if !c.state.HasChannel(channel) {
		c.log.Debug("dropping join on an untracked channel",
			"channel", channel, "sender", e.Sender)
		return
	}
	c.bus.Post(&UserJoinEvent{Channel: channel, User: irc.Host(e.Sender)})
}

func (c *Client) onPart(e *irc.Event) {
	if len(e.Args) < 1 || !c.state.HasChannel(e.Args[0]) {
		return
	}
	reason := ""
	if len(e.Args) >= 2 {
		reason = e.Args[1]
	}

	if c.state.IsSelf(e.Sender) {
		c.bus.Post(&SelfPartEvent{Channel: e.Args[0], Reason: reason})
		return
	}
	c.bus.Post(&UserPartEvent{
		Channel: e.Args[0],
		User:    irc.Host(e.Sender),
		Reason:  reason,
	})
}

// onQuit reports another user leaving the network. Our own QUIT echoed
// back means the server is about to drop us, which is a disconnect, not
// a quit.
func (c *Client) onQuit(e *irc.Event) {
	reason := ""
	if len(e.Args) >= 1 {
		reason = e.Message()
	}

	if c.state.IsSelf(e.Sender) {
		c.protect.Lock()
		announce := !c.disconnected
		c.disconnected = true
		c.protect.Unlock()

		if announce {
			c.bus.Post(&DisconnectEvent{})
		}
		return
	}
	c.bus.Post(&UserQuitEvent{User: irc.Host(e.Sender), Reason: reason})
}

func (c *Client) onKick(e *irc.Event) {
	if len(e.Args) < 2 || !c.state.HasChannel(e.Args[0]) {
		return
	}
	reason := ""
	if len(e.Args) >= 3 {
		reason = e.Args[2]
	}
	c.bus.Post(&KickEvent{
		Channel: e.Args[0],
		Victim:  e.Args[1],
		By:      irc.Host(e.Sender),
		Reason:  reason,
	})
}

func (c *Client) onNickChange(e *irc.Event) {
	if len(e.Args) < 1 {
		return
	}
	c.bus.Post(&NickEvent{Old: e.Nick(), New: e.Args[0]})
}

// onMode handles channel mode changes. Ban list updates trigger a reload
// of the list; a pure ban change produces no event, but a mode string
// bundling bans with other letters still posts the ModeEvent so the
// remaining letters are not lost. Mode lines with fewer than three
// arguments carry nothing the engine models and are skipped.
func (c *Client) onMode(e *irc.Event) {
	if len(e.Args) < 3 || !c.state.HasChannel(e.Args[0]) {
		return
	}
	channel, mode := e.Args[0], e.Args[1]

	if strings.ContainsRune(mode, 'b') {
		c.reloadBans(channel)
		if len(strings.Trim(mode, "+-b")) == 0 {
			return
		}
	}

	args := make([]string, len(e.Args)-2)
	copy(args, e.Args[2:])
	c.bus.Post(&ModeEvent{Channel: channel, Mode: mode, Args: args})
}

func (c *Client) onTopic(e *irc.Event) {
	if len(e.Args) < 2 {
		return
	}
	ch := c.state.Channel(e.Args[0])
	if ch == nil {
		return
	}
	ch.SetTopic(e.Args[1])
	c.bus.Post(&TopicEvent{
		Channel: e.Args[0],
		Topic:   e.Args[1],
		By:      irc.Host(e.Sender),
	})
}

// onTopicReply is the numeric form sent when joining a channel that has a
// topic set.
func (c *Client) onTopicReply(e *irc.Event) {
	if len(e.Args) < 3 {
		return
	}
	ch := c.state.Channel(e.Args[1])
	if ch == nil {
		return
	}
	ch.SetTopic(e.Args[2])
	c.bus.Post(&TopicEvent{
		Channel: e.Args[1],
		Topic:   e.Args[2],
		By:      irc.Host(e.Sender),
	})
}

// onWelcome records the nickname the server actually accepted, which can
// differ from the one we asked for.
func (c *Client) onWelcome(e *irc.Event) {
	if len(e.Args) < 1 {
		return
	}
	c.state.SetNick(e.Args[0])
}

func (c *Client) onMyInfo(e *irc.Event) {
	c.state.NetworkInfo().ParseMyInfo(e)
}

func (c *Client) onISupport(e *irc.Event) {
	if len(e.Args) < 2 {
		return
	}
	c.state.NetworkInfo().ParseISupport(e)
	c.bus.Post(&ISupportEvent{Support: strings.Join(e.Args[1:], " ")})
}

// onNames folds one names reply into the channel. The first reply of a
// batch clears the previous membership; the batch ends at the end-of-names
// numeric.
func (c *Client) onNames(e *irc.Event) {
	if len(e.Args) < 4 {
		return
	}
	channel := e.Args[2]
	ch := c.state.Channel(channel)
	if ch == nil {
		return
	}

	folded := strings.ToLower(channel)
	if !c.namesPending[folded] {
		c.namesPending[folded] = true
		ch.ClearUsers()
	}

	modes, symbols := c.state.NetworkInfo().Prefixes()
	for _, entry := range strings.Fields(e.Args[3]) {
		nick, role := parseNamesEntry(entry, modes, symbols)
		if len(nick) == 0 {
			continue
		}
		switch role {
		case 'o':
			ch.SetOperator(nick)
		case 'v':
			ch.SetVoiced(nick)
		default:
			ch.AddUser(nick)
		}
	}
}

// parseNamesEntry strips the role symbols off a names entry and reports
// the strongest role found. Userhost-in-names entries degrade to their
// nick.
func parseNamesEntry(entry, modes, symbols string) (nick string, role byte) {
	for len(entry) > 0 {
		i := strings.IndexByte(symbols, entry[0])
		if i < 0 || i >= len(modes) {
			break
		}
		switch modes[i] {
		case 'o':
			role = 'o'
		case 'v':
			if role != 'o' {
				role = 'v'
			}
		}
		entry = entry[1:]
	}
	return irc.Nick(entry), role
}

func (c *Client) onEndOfNames(e *irc.Event) {
	if len(e.Args) < 2 || !c.state.HasChannel(e.Args[1]) {
		return
	}
	delete(c.namesPending, strings.ToLower(e.Args[1]))
	c.bus.Post(&NamesEvent{Channel: e.Args[1]})
}

// onBanList folds one banlist entry into the channel. An entry for a
// channel we no longer track is dropped.
func (c *Client) onBanList(e *irc.Event) {
	if len(e.Args) < 3 {
		return
	}
	if ch := c.state.Channel(e.Args[1]); ch != nil {
		ch.AddBan(irc.Mask(e.Args[2]))
	}
}

// onEndOfBanList terminates a banlist; the entries were already folded in
// as they arrived.
func (c *Client) onEndOfBanList(e *irc.Event) {}

// reloadBans empties the channel's banlist and requests a fresh copy from
// the server.
func (c *Client) reloadBans(channel string) {
	if ch := c.state.Channel(channel); ch != nil {
		ch.ClearBans()
	}
	c.Mode(channel, "+b")
}

func (c *Client) onMOTDStart(e *irc.Event) {
	c.motd = ""
}

func (c *Client) onMOTDLine(e *irc.Event) {
	c.motd += e.Message() + "\n"
}

// onEndOfMOTD publishes the accumulated MOTD and performs the one-time
// ready transition. A repeated MOTD republishes the text but never
// readiness. The missing-MOTD numeric takes the same path with an empty
// accumulator.
func (c *Client) onEndOfMOTD(e *irc.Event) {
	c.bus.Post(&MOTDEvent{MOTD: c.motd})

	if c.ready {
		return
	}
	c.ready = true
	c.setStatus(Ready)
	c.bus.Post(&ReadyEvent{})
}

// onNickInUse reports the collision and, until registration completes,
// retries with the altnick first and then underscore-suffixed variants.
func (c *Client) onNickInUse(e *irc.Event) {
	if len(e.Args) < 2 {
		return
	}
	rejected := e.Args[1]
	c.bus.Post(&NickInUseEvent{Rejected: rejected})

	if c.ready {
		return
	}

	attempt := rejected + "_"
	if c.nickTries == 0 && len(c.cfg.Altnick) > 0 && rejected == c.cfg.Nick {
		attempt = c.cfg.Altnick
	}
	c.nickTries++
	c.state.SetNick(attempt)
	c.Nick(attempt)
}

// onWhoisUser begins a whois record for the nick. A second begin for the
// same nick replaces the pending record.
func (c *Client) onWhoisUser(e *irc.Event) {
	if len(e.Args) < 6 {
		return
	}
	nick := e.Args[1]
	c.whois[strings.ToLower(nick)] = data.NewWhoisBuilder(
		nick, e.Args[2], e.Args[3], e.Args[5])
}

// pendingWhois fetches the in-flight record for a nick. A whois numeric
// with no pending record arrived out of order; callers drop the line when
// nil comes back.
func (c *Client) pendingWhois(nick string) *data.WhoisBuilder {
	return c.whois[strings.ToLower(nick)]
}

func (c *Client) onWhoisServer(e *irc.Event) {
	if len(e.Args) < 4 {
		return
	}
	if b := c.pendingWhois(e.Args[1]); b != nil {
		b.SetServer(e.Args[2], e.Args[3])
	}
}

func (c *Client) onWhoisOperator(e *irc.Event) {
	if len(e.Args) < 2 {
		return
	}
	if b := c.pendingWhois(e.Args[1]); b != nil {
		b.SetOperator()
	}
}

func (c *Client) onWhoisIdle(e *irc.Event) {
	if len(e.Args) < 3 {
		return
	}
	b := c.pendingWhois(e.Args[1])
	if b == nil {
		return
	}
	seconds, err := strconv.Atoi(e.Args[2])
	if err != nil {
		return
	}
	b.SetIdle(seconds)
}

func (c *Client) onWhoisChannels(e *irc.Event) {
	if len(e.Args) < 3 {
		return
	}
	b := c.pendingWhois(e.Args[1])
	if b == nil {
		return
	}
	modes, symbols := c.state.NetworkInfo().Prefixes()
	b.AddChannels(strings.Fields(e.Args[2]), modes, symbols)
}

func (c *Client) onWhoisAccount(e *irc.Event) {
	if len(e.Args) < 3 {
		return
	}
	if b := c.pendingWhois(e.Args[1]); b != nil {
		b.SetAccount(e.Args[2])
	}
}

// onEndOfWhois finalizes the pending record, removes it from the pending
// set, and publishes it.
func (c *Client) onEndOfWhois(e *irc.Event) {
	if len(e.Args) < 2 {
		return
	}
	folded := strings.ToLower(e.Args[1])
	b := c.whois[folded]
	if b == nil {
		return
	}
	delete(c.whois, folded)
	c.bus.Post(&WhoisEvent{Whois: b.Build()})
}
