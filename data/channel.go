package data

import (
	"sort"
	"strings"
	"sync"

	"github.com/ostafen/ircline/irc"
)

// Channel encapsulates all the data associated with a channel: its topic,
// its banlist, and the users inside it grouped by their channel role. A
// user is a member, voiced, or an operator, never more than one at a time.
type Channel struct {
	name  string
	topic string

	members   map[string]string
	voiced    map[string]string
	operators map[string]string

	bans []irc.Mask

	protect *sync.RWMutex
}

// NewChannel instantiates a channel object.
func NewChannel(name string) *Channel {
	return &Channel{
		name:      name,
		members:   make(map[string]string),
		voiced:    make(map[string]string),
		operators: make(map[string]string),

		protect: new(sync.RWMutex),
	}
}

// Name gets the name of the channel.
func (c *Channel) Name() string {
	return c.name
}

// Topic gets the topic of the channel.
func (c *Channel) Topic() string {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return c.topic
}

// SetTopic sets the topic of the channel.
func (c *Channel) SetTopic(topic string) {
	c.protect.Lock()
	defer c.protect.Unlock()
	c.topic = topic
}

// AddUser adds a user to the channel as a plain member. It does nothing if
// the user is already present in any role.
func (c *Channel) AddUser(nick string) {
	c.protect.Lock()
	defer c.protect.Unlock()

	folded := strings.ToLower(nick)
	if c.contains(folded) {
		return
	}
	c.members[folded] = nick
}

// RemoveUser removes a user from the channel, whatever his role.
func (c *Channel) RemoveUser(nick string) {
	c.protect.Lock()
	defer c.protect.Unlock()
	c.remove(strings.ToLower(nick))
}

// SetOperator makes a user an operator, adding him if he was not present.
func (c *Channel) SetOperator(nick string) {
	c.move(nick, c.operators)
}

// SetVoiced makes a user voiced, adding him if he was not present.
func (c *Channel) SetVoiced(nick string) {
	c.move(nick, c.voiced)
}

// SetMember demotes a user to a plain member, adding him if he was not
// present.
func (c *Channel) SetMember(nick string) {
	c.move(nick, c.members)
}

func (c *Channel) move(nick string, to map[string]string) {
	c.protect.Lock()
	defer c.protect.Unlock()

	folded := strings.ToLower(nick)
	c.remove(folded)
	to[folded] = nick
}

// RenameUser changes a user's nickname, preserving his role. Returns false
// if the user was not on the channel.
func (c *Channel) RenameUser(old, nick string) bool {
	c.protect.Lock()
	defer c.protect.Unlock()

	oldFolded, folded := strings.ToLower(old), strings.ToLower(nick)
	for _, set := range []map[string]string{c.members, c.voiced, c.operators} {
		if _, ok := set[oldFolded]; ok {
			delete(set, oldFolded)
			set[folded] = nick
			return true
		}
	}
	return false
}

// Helpers that assume the lock is held.
func (c *Channel) contains(folded string) bool {
	_, m := c.members[folded]
	_, v := c.voiced[folded]
	_, o := c.operators[folded]
	return m || v || o
}

func (c *Channel) remove(folded string) {
	delete(c.members, folded)
	delete(c.voiced, folded)
	delete(c.operators, folded)
}

// IsOn checks if a user is on the channel in any role.
func (c *Channel) IsOn(nick string) bool {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return c.contains(strings.ToLower(nick))
}

// IsMember checks if a user is a plain member of the channel.
func (c *Channel) IsMember(nick string) bool {
	c.protect.RLock()
	defer c.protect.RUnlock()
	_, ok := c.members[strings.ToLower(nick)]
	return ok
}

// IsVoiced checks if a user is voiced on the channel.
func (c *Channel) IsVoiced(nick string) bool {
	c.protect.RLock()
	defer c.protect.RUnlock()
	_, ok := c.voiced[strings.ToLower(nick)]
	return ok
}

// IsOperator checks if a user is an operator on the channel.
func (c *Channel) IsOperator(nick string) bool {
	c.protect.RLock()
	defer c.protect.RUnlock()
	_, ok := c.operators[strings.ToLower(nick)]
	return ok
}

// Users gets the nicknames of everyone on the channel, sorted.
func (c *Channel) Users() []string {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return collect(c.members, c.voiced, c.operators)
}

// Members gets the nicknames of the plain members of the channel, sorted.
func (c *Channel) Members() []string {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return collect(c.members)
}

// Voiced gets the nicknames of the voiced users of the channel, sorted.
func (c *Channel) Voiced() []string {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return collect(c.voiced)
}

// Operators gets the nicknames of the operators of the channel, sorted.
func (c *Channel) Operators() []string {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return collect(c.operators)
}

func collect(sets ...map[string]string) []string {
	var n int
	for _, set := range sets {
		n += len(set)
	}

	nicks := make([]string, 0, n)
	for _, set := range sets {
		for _, nick := range set {
			nicks = append(nicks, nick)
		}
	}
	sort.Strings(nicks)
	return nicks
}

// NumUsers counts the users on the channel.
func (c *Channel) NumUsers() int {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return len(c.members) + len(c.voiced) + len(c.operators)
}

// ClearUsers empties all the role sets of the channel.
func (c *Channel) ClearUsers() {
	c.protect.Lock()
	defer c.protect.Unlock()
	c.members = make(map[string]string)
	c.voiced = make(map[string]string)
	c.operators = make(map[string]string)
}

// AddBan adds a banmask to the channel's banlist if not already present.
func (c *Channel) AddBan(mask irc.Mask) {
	c.protect.Lock()
	defer c.protect.Unlock()

	if c.indexBan(mask) >= 0 {
		return
	}
	c.bans = append(c.bans, mask)
}

// DeleteBan deletes a banmask from the banlist.
func (c *Channel) DeleteBan(mask irc.Mask) bool {
	c.protect.Lock()
	defer c.protect.Unlock()

	i := c.indexBan(mask)
	if i < 0 {
		return false
	}

	ln := len(c.bans)
	c.bans[i], c.bans[ln-1] = c.bans[ln-1], c.bans[i]
	c.bans = c.bans[:ln-1]
	return true
}

// HasBan checks to see if a specific mask is present in the banlist.
func (c *Channel) HasBan(mask irc.Mask) bool {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return c.indexBan(mask) >= 0
}

func (c *Channel) indexBan(mask irc.Mask) int {
	folded := strings.ToLower(string(mask))
	for i := 0; i < len(c.bans); i++ {
		if strings.ToLower(string(c.bans[i])) == folded {
			return i
		}
	}
	return -1
}

// Bans gets a copy of the channel's banlist.
func (c *Channel) Bans() []irc.Mask {
	c.protect.RLock()
	defer c.protect.RUnlock()

	bans := make([]irc.Mask, len(c.bans))
	copy(bans, c.bans)
	return bans
}

// SetBans replaces the channel's banlist.
func (c *Channel) SetBans(bans []irc.Mask) {
	c.protect.Lock()
	defer c.protect.Unlock()

	c.bans = make([]irc.Mask, len(bans))
	copy(c.bans, bans)
}

// ClearBans empties the channel's banlist.
func (c *Channel) ClearBans() {
	c.protect.Lock()
	defer c.protect.Unlock()
	c.bans = nil
}

// IsBanned checks a user's host against the banlist.
func (c *Channel) IsBanned(host irc.Host) bool {
	c.protect.RLock()
	defer c.protect.RUnlock()

	for _, mask := range c.bans {
		if host.Match(mask) {
			return true
		}
	}
	return false
}
