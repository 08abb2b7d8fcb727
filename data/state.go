/*
Package data tracks the state of an IRC network as seen from the client:
the current nickname, the channels joined, and the users, topics and
banlists on those channels.
*/
package data

import (
	"sort"
	"strings"
	"sync"

	"github.com/ostafen/ircline/irc"
)

// State is the main data container. It represents the client's view of a
// network: who we are and which channels we are on.
type State struct {
	self     irc.Host
	netInfo  *irc.NetworkInfo
	channels map[string]*Channel

	protect *sync.RWMutex
}

// NewState creates a state primed with the nickname the client intends to
// use.
func NewState(nick string) *State {
	return &State{
		self:     irc.Host(nick),
		netInfo:  irc.NewNetworkInfo(),
		channels: make(map[string]*Channel),

		protect: new(sync.RWMutex),
	}
}

// Reset throws away everything learned from the network and primes the
// state for a fresh connection.
func (s *State) Reset(nick string) {
	s.protect.Lock()
	defer s.protect.Unlock()

	s.self = irc.Host(nick)
	s.netInfo = irc.NewNetworkInfo()
	s.channels = make(map[string]*Channel)
}

// Self gets the client's own host. Until the server has echoed something
// back at us this is just the nickname.
func (s *State) Self() irc.Host {
	s.protect.RLock()
	defer s.protect.RUnlock()
	return s.self
}

// SetSelf records the client's own host.
func (s *State) SetSelf(host irc.Host) {
	s.protect.Lock()
	defer s.protect.Unlock()
	s.self = host
}

// Nick gets the client's current nickname.
func (s *State) Nick() string {
	s.protect.RLock()
	defer s.protect.RUnlock()
	return s.self.Nick()
}

// SetNick changes the client's nickname, keeping the username and hostname
// parts of the host if they are known.
func (s *State) SetNick(nick string) {
	s.protect.Lock()
	defer s.protect.Unlock()

	_, username, hostname := s.self.Split()
	if len(username) == 0 && len(hostname) == 0 {
		s.self = irc.Host(nick)
		return
	}
	s.self = irc.Host(nick + "!" + username + "@" + hostname)
}

// IsSelf checks a nickname or host against the client's own nickname.
func (s *State) IsSelf(nickorhost string) bool {
	nick := irc.Nick(nickorhost)
	return strings.ToLower(nick) == strings.ToLower(s.Nick())
}

// NetworkInfo gets the network capabilities learned from the server.
func (s *State) NetworkInfo() *irc.NetworkInfo {
	s.protect.RLock()
	defer s.protect.RUnlock()
	return s.netInfo
}

// Channel returns the channel if we are on it.
func (s *State) Channel(name string) *Channel {
	s.protect.RLock()
	defer s.protect.RUnlock()
	return s.channels[strings.ToLower(name)]
}

// HasChannel checks if we are on a channel.
func (s *State) HasChannel(name string) bool {
	return s.Channel(name) != nil
}

// PutChannel adds or replaces a channel in the state.
func (s *State) PutChannel(ch *Channel) {
	s.protect.Lock()
	defer s.protect.Unlock()
	s.channels[strings.ToLower(ch.Name())] = ch
}

// DeleteChannel removes a channel from the state.
func (s *State) DeleteChannel(name string) {
	s.protect.Lock()
	defer s.protect.Unlock()
	delete(s.channels, strings.ToLower(name))
}

// Channels gets the names of the channels we are on, sorted.
func (s *State) Channels() []string {
	s.protect.RLock()
	defer s.protect.RUnlock()

	names := make([]string, 0, len(s.channels))
	for _, ch := range s.channels {
		names = append(names, ch.Name())
	}
	sort.Strings(names)
	return names
}

// NumChannels counts the channels we are on.
func (s *State) NumChannels() int {
	s.protect.RLock()
	defer s.protect.RUnlock()
	return len(s.channels)
}

// IsOn checks if a user is on a channel we are on.
func (s *State) IsOn(channel, nick string) bool {
	ch := s.Channel(channel)
	return ch != nil && ch.IsOn(nick)
}

// RenameUser changes a user's nickname on every channel he shares with us,
// preserving his role on each.
func (s *State) RenameUser(old, nick string) {
	s.protect.RLock()
	defer s.protect.RUnlock()

	for _, ch := range s.channels {
		ch.RenameUser(old, nick)
	}
}

// RemoveUser removes a user from every channel he shares with us and
// returns the names of the channels he was on, sorted.
func (s *State) RemoveUser(nick string) []string {
	s.protect.RLock()
	defer s.protect.RUnlock()

	var affected []string
	for _, ch := range s.channels {
		if ch.IsOn(nick) {
			ch.RemoveUser(nick)
			affected = append(affected, ch.Name())
		}
	}
	sort.Strings(affected)
	return affected
}
