package irc

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// These constants are the mappings from 004 and 005 events to their
// respective spots inside the NetworkInfo type.
const (
	INFO_CASEMAPPING = "CASEMAPPING"
	INFO_PREFIX      = "PREFIX"
	INFO_CHANTYPES   = "CHANTYPES"
	INFO_CHANMODES   = "CHANMODES"
	INFO_NICKLEN     = "NICKLEN"
)

// These constants are healthy defaults for a NetworkInfo type, used until
// the server tells us otherwise.
const (
	INFO_DEFAULT_SERVERNAME  = "unknown"
	INFO_DEFAULT_IRCDVERSION = "unknown"
	INFO_DEFAULT_USERMODES   = "acCiorRswx"
	INFO_DEFAULT_CASEMAPPING = "ascii"
	INFO_DEFAULT_PREFIX      = "(ov)@+"
	INFO_DEFAULT_CHANTYPES   = "#&~"
	INFO_DEFAULT_CHANMODES   = "beI,k,l,imnOPRstz"
	INFO_DEFAULT_NICKLEN     = 9
)

var (
	capsRegexp = regexp.MustCompile(`^(?i)([A-Z0-9]+)(?:=([^\s]+))?$`)
)

// NetworkInfo records the server's capabilities as learned from the 004
// and 005 replies. It aids in parsing the rest of the protocol, most
// importantly channel detection and nick prefix decoding.
type NetworkInfo struct {
	// The server's self-defined name.
	serverName string
	// The ircd's version.
	ircdVersion string
	// The user modes.
	usermodes string
	// The string casemapping.
	casemapping string
	// The prefix mapping for channel user modes, in (modes)symbols form.
	prefix string
	// The channel types supported by the server, usually #&~.
	chantypes string
	// The channel modes allowed to be set by the server.
	chanmodes string
	// The max length of nicknames.
	nicklen int

	// The other flags sent in.
	extras map[string]string

	protect *sync.RWMutex
}

// NewNetworkInfo initializes a networkinfo struct with the defaults.
func NewNetworkInfo() *NetworkInfo {
	return &NetworkInfo{
		serverName:  INFO_DEFAULT_SERVERNAME,
		ircdVersion: INFO_DEFAULT_IRCDVERSION,
		usermodes:   INFO_DEFAULT_USERMODES,
		casemapping: INFO_DEFAULT_CASEMAPPING,
		prefix:      INFO_DEFAULT_PREFIX,
		chantypes:   INFO_DEFAULT_CHANTYPES,
		chanmodes:   INFO_DEFAULT_CHANMODES,
		nicklen:     INFO_DEFAULT_NICKLEN,
		extras:      make(map[string]string),

		protect: new(sync.RWMutex),
	}
}

// ServerName gets the servername from the NetworkInfo.
func (p *NetworkInfo) ServerName() string {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.serverName
}

// IrcdVersion gets the ircd version from the NetworkInfo.
func (p *NetworkInfo) IrcdVersion() string {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.ircdVersion
}

// Usermodes gets the usermodes from the NetworkInfo.
func (p *NetworkInfo) Usermodes() string {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.usermodes
}

// Casemapping gets the casemapping from the NetworkInfo.
func (p *NetworkInfo) Casemapping() string {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.casemapping
}

// Prefix gets the raw prefix mapping from the NetworkInfo.
func (p *NetworkInfo) Prefix() string {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.prefix
}

// Prefixes splits the prefix mapping into its mode letters and display
// symbols. A mapping of "(ov)@+" yields ("ov", "@+"). Falls back to the
// default mapping if the advertised one is malformed.
func (p *NetworkInfo) Prefixes() (modes, symbols string) {
	prefix := p.Prefix()

	modes, symbols, ok := splitPrefix(prefix)
	if !ok {
		modes, symbols, _ = splitPrefix(INFO_DEFAULT_PREFIX)
	}
	return modes, symbols
}

func splitPrefix(prefix string) (modes, symbols string, ok bool) {
	if len(prefix) == 0 || prefix[0] != '(' {
		return "", "", false
	}
	end := strings.IndexByte(prefix, ')')
	if end < 0 {
		return "", "", false
	}
	modes, symbols = prefix[1:end], prefix[end+1:]
	if len(modes) != len(symbols) {
		return "", "", false
	}
	return modes, symbols, true
}

// Chantypes gets the chantypes from the NetworkInfo.
func (p *NetworkInfo) Chantypes() string {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.chantypes
}

// Chanmodes gets the chanmodes from the NetworkInfo.
func (p *NetworkInfo) Chanmodes() string {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.chanmodes
}

// Nicklen gets the nicklen from the NetworkInfo.
func (p *NetworkInfo) Nicklen() int {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.nicklen
}

// Extra gets any non-hardcoded capability from the NetworkInfo.
func (p *NetworkInfo) Extra(key string) string {
	p.protect.RLock()
	defer p.protect.RUnlock()
	return p.extras[key]
}

// Extras clones the non-hardcoded capability map and returns it.
func (p *NetworkInfo) Extras() map[string]string {
	p.protect.RLock()
	defer p.protect.RUnlock()

	cloned := make(map[string]string, len(p.extras))
	for k, v := range p.extras {
		cloned[k] = v
	}

	return cloned
}

// IsChannel checks to see if the target is a channel based on this
// instance's chantypes.
func (p *NetworkInfo) IsChannel(target string) (isChan bool) {
	if len(target) > 0 {
		p.protect.RLock()
		isChan = strings.ContainsRune(p.chantypes, rune(target[0]))
		p.protect.RUnlock()
	}
	return isChan
}

// ParseISupport folds all values of a 005 event into the current
// networkinfo object.
func (p *NetworkInfo) ParseISupport(e *Event) {
	p.protect.Lock()
	defer p.protect.Unlock()

	if len(e.Args) < 2 {
		return
	}

	for _, arg := range e.Args[1:] {
		if strings.Contains(arg, " ") {
			continue
		}

		regexResult := capsRegexp.FindStringSubmatch(arg)
		if regexResult == nil {
			continue
		}
		name, value := regexResult[1], regexResult[2]

		switch name {
		case INFO_CASEMAPPING:
			p.casemapping = value
		case INFO_PREFIX:
			p.prefix = value
		case INFO_CHANTYPES:
			p.chantypes = value
		case INFO_CHANMODES:
			p.chanmodes = value
		case INFO_NICKLEN:
			if i, err := strconv.Atoi(value); err == nil {
				p.nicklen = i
			}
		default:
			if value == "" {
				value = "true"
			}
			p.extras[name] = value
		}
	}
}

// ParseMyInfo folds the values of a 004 event into the current networkinfo
// object.
func (p *NetworkInfo) ParseMyInfo(e *Event) {
	p.protect.Lock()
	defer p.protect.Unlock()

	if len(e.Args) < 4 {
		return
	}

	p.serverName = e.Args[1]
	p.ircdVersion = e.Args[2]
	p.usermodes = e.Args[3]
}
