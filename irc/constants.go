package irc

// IRC commands, 1-1 constant to string lookups for use when registering
// handlers and building outgoing messages.
const (
	ERROR   = "ERROR"
	INVITE  = "INVITE"
	JOIN    = "JOIN"
	KICK    = "KICK"
	MODE    = "MODE"
	NICK    = "NICK"
	NOTICE  = "NOTICE"
	PART    = "PART"
	PASS    = "PASS"
	PING    = "PING"
	PONG    = "PONG"
	PRIVMSG = "PRIVMSG"
	QUIT    = "QUIT"
	TOPIC   = "TOPIC"
	USER    = "USER"
	WHOIS   = "WHOIS"
)

// Numeric replies. Only the numerics the engine consumes are named here,
// the rest can be registered by their string form.
const (
	RPL_WELCOME       = "001"
	RPL_MYINFO        = "004"
	RPL_ISUPPORT      = "005"
	RPL_WHOISUSER     = "311"
	RPL_WHOISSERVER   = "312"
	RPL_WHOISOPERATOR = "313"
	RPL_WHOISIDLE     = "317"
	RPL_ENDOFWHOIS    = "318"
	RPL_WHOISCHANNELS = "319"
	RPL_WHOISACCOUNT  = "330"
	RPL_TOPIC         = "332"
	RPL_NAMREPLY      = "353"
	RPL_ENDOFNAMES    = "366"
	RPL_BANLIST       = "367"
	RPL_ENDOFBANLIST  = "368"
	RPL_MOTD          = "372"
	RPL_MOTDSTART     = "375"
	RPL_ENDOFMOTD     = "376"
	ERR_NOMOTD        = "422"
	ERR_NICKNAMEINUSE = "433"
)
