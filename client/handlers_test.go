package client

import (
	"strings"
	"testing"
	"time"
)

// join puts the client on a channel and waits for the read loop to settle.
// Outbound lines produced along the way, the banlist request included, are
// discarded.
func (tc *testClient) join(t *testing.T, channel string) {
	t.Helper()
	tc.conn.FeedLine(":me!user@host JOIN :" + channel)
	tc.sync(t)
}

func TestClient_Privmsg(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	msgs := record(tc.Client, &MessageEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":bob!rob@host.com PRIVMSG #go :hello there")
	tc.conn.FeedLine(":bob!rob@host.com PRIVMSG me :psst")
	tc.sync(t)

	if msgs.len() != 2 {
		t.Fatal("Expected two message events, got:", msgs.len())
	}
	ev := msgs.at(0).(*MessageEvent)
	if got := ev.Sender.Nick(); got != "bob" {
		t.Errorf("Expected: %s, got: %s", "bob", got)
	}
	if ev.Target != "#go" {
		t.Errorf("Expected: %s, got: %s", "#go", ev.Target)
	}
	if ev.Text != "hello there" {
		t.Errorf("Expected: %s, got: %s", "hello there", ev.Text)
	}

	ev = msgs.at(1).(*MessageEvent)
	if ev.Target != "me" {
		t.Errorf("Expected: %s, got: %s", "me", ev.Target)
	}
	if ev.Text != "psst" {
		t.Errorf("Expected: %s, got: %s", "psst", ev.Text)
	}
}

func TestClient_Notice(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	notices := record(tc.Client, &NoticeEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":bob!rob@host.com NOTICE me :away right now")
	tc.sync(t)

	if notices.len() != 1 {
		t.Fatal("Expected one notice event, got:", notices.len())
	}
	ev := notices.at(0).(*NoticeEvent)
	if got := ev.Sender.Nick(); got != "bob" {
		t.Errorf("Expected: %s, got: %s", "bob", got)
	}
	if ev.Text != "away right now" {
		t.Errorf("Expected: %s, got: %s", "away right now", ev.Text)
	}
}

func TestClient_CTCP(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	requests := record(tc.Client, &CTCPEvent{})
	replies := record(tc.Client, &CTCPReplyEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":bob!rob@host.com PRIVMSG me :\x01VERSION\x01")
	tc.conn.FeedLine(":bob!rob@host.com NOTICE me :\x01PING 12345\x01")
	tc.sync(t)

	if requests.len() != 1 {
		t.Fatal("Expected one ctcp event, got:", requests.len())
	}
	req := requests.at(0).(*CTCPEvent)
	if req.Tag != "VERSION" {
		t.Errorf("Expected: %s, got: %s", "VERSION", req.Tag)
	}
	if req.Data != "" {
		t.Errorf("Expected no data, got: %s", req.Data)
	}

	if replies.len() != 1 {
		t.Fatal("Expected one ctcp reply event, got:", replies.len())
	}
	rep := replies.at(0).(*CTCPReplyEvent)
	if rep.Tag != "PING" {
		t.Errorf("Expected: %s, got: %s", "PING", rep.Tag)
	}
	if rep.Data != "12345" {
		t.Errorf("Expected: %s, got: %s", "12345", rep.Data)
	}
}

func TestClient_CTCPAutoReplies(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{CTCPVersion: "ircline 1.0"})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":bob!rob@host.com PRIVMSG me :\x01VERSION\x01")
	tc.expectWrite(t, "NICK ")
	tc.expectWrite(t, "USER ")
	tc.expectWrite(t, "NOTICE bob :\x01VERSION ircline 1.0\x01")

	tc.conn.FeedLine(":bob!rob@host.com PRIVMSG me :\x01PING 12345\x01")
	tc.expectWrite(t, "NOTICE bob :\x01PING 12345\x01")
}

func TestClient_CTCPVersionDisabled(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":bob!rob@host.com PRIVMSG me :\x01VERSION\x01")
	tc.conn.FeedLine("PING :sync")
	for {
		line, ok := tc.conn.NextWrite(testTimeout)
		if !ok {
			t.Fatal("Expected: PONG :sync, got nothing")
		}
		if strings.HasPrefix(line, "NOTICE") {
			t.Error("Unexpected:", line)
		}
		if line == "PONG :sync" {
			break
		}
	}
}

func TestClient_ActionDerived(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	ctcps := record(tc.Client, &CTCPEvent{})
	actions := record(tc.Client, &ActionEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":bob!rob@host.com PRIVMSG #go :\x01ACTION waves slowly\x01")
	tc.sync(t)

	if ctcps.len() != 1 {
		t.Error("Expected one ctcp event, got:", ctcps.len())
	}
	if actions.len() != 1 {
		t.Fatal("Expected one action event, got:", actions.len())
	}
	ev := actions.at(0).(*ActionEvent)
	if got := ev.Sender.Nick(); got != "bob" {
		t.Errorf("Expected: %s, got: %s", "bob", got)
	}
	if ev.Target != "#go" {
		t.Errorf("Expected: %s, got: %s", "#go", ev.Target)
	}
	if ev.Text != "waves slowly" {
		t.Errorf("Expected: %s, got: %s", "waves slowly", ev.Text)
	}
}

func TestClient_Pong(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	pongs := record(tc.Client, &PongEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":irc.test.net PONG irc.test.net :latency-probe")
	tc.sync(t)

	if pongs.len() != 1 {
		t.Fatal("Expected one pong event, got:", pongs.len())
	}
	if got := pongs.at(0).(*PongEvent).Message; got != "latency-probe" {
		t.Errorf("Expected: %s, got: %s", "latency-probe", got)
	}
}

func TestClient_Whois(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	whoises := record(tc.Client, &WhoisEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":irc.test.net 311 me bob rob host.com * :Robert Paulson")
	tc.conn.FeedLine(":irc.test.net 312 me bob irc.test.net :Test server")
	tc.conn.FeedLine(":irc.test.net 313 me bob :is an IRC operator")
	tc.conn.FeedLine(":irc.test.net 317 me bob 42 1609459200 :seconds idle, signon time")
	tc.conn.FeedLine(":irc.test.net 319 me bob :@#adm +#help #plain")
	tc.conn.FeedLine(":irc.test.net 330 me bob rob_acc :is logged in as")
	tc.conn.FeedLine(":irc.test.net 318 me bob :End of /WHOIS list.")
	tc.sync(t)

	if whoises.len() != 1 {
		t.Fatal("Expected one whois event, got:", whoises.len())
	}
	ev := whoises.at(0).(*WhoisEvent)
	if ev.Nick != "bob" {
		t.Errorf("Expected: %s, got: %s", "bob", ev.Nick)
	}
	if ev.Username != "rob" {
		t.Errorf("Expected: %s, got: %s", "rob", ev.Username)
	}
	if ev.Hostname != "host.com" {
		t.Errorf("Expected: %s, got: %s", "host.com", ev.Hostname)
	}
	if ev.Realname != "Robert Paulson" {
		t.Errorf("Expected: %s, got: %s", "Robert Paulson", ev.Realname)
	}
	if ev.Server != "irc.test.net" {
		t.Errorf("Expected: %s, got: %s", "irc.test.net", ev.Server)
	}
	if ev.ServerInfo != "Test server" {
		t.Errorf("Expected: %s, got: %s", "Test server", ev.ServerInfo)
	}
	if !ev.Operator {
		t.Error("Expected the operator flag to be set")
	}
	if ev.Idle != 42*time.Second {
		t.Error("Unexpected:", ev.Idle, "should be:", 42*time.Second)
	}
	if ev.Account != "rob_acc" {
		t.Errorf("Expected: %s, got: %s", "rob_acc", ev.Account)
	}

	if len(ev.Channels) != 3 {
		t.Fatal("Expected three channels, got:", len(ev.Channels))
	}
	checks := []struct {
		name     string
		operator bool
		voiced   bool
	}{
		{"#adm", true, false},
		{"#help", false, true},
		{"#plain", false, false},
	}
	for i, check := range checks {
		ch := ev.Channels[i]
		if ch.Name != check.name {
			t.Errorf("Expected: %s, got: %s", check.name, ch.Name)
		}
		if ch.Operator != check.operator {
			t.Error("Unexpected operator flag on:", ch.Name)
		}
		if ch.Voiced != check.voiced {
			t.Error("Unexpected voiced flag on:", ch.Name)
		}
	}

	// The record is consumed; a repeated terminator has nothing to build.
	tc.conn.FeedLine(":irc.test.net 318 me bob :End of /WHOIS list.")
	tc.sync(t)
	if whoises.len() != 1 {
		t.Error("Expected one whois event, got:", whoises.len())
	}
}

func TestClient_WhoisOutOfOrder(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	whoises := record(tc.Client, &WhoisEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":irc.test.net 312 me bob irc.test.net :Test server")
	tc.conn.FeedLine(":irc.test.net 313 me bob :is an IRC operator")
	tc.conn.FeedLine(":irc.test.net 318 me bob :End of /WHOIS list.")
	tc.sync(t)

	if whoises.len() != 0 {
		t.Error("Unexpected:", whoises.at(0))
	}
}

func TestClient_WhoisRestart(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	whoises := record(tc.Client, &WhoisEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":irc.test.net 311 me bob rob host.com * :First")
	tc.conn.FeedLine(":irc.test.net 311 me bob rob host.com * :Second")
	tc.conn.FeedLine(":irc.test.net 318 me bob :End of /WHOIS list.")
	tc.sync(t)

	if whoises.len() != 1 {
		t.Fatal("Expected one whois event, got:", whoises.len())
	}
	if got := whoises.at(0).(*WhoisEvent).Realname; got != "Second" {
		t.Errorf("Expected: %s, got: %s", "Second", got)
	}
}

func TestClient_Names(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	names := record(tc.Client, &NamesEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.join(t, "#go")

	tc.conn.FeedLine(":irc.test.net 353 me = #go :@chanop +helper me")
	tc.conn.FeedLine(":irc.test.net 353 me = #go :lurker!l@host.com @+dual")
	tc.conn.FeedLine(":irc.test.net 366 me #go :End of /NAMES list.")
	tc.sync(t)

	if names.len() != 1 {
		t.Fatal("Expected one names event, got:", names.len())
	}
	if got := names.at(0).(*NamesEvent).Channel; got != "#go" {
		t.Errorf("Expected: %s, got: %s", "#go", got)
	}

	ch := tc.State().Channel("#go")
	if ch == nil {
		t.Fatal("Expected the channel to be tracked")
	}
	if got := ch.Operators(); !sameNicks(got, []string{"chanop", "dual"}) {
		t.Error("Unexpected:", got)
	}
	if got := ch.Voiced(); !sameNicks(got, []string{"helper"}) {
		t.Error("Unexpected:", got)
	}
	if got := ch.Members(); !sameNicks(got, []string{"lurker", "me"}) {
		t.Error("Unexpected:", got)
	}
}

func TestClient_NamesRefresh(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	tc.connect(t)
	defer tc.Close()

	tc.join(t, "#go")

	tc.conn.FeedLine(":irc.test.net 353 me = #go :@chanop lurker me")
	tc.conn.FeedLine(":irc.test.net 366 me #go :End of /NAMES list.")
	tc.conn.FeedLine(":irc.test.net 353 me = #go :@chanop me")
	tc.conn.FeedLine(":irc.test.net 366 me #go :End of /NAMES list.")
	tc.sync(t)

	ch := tc.State().Channel("#go")
	if ch.IsOn("lurker") {
		t.Error("Expected the second batch to replace the first")
	}
	if !ch.IsOperator("chanop") || !ch.IsMember("me") {
		t.Error("Unexpected:", ch.Users())
	}
}

func TestClient_NamesUnknownChannel(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	names := record(tc.Client, &NamesEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":irc.test.net 353 me = #other :@chanop lurker")
	tc.conn.FeedLine(":irc.test.net 366 me #other :End of /NAMES list.")
	tc.sync(t)

	if names.len() != 0 {
		t.Error("Unexpected:", names.at(0))
	}
	if tc.State().HasChannel("#other") {
		t.Error("Expected the channel to stay untracked")
	}
}

func TestClient_BanList(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	modes := record(tc.Client, &ModeEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":me!user@host JOIN :#go")
	tc.expectWrite(t, "NICK ")
	tc.expectWrite(t, "USER ")
	tc.expectWrite(t, "MODE #go +b")

	tc.conn.FeedLine(":irc.test.net 367 me #go *!*@evil.com irc.test.net 1609459200")
	tc.conn.FeedLine(":irc.test.net 367 me #go *!*@bad.org irc.test.net 1609459201")
	tc.conn.FeedLine(":irc.test.net 368 me #go :End of Channel Ban List")
	tc.sync(t)

	ch := tc.State().Channel("#go")
	bans := ch.Bans()
	if len(bans) != 2 {
		t.Fatal("Expected two bans, got:", len(bans))
	}
	if bans[0] != "*!*@evil.com" || bans[1] != "*!*@bad.org" {
		t.Error("Unexpected:", bans)
	}

	// A ban mode change reloads the list instead of publishing a mode
	// event.
	tc.conn.FeedLine(":op!o@host.com MODE #go +b *!*@worse.net")
	tc.expectWrite(t, "MODE #go +b")
	tc.conn.FeedLine(":irc.test.net 367 me #go *!*@worse.net irc.test.net 1609459202")
	tc.conn.FeedLine(":irc.test.net 368 me #go :End of Channel Ban List")
	tc.sync(t)

	bans = ch.Bans()
	if len(bans) != 1 || bans[0] != "*!*@worse.net" {
		t.Error("Unexpected:", bans)
	}
	if modes.len() != 0 {
		t.Error("Unexpected:", modes.at(0))
	}
}

func TestClient_BanListUnknownChannel(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":irc.test.net 367 me #other *!*@evil.com irc.test.net 1609459200")
	tc.sync(t)

	if tc.State().HasChannel("#other") {
		t.Error("Expected the channel to stay untracked")
	}
}

func TestClient_Topic(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	topics := record(tc.Client, &TopicEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.join(t, "#go")

	tc.conn.FeedLine(":irc.test.net 332 me #go :Welcome to #go")
	tc.conn.FeedLine(":bob!rob@host.com TOPIC #go :All about concurrency")
	tc.conn.FeedLine(":bob!rob@host.com TOPIC #other :Untracked")
	tc.sync(t)

	if got := tc.State().Channel("#go").Topic(); got != "All about concurrency" {
		t.Errorf("Expected: %s, got: %s", "All about concurrency", got)
	}

	if topics.len() != 2 {
		t.Fatal("Expected two topic events, got:", topics.len())
	}
	ev := topics.at(0).(*TopicEvent)
	if ev.Topic != "Welcome to #go" {
		t.Errorf("Expected: %s, got: %s", "Welcome to #go", ev.Topic)
	}
	if got := ev.By.String(); got != "irc.test.net" {
		t.Errorf("Expected: %s, got: %s", "irc.test.net", got)
	}
	ev = topics.at(1).(*TopicEvent)
	if got := ev.By.Nick(); got != "bob" {
		t.Errorf("Expected: %s, got: %s", "bob", got)
	}
}

func TestClient_ISupport(t *testing.T) {
	t.Parallel()

	tc := newTestClient(t, Config{})
	supports := record(tc.Client, &ISupportEvent{})
	tc.connect(t)
	defer tc.Close()

	tc.conn.FeedLine(":irc.test.net 004 me irc.test.net testircd-1.2 acCior beIiklmnostv")
	tc.conn.FeedLine(":irc.test.net 005 me PREFIX=(qov)~@+ CHANTYPES=#& NICKLEN=20 :are supported by this server")
	tc.sync(t)

	info := tc.State().NetworkInfo()
	if got := info.ServerName(); got != "irc.test.net" {
		t.Errorf("Expected: %s, got: %s", "irc.test.net", got)
	}
	if got := info.IrcdVersion(); got != "testircd-1.2" {
		t.Errorf("Expected: %s, got: %s", "testircd-1.2", got)
	}
	if got := info.Prefix(); got != "(qov)~@+" {
		t.Errorf("Expected: %s, got: %s", "(qov)~@+", got)
	}
	if got := info.Chantypes(); got != "#&" {
		t.Errorf("Expected: %s, got: %s", "#&", got)
	}
	if got := info.Nicklen(); got != 20 {
		t.Error("Unexpected:", got, "should be:", 20)
	}

	if supports.len() != 1 {
		t.Fatal("Expected one isupport event, got:", supports.len())
	}
	exp := "PREFIX=(qov)~@+ CHANTYPES=#& NICKLEN=20 are supported by this server"
	if got := supports.at(0).(*ISupportEvent).Support; got != exp {
		t.Errorf("Expected: %s, got: %s", exp, got)
	}
}

// sameNicks compares two nick slices element by element, ignoring case.
func sameNicks(got, exp []string) bool {
	if len(got) != len(exp) {
		return false
	}
	for i := range got {
		if !strings.EqualFold(got[i], exp[i]) {
			return false
		}
	}
	return true
}
