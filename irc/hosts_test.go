package irc

import (
	"testing"
)

func TestHost_Fragments(t *testing.T) {
	h := Host("nick!user@host")

	if h.Nick() != "nick" {
		t.Error("Should have nick as a nick, had:", h.Nick())
	}
	if h.Username() != "user" {
		t.Error("Should have user as a user, had:", h.Username())
	}
	if h.Hostname() != "host" {
		t.Error("Should have host as a host, had:", h.Hostname())
	}
	if h.String() != "nick!user@host" {
		t.Errorf("Expected: %s, got: %s", "nick!user@host", h.String())
	}

	n, u, hn := h.Split()
	if n != "nick" || u != "user" || hn != "host" {
		t.Error("Expected full fragments, got:", n, u, hn)
	}
}

func TestHost_Degrades(t *testing.T) {
	server := Host("irc.example.org")

	if server.Nick() != "irc.example.org" {
		t.Error("A bare name should read back as the nick, had:", server.Nick())
	}
	if server.Username() != "" || server.Hostname() != "" {
		t.Error("A bare name should have empty user and host fragments.")
	}
}

func TestHost_IsValid(t *testing.T) {
	tests := []struct {
		host  string
		valid bool
	}{
		{"nick!user@host", true},
		{"n[i]ck`!u@h.com", true},
		{"nick", false},
		{"nick!user", false},
		{"nick@host", false},
		{"!user@host", false},
		{"", false},
	}

	for _, test := range tests {
		if got := Host(test.host).IsValid(); got != test.valid {
			t.Errorf("Expected IsValid(%q) to be %v", test.host, test.valid)
		}
	}
}

func TestMask_Match(t *testing.T) {
	tests := []struct {
		mask  string
		host  string
		match bool
	}{
		{"nick!user@host", "nick!user@host", true},
		{"nick!*@host", "nick!user@host", true},
		{"*!*@*", "nick!user@host", true},
		{"*!*@*.example.org", "nick!user@irc.example.org", true},
		{"n?ck!*@*", "nick!user@host", true},
		{"n?ck!*@*", "nosuch!user@host", false},
		{"NICK!USER@HOST", "nick!user@host", true},
		{"other!*@*", "nick!user@host", false},
		{"*@host", "nick!user@host", true},
		{"*", "anything!at@all", true},
		{"", "", true},
		{"", "x", false},
	}

	for _, test := range tests {
		m, h := Mask(test.mask), Host(test.host)
		if got := m.Match(h); got != test.match {
			t.Errorf("Expected Mask(%q).Match(%q) to be %v",
				test.mask, test.host, test.match)
		}
		if got := h.Match(m); got != test.match {
			t.Errorf("Expected Host(%q).Match(%q) to be %v",
				test.host, test.mask, test.match)
		}
	}
}

func TestMask_Split(t *testing.T) {
	n, u, h := Mask("nick!*@host.*").Split()
	if n != "nick" || u != "*" || h != "host.*" {
		t.Error("Expected full fragments, got:", n, u, h)
	}

	n, u, h = Mask("garbage").Split()
	if n != "" || u != "" || h != "" {
		t.Error("Expected empty fragments for a malformed mask.")
	}
}

func TestMask_IsValid(t *testing.T) {
	if !Mask("n?ck!*@h*st").IsValid() {
		t.Error("Expected a wildcard mask to be valid.")
	}
	if Mask("no user or host").IsValid() {
		t.Error("Expected a mask without fragments to be invalid.")
	}
}
