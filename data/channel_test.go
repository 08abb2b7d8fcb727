package data

import (
	"strings"
	"testing"

	"github.com/ostafen/ircline/irc"
)

func TestChannel_Create(t *testing.T) {
	t.Parallel()
	ch := NewChannel("#CHAN")
	if ch == nil {
		t.Fatal("Channel should not be nil.")
	}
	if exp, got := "#CHAN", ch.Name(); got != exp {
		t.Errorf("Expected: %s, got: %s", exp, got)
	}
	if got := ch.Topic(); got != "" {
		t.Errorf("Expected an empty topic, got: %s", got)
	}
	if got := ch.NumUsers(); got != 0 {
		t.Error("Expected an empty channel, got:", got)
	}
}

func TestChannel_Topic(t *testing.T) {
	t.Parallel()
	topic := "the topic"

	ch := NewChannel("#chan")
	ch.SetTopic(topic)
	if got := ch.Topic(); got != topic {
		t.Errorf("Expected: %s, got: %s", topic, got)
	}
}

func TestChannel_Users(t *testing.T) {
	t.Parallel()
	ch := NewChannel("#chan")

	ch.AddUser("Zeke")
	ch.AddUser("alice")
	if !ch.IsOn("zeke") || !ch.IsOn("ALICE") {
		t.Error("Nicknames should be checked case insensitively.")
	}
	if !ch.IsMember("zeke") {
		t.Error("A freshly added user should be a plain member.")
	}

	ch.AddUser("ZEKE")
	if got := ch.NumUsers(); got != 2 {
		t.Error("Adding a user twice should not duplicate him, got:", got)
	}

	if exp, got := []string{"Zeke", "alice"}, ch.Users(); !sameStrings(exp, got) {
		t.Errorf("Expected: %v, got: %v", exp, got)
	}

	ch.RemoveUser("zeke")
	if ch.IsOn("Zeke") {
		t.Error("Removed users should not be on the channel.")
	}
	if got := ch.NumUsers(); got != 1 {
		t.Error("Expected 1 user, got:", got)
	}
}

func TestChannel_Roles(t *testing.T) {
	t.Parallel()
	ch := NewChannel("#chan")

	ch.AddUser("alice")
	ch.AddUser("bob")

	ch.SetOperator("bob")
	if !ch.IsOperator("bob") || ch.IsMember("bob") || ch.IsVoiced("bob") {
		t.Error("A user should hold exactly one role at a time.")
	}
	if exp, got := []string{"bob"}, ch.Operators(); !sameStrings(exp, got) {
		t.Errorf("Expected: %v, got: %v", exp, got)
	}
	if exp, got := []string{"alice"}, ch.Members(); !sameStrings(exp, got) {
		t.Errorf("Expected: %v, got: %v", exp, got)
	}

	ch.SetVoiced("bob")
	if !ch.IsVoiced("bob") || ch.IsOperator("bob") {
		t.Error("Voicing should displace the previous role.")
	}
	if exp, got := []string{"bob"}, ch.Voiced(); !sameStrings(exp, got) {
		t.Errorf("Expected: %v, got: %v", exp, got)
	}

	ch.SetMember("bob")
	if !ch.IsMember("bob") || ch.IsVoiced("bob") {
		t.Error("Demoting should displace the previous role.")
	}

	ch.SetOperator("carol")
	if !ch.IsOn("carol") || !ch.IsOperator("carol") {
		t.Error("Promoting an absent user should add him.")
	}

	if got := ch.NumUsers(); got != 3 {
		t.Error("Expected 3 users, got:", got)
	}
}

func TestChannel_RenameUser(t *testing.T) {
	t.Parallel()
	ch := NewChannel("#chan")

	ch.AddUser("alice")
	ch.SetOperator("bob")

	if !ch.RenameUser("BOB", "rob") {
		t.Error("Renaming a present user should report true.")
	}
	if ch.IsOn("bob") {
		t.Error("The old nickname should be gone.")
	}
	if !ch.IsOperator("rob") {
		t.Error("Renaming should preserve the user's role.")
	}

	if ch.RenameUser("ghost", "phantom") {
		t.Error("Renaming an absent user should report false.")
	}
}

func TestChannel_ClearUsers(t *testing.T) {
	t.Parallel()
	ch := NewChannel("#chan")

	ch.AddUser("alice")
	ch.SetVoiced("bob")
	ch.SetOperator("carol")

	ch.ClearUsers()
	if got := ch.NumUsers(); got != 0 {
		t.Error("Expected an empty channel, got:", got)
	}
	if got := ch.Users(); len(got) != 0 {
		t.Error("Expected no users, got:", got)
	}
}

func TestChannel_Bans(t *testing.T) {
	t.Parallel()
	bans := []irc.Mask{"ban1!*@*", "ban2!*@*"}
	ch := NewChannel("#chan")

	ch.SetBans(bans)
	got := ch.Bans()
	for i := 0; i < len(got); i++ {
		if got[i] != bans[i] {
			t.Errorf("Expected: %s, got: %s", bans[i], got[i])
		}
	}
	bans[0] = "ban3!*@*"
	if got[0] == bans[0] {
		t.Error("The banlist should be copied on the way in.")
	}

	if !ch.HasBan("ban2!*@*") {
		t.Error("Expected the banlist to contain: ban2!*@*")
	}
	if !ch.HasBan("BAN2!*@*") {
		t.Error("Banmasks should be checked case insensitively.")
	}
	ch.DeleteBan("ban2!*@*")
	if ch.HasBan("ban2!*@*") {
		t.Error("Deleted banmasks should be gone.")
	}

	ch.AddBan("ban2!*@*")
	ch.AddBan("ban2!*@*")
	if got := len(ch.Bans()); got != 2 {
		t.Error("Adding a banmask twice should not duplicate it, got:", got)
	}

	ch.ClearBans()
	if got := len(ch.Bans()); got != 0 {
		t.Error("Expected an empty banlist, got:", got)
	}
}

func TestChannel_IsBanned(t *testing.T) {
	t.Parallel()
	ch := NewChannel("#chan")
	ch.SetBans([]irc.Mask{"*!*@host.com", "nick!*@*"})

	if !ch.IsBanned("nick!user@host") {
		t.Error("Expected: nick!user@host to be banned.")
	}
	if ch.IsBanned("notnick!user@host") {
		t.Error("Expected: notnick!user@host to not be banned.")
	}
	if !ch.IsBanned("notnick!user@host.com") {
		t.Error("Expected: notnick!user@host.com to be banned.")
	}
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.ToLower(a[i]) != strings.ToLower(b[i]) {
			return false
		}
	}
	return true
}
