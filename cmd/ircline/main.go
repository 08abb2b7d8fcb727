// Command ircline connects to an irc server and echoes the session to the
// log. It exists to exercise the library end to end; real applications
// embed the client package directly.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	log15 "gopkg.in/inconshreveable/log15.v2"

	"github.com/ostafen/ircline/client"
	"github.com/ostafen/ircline/config"
	"github.com/ostafen/ircline/dispatch"
)

func main() {
	configPath := flag.String("c", "config.toml", "path to the configuration file")
	flag.Parse()

	log := log15.New("cmd", "ircline")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("could not load configuration", "err", err)
		os.Exit(1)
	}

	clientCfg := cfg.Client()
	clientCfg.Log = log

	c, err := client.New(clientCfg)
	if err != nil {
		log.Error("could not create the client", "err", err)
		os.Exit(1)
	}

	registerLogging(c, log)

	quit := make(chan struct{})
	c.Bus().Register(&client.DisconnectEvent{}, dispatch.HandlerFunc(
		func(interface{}) {
			close(quit)
		},
	))

	if err = c.Connect(); err != nil {
		log.Error("could not connect", "err", err)
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case <-interrupt:
		log.Info("interrupted, quitting")
		c.Quit("bye")
		c.Close()
		<-quit
	case <-quit:
	}
}

// registerLogging subscribes handlers that mirror the session to the log.
func registerLogging(c *client.Client, log log15.Logger) {
	c.Bus().Register(&client.ReadyEvent{}, dispatch.HandlerFunc(
		func(interface{}) {
			log.Info("ready", "nick", c.State().Nick())
		},
	))
	c.Bus().Register(&client.MessageEvent{}, dispatch.HandlerFunc(
		func(ev interface{}) {
			msg := ev.(*client.MessageEvent)
			log.Info("privmsg",
				"from", msg.Sender.Nick(), "to", msg.Target, "text", msg.Text)
		},
	))
	c.Bus().Register(&client.ActionEvent{}, dispatch.HandlerFunc(
		func(ev interface{}) {
			action := ev.(*client.ActionEvent)
			log.Info("action",
				"from", action.Sender.Nick(), "to", action.Target,
				"text", action.Text)
		},
	))
	c.Bus().Register(&client.SelfJoinEvent{}, dispatch.HandlerFunc(
		func(ev interface{}) {
			log.Info("joined", "channel", ev.(*client.SelfJoinEvent).Channel)
		},
	))
	c.Bus().Register(&client.KickEvent{}, dispatch.HandlerFunc(
		func(ev interface{}) {
			kick := ev.(*client.KickEvent)
			log.Info("kick", "channel", kick.Channel, "victim", kick.Victim,
				"by", kick.By.Nick(), "reason", kick.Reason)
		},
	))
	c.Bus().Register(&client.ErrorEvent{}, dispatch.HandlerFunc(
		func(ev interface{}) {
			e := ev.(*client.ErrorEvent)
			log.Error("session error",
				"category", e.Category, "msg", e.Message, "err", e.Err)
		},
	))
}
