// Command rayserver is the dedicated game server: it hosts a lockstep
// session over TCP that any number of rayman clients can join.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mossforge/duskstep/internal/coordinator"
	"github.com/mossforge/duskstep/internal/game"
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/network"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version is set at build time
var Version = "dev"

func main() {
	addr := flag.String("addr", ":7777", "address to listen on")
	tickRate := flag.Int("tick-rate", 30, "simulation ticks per second")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	log.Info().Str("version", Version).Str("addr", *addr).Msg("rayserver: starting")

	world := game.NewWorld()
	tileMap := game.DemoLevelForViewport(80, 45)
	world.SetTileMap(tileMap)

	driver := coordinator.NewDriver(world)
	driver.ConnectAsHost(world)

	transport := network.NewTCPTransport()
	if err := transport.Listen(*addr); err != nil {
		log.Fatal().Err(err).Msg("rayserver: listen failed")
	}
	defer transport.Close()

	go acceptLoop(transport, driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(*tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("rayserver: shutting down")
			return
		case <-ticker.C:
			if err := driver.Tick(); err != nil {
				log.Error().Err(err).Msg("rayserver: tick failed")
			}
		}
	}
}

func acceptLoop(transport *network.TCPTransport, driver *coordinator.Driver) {
	for {
		conn, err := transport.Accept()
		if err != nil {
			log.Error().Err(err).Msg("rayserver: accept failed")
			return
		}
		channel := netchan.NewTCPChannel(conn)
		id := driver.AddClientAsHost(channel)
		log.Info().Str("remote", conn.RemoteAddr().String()).Uint64("channel", uint64(id)).Msg("rayserver: client connected")
	}
}
