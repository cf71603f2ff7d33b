// Command rayman is the terminal game client. Depending on flags it
// plays a local single-player session, hosts a lockstep session other
// players can dial into, or joins one as a client.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/client"
	"github.com/mossforge/duskstep/internal/collision"
	"github.com/mossforge/duskstep/internal/coordinator"
	"github.com/mossforge/duskstep/internal/game"
	"github.com/mossforge/duskstep/internal/input"
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/network"
	"github.com/mossforge/duskstep/internal/protocol"
	"github.com/mossforge/duskstep/internal/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version is set at build time
var Version = "dev"

// localHostPlayerID is the player id a --server session assigns its own
// embedded player. action.IdGenerator hands remote clients 1, 2, 3, ...,
// so 0 never collides with one.
const localHostPlayerID action.PlayerId = 0

func main() {
	connect := flag.String("connect", "", "host:port of a rayserver session to join")
	serve := flag.String("server", "", "host:port to accept connections on, hosting locally too")
	name := flag.String("name", "Player", "display name")
	mode := flag.String("mode", "auto", "render mode: auto, ascii, halfblock, braille")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	fmt.Printf("Rayman Terminal v%s\n", Version)

	renderer := render.SelectRenderer(render.Detect(), parseMode(*mode))
	if err := renderer.Init(); err != nil {
		log.Fatal().Err(err).Msg("rayman: renderer init failed")
	}
	defer renderer.Close()

	switch {
	case *connect != "":
		runClient(renderer, *connect, *name)
	case *serve != "":
		runHost(renderer, *serve)
	default:
		runLocal(renderer)
	}
}

func parseMode(s string) render.Mode {
	switch s {
	case "ascii":
		return render.ModeASCII
	case "halfblock":
		return render.ModeHalfBlock
	case "braille":
		return render.ModeBraille
	default:
		return render.ModeAuto
	}
}

func newDemoWorld() (*game.World, *collision.TileMap) {
	world := game.NewWorld()
	tileMap := game.DemoLevelForViewport(80, 45)
	world.SetTileMap(tileMap)
	world.SpawnEnemy("slime", 15, 10)
	world.SpawnEnemy("slime", 28, 14)
	return world, tileMap
}

func runLocal(renderer render.GameRenderer) {
	world, tileMap := newDemoWorld()
	driver := coordinator.NewDriver(world)
	driver.ConnectLocal()
	driver.LocalActions().Add(action.SpawnPlayer(localHostPlayerID))

	localPlayer := func() (action.PlayerId, bool) { return localHostPlayerID, true }
	queueAction := func(a action.Action) { driver.LocalActions().Add(a) }

	runLoop(renderer, world, tileMap, driver, localPlayer, queueAction)
}

func runHost(renderer render.GameRenderer, addr string) {
	world, tileMap := newDemoWorld()
	driver := coordinator.NewDriver(world)
	driver.ConnectAsHost(world)
	driver.Host().LocalActions().Add(action.SpawnPlayer(localHostPlayerID))

	transport := network.NewTCPTransport()
	if err := transport.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("rayman: listen failed")
	}
	defer transport.Close()

	go func() {
		for {
			conn, err := transport.Accept()
			if err != nil {
				log.Error().Err(err).Msg("rayman: accept failed")
				return
			}
			id := driver.AddClientAsHost(netchan.NewTCPChannel(conn))
			log.Info().Uint64("channel", uint64(id)).Msg("rayman: client connected")
		}
	}()

	localPlayer := func() (action.PlayerId, bool) { return localHostPlayerID, true }
	queueAction := func(a action.Action) { driver.Host().LocalActions().Add(a) }

	runLoop(renderer, world, tileMap, driver, localPlayer, queueAction)
}

func runClient(renderer render.GameRenderer, addr, name string) {
	transport := network.NewTCPTransport()
	conn, err := transport.Connect(addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("rayman: connect failed")
	}
	defer transport.Close()

	world, tileMap := newDemoWorld()
	driver := coordinator.NewDriver(world)
	driver.ConnectAsClient(client.Config{ServerAddr: addr, PlayerName: name}, world, netchan.NewTCPChannel(conn))

	localPlayer := func() (action.PlayerId, bool) {
		if driver.Client().Scheduler().State() != client.Connected {
			return 0, false
		}
		return driver.Client().Scheduler().PlayerID(), true
	}
	queueAction := func(a action.Action) {
		driver.Client().Scheduler().LocalActions().Add(a)
	}

	runLoop(renderer, world, tileMap, driver, localPlayer, queueAction)
}

// runLoop drives the fixed-timestep render/input/simulate cycle shared by
// all three modes: poll input into edge-triggered actions, queue them for
// the local player once one is assigned, advance the coordinator one tick,
// then render.
func runLoop(
	renderer render.GameRenderer,
	world *game.World,
	tileMap *collision.TileMap,
	driver *coordinator.Driver,
	localPlayer func() (action.PlayerId, bool),
	queueAction func(action.Action),
) {
	const tickRate = 30
	tickDuration := time.Second / tickRate

	tiles := game.RenderTileMap(tileMap)
	prevKeys := input.NewKeyState()

	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	for range ticker.C {
		currKeys := input.NewKeyState()
		quit := false

		for {
			ev, ok := renderer.PollInput()
			if !ok {
				break
			}
			switch ev.Type {
			case render.InputQuit:
				quit = true
			case render.InputKey:
				applyIntent(currKeys, ev.Intent)
			}
		}
		if quit {
			return
		}

		if playerID, ready := localPlayer(); ready {
			for _, a := range input.ToActions(prevKeys, currKeys, playerID) {
				queueAction(a)
			}
		}
		prevKeys = currKeys

		if err := driver.Tick(); err != nil {
			log.Error().Err(err).Msg("rayman: tick failed")
			return
		}

		width, height := renderer.ViewportSize()
		camera := render.Camera{X: float64(tileMap.Width) / 2, Y: float64(tileMap.Height) / 2, Width: width, Height: height}
		if playerID, ready := localPlayer(); ready {
			if x, y, ok := world.GetPlayerPosition(int(playerID)); ok {
				camera.X, camera.Y = x, y
			}
		}

		renderer.BeginFrame()
		renderer.RenderTileMap(tiles, camera)
		renderer.RenderWorld(world, camera)
		renderer.DrawHUD(fmt.Sprintf("Tick: %d | WASD/arrows: move | J/space: attack | Q/Esc: quit", world.CurrentTick()))
		renderer.EndFrame()
	}
}

// applyIntent sets the KeyState bits that make up intent, for translating a
// single InputKey event's bitmask into per-key press state.
func applyIntent(state *input.KeyState, intent protocol.Intent) {
	if intent&protocol.IntentLeft != 0 {
		state.SetPressed(input.KeyLeft, true)
	}
	if intent&protocol.IntentRight != 0 {
		state.SetPressed(input.KeyRight, true)
	}
	if intent&protocol.IntentJump != 0 {
		state.SetPressed(input.KeyJump, true)
	}
	if intent&protocol.IntentAttack != 0 {
		state.SetPressed(input.KeyAttack, true)
	}
	if intent&protocol.IntentUse != 0 {
		state.SetPressed(input.KeyUse, true)
	}
}
