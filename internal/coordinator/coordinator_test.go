package coordinator

import (
	"testing"

	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/client"
	"github.com/mossforge/duskstep/internal/game"
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadChannel implements netchan.Channel and netchan.HealthChecker, always
// reporting itself dead, to exercise the host/client disconnect paths
// without a real transport.
type deadChannel struct {
	closed bool
}

func (c *deadChannel) Send([]protocol.Message)   {}
func (c *deadChannel) Drain() []protocol.Message { return nil }
func (c *deadChannel) Alive() bool               { return false }
func (c *deadChannel) Close() error              { c.closed = true; return nil }

func TestConnectLocalFinalizesAndSimulatesEachFrame(t *testing.T) {
	world := game.NewWorld()
	d := NewDriver(world)
	d.ConnectLocal()

	d.LocalActions().Add(action.SpawnPlayer(1))
	require.NoError(t, d.Tick())

	assert.Equal(t, uint64(1), d.TickQueue().LastSimulatedTick())
	assert.Equal(t, uint64(1), world.CurrentTick())
}

func TestConnectLocalAdvancesAcrossMultipleFrames(t *testing.T) {
	world := game.NewWorld()
	d := NewDriver(world)
	d.ConnectLocal()

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Tick())
	}

	assert.Equal(t, uint64(5), d.TickQueue().LastSimulatedTick())
}

func TestHostingAddClientAssignsDistinctIDs(t *testing.T) {
	hostWorld := game.NewWorld()
	d := NewDriver(hostWorld)
	d.ConnectAsHost(hostWorld)

	a, b := netchan.NewPairedChannel()
	idA := d.AddClientAsHost(a)
	_, c := netchan.NewPairedChannel()
	idC := d.AddClientAsHost(c)
	_ = b

	assert.NotEqual(t, idA, idC)
	assert.Equal(t, Hosting, d.State())
}

func TestHostAndClientConverge(t *testing.T) {
	hostWorld := game.NewWorld()
	hostDriver := NewDriver(hostWorld)
	hostDriver.ConnectAsHost(hostWorld)

	clientWorld := game.NewWorld()
	clientDriver := NewDriver(clientWorld)

	hostSide, clientSide := netchan.NewPairedChannel()
	hostDriver.AddClientAsHost(hostSide)
	clientDriver.ConnectAsClient(client.Config{PlayerName: "Scout"}, clientWorld, clientSide)

	hostDriver.Host().LocalActions().Add(action.SpawnPlayer(1))

	for i := 0; i < 10; i++ {
		require.NoError(t, hostDriver.Tick())
		require.NoError(t, clientDriver.Tick())
	}

	assert.Equal(t, ConnectedToHost, clientDriver.State())
	assert.Equal(t, hostWorld.Hash(), clientWorld.Hash())
}

func TestHostingPrunesDeadChannels(t *testing.T) {
	hostWorld := game.NewWorld()
	d := NewDriver(hostWorld)
	d.ConnectAsHost(hostWorld)

	dead := &deadChannel{}
	id := d.AddClientAsHost(dead)

	require.NoError(t, d.Tick())

	_, stillRegistered := d.channels[id]
	assert.False(t, stillRegistered, "dead channel should have been pruned")
}

func TestConnectedToHostDisconnectsOnDeadChannel(t *testing.T) {
	clientWorld := game.NewWorld()
	d := NewDriver(clientWorld)
	dead := &deadChannel{}
	d.ConnectAsClient(client.Config{PlayerName: "Scout"}, clientWorld, dead)

	err := d.Tick()
	assert.Error(t, err)
	assert.Equal(t, Disconnected, d.State())
	assert.True(t, dead.closed, "client should close the channel to a dead host")
}

func TestConnectTwiceOnSameDriverPanics(t *testing.T) {
	world := game.NewWorld()
	d := NewDriver(world)
	d.ConnectLocal()

	assert.Panics(t, func() {
		d.ConnectLocal()
	})
}
