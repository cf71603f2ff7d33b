// Package protocol defines the wire messages exchanged between host and
// client and a self-describing binary codec for framing them.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/fixedpoint"
)

// ErrProtocol is returned when a decoded frame is malformed or carries an
// unknown tag. Decode never panics on untrusted input.
var ErrProtocol = errors.New("protocol: malformed message")

// Message is the tagged union of wire messages. Each concrete type below
// implements it.
type Message interface {
	tag() messageTag
}

type messageTag uint8

const (
	tagPing messageTag = iota
	tagPong
	tagRequestWorldLoad
	tagWorld
	tagSetClientConfig
	tagFinalizedTick
	tagScheduleActions
)

// Ping is sent once by a client on connect, starting the join handshake.
type Ping struct {
	ID uint64
}

func (Ping) tag() messageTag { return tagPing }

// Pong answers a Ping with the same ID.
type Pong struct {
	ID uint64
}

func (Pong) tag() messageTag { return tagPong }

// RequestWorldLoad asks the host to send the current world state.
type RequestWorldLoad struct{}

func (RequestWorldLoad) tag() messageTag { return tagRequestWorldLoad }

// WorldLoad carries a serialized world snapshot and the tick it reflects.
type WorldLoad struct {
	Scene             []byte
	LastSimulatedTick uint64
}

func (WorldLoad) tag() messageTag { return tagWorld }

// SetClientConfig informs a newly-connected client of its assigned player
// identity.
type SetClientConfig struct {
	PlayerID action.PlayerId
}

func (SetClientConfig) tag() messageTag { return tagSetClientConfig }

// FinalizedTick carries one tick's finalized action list.
type FinalizedTick struct {
	Tick    uint64
	Actions []action.Action
}

func (FinalizedTick) tag() messageTag { return tagFinalizedTick }

// ScheduleActions carries a batch of locally-originated actions a client
// wants the host to schedule.
type ScheduleActions struct {
	Actions []action.Action
}

func (ScheduleActions) tag() messageTag { return tagScheduleActions }

// Encode serializes a batch of messages into one self-describing frame:
// a uint32 message count followed by (tag byte, uint32 length, payload)
// records.
func Encode(messages []Message) ([]byte, error) {
	var out []byte
	out = appendUint32(out, uint32(len(messages)))
	for _, m := range messages {
		payload, err := encodePayload(m)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(m.tag()))
		out = appendUint32(out, uint32(len(payload)))
		out = append(out, payload...)
	}
	return out, nil
}

// Decode parses a frame produced by Encode. It never panics on malformed
// input, returning ErrProtocol instead.
func Decode(frame []byte) ([]Message, error) {
	r := &reader{buf: frame}
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, count)
	for i := uint32(0); i < count; i++ {
		tagByte, err := r.byte()
		if err != nil {
			return nil, err
		}
		length, err := r.uint32()
		if err != nil {
			return nil, err
		}
		payload, err := r.bytes(int(length))
		if err != nil {
			return nil, err
		}
		msg, err := decodePayload(messageTag(tagByte), payload)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func encodePayload(m Message) ([]byte, error) {
	switch v := m.(type) {
	case Ping:
		return appendUint64(nil, v.ID), nil
	case Pong:
		return appendUint64(nil, v.ID), nil
	case RequestWorldLoad:
		return nil, nil
	case WorldLoad:
		out := appendUint64(nil, v.LastSimulatedTick)
		out = appendUint32(out, uint32(len(v.Scene)))
		out = append(out, v.Scene...)
		return out, nil
	case SetClientConfig:
		return appendUint64(nil, uint64(v.PlayerID)), nil
	case FinalizedTick:
		out := appendUint64(nil, v.Tick)
		out = appendActions(out, v.Actions)
		return out, nil
	case ScheduleActions:
		return appendActions(nil, v.Actions), nil
	default:
		return nil, fmt.Errorf("%w: unknown message type %T", ErrProtocol, m)
	}
}

func decodePayload(tag messageTag, payload []byte) (Message, error) {
	r := &reader{buf: payload}
	switch tag {
	case tagPing:
		id, err := r.uint64()
		if err != nil {
			return nil, err
		}
		return Ping{ID: id}, nil
	case tagPong:
		id, err := r.uint64()
		if err != nil {
			return nil, err
		}
		return Pong{ID: id}, nil
	case tagRequestWorldLoad:
		return RequestWorldLoad{}, nil
	case tagWorld:
		tick, err := r.uint64()
		if err != nil {
			return nil, err
		}
		length, err := r.uint32()
		if err != nil {
			return nil, err
		}
		scene, err := r.bytes(int(length))
		if err != nil {
			return nil, err
		}
		return WorldLoad{Scene: append([]byte(nil), scene...), LastSimulatedTick: tick}, nil
	case tagSetClientConfig:
		id, err := r.uint64()
		if err != nil {
			return nil, err
		}
		return SetClientConfig{PlayerID: action.PlayerId(id)}, nil
	case tagFinalizedTick:
		tick, err := r.uint64()
		if err != nil {
			return nil, err
		}
		actions, err := r.actions()
		if err != nil {
			return nil, err
		}
		return FinalizedTick{Tick: tick, Actions: actions}, nil
	case tagScheduleActions:
		actions, err := r.actions()
		if err != nil {
			return nil, err
		}
		return ScheduleActions{Actions: actions}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrProtocol, tag)
	}
}

// --- action encoding ---

type actionTag uint8

const (
	actTagPlayer actionTag = iota
	actTagSpawnPlayer
)

type playerActionTag uint8

const (
	patStartMoving playerActionTag = iota
	patStopMoving
	patJump
	patStartCharge
	patReleaseFire
	patCursor
)

func appendActions(out []byte, actions []action.Action) []byte {
	out = appendUint32(out, uint32(len(actions)))
	for _, a := range actions {
		out = appendAction(out, a)
	}
	return out
}

func appendAction(out []byte, a action.Action) []byte {
	switch a.Kind {
	case action.ActionPlayer:
		out = append(out, byte(actTagPlayer))
		out = appendUint64(out, uint64(a.Player))
		out = appendPlayerAction(out, a.PlayerAction)
	case action.ActionSpawnPlayer:
		out = append(out, byte(actTagSpawnPlayer))
		out = appendUint64(out, uint64(a.Player))
	}
	return out
}

func appendPlayerAction(out []byte, pa action.PlayerAction) []byte {
	switch pa.Kind {
	case action.StartMoving:
		out = append(out, byte(patStartMoving))
		out = append(out, byte(pa.Direction))
	case action.StopMoving:
		out = append(out, byte(patStopMoving))
		out = append(out, byte(pa.Direction))
	case action.Jump:
		out = append(out, byte(patJump))
	case action.StartCharge:
		out = append(out, byte(patStartCharge))
	case action.ReleaseFire:
		out = append(out, byte(patReleaseFire))
	case action.Cursor:
		out = append(out, byte(patCursor))
		cx := pa.CursorX.Bytes()
		cy := pa.CursorY.Bytes()
		out = append(out, cx[:]...)
		out = append(out, cy[:]...)
	}
	return out
}

func appendUint32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func appendUint64(out []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(out, b[:]...)
}

// reader walks a byte slice, returning ErrProtocol on underrun instead of
// panicking.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) byte() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, fmt.Errorf("%w: truncated byte", ErrProtocol)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) uint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, fmt.Errorf("%w: truncated uint32", ErrProtocol)
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) uint64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, fmt.Errorf("%w: truncated uint64", ErrProtocol)
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("%w: truncated payload", ErrProtocol)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) fixed() (fixedpoint.FixedPoint, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	var arr [8]byte
	copy(arr[:], b)
	return fixedpoint.FromBytes(arr), nil
}

func (r *reader) actions() ([]action.Action, error) {
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}
	actions := make([]action.Action, 0, count)
	for i := uint32(0); i < count; i++ {
		a, err := r.action()
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (r *reader) action() (action.Action, error) {
	tagByte, err := r.byte()
	if err != nil {
		return action.Action{}, err
	}
	player, err := r.uint64()
	if err != nil {
		return action.Action{}, err
	}
	switch actionTag(tagByte) {
	case actTagSpawnPlayer:
		return action.SpawnPlayer(action.PlayerId(player)), nil
	case actTagPlayer:
		pa, err := r.playerAction()
		if err != nil {
			return action.Action{}, err
		}
		return pa.ForPlayer(action.PlayerId(player)), nil
	default:
		return action.Action{}, fmt.Errorf("%w: unknown action tag %d", ErrProtocol, tagByte)
	}
}

func (r *reader) playerAction() (action.PlayerAction, error) {
	tagByte, err := r.byte()
	if err != nil {
		return action.PlayerAction{}, err
	}
	switch playerActionTag(tagByte) {
	case patStartMoving:
		dir, err := r.byte()
		if err != nil {
			return action.PlayerAction{}, err
		}
		return action.NewStartMoving(action.Direction(dir)), nil
	case patStopMoving:
		dir, err := r.byte()
		if err != nil {
			return action.PlayerAction{}, err
		}
		return action.NewStopMoving(action.Direction(dir)), nil
	case patJump:
		return action.NewJump(), nil
	case patStartCharge:
		return action.NewStartCharge(), nil
	case patReleaseFire:
		return action.NewReleaseFire(), nil
	case patCursor:
		x, err := r.fixed()
		if err != nil {
			return action.PlayerAction{}, err
		}
		y, err := r.fixed()
		if err != nil {
			return action.PlayerAction{}, err
		}
		return action.NewCursor(x, y), nil
	default:
		return action.PlayerAction{}, fmt.Errorf("%w: unknown player action tag %d", ErrProtocol, tagByte)
	}
}
