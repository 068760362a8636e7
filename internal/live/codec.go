package live

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/air-gapped/jsxpreview/internal/vfs"
)

// Subprotocols offered by the live endpoint. The first is the default
// when a client names none.
const (
	SubprotocolJSON    = "jsxpreview.json"
	SubprotocolMsgPack = "jsxpreview.msgpack"
)

// Message types.
const (
	TypeRender   = "render"
	TypeDocument = "document"
	TypeError    = "error"
)

// ErrInvalidMessage is returned for frames that decode but make no sense.
var ErrInvalidMessage = errors.New("invalid message")

// Message is one frame on the live channel, in either direction.
type Message struct {
	Type  string     `json:"type" msgpack:"type"`
	ID    uint64     `json:"id" msgpack:"id"`
	Files []vfs.File `json:"files,omitempty" msgpack:"files,omitempty"`
	HTML  string     `json:"html,omitempty" msgpack:"html,omitempty"`
	Empty bool       `json:"empty,omitempty" msgpack:"empty,omitempty"`
	Error string     `json:"error,omitempty" msgpack:"error,omitempty"`
}

// Codec handles message encoding/decoding.
type Codec interface {
	Encode(msg *Message) ([]byte, error)
	Decode(data []byte) (*Message, error)
	// Name is the websocket subprotocol the codec serves.
	Name() string
	// FrameType is the websocket frame type used for encoded messages.
	FrameType() websocket.MessageType
}

// JSONCodec implements Codec using JSON text frames.
type JSONCodec struct{}

func (JSONCodec) Encode(msg *Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return &msg, nil
}

func (JSONCodec) Name() string                     { return SubprotocolJSON }
func (JSONCodec) FrameType() websocket.MessageType { return websocket.MessageText }

// MsgPackCodec implements Codec using MessagePack binary frames.
type MsgPackCodec struct{}

func (MsgPackCodec) Encode(msg *Message) ([]byte, error) {
	return msgpack.Marshal(msg)
}

func (MsgPackCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return &msg, nil
}

func (MsgPackCodec) Name() string                     { return SubprotocolMsgPack }
func (MsgPackCodec) FrameType() websocket.MessageType { return websocket.MessageBinary }

// CodecFor returns the codec for a negotiated subprotocol, JSON when none
// was negotiated.
func CodecFor(subprotocol string) Codec {
	if subprotocol == SubprotocolMsgPack {
		return MsgPackCodec{}
	}
	return JSONCodec{}
}
