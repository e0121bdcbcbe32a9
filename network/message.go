package network

import (
	"bytes"
	"encoding/json"

	"github.com/number571/gopeer/crypto"
	"github.com/pkg/errors"
)

var (
	_ Message = &MessageT{}
)

type MessageT struct {
	HeadT  MsgType `json:"head"`
	BodyT  []byte  `json:"body"`
	NonceT string  `json:"nonce"`
}

// Create message with head and body.
func NewMessage(head MsgType, body []byte) Message {
	return &MessageT{
		HeadT:  head,
		BodyT:  body,
		NonceT: crypto.RandString(NonceSize),
	}
}

// Create the response to req. It echoes the nonce so the requester can
// match it.
func NewResponse(req Message, body []byte) Message {
	return &MessageT{
		HeadT:  req.Head() | MaskBit,
		BodyT:  body,
		NonceT: req.Nonce(),
	}
}

// Load message from its json form without the length prefix.
func LoadMessage(data []byte) (Message, error) {
	msg := new(MessageT)
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, errors.Wrap(err, "decode message")
	}
	return msg, nil
}

func (msg *MessageT) Head() MsgType {
	return msg.HeadT
}

func (msg *MessageT) Body() []byte {
	return msg.BodyT
}

func (msg *MessageT) Nonce() string {
	return msg.NonceT
}

// Serialize with JSON format, prefixed by its length.
func (msg *MessageT) Bytes() []byte {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return nil
	}

	pack := PackageT(jsonData)
	return bytes.Join(
		[][]byte{
			pack.SizeToBytes(),
			pack.Bytes(),
		},
		[]byte{},
	)
}
