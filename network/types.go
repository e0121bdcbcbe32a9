package network

import (
	"net"
)

type MsgType uint32

type HandleFunc func(Node, Conn, Message)

type Message interface {
	Head() MsgType
	Body() []byte
	Nonce() string

	Bytes() []byte
}

type Package interface {
	Size() uint64
	Bytes() []byte

	SizeToBytes() []byte
	BytesToSize() uint64
}

type Conn interface {
	Request(Message) (Message, error)
	Write(Message) error
	Read() (Message, error)
	Close() error
}

type Node interface {
	Listen(string) error
	Serve(net.Listener) error
	Handle(MsgType, HandleFunc) Node

	Connections() int
	Close() error
}
