package network

import (
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
)

var (
	_ Conn = &ConnT{}
)

var (
	ErrPackTooLarge = errors.New("package size exceeds limit")
	ErrBadResponse  = errors.New("response does not match request")
)

type ConnT struct {
	ptr     net.Conn
	timeout time.Duration
}

func NewConn(address string) (Conn, error) {
	conn, err := net.DialTimeout("tcp", address, TimeLimit*time.Second)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", address)
	}
	return WrapConn(conn), nil
}

func WrapConn(conn net.Conn) Conn {
	return &ConnT{
		ptr:     conn,
		timeout: TimeLimit * time.Second,
	}
}

// Request writes msg and waits for its response.
func (conn *ConnT) Request(msg Message) (Message, error) {
	if err := conn.Write(msg); err != nil {
		return nil, err
	}

	rmsg, err := conn.Read()
	if err != nil {
		return nil, err
	}

	if rmsg.Head() != msg.Head()|MaskBit || rmsg.Nonce() != msg.Nonce() {
		return nil, ErrBadResponse
	}

	return rmsg, nil
}

func (conn *ConnT) Write(msg Message) error {
	data := msg.Bytes()
	if data == nil {
		return errors.New("encode message")
	}

	conn.ptr.SetWriteDeadline(time.Now().Add(conn.timeout))
	_, err := conn.ptr.Write(data)
	return errors.Wrap(err, "write message")
}

func (conn *ConnT) Read() (Message, error) {
	conn.ptr.SetReadDeadline(time.Now().Add(conn.timeout))

	buflen := make([]byte, SizeBytes)
	if _, err := io.ReadFull(conn.ptr, buflen); err != nil {
		return nil, errors.Wrap(err, "read length")
	}

	mustLen := PackageT(buflen).BytesToSize()
	if mustLen > PackSize {
		return nil, ErrPackTooLarge
	}

	pack := make([]byte, mustLen)
	if _, err := io.ReadFull(conn.ptr, pack); err != nil {
		return nil, errors.Wrap(err, "read package")
	}

	return LoadMessage(pack)
}

func (conn *ConnT) Close() error {
	return conn.ptr.Close()
}
