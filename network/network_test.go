package network

import (
	"net"
	"testing"

	"github.com/number571/go-peer/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	msgEcho MsgType = iota + 1
	msgUnknown
)

func startNode(t *testing.T) (Node, string) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	node := NewNode(nil).Handle(msgEcho, func(node Node, conn Conn, msg Message) {
		conn.Write(NewResponse(msg, append([]byte("echo:"), msg.Body()...)))
	})

	go node.Serve(listener)
	t.Cleanup(func() { node.Close() })

	return node, listener.Addr().String()
}

func TestNodeRequest(t *testing.T) {
	_, address := startNode(t)

	conn, err := NewConn(address)
	require.NoError(t, err)
	defer conn.Close()

	for _, body := range []string{"first", "second"} {
		resp, err := conn.Request(NewMessage(msgEcho, []byte(body)))
		require.NoError(t, err)
		assert.Equal(t, msgEcho|MaskBit, resp.Head())
		assert.Equal(t, "echo:"+body, string(resp.Body()))
	}
}

func TestNodeUnknownRoute(t *testing.T) {
	_, address := startNode(t)

	conn, err := NewConn(address)
	require.NoError(t, err)
	defer conn.Close()

	resp, err := conn.Request(NewMessage(msgUnknown, []byte("body")))
	require.NoError(t, err)
	assert.Empty(t, resp.Body())
}

func TestNodeClose(t *testing.T) {
	node, address := startNode(t)

	conn, err := NewConn(address)
	require.NoError(t, err)
	_, err = conn.Request(NewMessage(msgEcho, nil))
	require.NoError(t, err)
	conn.Close()

	require.NoError(t, node.Close())

	_, err = NewConn(address)
	assert.Error(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Error(t, node.Serve(listener))
}

func TestConnRejectsLargePackage(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go func() {
		prefix := make([]byte, SizeBytes)
		prefix[4] = 0x01 // 1<<24 bytes
		client.Write(prefix)
	}()

	_, err := WrapConn(server).Read()
	assert.Equal(t, ErrPackTooLarge, err)
}

func TestConnRejectsForeignResponse(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go func() {
		conn := WrapConn(server)
		req, err := conn.Read()
		if err != nil {
			return
		}
		conn.Write(NewResponse(NewMessage(req.Head(), nil), nil))
	}()

	_, err := WrapConn(client).Request(NewMessage(msgEcho, []byte("body")))
	assert.Equal(t, ErrBadResponse, err)
}

func TestMessageLoad(t *testing.T) {
	msg := NewMessage(msgEcho, []byte("body"))
	data := msg.Bytes()

	size := PackageT(data[:SizeBytes]).BytesToSize()
	assert.Equal(t, uint64(len(data)-SizeBytes), size)

	loaded, err := LoadMessage(data[SizeBytes:])
	require.NoError(t, err)
	assert.Equal(t, msg.Head(), loaded.Head())
	assert.Equal(t, msg.Body(), loaded.Body())
	assert.Equal(t, msg.Nonce(), loaded.Nonce())

	resp := NewResponse(msg, nil)
	assert.Equal(t, msgEcho|MaskBit, resp.Head())
	assert.Equal(t, msg.Nonce(), resp.Nonce())
}

func TestPackageSize(t *testing.T) {
	pack := PackageT("hello")
	assert.Equal(t, encoding.Uint64ToBytes(5), pack.SizeToBytes())
	assert.Equal(t, uint64(5), PackageT(pack.SizeToBytes()).BytesToSize())
	assert.Equal(t, uint64(0), PackageT([]byte{0, 5}).BytesToSize())
}
