package network

import (
	"net"
	"sync"

	"github.com/number571/gopeer/crypto"
	"github.com/pkg/errors"

	"github.com/number571/unionledger/logger"
)

var (
	_ Node = &NodeT{}
)

// NodeT serves request/response routes over tcp. Requests on one
// connection are handled in order.
type NodeT struct {
	mtx sync.Mutex

	log          logger.Logger
	closed       bool
	listener     net.Listener
	connections  map[string]Conn
	handleRoutes map[MsgType]HandleFunc
}

func NewNode(log logger.Logger) Node {
	if log == nil {
		log = logger.Discard()
	}
	return &NodeT{
		log:          log,
		connections:  make(map[string]Conn),
		handleRoutes: make(map[MsgType]HandleFunc),
	}
}

// Add function to mapping for route use.
func (node *NodeT) Handle(tmsg MsgType, handle HandleFunc) Node {
	node.mtx.Lock()
	defer node.mtx.Unlock()

	node.handleRoutes[tmsg] = handle
	return node
}

// Turn on listener by address. Blocks until Close.
func (node *NodeT) Listen(address string) error {
	listen, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "listen %s", address)
	}
	return node.Serve(listen)
}

func (node *NodeT) Serve(listen net.Listener) error {
	node.mtx.Lock()
	if node.closed {
		node.mtx.Unlock()
		listen.Close()
		return errors.New("node is closed")
	}
	node.listener = listen
	node.mtx.Unlock()

	node.log.Info("LISTEN", "address=%s", listen.Addr())

	for {
		conn, err := listen.Accept()
		if err != nil {
			if node.isClosed() {
				return nil
			}
			return errors.Wrap(err, "accept")
		}

		if node.Connections() >= ConnSize {
			node.log.Warning("CONNECT", "address=%s reason=limit", conn.RemoteAddr())
			conn.Close()
			continue
		}

		id := crypto.RandString(NonceSize)
		iconn := WrapConn(conn)

		node.setConnection(id, iconn)
		go node.handleConn(id, iconn)
	}
}

func (node *NodeT) Connections() int {
	node.mtx.Lock()
	defer node.mtx.Unlock()

	return len(node.connections)
}

func (node *NodeT) Close() error {
	node.mtx.Lock()
	defer node.mtx.Unlock()

	node.closed = true
	for id, conn := range node.connections {
		conn.Close()
		delete(node.connections, id)
	}

	if node.listener == nil {
		return nil
	}
	return node.listener.Close()
}

func (node *NodeT) handleConn(id string, conn Conn) {
	defer node.delConnection(id)

	for {
		msg, err := conn.Read()
		if err != nil {
			return
		}

		handle, ok := node.getFunction(msg.Head())
		if !ok {
			node.log.Warning("ROUTE", "head=%d reason=unknown", msg.Head())
			if err := conn.Write(NewResponse(msg, nil)); err != nil {
				return
			}
			continue
		}

		handle(node, conn, msg)
	}
}

func (node *NodeT) getFunction(tmsg MsgType) (HandleFunc, bool) {
	node.mtx.Lock()
	defer node.mtx.Unlock()

	f, ok := node.handleRoutes[tmsg]
	return f, ok
}

func (node *NodeT) isClosed() bool {
	node.mtx.Lock()
	defer node.mtx.Unlock()

	return node.closed
}

func (node *NodeT) setConnection(id string, conn Conn) {
	node.mtx.Lock()
	defer node.mtx.Unlock()

	node.connections[id] = conn
}

func (node *NodeT) delConnection(id string) {
	node.mtx.Lock()
	defer node.mtx.Unlock()

	if conn, ok := node.connections[id]; ok {
		conn.Close()
		delete(node.connections, id)
	}
}
