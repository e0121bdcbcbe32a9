package main

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/number571/unionledger/kernel"
	"github.com/number571/unionledger/logger"
	"github.com/number571/unionledger/network"
)

var (
	errNoBlock = errors.New("block not found")
)

type server struct {
	ledger kernel.Ledger
	log    logger.Logger
}

func (srv *server) node() network.Node {
	return network.NewNode(srv.log).
		Handle(MsgSubmitTX, srv.handleSubmitTX).
		Handle(MsgGetBalance, srv.handleGetBalance).
		Handle(MsgGetPositions, srv.handleGetPositions).
		Handle(MsgGetBlock, srv.handleGetBlock).
		Handle(MsgGetLength, srv.handleGetLength)
}

// tryCommit freezes the pool into a block when anything is pending.
func (srv *server) tryCommit() kernel.Block {
	if srv.ledger.PendingLength() == 0 {
		return nil
	}
	return srv.ledger.Commit()
}

func (srv *server) respond(conn network.Conn, msg network.Message, data interface{}, err error) {
	if werr := conn.Write(network.NewResponse(msg, newReply(data, err))); werr != nil {
		srv.log.Warning("RESPOND", "head=%d err=%v", msg.Head(), werr)
	}
}

func (srv *server) handleSubmitTX(node network.Node, conn network.Conn, msg network.Message) {
	req := new(submitRequest)
	if err := json.Unmarshal(msg.Body(), req); err != nil {
		srv.respond(conn, msg, nil, errors.Wrap(err, "decode request"))
		return
	}

	tx, err := kernel.LoadTransaction(req.TX)
	if err != nil {
		srv.respond(conn, msg, nil, err)
		return
	}

	pub, err := kernel.LoadPubKey(req.Scheme, req.PubKey)
	if err != nil {
		srv.respond(conn, msg, nil, err)
		return
	}

	verdict, err := srv.ledger.Submit(tx, pub)
	srv.respond(conn, msg, &submitResult{
		Accepted: err == nil,
		Rules:    verdict.Failed(),
	}, err)
}

func (srv *server) handleGetBalance(node network.Node, conn network.Conn, msg network.Message) {
	addr := kernel.Address(msg.Body())
	srv.respond(conn, msg, &balanceResult{
		Address: addr,
		Balance: srv.ledger.Balance(addr).String(),
	}, nil)
}

func (srv *server) handleGetPositions(node network.Node, conn network.Conn, msg network.Message) {
	addr := kernel.Address(msg.Body())
	srv.respond(conn, msg, srv.ledger.SpendablePositions(addr), nil)
}

func (srv *server) handleGetBlock(node network.Node, conn network.Conn, msg network.Message) {
	var index kernel.Height
	if err := json.Unmarshal(msg.Body(), &index); err != nil {
		srv.respond(conn, msg, nil, errors.Wrap(err, "decode index"))
		return
	}

	block := srv.ledger.BlockAt(index)
	if block == nil {
		srv.respond(conn, msg, nil, errNoBlock)
		return
	}

	srv.respond(conn, msg, json.RawMessage(block.Bytes()), nil)
}

func (srv *server) handleGetLength(node network.Node, conn network.Conn, msg network.Message) {
	srv.respond(conn, msg, srv.ledger.Length(), nil)
}
