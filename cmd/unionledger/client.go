package main

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/number571/unionledger/kernel"
	"github.com/number571/unionledger/network"
)

// client talks to a running ledger daemon over one connection.
type client struct {
	conn network.Conn
}

func newClient(address string) (*client, error) {
	conn, err := network.NewConn(address)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	return &client{conn: conn}, nil
}

func (c *client) Close() error {
	return c.conn.Close()
}

func (c *client) call(head network.MsgType, body []byte, out interface{}) error {
	resp, err := c.conn.Request(network.NewMessage(head, body))
	if err != nil {
		return err
	}

	rep := new(reply)
	if err := json.Unmarshal(resp.Body(), rep); err != nil {
		return errors.Wrap(err, "decode reply")
	}

	if out != nil && rep.Data != nil {
		if err := json.Unmarshal(rep.Data, out); err != nil {
			return errors.Wrap(err, "decode reply data")
		}
	}

	if rep.Error != "" {
		return errors.New(rep.Error)
	}
	return nil
}

// Submit sends tx with the sender's public key. A rejection is returned both
// in the result rules and as an error.
func (c *client) Submit(tx kernel.Transaction, pub kernel.PubKey) (*submitResult, error) {
	body, err := json.Marshal(&submitRequest{
		TX:     tx.Bytes(),
		Scheme: pub.Scheme(),
		PubKey: pub.Bytes(),
	})
	if err != nil {
		return nil, err
	}

	res := new(submitResult)
	err = c.call(MsgSubmitTX, body, res)
	return res, err
}

func (c *client) Balance(addr kernel.Address) (kernel.BigInt, error) {
	res := new(balanceResult)
	if err := c.call(MsgGetBalance, []byte(addr), res); err != nil {
		return nil, err
	}
	balance := kernel.NewInt(res.Balance)
	if balance == nil {
		return nil, errors.Errorf("malformed balance %q", res.Balance)
	}
	return balance, nil
}

func (c *client) Positions(addr kernel.Address) ([]kernel.Location, error) {
	positions := []kernel.Location{}
	if err := c.call(MsgGetPositions, []byte(addr), &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *client) Block(index kernel.Height) (kernel.Block, error) {
	body, err := json.Marshal(index)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.call(MsgGetBlock, body, &raw); err != nil {
		return nil, err
	}
	return kernel.LoadBlock(raw)
}

func (c *client) Length() (kernel.Height, error) {
	var length kernel.Height
	if err := c.call(MsgGetLength, nil, &length); err != nil {
		return 0, err
	}
	return length, nil
}

// remotePositions lets a wallet read positions through a client. The first
// failure is kept in err.
type remotePositions struct {
	client *client
	err    error
}

func (rp *remotePositions) SpendablePositions(addr kernel.Address) []kernel.Location {
	positions, err := rp.client.Positions(addr)
	if err != nil {
		rp.err = err
		return nil
	}
	return positions
}
