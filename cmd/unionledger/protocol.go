package main

import (
	"encoding/json"

	"github.com/number571/unionledger/kernel"
)

// reply wraps every response body. Error is set when the request failed.
type reply struct {
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type submitRequest struct {
	TX     json.RawMessage `json:"tx"`
	Scheme kernel.Scheme   `json:"scheme"`
	PubKey []byte          `json:"pub_key"`
}

type submitResult struct {
	Accepted bool          `json:"accepted"`
	Rules    []kernel.Rule `json:"rules,omitempty"`
}

type balanceResult struct {
	Address kernel.Address `json:"address"`
	Balance string         `json:"balance"`
}

func newReply(data interface{}, err error) []byte {
	rep := reply{}
	if err != nil {
		rep.Error = err.Error()
	}

	if data != nil {
		raw, merr := json.Marshal(data)
		if merr != nil {
			rep.Error = merr.Error()
		} else {
			rep.Data = raw
		}
	}

	body, _ := json.Marshal(&rep)
	return body
}
