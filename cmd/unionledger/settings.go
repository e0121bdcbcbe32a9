package main

import "github.com/number571/unionledger/network"

const (
	MsgSubmitTX network.MsgType = iota + 1
	MsgGetBalance
	MsgGetPositions
	MsgGetBlock
	MsgGetLength
)

const (
	IntervalTime = 5 // seconds between commits
	ListenAddr   = "127.0.0.1:7070"
)
