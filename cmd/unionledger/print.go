package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/number571/unionledger/kernel"
)

const shortLen = 8 // bytes of a hash shown in tables

func shortHex(data []byte) string {
	if len(data) > shortLen {
		data = data[:shortLen]
	}
	return fmt.Sprintf("%X", data)
}

func shortAddr(addr kernel.Address) string {
	if len(addr) > 2*shortLen {
		return string(addr[:2*shortLen])
	}
	return string(addr)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

// showBlock prints the block header and then one row per transaction.
func showBlock(w io.Writer, block kernel.Block) {
	header := newTable(w, "Index", "Previous Hash", "Hash", "Signature")
	header.Append([]string{
		strconv.FormatUint(uint64(block.Index()), 10),
		shortHex(block.PrevHash()),
		shortHex(block.Hash()),
		shortHex(block.Sign()),
	})
	header.Render()

	txs := newTable(w, "#", "Sender", "Locations", "Receivers", "Hash", "Signature")
	for i, tx := range block.Transactions() {
		txs.Append([]string{
			strconv.Itoa(i),
			shortAddr(tx.Sender()),
			formatInputs(tx.Inputs()),
			formatOutputs(tx.Outputs()),
			shortHex(tx.Hash()),
			shortHex(tx.Sign()),
		})
	}
	txs.Render()
}

func showPositions(w io.Writer, addr kernel.Address, positions []kernel.Location) {
	table := newTable(w, "Owner", "Block", "TX", "Amount")
	for _, loc := range positions {
		table.Append([]string{
			shortAddr(addr),
			strconv.FormatUint(uint64(loc.Block), 10),
			strconv.FormatUint(loc.TX, 10),
			strconv.FormatUint(loc.Amount, 10),
		})
	}
	table.Render()
}

type accountRow struct {
	name    string
	addr    kernel.Address
	balance kernel.BigInt
}

func showBalances(w io.Writer, rows []accountRow) {
	table := newTable(w, "Account", "Address", "Balance")
	for _, row := range rows {
		table.Append([]string{
			row.name,
			shortAddr(row.addr),
			row.balance.String(),
		})
	}
	table.Render()
}

func formatInputs(inputs []kernel.Location) string {
	if len(inputs) == 0 {
		return "mint"
	}

	parts := make([]string, 0, len(inputs))
	for _, loc := range inputs {
		parts = append(parts, fmt.Sprintf("%d:%d=%d", loc.Block, loc.TX, loc.Amount))
	}
	return strings.Join(parts, " ")
}

func formatOutputs(outputs map[kernel.Address]uint64) string {
	addrs := make([]string, 0, len(outputs))
	for addr := range outputs {
		addrs = append(addrs, string(addr))
	}
	sort.Strings(addrs)

	parts := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		parts = append(parts, fmt.Sprintf("%s=%d",
			shortAddr(kernel.Address(addr)), outputs[kernel.Address(addr)]))
	}
	return strings.Join(parts, " ")
}
