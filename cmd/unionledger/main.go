package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/number571/unionledger/kernel"
	"github.com/number571/unionledger/wallet"
)

var (
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "Dump the decoded block structure",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Hex encoded private key of the sender",
	}
	toFlag = cli.StringSliceFlag{
		Name:  "to",
		Usage: "Receiver as address=amount, may be repeated",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "unionledger"
	app.Usage = "centrally issued value-transfer ledger"
	app.Flags = []cli.Flag{
		configFileFlag,
		schemeFlag,
		listenFlag,
		intervalFlag,
		logLevelFlag,
		noColorFlag,
		remoteFlag,
	}
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "Run the ledger daemon",
			Action: serve,
		},
		{
			Name:   "demo",
			Usage:  "Replay the sample transfer scenario in process",
			Action: demo,
		},
		{
			Name:      "balance",
			Usage:     "Print the balance of an address",
			ArgsUsage: "ADDRESS",
			Action:    printBalance,
		},
		{
			Name:      "positions",
			Usage:     "Print the spendable positions of an address",
			ArgsUsage: "ADDRESS",
			Action:    printPositions,
		},
		{
			Name:      "block",
			Usage:     "Print a committed block",
			ArgsUsage: "INDEX",
			Flags:     []cli.Flag{dumpFlag},
			Action:    printBlock,
		},
		{
			Name:   "length",
			Usage:  "Print the number of committed blocks",
			Action: printLength,
		},
		{
			Name:   "keygen",
			Usage:  "Generate an account key pair",
			Action: keygen,
		},
		{
			Name:   "transfer",
			Usage:  "Spend every position of the key owner, change goes back to it",
			Flags:  []cli.Flag{keyFlag, toFlag},
			Action: transfer,
		},
		{
			Name:   "dumpconfig",
			Usage:  "Show configuration values",
			Action: dumpConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func demo(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	log, err := cfg.newLogger()
	if err != nil {
		return err
	}

	ledger, err := cfg.newLedger(log)
	if err != nil {
		return err
	}
	defer ledger.Close()

	return runDemo(os.Stdout, ledger)
}

func dial(ctx *cli.Context) (*client, error) {
	return newClient(ctx.GlobalString(remoteFlag.Name))
}

func printBalance(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one address")
	}
	addr := kernel.Address(ctx.Args().First())

	c, err := dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	amount, err := c.Balance(addr)
	if err != nil {
		return err
	}

	showBalances(os.Stdout, []accountRow{{name: "-", addr: addr, balance: amount}})
	return nil
}

func printPositions(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one address")
	}
	addr := kernel.Address(ctx.Args().First())

	c, err := dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	list, err := c.Positions(addr)
	if err != nil {
		return err
	}

	showPositions(os.Stdout, addr, list)
	return nil
}

func printBlock(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one block index")
	}

	index, err := strconv.ParseUint(ctx.Args().First(), 10, 64)
	if err != nil {
		return errors.Wrap(err, "block index")
	}

	c, err := dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	blk, err := c.Block(kernel.Height(index))
	if err != nil {
		return err
	}

	if ctx.Bool(dumpFlag.Name) {
		spew.Fdump(os.Stdout, blk)
		return nil
	}

	showBlock(os.Stdout, blk)
	return nil
}

func printLength(ctx *cli.Context) error {
	c, err := dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Length()
	if err != nil {
		return err
	}

	fmt.Println(n)
	return nil
}

func keygen(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	user, err := wallet.New(kernel.Scheme(cfg.Ledger.Scheme))
	if err != nil {
		return err
	}

	fmt.Printf("scheme:  %s\n", user.PubKey().Scheme())
	fmt.Printf("address: %s\n", user.Address())
	fmt.Printf("pubkey:  %x\n", user.PubKey().Bytes())
	fmt.Printf("privkey: %x\n", user.PrivKey().Bytes())
	return nil
}

func transfer(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	keyBytes, err := hex.DecodeString(ctx.String(keyFlag.Name))
	if err != nil {
		return errors.Wrap(err, "sender key")
	}

	priv, err := kernel.LoadPrivKey(kernel.Scheme(cfg.Ledger.Scheme), keyBytes)
	if err != nil {
		return errors.Wrap(err, "sender key")
	}
	user := wallet.Load(priv)

	outputs, err := parseOutputs(ctx.StringSlice(toFlag.Name))
	if err != nil {
		return err
	}

	c, err := dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	remote := &remotePositions{client: c}
	funds := uint64(0)
	for _, loc := range remote.SpendablePositions(user.Address()) {
		funds += loc.Amount
	}
	if remote.err != nil {
		return remote.err
	}

	if err := addChange(outputs, user.Address(), funds); err != nil {
		return err
	}

	tx, err := user.TransferAll(remote, outputs)
	if remote.err != nil {
		return remote.err
	}
	if err != nil {
		return err
	}

	res, err := c.Submit(tx, user.PubKey())
	if err != nil {
		return err
	}

	fmt.Printf("accepted: %t hash: %X\n", res.Accepted, []byte(tx.Hash()))
	return nil
}

// parseOutputs reads address=amount pairs.
func parseOutputs(pairs []string) (map[kernel.Address]uint64, error) {
	outputs := make(map[kernel.Address]uint64, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, errors.Errorf("bad receiver %q", pair)
		}

		amount, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "receiver %q", pair)
		}

		outputs[kernel.Address(parts[0])] += amount
	}
	return outputs, nil
}

// addChange credits owner with whatever funds the outputs leave over.
func addChange(outputs map[kernel.Address]uint64, owner kernel.Address, funds uint64) error {
	total := uint64(0)
	for _, amount := range outputs {
		total += amount
	}

	if total > funds {
		return errors.Errorf("outputs %d exceed funds %d", total, funds)
	}

	if change := funds - total; change > 0 {
		outputs[owner] += change
	}
	return nil
}
