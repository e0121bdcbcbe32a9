package main

import (
	"bufio"
	"encoding/hex"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/number571/unionledger/kernel"
	"github.com/number571/unionledger/logger"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	schemeFlag = cli.StringFlag{
		Name:  "scheme",
		Usage: "Signature scheme of the authority (secp256k1, rsa)",
	}
	listenFlag = cli.StringFlag{
		Name:  "listen",
		Usage: "Address the ledger daemon listens on",
	}
	intervalFlag = cli.UintFlag{
		Name:  "interval",
		Usage: "Seconds between block commits",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "Minimal log level (debug, info, warning, error, off)",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "nocolor",
		Usage: "Disable colored log output",
	}
	remoteFlag = cli.StringFlag{
		Name:  "remote",
		Usage: "Address of a running ledger daemon",
		Value: ListenAddr,
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return errors.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type ledgerSection struct {
	Scheme       string
	MempoolSize  uint64
	CacheSize    int
	AuthorityKey string `toml:",omitempty"`
}

type nodeSection struct {
	Listen         string
	CommitInterval uint
}

type logSection struct {
	Level string
	Color bool
}

type ledgerConfig struct {
	Ledger  ledgerSection
	Node    nodeSection
	Log     logSection
	Genesis map[string]uint64 `toml:",omitempty"`
}

func defaultConfig() ledgerConfig {
	def := kernel.DefaultSettings()
	return ledgerConfig{
		Ledger: ledgerSection{
			Scheme:      string(def.Scheme),
			MempoolSize: def.MempoolSize,
			CacheSize:   def.CacheSize,
		},
		Node: nodeSection{
			Listen:         ListenAddr,
			CommitInterval: IntervalTime,
		},
		Log: logSection{
			Level: logger.LevelInfo.String(),
			Color: true,
		},
	}
}

func loadConfig(file string, cfg *ledgerConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.Wrap(err, file)
	}
	return err
}

// makeConfig loads defaults, then the config file, then flags.
func makeConfig(ctx *cli.Context) (ledgerConfig, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if ctx.GlobalIsSet(schemeFlag.Name) {
		cfg.Ledger.Scheme = ctx.GlobalString(schemeFlag.Name)
	}
	if ctx.GlobalIsSet(listenFlag.Name) {
		cfg.Node.Listen = ctx.GlobalString(listenFlag.Name)
	}
	if ctx.GlobalIsSet(intervalFlag.Name) {
		cfg.Node.CommitInterval = ctx.GlobalUint(intervalFlag.Name)
	}
	if ctx.GlobalIsSet(logLevelFlag.Name) {
		cfg.Log.Level = ctx.GlobalString(logLevelFlag.Name)
	}
	if ctx.GlobalBool(noColorFlag.Name) {
		cfg.Log.Color = false
	}

	return cfg, nil
}

func (cfg ledgerConfig) newLogger() (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logger.New(os.Stderr, level, cfg.Log.Color), nil
}

func (cfg ledgerConfig) settings(log logger.Logger) kernel.Settings {
	return kernel.Settings{
		Scheme:      kernel.Scheme(cfg.Ledger.Scheme),
		MempoolSize: cfg.Ledger.MempoolSize,
		CacheSize:   cfg.Ledger.CacheSize,
		Logger:      log,
	}
}

// newLedger opens a ledger with the configured authority key, or a fresh
// one when none is set.
func (cfg ledgerConfig) newLedger(log logger.Logger) (kernel.Ledger, error) {
	settings := cfg.settings(log)
	if cfg.Ledger.AuthorityKey == "" {
		return kernel.NewLedger(settings)
	}

	keyBytes, err := hex.DecodeString(cfg.Ledger.AuthorityKey)
	if err != nil {
		return nil, errors.Wrap(err, "authority key")
	}

	priv, err := kernel.LoadPrivKey(settings.Scheme, keyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "authority key")
	}

	return kernel.LoadLedger(settings, priv)
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(out)
	return err
}
