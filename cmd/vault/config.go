package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/urfave/cli/v2"
)

const (
	daemonStateKey  = "daemon"
	keyfileStateKey = "keyfile"
	vaultStateKey   = "vault"
)

var (
	daemonFlag = cli.StringFlag{
		Name:  "daemon",
		Usage: "vaultd http address",
		Value: "http://localhost:9955",
	}

	keyfileFlag = cli.StringFlag{
		Name:  "keyfile",
		Usage: "path of the solana keypair file used to sign requests",
		Value: "",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the vault CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&daemonFlag,
				&keyfileFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key + ": " + state[key])
	}

	return nil
}

func configInitAction(ctx *cli.Context) error {
	state := map[string]string{
		daemonStateKey: ctx.String(daemonFlag.Name),
	}
	if keyfile := ctx.String(keyfileFlag.Name); keyfile != "" {
		path, err := filepath.Abs(keyfile)
		if err != nil {
			return err
		}
		state[keyfileStateKey] = path
	}
	return setState(state)
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return &invalidUsageError{ctx, "set"}
	}

	key := ctx.Args().Get(0)
	value := ctx.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)
	return nil
}

func getSignerFromState() (solana.PrivateKey, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	keyfile, ok := state[keyfileStateKey]
	if !ok || keyfile == "" {
		return nil, errors.New("set keyfile with `config set keyfile`")
	}
	return solana.PrivateKeyFromSolanaKeygenFile(keyfile)
}

// getVaultAddress returns the vault given with the --vault flag, falling back
// to the one stored in the local state.
func getVaultAddress(ctx *cli.Context) (solana.PublicKey, error) {
	address := ctx.String(vaultFlag.Name)
	if address == "" {
		state, err := getState()
		if err != nil {
			return solana.PublicKey{}, err
		}
		address = state[vaultStateKey]
	}
	if address == "" {
		return solana.PublicKey{}, errors.New(
			"missing vault: use --vault or `config set vault`",
		)
	}
	return solana.PublicKeyFromBase58(address)
}
