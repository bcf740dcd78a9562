package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/urfave/cli/v2"
)

var keygen = cli.Command{
	Name:  "keygen",
	Usage: "generate a new keypair and store it in solana keygen format",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "out",
			Usage:    "the path of the keypair file",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "overwrite the keypair file if it exists",
		},
		&cli.BoolFlag{
			Name:  "use",
			Usage: "set the new keypair as the request signer",
		},
	},
	Action: keygenAction,
}

func keygenAction(ctx *cli.Context) error {
	path, err := filepath.Abs(ctx.String("out"))
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !ctx.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return err
	}
	if err := writeKeygenFile(path, key); err != nil {
		return err
	}

	if ctx.Bool("use") {
		if err := setState(map[string]string{keyfileStateKey: path}); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println("pubkey:", key.PublicKey().String())
	return nil
}

// writeKeygenFile stores key as a JSON array of its 64 bytes.
func writeKeygenFile(path string, key solana.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	raw := make([]int, 0, len(key))
	for _, b := range key {
		raw = append(raw, int(b))
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0600)
}
