package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const lamportsPerSolExp = 9

var (
	lamportsFlag = cli.Uint64Flag{
		Name:  "lamports",
		Usage: "the amount in lamports",
	}
	solFlag = cli.StringFlag{
		Name:  "sol",
		Usage: "the amount in SOL, alternative to --lamports",
	}

	errMissingAmount    = errors.New("one of --lamports or --sol is required")
	errAmbiguousAmount  = errors.New("--lamports and --sol are mutually exclusive")
	errInvalidSolAmount = errors.New("sol amount must be a non negative number with at most 9 decimals")
)

func getAmount(ctx *cli.Context) (uint64, error) {
	hasLamports := ctx.IsSet(lamportsFlag.Name)
	hasSol := ctx.IsSet(solFlag.Name)
	if hasLamports && hasSol {
		return 0, errAmbiguousAmount
	}
	if hasLamports {
		return ctx.Uint64(lamportsFlag.Name), nil
	}
	if hasSol {
		return solToLamports(ctx.String(solFlag.Name))
	}
	return 0, errMissingAmount
}

func solToLamports(amount string) (uint64, error) {
	sol, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, errInvalidSolAmount
	}
	lamports := sol.Shift(lamportsPerSolExp)
	if lamports.IsNegative() || !lamports.Equal(lamports.Truncate(0)) {
		return 0, errInvalidSolAmount
	}
	n := lamports.BigInt()
	if !n.IsUint64() {
		return 0, errInvalidSolAmount
	}
	return n.Uint64(), nil
}

func formatLamports(lamports uint64) string {
	sol := decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -lamportsPerSolExp)
	return fmt.Sprintf("%s SOL", sol.String())
}
