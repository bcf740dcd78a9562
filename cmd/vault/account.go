package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
)

var accountFlag = cli.StringFlag{
	Name:  "address",
	Usage: "the account address, defaults to the signer's one",
}

var balance = cli.Command{
	Name:   "balance",
	Usage:  "get the balance of an account",
	Flags:  []cli.Flag{&accountFlag},
	Action: balanceAction,
}

var airdrop = cli.Command{
	Name:   "airdrop",
	Usage:  "request an airdrop to an account, if enabled by the daemon",
	Flags:  []cli.Flag{&accountFlag, &lamportsFlag, &solFlag},
	Action: airdropAction,
}

func balanceAction(ctx *cli.Context) error {
	address, err := getAccountAddress(ctx)
	if err != nil {
		return err
	}
	client, err := getClient(false)
	if err != nil {
		return err
	}

	resp, err := client.get(fmt.Sprintf("/v1/accounts/%s", address))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("balance:", formatLamports(gjson.GetBytes(resp, "balance").Uint()))
	return nil
}

func airdropAction(ctx *cli.Context) error {
	amount, err := getAmount(ctx)
	if err != nil {
		return err
	}
	address, err := getAccountAddress(ctx)
	if err != nil {
		return err
	}
	client, err := getClient(true)
	if err != nil {
		return err
	}

	resp, err := client.post(
		fmt.Sprintf("/v1/accounts/%s/airdrop", address),
		map[string]uint64{"amount": amount},
	)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("balance:", formatLamports(gjson.GetBytes(resp, "balance").Uint()))
	return nil
}

func getAccountAddress(ctx *cli.Context) (solana.PublicKey, error) {
	if address := ctx.String(accountFlag.Name); address != "" {
		return solana.PublicKeyFromBase58(address)
	}
	signer, err := getSignerFromState()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return signer.PublicKey(), nil
}
