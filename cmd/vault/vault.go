package main

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
)

var vaultFlag = cli.StringFlag{
	Name:  "vault",
	Usage: "the vault address, defaults to the one in the local state",
}

var initvault = cli.Command{
	Name:   "init",
	Usage:  "initialize the vault of the signer and store it in the local state",
	Action: initVaultAction,
}

var info = cli.Command{
	Name:  "info",
	Usage: "get the state of a vault",
	Flags: []cli.Flag{
		&vaultFlag,
		&cli.StringFlag{
			Name:  "authority",
			Usage: "look the vault up by its authority instead",
		},
	},
	Action: infoAction,
}

var listvaults = cli.Command{
	Name:   "listvaults",
	Usage:  "list all vaults",
	Action: listVaultsAction,
}

var deposit = cli.Command{
	Name:   "deposit",
	Usage:  "deposit funds of the signer into a vault",
	Flags:  []cli.Flag{&vaultFlag, &lamportsFlag, &solFlag},
	Action: depositAction,
}

var withdraw = cli.Command{
	Name:   "withdraw",
	Usage:  "withdraw funds from a vault to its authority",
	Flags:  []cli.Flag{&vaultFlag, &lamportsFlag, &solFlag},
	Action: withdrawAction,
}

var pause = cli.Command{
	Name:   "pause",
	Usage:  "emergency pause a vault",
	Flags:  []cli.Flag{&vaultFlag},
	Action: pauseAction,
}

var resume = cli.Command{
	Name:   "resume",
	Usage:  "resume a paused vault",
	Flags:  []cli.Flag{&vaultFlag},
	Action: resumeAction,
}

var closevault = cli.Command{
	Name:   "close",
	Usage:  "close a vault and release all its funds to the authority",
	Flags:  []cli.Flag{&vaultFlag},
	Action: closeVaultAction,
}

func initVaultAction(ctx *cli.Context) error {
	client, err := getClient(true)
	if err != nil {
		return err
	}

	resp, err := client.post("/v1/vaults", nil)
	if err != nil {
		return err
	}

	address := gjson.GetBytes(resp, "address").String()
	if err := setState(map[string]string{vaultStateKey: address}); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("vault:", address)
	return nil
}

func infoAction(ctx *cli.Context) error {
	client, err := getClient(false)
	if err != nil {
		return err
	}

	var path string
	if authority := ctx.String("authority"); authority != "" {
		path = fmt.Sprintf("/v1/authorities/%s/vault", authority)
	} else {
		vault, err := getVaultAddress(ctx)
		if err != nil {
			return err
		}
		path = fmt.Sprintf("/v1/vaults/%s", vault)
	}

	resp, err := client.get(path)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	printVaultFunds(resp)
	return nil
}

func listVaultsAction(ctx *cli.Context) error {
	client, err := getClient(false)
	if err != nil {
		return err
	}

	resp, err := client.get("/v1/vaults")
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func depositAction(ctx *cli.Context) error {
	return amountAction(ctx, "deposit")
}

func withdrawAction(ctx *cli.Context) error {
	return amountAction(ctx, "withdraw")
}

func amountAction(ctx *cli.Context, op string) error {
	amount, err := getAmount(ctx)
	if err != nil {
		return err
	}
	vault, err := getVaultAddress(ctx)
	if err != nil {
		return err
	}
	client, err := getClient(true)
	if err != nil {
		return err
	}

	resp, err := client.post(
		fmt.Sprintf("/v1/vaults/%s/%s", vault, op),
		map[string]uint64{"amount": amount},
	)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s of %s completed\n", op, formatLamports(amount))
	printVaultFunds(resp)
	return nil
}

func pauseAction(ctx *cli.Context) error {
	return toggleAction(ctx, "pause")
}

func resumeAction(ctx *cli.Context) error {
	return toggleAction(ctx, "resume")
}

func toggleAction(ctx *cli.Context, op string) error {
	vault, err := getVaultAddress(ctx)
	if err != nil {
		return err
	}
	client, err := getClient(true)
	if err != nil {
		return err
	}

	resp, err := client.post(fmt.Sprintf("/v1/vaults/%s/%s", vault, op), nil)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("status:", gjson.GetBytes(resp, "status").String())
	return nil
}

func closeVaultAction(ctx *cli.Context) error {
	vault, err := getVaultAddress(ctx)
	if err != nil {
		return err
	}
	client, err := getClient(true)
	if err != nil {
		return err
	}

	resp, err := client.delete(fmt.Sprintf("/v1/vaults/%s", vault))
	if err != nil {
		return err
	}

	state, _ := getState()
	if state[vaultStateKey] == vault.String() {
		if err := setState(map[string]string{vaultStateKey: ""}); err != nil {
			return err
		}
	}

	released := gjson.GetBytes(resp, "released").Uint()
	fmt.Println()
	fmt.Printf("vault closed, %s released to authority\n", formatLamports(released))
	return nil
}

func printVaultFunds(resp []byte) {
	res := gjson.GetManyBytes(resp, "balance", "reserve_floor", "available")
	fmt.Println("balance:      ", formatLamports(res[0].Uint()))
	fmt.Println("reserve floor:", formatLamports(res[1].Uint()))
	fmt.Println("available:    ", formatLamports(res[2].Uint()))
}
