package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
)

var logtx = cli.Command{
	Name:  "log",
	Usage: "log a transaction record for a vault",
	Flags: []cli.Flag{
		&vaultFlag,
		&cli.StringFlag{
			Name:     "type",
			Usage:    "the transaction type: deposit, withdraw, swap, bundle or transfer",
			Required: true,
		},
		&lamportsFlag,
		&solFlag,
		&cli.StringFlag{
			Name:  "description",
			Usage: "a free text description of at most 128 bytes",
		},
	},
	Action: logTxAction,
}

var listrecords = cli.Command{
	Name:  "records",
	Usage: "list the transaction records of a vault",
	Flags: []cli.Flag{
		&vaultFlag,
		&cli.IntFlag{
			Name:  "page",
			Usage: "the page number, starting from 1",
		},
		&cli.IntFlag{
			Name:  "size",
			Usage: "the page size",
		},
	},
	Action: listRecordsAction,
}

var getrecord = cli.Command{
	Name:      "record",
	Usage:     "get a transaction record by its address",
	ArgsUsage: "<address>",
	Action:    getRecordAction,
}

func logTxAction(ctx *cli.Context) error {
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
		fmt.Sprintf("/v1/vaults/%s/records", vault),
		map[string]interface{}{
			"tx_type":     strings.ToUpper(ctx.String("type")),
			"amount":      amount,
			"description": ctx.String("description"),
		},
	)
	if err != nil {
		return err
	}

	res := gjson.GetManyBytes(resp, "index", "address")
	fmt.Println()
	fmt.Printf("record #%d: %s\n", res[0].Uint(), res[1].String())
	return nil
}

func listRecordsAction(ctx *cli.Context) error {
	vault, err := getVaultAddress(ctx)
	if err != nil {
		return err
	}
	client, err := getClient(false)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/v1/vaults/%s/records", vault)
	if ctx.IsSet("page") || ctx.IsSet("size") {
		query := url.Values{}
		query.Set("page", strconv.Itoa(ctx.Int("page")))
		query.Set("size", strconv.Itoa(ctx.Int("size")))
		path += "?" + query.Encode()
	}

	resp, err := client.get(path)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func getRecordAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, "record"}
	}
	client, err := getClient(false)
	if err != nil {
		return err
	}

	resp, err := client.get(fmt.Sprintf("/v1/records/%s", ctx.Args().First()))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
