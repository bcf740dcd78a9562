package main

import (
	"fmt"
	"net/url"

	"github.com/thanhpk/randstr"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
)

const generatedSecretLen = 32

var addwebhook = cli.Command{
	Name:  "addwebhook",
	Usage: "add a webhook registered for some event",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "endpoint",
			Usage:    "the endpoint where to notify the webhook",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "the eventual secret to authenticate requests",
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "gen-secret",
			Usage: "generate a random secret for the webhook",
		},
		&cli.StringFlag{
			Name:     "topic",
			Usage:    "the event topic for which the webhook gets notified, * for all",
			Required: true,
		},
	},
	Action: addWebhookAction,
}

var listwebhooks = cli.Command{
	Name:  "listwebhooks",
	Usage: "list the registered webhooks",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "topic",
			Usage: "list only the webhooks of the given topic",
		},
	},
	Action: listWebhooksAction,
}

var removewebhook = cli.Command{
	Name:  "removewebhook",
	Usage: "remove some webhook",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the id of the webhook to remove",
			Required: true,
		},
	},
	Action: removeWebhookAction,
}

func addWebhookAction(ctx *cli.Context) error {
	client, err := getClient(true)
	if err != nil {
		return err
	}

	secret := ctx.String("secret")
	if ctx.Bool("gen-secret") {
		if secret != "" {
			return fmt.Errorf("--secret and --gen-secret are mutually exclusive")
		}
		secret = randstr.Hex(generatedSecretLen)
	}

	resp, err := client.post("/v1/webhooks", map[string]string{
		"topic":    ctx.String("topic"),
		"endpoint": ctx.String("endpoint"),
		"secret":   secret,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("hook id:", gjson.GetBytes(resp, "id").String())
	if ctx.Bool("gen-secret") {
		fmt.Println("secret:", secret)
	}
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	client, err := getClient(true)
	if err != nil {
		return err
	}

	path := "/v1/webhooks"
	if topic := ctx.String("topic"); topic != "" {
		path += "?" + url.Values{"topic": {topic}}.Encode()
	}

	resp, err := client.get(path)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	client, err := getClient(true)
	if err != nil {
		return err
	}

	id := ctx.String("id")
	if _, err := client.delete(fmt.Sprintf("/v1/webhooks/%s", id)); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("removed webhook %s\n", id)
	return nil
}
