package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

// flags
var (
	urlFlag = &cli.StringFlag{
		Name:  "url",
		Usage: "address of the poold HTTP API",
		Value: "http://localhost:7180",
	}
	addressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "pool address",
		Required: true,
	}
	creatorFlag = &cli.StringFlag{
		Name:     "creator",
		Usage:    "creator account of the new pool",
		Required: true,
	}
	saltFlag = &cli.StringFlag{
		Name:  "salt",
		Usage: "salt for deterministic pool address derivation",
	}
	participantFlag = &cli.StringFlag{
		Name:     "participant",
		Usage:    "participant account to settle",
		Required: true,
	}
)

// commands
var (
	poolCmd = &cli.Command{
		Name:  "pool",
		Usage: "Manage syndicate pools",
		Subcommands: append(
			cli.Commands{},
			poolCreateCmd,
			poolInfoCmd,
		),
	}
	poolCreateCmd = &cli.Command{
		Name:   "create",
		Usage:  "Create a new pool bound to the configured engine",
		Action: poolCreateAction,
		Flags:  []cli.Flag{urlFlag, creatorFlag, saltFlag},
	}
	poolInfoCmd = &cli.Command{
		Name:   "info",
		Usage:  "Get stake and pending prize info for a pool",
		Action: poolInfoAction,
		Flags:  []cli.Flag{urlFlag, addressFlag},
	}
	captureCmd = &cli.Command{
		Name:   "capture",
		Usage:  "Trigger an idempotent prize capture for a pool",
		Action: captureAction,
		Flags:  []cli.Flag{urlFlag, addressFlag},
	}
	claimCmd = &cli.Command{
		Name:   "claim",
		Usage:  "Settle a participant's outstanding share of captured prizes",
		Action: claimAction,
		Flags:  []cli.Flag{urlFlag, addressFlag, participantFlag},
	}
)

func poolCreateAction(ctx *cli.Context) error {
	body := map[string]string{
		"creator": ctx.String("creator"),
		"salt":    ctx.String("salt"),
	}
	return post(ctx.String("url"), "/v1/pools", body)
}

func poolInfoAction(ctx *cli.Context) error {
	return get(ctx.String("url"), "/v1/pools/"+ctx.String("address"))
}

func captureAction(ctx *cli.Context) error {
	path := "/v1/pools/" + ctx.String("address") + "/captures"
	return post(ctx.String("url"), path, map[string]string{})
}

func claimAction(ctx *cli.Context) error {
	path := "/v1/pools/" + ctx.String("address") + "/claims"
	body := map[string]string{"participant": ctx.String("participant")}
	return post(ctx.String("url"), path, body)
}

func post(baseURL, path string, body map[string]string) error {
	endpoint, err := url.JoinPath(baseURL, path)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	// nolint:all
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func get(baseURL, path string) error {
	endpoint, err := url.JoinPath(baseURL, path)
	if err != nil {
		return err
	}
	// nolint:all
	resp, err := http.Get(endpoint)
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %s", resp.Status, content)
	}
	fmt.Println(string(content))
	return nil
}
