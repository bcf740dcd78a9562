package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	httpinterface "github.com/tdex-network/tdex-vault/internal/interfaces/http"
	"github.com/tidwall/gjson"
)

const requestTimeout = 30 * time.Second

type vaultClient struct {
	baseURL string
	signer  solana.PrivateKey
	client  *http.Client
}

// getClient returns a client for the daemon in the local state. Requests are
// signed only if signed is true.
func getClient(signed bool) (*vaultClient, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	address, ok := state[daemonStateKey]
	if !ok || address == "" {
		return nil, errors.New("set daemon with `config set daemon`")
	}

	var signer solana.PrivateKey
	if signed {
		signer, err = getSignerFromState()
		if err != nil {
			return nil, err
		}
	}

	return &vaultClient{
		baseURL: strings.TrimSuffix(address, "/"),
		signer:  signer,
		client:  &http.Client{Timeout: requestTimeout},
	}, nil
}

func (c *vaultClient) get(path string) ([]byte, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *vaultClient) post(path string, body interface{}) ([]byte, error) {
	return c.do(http.MethodPost, path, body)
}

func (c *vaultClient) delete(path string) ([]byte, error) {
	return c.do(http.MethodDelete, path, nil)
}

func (c *vaultClient) do(
	method, path string, body interface{},
) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.signer != nil {
		if err := httpinterface.SignRequest(req, c.signer, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if msg := gjson.GetBytes(respBody, "error"); msg.Exists() {
			return nil, errors.New(msg.String())
		}
		return nil, fmt.Errorf("request failed with status %s", resp.Status)
	}
	return respBody, nil
}
