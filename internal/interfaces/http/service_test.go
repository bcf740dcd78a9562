package httpinterface

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/clock"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub/stream"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-vault/pkg/derivation"
)

var now = time.Unix(1_700_000_000, 0)

type testServer struct {
	*httptest.Server
	stream ports.EventStream
}

func newTestServer(
	t *testing.T, limiter *rateLimiter, operator solana.PublicKey,
) *testServer {
	t.Helper()

	deriver, err := derivation.NewDeriver(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	repo := inmemory.NewRepoManager()
	clk := clock.NewManualClock(now.Unix(), 1)
	rent := domain.DefaultRentSchedule()
	hub := stream.NewHub(16)
	webhooks, err := pubsub.NewService("", time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() { webhooks.Close() })
	pubsubSvc := application.NewPubSubService(webhooks, hub)
	replay, err := newReplayGuard()
	require.NoError(t, err)
	t.Cleanup(func() { replay.close() })

	vaultSvc, err := application.NewVaultService(repo, deriver, clk, rent, pubsubSvc)
	require.NoError(t, err)
	txlogSvc, err := application.NewTransactionLogService(repo, deriver, clk, rent, pubsubSvc)
	require.NoError(t, err)
	accountSvc, err := application.NewAccountService(repo, true, 100_000_000_000, 0)
	require.NoError(t, err)

	router := newRouter(ServiceOpts{
		Port:           9955,
		VaultSvc:       vaultSvc,
		TransactionSvc: txlogSvc,
		AccountSvc:     accountSvc,
		PubSubSvc:      pubsubSvc,
		EventStream:    hub,
		Operator:       operator,
		Now:            func() time.Time { return now },
	}, limiter, replay)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{srv, hub}
}

func (s *testServer) do(
	t *testing.T, key solana.PrivateKey, method, path string, body interface{},
	out interface{},
) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if key != nil {
		require.NoError(t, SignRequest(req, key, now))
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func newKey(t *testing.T) solana.PrivateKey {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

func TestVaultAPI(t *testing.T) {
	srv := newTestServer(t, nil, solana.PublicKey{})
	authority, depositor := newKey(t), newKey(t)

	for _, key := range []solana.PrivateKey{authority, depositor} {
		path := fmt.Sprintf("/v1/accounts/%s/airdrop", key.PublicKey())
		status := srv.do(t, key, http.MethodPost, path, amountRequest{oneSol()}, nil)
		require.Equal(t, http.StatusOK, status)
	}

	var vault vaultResponse
	status := srv.do(t, authority, http.MethodPost, "/v1/vaults", nil, &vault)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, authority.PublicKey().String(), vault.Authority)
	require.Equal(t, "active", vault.Status)
	vaultPath := "/v1/vaults/" + vault.Address

	status = srv.do(t, depositor, http.MethodPost, vaultPath+"/deposit", amountRequest{1_000_000}, &vault)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, uint64(1_000_000), vault.TotalDeposited)
	require.Equal(t, uint64(1_000_000), vault.Available)

	var errRes errorResponse
	status = srv.do(t, depositor, http.MethodPost, vaultPath+"/withdraw", amountRequest{1}, &errRes)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, domain.ErrUnauthorized.Error(), errRes.Error)

	status = srv.do(t, authority, http.MethodPost, vaultPath+"/withdraw", amountRequest{2_000_000}, &errRes)
	require.Equal(t, http.StatusConflict, status)

	status = srv.do(t, authority, http.MethodPost, vaultPath+"/withdraw", amountRequest{400_000}, &vault)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, uint64(400_000), vault.TotalWithdrawn)

	status = srv.do(t, authority, http.MethodPost, vaultPath+"/pause", nil, &vault)
	require.Equal(t, http.StatusOK, status)
	require.True(t, vault.IsPaused)

	status = srv.do(t, depositor, http.MethodPost, vaultPath+"/deposit", amountRequest{500}, &errRes)
	require.Equal(t, http.StatusLocked, status)

	status = srv.do(t, authority, http.MethodPost, vaultPath+"/resume", nil, &vault)
	require.Equal(t, http.StatusOK, status)
	require.False(t, vault.IsPaused)

	var record recordResponse
	status = srv.do(t, authority, http.MethodPost, vaultPath+"/records", logTransactionRequest{
		TxType: "swap", Amount: 200_000, Description: "swap note",
	}, &record)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "SWAP", record.TxType)
	require.Equal(t, uint64(2), record.Index)

	status = srv.do(t, authority, http.MethodPost, vaultPath+"/records", logTransactionRequest{
		TxType: "swap", Description: strings.Repeat("x", 129),
	}, &errRes)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, domain.ErrDescriptionTooLong.Error(), errRes.Error)

	status = srv.do(t, authority, http.MethodPost, vaultPath+"/records", logTransactionRequest{
		TxType: "mint",
	}, &errRes)
	require.Equal(t, http.StatusBadRequest, status)

	var records listRecordsResponse
	status = srv.do(t, nil, http.MethodGet, vaultPath+"/records", nil, &records)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, records.Records, 1)
	require.Equal(t, record, records.Records[0])

	var got recordResponse
	status = srv.do(t, nil, http.MethodGet, "/v1/records/"+record.Address, nil, &got)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, record, got)

	status = srv.do(t, nil, http.MethodGet, "/v1/authorities/"+authority.PublicKey().String()+"/vault", nil, &vault)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, uint64(3), vault.TxCount)

	var list listVaultsResponse
	status = srv.do(t, nil, http.MethodGet, "/v1/vaults", nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list.Vaults, 1)

	var closed closeVaultResponse
	status = srv.do(t, authority, http.MethodDelete, vaultPath, nil, &closed)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, vault.Balance, closed.Released)

	status = srv.do(t, nil, http.MethodGet, vaultPath, nil, &errRes)
	require.Equal(t, http.StatusNotFound, status)

	var account accountResponse
	status = srv.do(t, nil, http.MethodGet, "/v1/accounts/"+vault.Address, nil, &account)
	require.Equal(t, http.StatusOK, status)
	require.Zero(t, account.Balance)
}

func TestSignatureMiddleware(t *testing.T) {
	srv := newTestServer(t, nil, solana.PublicKey{})
	key := newKey(t)

	t.Run("unsigned", func(t *testing.T) {
		var errRes errorResponse
		status := srv.do(t, nil, http.MethodPost, "/v1/vaults", nil, &errRes)
		require.Equal(t, http.StatusUnauthorized, status)
		require.Equal(t, ErrMissingSigner.Error(), errRes.Error)
	})

	t.Run("tampered body", func(t *testing.T) {
		body := []byte(`{"amount":1}`)
		req, err := http.NewRequest(
			http.MethodPost, srv.URL+"/v1/accounts/"+key.PublicKey().String()+"/airdrop",
			bytes.NewReader(body),
		)
		require.NoError(t, err)
		require.NoError(t, SignRequest(req, key, now))
		req.Body.Close()
		req.Body = http.NoBody
		req.ContentLength = 0

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("signed by another key", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/vaults", nil)
		require.NoError(t, err)
		require.NoError(t, SignRequest(req, key, now))
		req.Header.Set(SignerHeader, newKey(t).PublicKey().String())

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("expired", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/vaults", nil)
		require.NoError(t, err)
		require.NoError(t, SignRequest(req, key, now.Add(-MaxClockSkew-time.Second)))

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("read endpoints are public", func(t *testing.T) {
		status := srv.do(t, nil, http.MethodGet, "/v1/vaults", nil, nil)
		require.Equal(t, http.StatusOK, status)
	})
}

func TestInvalidRequests(t *testing.T) {
	srv := newTestServer(t, nil, solana.PublicKey{})
	key := newKey(t)

	var errRes errorResponse
	status := srv.do(t, nil, http.MethodGet, "/v1/vaults/not-an-address", nil, &errRes)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, ErrInvalidAddress.Error(), errRes.Error)

	path := "/v1/accounts/" + key.PublicKey().String() + "/airdrop"
	status = srv.do(t, key, http.MethodPost, path, map[string]string{"amount": "ten"}, &errRes)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, ErrInvalidBody.Error(), errRes.Error)

	status = srv.do(t, key, http.MethodPost, path, amountRequest{200_000_000_000}, &errRes)
	require.Equal(t, http.StatusBadRequest, status)

	status = srv.do(t, key, http.MethodPost, "/v1/webhooks", addWebhookRequest{
		Topic: "DEPOSIT", Endpoint: "http://localhost",
	}, &errRes)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, ErrOperatorOnly.Error(), errRes.Error)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, newRateLimiter(1, 2), solana.PublicKey{})

	for i := 0; i < 2; i++ {
		status := srv.do(t, nil, http.MethodGet, "/v1/vaults", nil, nil)
		require.Equal(t, http.StatusOK, status)
	}
	var errRes errorResponse
	status := srv.do(t, nil, http.MethodGet, "/v1/vaults", nil, &errRes)
	require.Equal(t, http.StatusTooManyRequests, status)
	require.Equal(t, ErrRateLimited.Error(), errRes.Error)

	status = srv.do(t, nil, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, nil, solana.PublicKey{})
	srv.do(t, nil, http.MethodGet, "/v1/vaults", nil, nil)

	res, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `tdex_vault_http_requests_total{method="GET",route="/v1/vaults",status="200"} 1`)
}

func TestEventStream(t *testing.T) {
	srv := newTestServer(t, nil, solana.PublicKey{})
	key := newKey(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/events?topics=VAULT_CREATED"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	path := "/v1/accounts/" + key.PublicKey().String() + "/airdrop"
	require.Equal(t, http.StatusOK, srv.do(t, key, http.MethodPost, path, amountRequest{oneSol()}, nil))

	require.Equal(t, http.StatusCreated, srv.do(t, key, http.MethodPost, "/v1/vaults", nil, nil))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	event := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(msg, &event))
	require.Equal(t, "VAULT_CREATED", event["event"])

	_, _, err = websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/events?topics=NOPE", nil,
	)
	require.Error(t, err)
}

func TestReplayedRequest(t *testing.T) {
	srv := newTestServer(t, nil, solana.PublicKey{})
	key := newKey(t)
	path := "/v1/accounts/" + key.PublicKey().String() + "/airdrop"

	body, err := json.Marshal(amountRequest{oneSol()})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	require.NoError(t, SignRequest(req, key, now))
	header := req.Header.Clone()

	send := func() (int, errorResponse) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(body))
		require.NoError(t, err)
		req.Header = header.Clone()
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		var errRes errorResponse
		if res.StatusCode != http.StatusOK {
			require.NoError(t, json.NewDecoder(res.Body).Decode(&errRes))
		}
		return res.StatusCode, errRes
	}

	status, _ := send()
	require.Equal(t, http.StatusOK, status)

	status, errRes := send()
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, ErrReplayedSignature.Error(), errRes.Error)

	var account accountResponse
	status = srv.do(t, nil, http.MethodGet, "/v1/accounts/"+key.PublicKey().String(), nil, &account)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, oneSol(), account.Balance)

	// The same request signed again gets a fresh nonce and goes through.
	status = srv.do(t, key, http.MethodPost, path, amountRequest{oneSol()}, nil)
	require.Equal(t, http.StatusOK, status)

	t.Run("missing nonce", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/vaults", nil)
		require.NoError(t, err)
		require.NoError(t, SignRequest(req, key, now))
		req.Header.Del(NonceHeader)

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		var errRes errorResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&errRes))
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
		require.Equal(t, ErrMissingNonce.Error(), errRes.Error)
	})
}

func TestWebhookOperator(t *testing.T) {
	operator, other := newKey(t), newKey(t)
	srv := newTestServer(t, nil, operator.PublicKey())
	hook := addWebhookRequest{Topic: "DEPOSIT", Endpoint: "http://localhost:8080/hook"}

	t.Run("non operator", func(t *testing.T) {
		var errRes errorResponse
		status := srv.do(t, other, http.MethodPost, "/v1/webhooks", hook, &errRes)
		require.Equal(t, http.StatusForbidden, status)
		require.Equal(t, ErrOperatorOnly.Error(), errRes.Error)

		status = srv.do(t, other, http.MethodGet, "/v1/webhooks", nil, &errRes)
		require.Equal(t, http.StatusForbidden, status)

		status = srv.do(t, other, http.MethodDelete, "/v1/webhooks/some-id", nil, &errRes)
		require.Equal(t, http.StatusForbidden, status)

		status = srv.do(t, nil, http.MethodGet, "/v1/webhooks", nil, &errRes)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("operator", func(t *testing.T) {
		var added addWebhookResponse
		status := srv.do(t, operator, http.MethodPost, "/v1/webhooks", hook, &added)
		require.Equal(t, http.StatusCreated, status)
		require.NotEmpty(t, added.Id)

		var list listWebhooksResponse
		status = srv.do(t, operator, http.MethodGet, "/v1/webhooks", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list.Webhooks, 1)

		status = srv.do(t, other, http.MethodDelete, "/v1/webhooks/"+added.Id, nil, nil)
		require.Equal(t, http.StatusForbidden, status)

		status = srv.do(t, operator, http.MethodDelete, "/v1/webhooks/"+added.Id, nil, nil)
		require.Equal(t, http.StatusNoContent, status)

		status = srv.do(t, operator, http.MethodGet, "/v1/webhooks", nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Empty(t, list.Webhooks)
	})
}

func TestRateLimitIgnoresUnverifiedSigner(t *testing.T) {
	limiter := newRateLimiter(1, 2)
	srv := newTestServer(t, limiter, solana.PublicKey{})

	var spoofed []string
	send := func() int {
		signer := newKey(t).PublicKey().String()
		spoofed = append(spoofed, signer)
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/vaults", nil)
		require.NoError(t, err)
		req.Header.Set(SignerHeader, signer)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		return res.StatusCode
	}

	require.Equal(t, http.StatusOK, send())
	require.Equal(t, http.StatusOK, send())
	require.Equal(t, http.StatusTooManyRequests, send())

	limiter.lock.Lock()
	defer limiter.lock.Unlock()
	require.Len(t, limiter.limiters, 1)
	for _, signer := range spoofed {
		require.NotContains(t, limiter.limiters, "signer:"+signer)
	}
}

func oneSol() uint64 {
	return 1_000_000_000
}
