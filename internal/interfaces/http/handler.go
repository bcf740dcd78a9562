package httpinterface

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type handler struct {
	vaultSvc   application.VaultService
	txlogSvc   application.TransactionLogService
	accountSvc application.AccountService
	pubsubSvc  application.PubSubService
}

func (h *handler) initializeVault(w http.ResponseWriter, r *http.Request) {
	signer, _ := SignerFromContext(r.Context())
	info, err := h.vaultSvc.InitializeVault(r.Context(), signer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newVaultResponse(*info))
}

func (h *handler) listVaults(w http.ResponseWriter, r *http.Request) {
	vaults, err := h.vaultSvc.ListVaults(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	res := listVaultsResponse{make([]vaultResponse, 0, len(vaults))}
	for _, v := range vaults {
		res.Vaults = append(res.Vaults, newVaultResponse(v))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) getVault(w http.ResponseWriter, r *http.Request) {
	vault, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	info, err := h.vaultSvc.GetVault(r.Context(), vault)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(*info))
}

func (h *handler) getVaultByAuthority(w http.ResponseWriter, r *http.Request) {
	authority, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	info, err := h.vaultSvc.GetVaultByAuthority(r.Context(), authority)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(*info))
}

func (h *handler) deposit(w http.ResponseWriter, r *http.Request) {
	vault, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	signer, _ := SignerFromContext(r.Context())
	info, err := h.vaultSvc.Deposit(r.Context(), vault, signer, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(*info))
}

func (h *handler) withdraw(w http.ResponseWriter, r *http.Request) {
	vault, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	signer, _ := SignerFromContext(r.Context())
	info, err := h.vaultSvc.Withdraw(r.Context(), vault, signer, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(*info))
}

func (h *handler) pause(w http.ResponseWriter, r *http.Request) {
	vault, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	signer, _ := SignerFromContext(r.Context())
	info, err := h.vaultSvc.EmergencyPause(r.Context(), vault, signer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(*info))
}

func (h *handler) resume(w http.ResponseWriter, r *http.Request) {
	vault, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	signer, _ := SignerFromContext(r.Context())
	info, err := h.vaultSvc.ResumeVault(r.Context(), vault, signer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(*info))
}

func (h *handler) closeVault(w http.ResponseWriter, r *http.Request) {
	vault, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	signer, _ := SignerFromContext(r.Context())
	info, err := h.vaultSvc.CloseVault(r.Context(), vault, signer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, closeVaultResponse{
		Address:   info.Vault.String(),
		Authority: info.Authority.String(),
		Released:  info.Released,
	})
}

func (h *handler) logTransaction(w http.ResponseWriter, r *http.Request) {
	vault, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	var req logTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	txType, err := domain.TxTypeFromString(req.TxType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	signer, _ := SignerFromContext(r.Context())
	record, err := h.txlogSvc.LogTransaction(
		r.Context(), vault, signer, txType, req.Amount, req.Description,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRecordResponse(*record))
}

func (h *handler) listRecords(w http.ResponseWriter, r *http.Request) {
	vault, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	var page *domain.Page
	if r.URL.Query().Has("page") || r.URL.Query().Has("size") {
		number, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		p := domain.NewPage(number, size)
		page = &p
	}
	records, err := h.txlogSvc.ListTransactionRecords(r.Context(), vault, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	res := listRecordsResponse{make([]recordResponse, 0, len(records))}
	for _, record := range records {
		res.Records = append(res.Records, newRecordResponse(record))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) getRecord(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	record, err := h.txlogSvc.GetTransactionRecord(r.Context(), address)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRecordResponse(*record))
}

func (h *handler) getBalance(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	info, err := h.accountSvc.GetBalance(r.Context(), address)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{info.Address.String(), info.Balance})
}

func (h *handler) airdrop(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	info, err := h.accountSvc.Airdrop(r.Context(), address, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{info.Address.String(), info.Balance})
}

func (h *handler) addWebhook(w http.ResponseWriter, r *http.Request) {
	var req addWebhookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.pubsubSvc.AddWebhook(r.Context(), req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addWebhookResponse{id})
}

func (h *handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.pubsubSvc.ListWebhooks(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	res := listWebhooksResponse{make([]webhookResponse, 0, len(hooks))}
	for _, hook := range hooks {
		res.Webhooks = append(res.Webhooks, webhookResponse{
			Id:        hook.Id,
			Topic:     hook.Topic,
			Endpoint:  hook.Endpoint,
			IsSecured: hook.IsSecured,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) removeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.pubsubSvc.RemoveWebhook(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func addressParam(
	w http.ResponseWriter, r *http.Request, name string,
) (solana.PublicKey, bool) {
	address, err := solana.PublicKeyFromBase58(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidAddress)
		return solana.PublicKey{}, false
	}
	return address, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody)
		return false
	}
	return true
}
