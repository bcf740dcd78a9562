package httpinterface

import (
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

type logTransactionRequest struct {
	TxType      string `json:"tx_type"`
	Amount      uint64 `json:"amount"`
	Description string `json:"description"`
}

type addWebhookRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type vaultResponse struct {
	Address        string `json:"address"`
	Authority      string `json:"authority"`
	TotalDeposited uint64 `json:"total_deposited"`
	TotalWithdrawn uint64 `json:"total_withdrawn"`
	NetDeposited   uint64 `json:"net_deposited"`
	TxCount        uint64 `json:"tx_count"`
	Bump           uint8  `json:"bump"`
	Status         string `json:"status"`
	IsPaused       bool   `json:"is_paused"`
	Balance        uint64 `json:"balance"`
	ReserveFloor   uint64 `json:"reserve_floor"`
	Available      uint64 `json:"available"`
}

func newVaultResponse(info application.VaultInfo) vaultResponse {
	return vaultResponse{
		Address:        info.Address.String(),
		Authority:      info.Authority.String(),
		TotalDeposited: info.TotalDeposited,
		TotalWithdrawn: info.TotalWithdrawn,
		NetDeposited:   info.NetDeposited(),
		TxCount:        info.TxCount,
		Bump:           info.Bump,
		Status:         info.Status.String(),
		IsPaused:       info.IsPaused(),
		Balance:        info.Balance,
		ReserveFloor:   info.ReserveFloor,
		Available:      info.Available,
	}
}

type listVaultsResponse struct {
	Vaults []vaultResponse `json:"vaults"`
}

type closeVaultResponse struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
	Released  uint64 `json:"released"`
}

type recordResponse struct {
	Address     string `json:"address"`
	Vault       string `json:"vault"`
	Authority   string `json:"authority"`
	Index       uint64 `json:"index"`
	TxType      string `json:"tx_type"`
	Amount      uint64 `json:"amount"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
	Slot        uint64 `json:"slot"`
}

func newRecordResponse(r domain.TransactionRecord) recordResponse {
	return recordResponse{
		Address:     r.Address.String(),
		Vault:       r.Vault.String(),
		Authority:   r.Authority.String(),
		Index:       r.Index,
		TxType:      r.TxType.String(),
		Amount:      r.Amount,
		Description: r.Description,
		Timestamp:   r.Timestamp,
		Slot:        r.Slot,
	}
}

type listRecordsResponse struct {
	Records []recordResponse `json:"records"`
}

type accountResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

type addWebhookResponse struct {
	Id string `json:"id"`
}

type webhookResponse struct {
	Id        string `json:"id"`
	Topic     string `json:"topic"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

type listWebhooksResponse struct {
	Webhooks []webhookResponse `json:"webhooks"`
}
