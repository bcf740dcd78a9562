package application

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

// VaultInfo is a vault along with the state of its ledger account.
type VaultInfo struct {
	domain.Vault
	// Balance is the custodial balance of the vault account.
	Balance uint64
	// ReserveFloor is the part of Balance that can't be withdrawn.
	ReserveFloor uint64
	// Available is the part of Balance that can be withdrawn.
	Available uint64
}

// CloseInfo reports the outcome of closing a vault.
type CloseInfo struct {
	Vault     solana.PublicKey
	Authority solana.PublicKey
	Released  uint64
}

// AccountInfo is the balance of a ledger account.
type AccountInfo struct {
	Address solana.PublicKey
	Balance uint64
}

// WebhookInfo describes a webhook subscription.
type WebhookInfo struct {
	Id        string
	Topic     string
	Endpoint  string
	IsSecured bool
}

func webhookInfoFromSubscription(s ports.Subscription) WebhookInfo {
	return WebhookInfo{
		Id:        s.Id(),
		Topic:     s.Topic(),
		Endpoint:  s.NotifyAt(),
		IsSecured: s.IsSecured(),
	}
}
