package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"go.uber.org/ratelimit"
)

// AccountService exposes the balances of ledger accounts and, on devnets,
// lets wallets be funded out of thin air.
type AccountService interface {
	GetBalance(ctx context.Context, address solana.PublicKey) (*AccountInfo, error)
	Airdrop(
		ctx context.Context, address solana.PublicKey, amount uint64,
	) (*AccountInfo, error)
}

type accountService struct {
	repo           ports.RepoManager
	airdropEnabled bool
	airdropMax     uint64
	limiter        ratelimit.Limiter
}

// NewAccountService returns a new AccountService. Airdrops are paced to at
// most airdropRate per second, or not paced at all if airdropRate is not
// positive.
func NewAccountService(
	repo ports.RepoManager,
	airdropEnabled bool, airdropMax uint64, airdropRate int,
) (AccountService, error) {
	if repo == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	limiter := ratelimit.NewUnlimited()
	if airdropRate > 0 {
		limiter = ratelimit.New(airdropRate)
	}
	return &accountService{repo, airdropEnabled, airdropMax, limiter}, nil
}

func (s *accountService) GetBalance(
	ctx context.Context, address solana.PublicKey,
) (*AccountInfo, error) {
	account, err := s.repo.LedgerRepository().GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	return &AccountInfo{address, account.Balance}, nil
}

func (s *accountService) Airdrop(
	ctx context.Context, address solana.PublicKey, amount uint64,
) (*AccountInfo, error) {
	if !s.airdropEnabled {
		return nil, ErrAirdropDisabled
	}
	if address.IsZero() {
		return nil, domain.ErrZeroAddress
	}
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if amount > s.airdropMax {
		return nil, ErrAirdropTooLarge
	}

	s.limiter.Take()

	result, err := s.repo.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.checkNotProgramOwned(ctx, address); err != nil {
				return nil, err
			}
			ledger := valueLedger{s.repo.LedgerRepository()}
			if err := ledger.credit(ctx, address, amount); err != nil {
				return nil, err
			}
			return ledger.balance(ctx, address)
		},
	)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account": address.String(),
		"amount":  amount,
	}).Debug("airdrop")
	return &AccountInfo{address, result.(uint64)}, nil
}

// checkNotProgramOwned fails if a vault or a transaction record lives at
// address. Their balances only change through vault operations.
func (s *accountService) checkNotProgramOwned(
	ctx context.Context, address solana.PublicKey,
) error {
	_, err := s.repo.VaultRepository().GetVault(ctx, address)
	if err == nil {
		return ErrProgramOwnedAccount
	}
	if !errors.Is(err, domain.ErrVaultNotFound) {
		return err
	}

	_, err = s.repo.TransactionRecordRepository().GetRecord(ctx, address)
	if err == nil {
		return ErrProgramOwnedAccount
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}
	return nil
}
