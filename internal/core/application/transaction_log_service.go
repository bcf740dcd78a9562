package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

// TransactionLogService appends immutable audit records to vaults and
// retrieves them.
type TransactionLogService interface {
	LogTransaction(
		ctx context.Context, vault, caller solana.PublicKey,
		txType domain.TxType, amount uint64, description string,
	) (*domain.TransactionRecord, error)
	GetTransactionRecord(
		ctx context.Context, address solana.PublicKey,
	) (*domain.TransactionRecord, error)
	ListTransactionRecords(
		ctx context.Context, vault solana.PublicKey, page *domain.Page,
	) ([]domain.TransactionRecord, error)
}

type transactionLogService struct {
	repo    ports.RepoManager
	deriver ports.AddressDeriver
	clock   ports.Clock
	rent    domain.RentSchedule
	pubsub  PubSubService
}

func NewTransactionLogService(
	repo ports.RepoManager, deriver ports.AddressDeriver, clock ports.Clock,
	rent domain.RentSchedule, pubsub PubSubService,
) (TransactionLogService, error) {
	if repo == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if deriver == nil {
		return nil, fmt.Errorf("missing address deriver")
	}
	if clock == nil {
		return nil, fmt.Errorf("missing clock")
	}
	if pubsub == nil {
		pubsub = NewPubSubService(nil)
	}
	return &transactionLogService{repo, deriver, clock, rent, pubsub}, nil
}

func (s *transactionLogService) LogTransaction(
	ctx context.Context, vault, caller solana.PublicKey,
	txType domain.TxType, amount uint64, description string,
) (*domain.TransactionRecord, error) {
	timestamp, slot, err := s.clock.Now(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read clock: %w", err)
	}

	result, err := s.repo.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var index uint64
			var authority solana.PublicKey
			if err := s.repo.VaultRepository().UpdateVault(
				ctx, vault, func(v *domain.Vault) (*domain.Vault, error) {
					if !s.deriver.VerifyVaultAddress(v.Address, v.Authority, v.Bump) {
						return nil, domain.ErrVaultAddressMismatch
					}
					i, err := v.LogTransaction(caller, txType, description)
					if err != nil {
						return nil, err
					}
					index = i
					authority = v.Authority
					return v, nil
				},
			); err != nil {
				return nil, err
			}

			address, _, err := s.deriver.TransactionRecordAddress(vault, index)
			if err != nil {
				return nil, fmt.Errorf("failed to derive record address: %w", err)
			}
			record, err := domain.NewTransactionRecord(
				address, vault, authority, index, txType, amount, description,
				timestamp, slot,
			)
			if err != nil {
				return nil, err
			}
			if err := s.repo.TransactionRecordRepository().AddRecord(
				ctx, record,
			); err != nil {
				return nil, err
			}

			ledger := valueLedger{s.repo.LedgerRepository()}
			rent := s.rent.MinimumBalance(domain.TransactionRecordSpace)
			if err := ledger.transfer(ctx, authority, address, rent); err != nil {
				return nil, fmt.Errorf("failed to fund record rent: %w", err)
			}
			return record, nil
		},
	)
	if err != nil {
		return nil, err
	}

	record := result.(*domain.TransactionRecord)
	log.WithFields(log.Fields{
		"vault":   vault.String(),
		"record":  record.Address.String(),
		"index":   record.Index,
		"tx_type": record.TxType.String(),
	}).Info("transaction logged")

	s.pubsub.PublishEvent(domain.TransactionLogged{
		Vault:       vault,
		TxType:      record.TxType.String(),
		Amount:      record.Amount,
		Description: record.Description,
		Timestamp:   record.Timestamp,
	})
	return record, nil
}

func (s *transactionLogService) GetTransactionRecord(
	ctx context.Context, address solana.PublicKey,
) (*domain.TransactionRecord, error) {
	return s.repo.TransactionRecordRepository().GetRecord(ctx, address)
}

// ListTransactionRecords returns the records of a vault by walking the
// addresses derived from every index lower than the vault's transaction
// counter. Indexes consumed by deposits and withdrawals have no record and
// are skipped. Records of a closed vault are looked up by vault instead.
func (s *transactionLogService) ListTransactionRecords(
	ctx context.Context, vault solana.PublicKey, page *domain.Page,
) ([]domain.TransactionRecord, error) {
	result, err := s.repo.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			v, err := s.repo.VaultRepository().GetVault(ctx, vault)
			if err != nil {
				if errors.Is(err, domain.ErrVaultNotFound) {
					return s.repo.TransactionRecordRepository().GetRecordsForVault(
						ctx, vault, page,
					)
				}
				return nil, err
			}

			records := make([]domain.TransactionRecord, 0)
			for i := uint64(0); i < v.TxCount; i++ {
				address, _, err := s.deriver.TransactionRecordAddress(vault, i)
				if err != nil {
					return nil, err
				}
				record, err := s.repo.TransactionRecordRepository().GetRecord(
					ctx, address,
				)
				if err != nil {
					if errors.Is(err, domain.ErrRecordNotFound) {
						continue
					}
					return nil, err
				}
				records = append(records, *record)
			}
			return paginateRecords(records, page), nil
		},
	)
	if err != nil {
		return nil, err
	}
	return result.([]domain.TransactionRecord), nil
}

func paginateRecords(
	records []domain.TransactionRecord, page *domain.Page,
) []domain.TransactionRecord {
	if page == nil {
		return records
	}
	start := page.Offset()
	if start >= len(records) {
		return []domain.TransactionRecord{}
	}
	end := start + page.Size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
