package application

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

// VaultService manages the lifecycle of vaults and the value they hold.
type VaultService interface {
	InitializeVault(
		ctx context.Context, authority solana.PublicKey,
	) (*VaultInfo, error)
	Deposit(
		ctx context.Context, vault, depositor solana.PublicKey, amount uint64,
	) (*VaultInfo, error)
	Withdraw(
		ctx context.Context, vault, caller solana.PublicKey, amount uint64,
	) (*VaultInfo, error)
	EmergencyPause(
		ctx context.Context, vault, caller solana.PublicKey,
	) (*VaultInfo, error)
	ResumeVault(
		ctx context.Context, vault, caller solana.PublicKey,
	) (*VaultInfo, error)
	CloseVault(
		ctx context.Context, vault, caller solana.PublicKey,
	) (*CloseInfo, error)

	GetVault(ctx context.Context, vault solana.PublicKey) (*VaultInfo, error)
	GetVaultByAuthority(
		ctx context.Context, authority solana.PublicKey,
	) (*VaultInfo, error)
	ListVaults(ctx context.Context) ([]VaultInfo, error)
}

type vaultService struct {
	repo    ports.RepoManager
	deriver ports.AddressDeriver
	clock   ports.Clock
	rent    domain.RentSchedule
	pubsub  PubSubService
}

// txResult is what an operation hands over from within a transaction to the
// caller once committed.
type txResult struct {
	info  *VaultInfo
	event domain.Event
}

func NewVaultService(
	repo ports.RepoManager, deriver ports.AddressDeriver, clock ports.Clock,
	rent domain.RentSchedule, pubsub PubSubService,
) (VaultService, error) {
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
	return &vaultService{repo, deriver, clock, rent, pubsub}, nil
}

func (s *vaultService) InitializeVault(
	ctx context.Context, authority solana.PublicKey,
) (*VaultInfo, error) {
	if authority.IsZero() {
		return nil, domain.ErrZeroAddress
	}
	address, bump, err := s.deriver.VaultAddress(authority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault address: %w", err)
	}

	res, err := s.run(ctx, func(ctx context.Context) (*txResult, error) {
		vault, err := domain.NewVault(address, authority, bump, s.reserveFloor())
		if err != nil {
			return nil, err
		}
		if err := s.repo.VaultRepository().AddVault(ctx, vault); err != nil {
			return nil, err
		}

		if err := s.ledger().transfer(
			ctx, authority, address, vault.ReserveFloor,
		); err != nil {
			return nil, fmt.Errorf("failed to fund vault reserve: %w", err)
		}

		info, err := s.vaultInfo(ctx, *vault)
		if err != nil {
			return nil, err
		}
		return &txResult{
			info:  info,
			event: domain.VaultCreated{Vault: address, Authority: authority},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"vault":     address.String(),
		"authority": authority.String(),
		"reserve":   res.info.ReserveFloor,
	}).Info("vault initialized")
	s.pubsub.PublishEvent(res.event)
	return res.info, nil
}

func (s *vaultService) Deposit(
	ctx context.Context, vault, depositor solana.PublicKey, amount uint64,
) (*VaultInfo, error) {
	if depositor.IsZero() {
		return nil, domain.ErrZeroAddress
	}
	if depositor.Equals(vault) {
		return nil, domain.ErrUnauthorized
	}

	res, err := s.run(ctx, func(ctx context.Context) (*txResult, error) {
		var updated domain.Vault
		if err := s.repo.VaultRepository().UpdateVault(
			ctx, vault, func(v *domain.Vault) (*domain.Vault, error) {
				if err := s.verify(v); err != nil {
					return nil, err
				}
				if err := v.Deposit(amount); err != nil {
					return nil, err
				}
				updated = *v
				return v, nil
			},
		); err != nil {
			return nil, err
		}

		if err := s.ledger().transfer(ctx, depositor, vault, amount); err != nil {
			return nil, err
		}

		info, err := s.vaultInfo(ctx, updated)
		if err != nil {
			return nil, err
		}
		return &txResult{
			info: info,
			event: domain.DepositEvent{
				Vault:          vault,
				Depositor:      depositor,
				Amount:         amount,
				TotalDeposited: updated.TotalDeposited,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"vault":     vault.String(),
		"depositor": depositor.String(),
		"amount":    amount,
	}).Info("deposit")
	s.pubsub.PublishEvent(res.event)
	return res.info, nil
}

func (s *vaultService) Withdraw(
	ctx context.Context, vault, caller solana.PublicKey, amount uint64,
) (*VaultInfo, error) {
	res, err := s.run(ctx, func(ctx context.Context) (*txResult, error) {
		balance, err := s.ledger().balance(ctx, vault)
		if err != nil {
			return nil, err
		}

		var updated domain.Vault
		if err := s.repo.VaultRepository().UpdateVault(
			ctx, vault, func(v *domain.Vault) (*domain.Vault, error) {
				if err := s.verify(v); err != nil {
					return nil, err
				}
				available := mathutil.SaturatingSub(balance, v.ReserveFloor)
				if err := v.Withdraw(caller, amount, available); err != nil {
					return nil, err
				}
				updated = *v
				return v, nil
			},
		); err != nil {
			return nil, err
		}

		if err := s.ledger().transfer(
			ctx, vault, updated.Authority, amount,
		); err != nil {
			return nil, err
		}

		info, err := s.vaultInfo(ctx, updated)
		if err != nil {
			return nil, err
		}
		return &txResult{
			info: info,
			event: domain.WithdrawEvent{
				Vault:          vault,
				Authority:      updated.Authority,
				Amount:         amount,
				TotalWithdrawn: updated.TotalWithdrawn,
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"vault":  vault.String(),
		"amount": amount,
	}).Info("withdrawal")
	s.pubsub.PublishEvent(res.event)
	return res.info, nil
}

func (s *vaultService) EmergencyPause(
	ctx context.Context, vault, caller solana.PublicKey,
) (*VaultInfo, error) {
	res, err := s.toggle(ctx, vault, caller, true)
	if err != nil {
		return nil, err
	}

	log.WithField("vault", vault.String()).Warn("vault paused")
	s.pubsub.PublishEvent(res.event)
	return res.info, nil
}

func (s *vaultService) ResumeVault(
	ctx context.Context, vault, caller solana.PublicKey,
) (*VaultInfo, error) {
	res, err := s.toggle(ctx, vault, caller, false)
	if err != nil {
		return nil, err
	}

	log.WithField("vault", vault.String()).Info("vault resumed")
	s.pubsub.PublishEvent(res.event)
	return res.info, nil
}

func (s *vaultService) CloseVault(
	ctx context.Context, vault, caller solana.PublicKey,
) (*CloseInfo, error) {
	result, err := s.repo.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			v, err := s.repo.VaultRepository().GetVault(ctx, vault)
			if err != nil {
				return nil, err
			}
			if err := s.verify(v); err != nil {
				return nil, err
			}
			if err := v.Close(caller); err != nil {
				return nil, err
			}
			if err := s.repo.VaultRepository().DeleteVault(ctx, vault); err != nil {
				return nil, err
			}
			released, err := s.ledger().drain(ctx, vault, v.Authority)
			if err != nil {
				return nil, err
			}
			return &CloseInfo{
				Vault:     vault,
				Authority: v.Authority,
				Released:  released,
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}

	info := result.(*CloseInfo)
	log.WithFields(log.Fields{
		"vault":    vault.String(),
		"released": info.Released,
	}).Info("vault closed")
	return info, nil
}

func (s *vaultService) GetVault(
	ctx context.Context, vault solana.PublicKey,
) (*VaultInfo, error) {
	result, err := s.repo.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			v, err := s.repo.VaultRepository().GetVault(ctx, vault)
			if err != nil {
				return nil, err
			}
			return s.vaultInfo(ctx, *v)
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*VaultInfo), nil
}

func (s *vaultService) GetVaultByAuthority(
	ctx context.Context, authority solana.PublicKey,
) (*VaultInfo, error) {
	address, _, err := s.deriver.VaultAddress(authority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault address: %w", err)
	}
	return s.GetVault(ctx, address)
}

func (s *vaultService) ListVaults(ctx context.Context) ([]VaultInfo, error) {
	result, err := s.repo.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			vaults, err := s.repo.VaultRepository().ListVaults(ctx)
			if err != nil {
				return nil, err
			}
			infos := make([]VaultInfo, 0, len(vaults))
			for _, v := range vaults {
				info, err := s.vaultInfo(ctx, v)
				if err != nil {
					return nil, err
				}
				infos = append(infos, *info)
			}
			return infos, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return result.([]VaultInfo), nil
}

func (s *vaultService) toggle(
	ctx context.Context, vault, caller solana.PublicKey, pause bool,
) (*txResult, error) {
	timestamp, _, err := s.clock.Now(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read clock: %w", err)
	}

	return s.run(ctx, func(ctx context.Context) (*txResult, error) {
		var updated domain.Vault
		if err := s.repo.VaultRepository().UpdateVault(
			ctx, vault, func(v *domain.Vault) (*domain.Vault, error) {
				if err := s.verify(v); err != nil {
					return nil, err
				}
				toggleFn := v.Resume
				if pause {
					toggleFn = v.Pause
				}
				if err := toggleFn(caller); err != nil {
					return nil, err
				}
				updated = *v
				return v, nil
			},
		); err != nil {
			return nil, err
		}

		info, err := s.vaultInfo(ctx, updated)
		if err != nil {
			return nil, err
		}

		var event domain.Event = domain.VaultResumed{
			Vault: vault, Authority: updated.Authority, Timestamp: timestamp,
		}
		if pause {
			event = domain.VaultPaused{
				Vault: vault, Authority: updated.Authority, Timestamp: timestamp,
			}
		}
		return &txResult{info, event}, nil
	})
}

// run executes handler in a read-write transaction. handler may be executed
// more than once if the store detects a conflict, therefore it must not have
// side effects outside the repositories.
func (s *vaultService) run(
	ctx context.Context,
	handler func(ctx context.Context) (*txResult, error),
) (*txResult, error) {
	result, err := s.repo.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return handler(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*txResult), nil
}

func (s *vaultService) verify(v *domain.Vault) error {
	if !s.deriver.VerifyVaultAddress(v.Address, v.Authority, v.Bump) {
		return domain.ErrVaultAddressMismatch
	}
	return nil
}

func (s *vaultService) vaultInfo(
	ctx context.Context, v domain.Vault,
) (*VaultInfo, error) {
	balance, err := s.ledger().balance(ctx, v.Address)
	if err != nil {
		return nil, err
	}
	floor := v.ReserveFloor
	return &VaultInfo{
		Vault:        v,
		Balance:      balance,
		ReserveFloor: floor,
		Available:    mathutil.SaturatingSub(balance, floor),
	}, nil
}

// reserveFloor returns the reserve a vault initialized now must lock.
func (s *vaultService) reserveFloor() uint64 {
	return s.rent.MinimumBalance(domain.VaultSpace)
}

func (s *vaultService) ledger() valueLedger {
	return valueLedger{s.repo.LedgerRepository()}
}
