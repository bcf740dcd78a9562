package application

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

const DefaultAuditSchedule = "@every 5m"

// AuditReport is the outcome of checking a vault's custodial balance against
// its counters.
type AuditReport struct {
	Vault        solana.PublicKey
	Balance      uint64
	ReserveFloor uint64
	NetDeposited uint64
}

// Consistent returns whether the balance held above the reserve floor
// matches the net deposited amount.
func (r AuditReport) Consistent() bool {
	return r.Balance >= r.ReserveFloor &&
		mathutil.SaturatingSub(r.Balance, r.ReserveFloor) == r.NetDeposited
}

// Auditor periodically checks that every vault holds exactly its reserve
// floor plus what was deposited and not yet withdrawn.
type Auditor interface {
	Start() error
	Stop()
	Audit(ctx context.Context) ([]AuditReport, error)
}

type auditor struct {
	repo     ports.RepoManager
	schedule string
	cron     *cron.Cron
}

func NewAuditor(
	repo ports.RepoManager, schedule string,
) (Auditor, error) {
	if repo == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if schedule == "" {
		schedule = DefaultAuditSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid audit schedule: %w", err)
	}
	return &auditor{repo: repo, schedule: schedule}, nil
}

func (a *auditor) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(a.schedule, a.run); err != nil {
		return err
	}
	a.cron = c
	c.Start()
	log.Debugf("started vault auditor with schedule %s", a.schedule)
	return nil
}

func (a *auditor) Stop() {
	if a.cron == nil {
		return
	}
	<-a.cron.Stop().Done()
	log.Debug("stopped vault auditor")
}

func (a *auditor) Audit(ctx context.Context) ([]AuditReport, error) {
	result, err := a.repo.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			vaults, err := a.repo.VaultRepository().ListVaults(ctx)
			if err != nil {
				return nil, err
			}
			ledger := valueLedger{a.repo.LedgerRepository()}

			reports := make([]AuditReport, 0, len(vaults))
			for _, v := range vaults {
				balance, err := ledger.balance(ctx, v.Address)
				if err != nil {
					return nil, err
				}
				reports = append(reports, AuditReport{
					Vault:        v.Address,
					Balance:      balance,
					ReserveFloor: v.ReserveFloor,
					NetDeposited: v.NetDeposited(),
				})
			}
			return reports, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return result.([]AuditReport), nil
}

func (a *auditor) run() {
	reports, err := a.Audit(context.Background())
	if err != nil {
		log.WithError(err).Warn("vault audit failed")
		return
	}
	for _, r := range reports {
		if r.Consistent() {
			continue
		}
		log.WithFields(log.Fields{
			"vault":         r.Vault.String(),
			"balance":       r.Balance,
			"reserve_floor": r.ReserveFloor,
			"net_deposited": r.NetDeposited,
		}).Error("vault balance does not match its counters")
	}
	log.Debugf("audited %d vaults", len(reports))
}
