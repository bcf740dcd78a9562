package application

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/pg"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
	DBPostgres = "postgres"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
		DBPostgres: {},
	}
)

type Config struct {
	// DBType is one of SupportedDBType. DBConfig is the datadir for badger
	// and a postgresdb.DbConfig for postgres.
	DBType   string
	DBConfig interface{}

	Deriver      ports.AddressDeriver
	Clock        ports.Clock
	RentSchedule domain.RentSchedule
	PubSub       ports.PubSub
	Broadcasters []ports.Broadcaster

	AirdropEnabled   bool
	AirdropMaxAmount uint64
	AirdropRate      int
	AuditSchedule    string

	repo    ports.RepoManager
	pubsub  PubSubService
	vault   VaultService
	txlog   TransactionLogService
	account AccountService
	auditor Auditor
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return ErrUnknownDBType
	}
	if c.Deriver == nil {
		return fmt.Errorf("missing address deriver")
	}
	if c.Clock == nil {
		return fmt.Errorf("missing clock")
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.vaultService(); err != nil {
		return err
	}
	if _, err := c.transactionLogService(); err != nil {
		return err
	}
	if _, err := c.accountService(); err != nil {
		return err
	}
	if _, err := c.auditorService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) PubSubService() PubSubService {
	svc, _ := c.pubsubService()
	return svc
}

func (c *Config) VaultService() VaultService {
	svc, _ := c.vaultService()
	return svc
}

func (c *Config) TransactionLogService() TransactionLogService {
	svc, _ := c.transactionLogService()
	return svc
}

func (c *Config) AccountService() AccountService {
	svc, _ := c.accountService()
	return svc
}

func (c *Config) Auditor() Auditor {
	svc, _ := c.auditorService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		case DBPostgres:
			dbConfig, ok := c.DBConfig.(postgresdb.DbConfig)
			if !ok {
				return nil, fmt.Errorf("invalid postgres db config")
			}
			repoManager, err := postgresdb.NewRepoManager(dbConfig)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		default:
			return nil, ErrUnknownDBType
		}
	}
	return c.repo, nil
}

func (c *Config) pubsubService() (PubSubService, error) {
	if c.pubsub == nil {
		c.pubsub = NewPubSubService(c.PubSub, c.Broadcasters...)
	}
	return c.pubsub, nil
}

func (c *Config) vaultService() (VaultService, error) {
	if c.vault == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		svc, err := NewVaultService(
			repo, c.Deriver, c.Clock, c.RentSchedule, pubsub,
		)
		if err != nil {
			return nil, err
		}
		c.vault = svc
	}
	return c.vault, nil
}

func (c *Config) transactionLogService() (TransactionLogService, error) {
	if c.txlog == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		svc, err := NewTransactionLogService(
			repo, c.Deriver, c.Clock, c.RentSchedule, pubsub,
		)
		if err != nil {
			return nil, err
		}
		c.txlog = svc
	}
	return c.txlog, nil
}

func (c *Config) accountService() (AccountService, error) {
	if c.account == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := NewAccountService(
			repo, c.AirdropEnabled, c.AirdropMaxAmount, c.AirdropRate,
		)
		if err != nil {
			return nil, err
		}
		c.account = svc
	}
	return c.account, nil
}

func (c *Config) auditorService() (Auditor, error) {
	if c.auditor == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := NewAuditor(repo, c.AuditSchedule)
		if err != nil {
			return nil, err
		}
		c.auditor = svc
	}
	return c.auditor, nil
}
