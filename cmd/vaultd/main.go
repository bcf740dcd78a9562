package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/config"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/clock"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub"
	redisbroadcaster "github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub/redis"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub/stream"
	postgresdb "github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/pg"
	httpinterface "github.com/tdex-network/tdex-vault/internal/interfaces/http"
	"github.com/tdex-network/tdex-vault/pkg/derivation"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbType := config.GetString(config.DBTypeKey)

	deriver, err := derivation.NewDeriver(config.GetProgramID())
	if err != nil {
		log.WithError(err).Fatal("failed to init address deriver")
	}
	systemClock := clock.NewSystemClock(
		config.GetGenesisTime(), config.GetDuration(config.SlotDurationKey),
	)

	webhookSvc, err := pubsub.NewService(
		filepath.Join(datadir, config.PubSubLocation),
		config.GetDuration(config.WebhookTimeoutKey),
		log.New(),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init webhook pubsub")
	}

	eventStream := stream.NewHub(config.GetInt(config.EventBufferSizeKey))
	broadcasters := []ports.Broadcaster{eventStream}

	var redis *redisbroadcaster.Broadcaster
	if url := config.GetString(config.RedisURLKey); url != "" {
		redis, err = redisbroadcaster.NewBroadcaster(
			url, config.GetString(config.RedisChannelPrefixKey),
		)
		if err != nil {
			log.WithError(err).Fatal("failed to init redis broadcaster")
		}
		broadcasters = append(broadcasters, redis)
	}

	var dbConfig interface{} = filepath.Join(datadir, config.DbLocation)
	if dbType == application.DBPostgres {
		dbConfig = postgresdb.DbConfig{
			DataSourceURL: config.GetString(config.PgConnectAddr),
		}
	}

	appConfig := &application.Config{
		DBType:           dbType,
		DBConfig:         dbConfig,
		Deriver:          deriver,
		Clock:            systemClock,
		RentSchedule:     config.GetRentSchedule(),
		PubSub:           webhookSvc,
		Broadcasters:     broadcasters,
		AirdropEnabled:   config.GetBool(config.EnableAirdropKey),
		AirdropMaxAmount: config.GetUint64(config.AirdropMaxLamportsKey),
		AirdropRate:      config.GetInt(config.AirdropRateKey),
		AuditSchedule:    config.GetString(config.AuditScheduleKey),
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:           config.GetInt(config.ListeningPortKey),
		RateLimit:      config.GetInt(config.RateLimitKey),
		RateLimitBurst: config.GetInt(config.RateLimitBurstKey),
		VaultSvc:       appConfig.VaultService(),
		TransactionSvc: appConfig.TransactionLogService(),
		AccountSvc:     appConfig.AccountService(),
		PubSubSvc:      appConfig.PubSubService(),
		EventStream:    eventStream,
		Operator:       config.GetOperator(),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to init http interface")
	}

	auditor := appConfig.Auditor()

	log.RegisterExitHandler(func() {
		svc.Stop()
		auditor.Stop()
		appConfig.PubSubService().Close()
		if redis != nil {
			redis.Close()
		}
		appConfig.RepoManager().Close()
	})

	log.Infof("starting vault daemon with %s db", dbType)
	log.Infof("program id: %s", deriver.ProgramID())

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start http interface")
	}
	if err := auditor.Start(); err != nil {
		log.WithError(err).Fatal("failed to start auditor")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down vault daemon")
	log.Exit(0)
}
