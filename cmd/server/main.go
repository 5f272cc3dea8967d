package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orbit/internal/anchor"
	anchorstore "orbit/internal/anchor/store"
	"orbit/internal/audit"
	auditstore "orbit/internal/audit/store"
	"orbit/internal/counter"
	masterstore "orbit/internal/counter/store/master"
	ordinalstore "orbit/internal/counter/store/ordinal"
	"orbit/internal/docasset"
	docassethandler "orbit/internal/docasset/handler"
	docassetstore "orbit/internal/docasset/store"
	"orbit/internal/hallmark"
	hallmarkhandler "orbit/internal/hallmark/handler"
	hallmarkstore "orbit/internal/hallmark/store"
	"orbit/internal/ledger"
	ledgercache "orbit/internal/ledger/cache"
	ledgerhandler "orbit/internal/ledger/handler"
	"orbit/internal/platform/config"
	"orbit/internal/platform/database"
	"orbit/internal/platform/httpserver"
	"orbit/internal/platform/kafka"
	"orbit/internal/platform/logger"
	platformredis "orbit/internal/platform/redis"
	releasehandler "orbit/internal/release/handler"
	releasestore "orbit/internal/release/store"
	httptransport "orbit/internal/transport/http"

	anchormetrics "orbit/internal/anchor/metrics"
	hallmarkmetrics "orbit/internal/hallmark/metrics"
	hallmarksvc "orbit/internal/hallmark/service"
	releasemetrics "orbit/internal/release/metrics"
	releasesvc "orbit/internal/release/service"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		hallmarks hallmarkstore.Store
		ordinals  counter.OrdinalStore
		masters   counter.MasterStore
		audits    audit.Store
		anchors   anchor.Store
		releases  releasestore.Store
		assets    docasset.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		hallmarks = hallmarkstore.NewPostgres(db)
		ordinals = ordinalstore.NewPostgres(db)
		masters = masterstore.NewPostgres(db)
		audits = auditstore.NewPostgres(db)
		anchors = anchorstore.NewPostgres(db)
		releases = releasestore.NewPostgres(db)
		assets = docassetstore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		hallmarks = hallmarkstore.NewInMemory()
		ordinals = ordinalstore.NewInMemory()
		masters = masterstore.NewInMemory()
		audits = auditstore.NewInMemory()
		anchors = anchorstore.NewInMemory()
		releases = releasestore.NewInMemory()
		assets = docassetstore.NewInMemory()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, verify cache disabled", "error", err)
		redisClient = nil
	}

	var auditSink audit.Sink
	kafkaClient, err := kafka.New(cfg.Kafka)
	if err != nil {
		log.Warn("kafka unavailable, audit mirroring disabled", "error", err)
	} else if kafkaClient != nil {
		auditSink = kafkaClient
		defer kafkaClient.Close()
	}

	// Ledger client: without a wallet key submissions report not configured
	// but verification still works against the public RPC.
	var wallet *ledger.Wallet
	if cfg.Ledger.WalletKey != "" {
		wallet, err = ledger.WalletFromBase58(cfg.Ledger.WalletKey)
		if err != nil {
			log.Error("invalid ledger wallet key", "error", err)
			os.Exit(1)
		}
	}
	var rpcOpts []ledger.RPCOption
	if cfg.Ledger.RPCURL != "" {
		rpcOpts = append(rpcOpts, ledger.WithEndpoint(cfg.Ledger.RPCURL))
	}
	ledgerClient := ledger.NewRPCClient(cfg.Ledger.Network, wallet, cfg.Ledger.ConfirmTimeout, rpcOpts...)

	// Registries and services.
	ordinalRegistry := counter.NewOrdinalRegistry(ordinals, nil)
	masterRegistry := counter.NewMasterRegistry(masters)
	auditor := audit.NewPublisher(audits, auditSink, log)
	verifier := ledgercache.New(ledgerClient, redisClient, log)

	anchorSvc := anchor.NewService(anchors, hallmarks, ledgerClient, verifier, auditor, log, anchormetrics.New())
	hallmarkSvc := hallmarksvc.NewService(
		hallmarks, masterRegistry, hallmark.NewScheme(nil), nil,
		anchorSvc, auditor, log, hallmarkmetrics.New())
	releaseSvc := releasesvc.NewService(
		releases, hallmarkSvc, anchorSvc, cfg.Tenants, nil, nil, log, releasemetrics.New())
	assetSvc := docasset.NewService(assets, ordinalRegistry, ledgerClient, nil, log)

	modules := []httptransport.Registrar{
		hallmarkhandler.New(hallmarkSvc, anchorSvc, log),
		releasehandler.New(releaseSvc, log),
		docassethandler.New(assetSvc, log),
	}
	if ledgerClient.Network() == ledger.NetworkDevnet {
		modules = append(modules, ledgerhandler.New(ledgerClient, wallet, log))
	}
	router := httptransport.NewRouter(log, modules...)
	srv := httpserver.New(cfg.Addr, router)

	// Background anchoring drains the queue; one pass shortly after boot,
	// then on an interval.
	go anchorSvc.RunWorker(ctx, 15*time.Second, 50)

	if cfg.AutoBump {
		go releaseSvc.AutoBumpAllTenants(ctx, cfg.DeploymentID)
	}

	go func() {
		log.Info("starting orbit registry", "addr", cfg.Addr, "network", ledgerClient.Network())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
