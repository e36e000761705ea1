package config

import (
	"flag"
	"time"

	"github.com/kirana-labs/paybridge/config/application"
	"github.com/kirana-labs/paybridge/config/conf"
	"github.com/kirana-labs/paybridge/config/httpserver"
	"github.com/kirana-labs/paybridge/config/migrations"
	"github.com/kirana-labs/paybridge/gateway"
	"github.com/kirana-labs/paybridge/service"
	"github.com/kirana-labs/paybridge/store"

	"github.com/tkanos/gonfig"
	"golang.org/x/sync/errgroup"
)

func RunServer() error {
	var configFile string
	var cfg conf.Config

	flag.StringVar(&configFile, "config-file", "./config/conf/development.json", "Application configuration file")
	flag.Parse()

	err := gonfig.GetConf(configFile, &cfg)

	//Setup Logger
	application.SetUpLogger(cfg.LogLevel, application.AppName)

	//Override Config Info
	application.OverrideEnvVars(&cfg)

	//Print config info
	application.LOGGER.DebugF("Loaded application configuration file, application configuration : %s", configFile)

	if err != nil {
		panic(err)
	}

	//Init App Env
	application.InitAppEnv(cfg.ApplicationEnv)

	//Init Database
	application.InitDatabase(cfg.DBUser, cfg.DBPassword, cfg.DBDatabase, cfg.DBHost, cfg.DBPort)

	//Migrate Schema
	migrations.MigrateDatabase()

	//Init Tracer
	application.InitZipkinTracer(cfg.HTTPPort, cfg.ZipkinEndpoint)

	//Wire the payment service with constructed-once clients
	trxStore := store.NewTransactionStore(application.DB)
	gatewayClient := gateway.NewRazorpayClient(
		cfg.RazorpayKeyId,
		cfg.RazorpayKeySecret,
		time.Duration(cfg.GatewayTimeoutSeconds)*time.Second,
		application.LOGGER,
	)
	publisher := service.NewKafkaPublisher(cfg.KafkaBrokerAddress, application.LOGGER)

	paymentService := service.NewPaymentService(trxStore, gatewayClient, publisher, application.LOGGER, application.TRACER, service.Options{
		KeyId:           cfg.RazorpayKeyId,
		WebhookSecret:   cfg.RazorpayWebhookSecret,
		DefaultCurrency: cfg.DefaultCurrency,
	})

	//Use Error Group for Threads
	g := new(errgroup.Group)

	//Init Prometheus Endpoint
	g.Go(func() error {
		return application.InitPrometheusServer(cfg.MetricsPort)
	})

	//Init HTTP Server blocking
	httpserver.InitHttpServer(cfg.HTTPPort, paymentService)

	return nil
}
