package main

import (
	"fmt"
	logger "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PugetTransitTools/ferrycast/app/vessel-monitor/monitor"
	"github.com/PugetTransitTools/ferrycast/business/data/wsfapi"
	"github.com/PugetTransitTools/ferrycast/foundation/database"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "VESSEL_MONITOR : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	_ = godotenv.Load()

	var cfg struct {
		conf.Version
		DB struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		WSF struct {
			APIKey            string `conf:"noprint"`
			RetryDelaySeconds int    `conf:"default:2"`
			LoadEverySeconds  int    `conf:"default:15"`
		}
		NATS struct {
			Url                   string `conf:"default:nats://localhost:4222"`
			PredictSubject        string `conf:"default:ferrycast.predict"`
			PredictTimeoutSeconds int    `conf:"default:2"`
			TickResultsSubject    string `conf:"default:ferrycast.tick-results"`
		}
		Metrics struct {
			HttpPort int `conf:"default:9203"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Track WSF vessel positions and maintain live vessel trips"
	const prefix = "VESSEL_MONITOR"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	log.Println("main: Initializing database support")

	db, err := database.Open(database.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Printf("main: Database Stopping : %s", cfg.DB.Host)
		err = db.Close()
		if err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()

	log.Printf("main: Connecting to NATS at %s", cfg.NATS.Url)

	conn, err := nats.Connect(cfg.NATS.Url, nats.Name("vessel-monitor"))
	if err != nil {
		return fmt.Errorf("connecting to nats at %s: %w", cfg.NATS.Url, err)
	}
	defer conn.Close()

	predictor := monitor.MakeNatsPredictor(log, conn, cfg.NATS.PredictSubject,
		time.Duration(cfg.NATS.PredictTimeoutSeconds)*time.Second)
	publisher := monitor.MakeTickResultsPublisher(log, conn, cfg.NATS.TickResultsSubject)
	metrics := monitor.NewCollector()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Metrics.HttpPort)
		serveMux := http.NewServeMux()
		serveMux.Handle("/metrics", metrics.Handler())
		log.Printf("main: Serving metrics on %s/metrics", addr)
		if err := http.ListenAndServe(addr, serveMux); err != nil {
			log.Printf("main: metrics server stopped: %v", err)
		}
	}()

	client := wsfapi.NewClient(cfg.WSF.APIKey, time.Duration(cfg.WSF.RetryDelaySeconds)*time.Second)

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	return monitor.RunVesselMonitorLoop(log, db, client, predictor, publisher, metrics,
		cfg.WSF.LoadEverySeconds, shutdown)
}
