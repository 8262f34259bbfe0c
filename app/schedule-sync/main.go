package main

import (
	"fmt"
	logger "log"
	"os"
	"time"

	"github.com/PugetTransitTools/ferrycast/app/schedule-sync/syncer"
	"github.com/PugetTransitTools/ferrycast/business/data/reference"
	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/PugetTransitTools/ferrycast/business/data/wsfapi"
	"github.com/PugetTransitTools/ferrycast/foundation/database"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "SCHEDULE_SYNC : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	_ = godotenv.Load()

	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		WSF struct {
			APIKey            string `conf:"noprint"`
			RetryDelaySeconds int    `conf:"default:2"`
			DaysAhead         int    `conf:"default:2"`
			MaxConcurrent     int    `conf:"default:4"`
			PurgeAfterDays    int    `conf:"default:7"`
			DeleteBatchSize   int    `conf:"default:200"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Maintain WSF scheduled trips in database"
	const prefix = "SCHEDULE_SYNC"
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

	client := wsfapi.NewClient(cfg.WSF.APIKey, time.Duration(cfg.WSF.RetryDelaySeconds)*time.Second)
	ref := reference.Default()
	now := time.Now().In(wsf.PacificLocation())

	switch cfg.Args.Num(0) {
	case "", "sync":
		for day := 0; day <= cfg.WSF.DaysAhead; day++ {
			tripDate := now.AddDate(0, 0, day)
			if _, err := syncer.SyncTripDate(log, db, client, ref, tripDate, cfg.WSF.MaxConcurrent); err != nil {
				return err
			}
		}
		return nil
	case "rebuild":
		tripDate := now
		if dateArg := cfg.Args.Num(1); dateArg != "" {
			tripDate, err = time.ParseInLocation("2006-01-02", dateArg, wsf.PacificLocation())
			if err != nil {
				return fmt.Errorf("unable to parse trip date %s, error: %w", dateArg, err)
			}
		}
		return syncer.RebuildSailingDay(log, db, client, ref, tripDate, cfg.WSF.DeleteBatchSize)
	case "purge":
		cutoff := now.AddDate(0, 0, -cfg.WSF.PurgeAfterDays)
		for {
			more, err := syncer.PurgeExpiredTrips(db, cutoff, cfg.WSF.DeleteBatchSize)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
	default:
		fmt.Println("sync: download upcoming schedules and reconcile them against the database")
		fmt.Println("rebuild [date]: replace a sailing day wholesale")
		fmt.Println("purge: remove trips departed more than the retention window ago")
		usage, err := conf.Usage(prefix, &cfg)
		if err != nil {
			return fmt.Errorf("generating config usage: %w", err)
		}
		fmt.Println(usage)
	}
	return nil
}
