package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"raptor.opentransit.org/internal/appconf"
	"raptor.opentransit.org/internal/gtfs"
)

func main() {
	var (
		port                int
		envFlag             string
		apiKeysFlag         string
		rateLimit           int
		verbose             bool
		gtfsURL             string
		dataPath            string
		serviceDateFlag     string
		defaultLayover      int
		generateTransfers   bool
		maxTransferDistance float64
	)

	flag.IntVar(&port, "port", 4000, "API server port")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "test", "Comma-separated API keys")
	flag.IntVar(&rateLimit, "rate-limit", 100, "Requests per second allowed per API key")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.StringVar(&gtfsURL, "gtfs-url", "", "URL or local path of a static GTFS zip file")
	flag.StringVar(&dataPath, "data-path", "", "Path to the timetable snapshot database (empty disables snapshots)")
	flag.StringVar(&serviceDateFlag, "service-date", "", "Service date to plan for, YYYY-MM-DD (empty keeps all trips)")
	flag.IntVar(&defaultLayover, "default-layover", gtfs.DefaultLayoverSeconds, "Default transfer layover in seconds")
	flag.BoolVar(&generateTransfers, "generate-transfers", false, "Generate walking transfers between nearby stations")
	flag.Float64Var(&maxTransferDistance, "max-transfer-distance", 200, "Maximum walking transfer distance in meters")
	flag.Parse()

	if gtfsURL == "" {
		fmt.Fprintln(os.Stderr, "the -gtfs-url flag is required")
		os.Exit(1)
	}

	var serviceDate time.Time
	if serviceDateFlag != "" {
		parsed, err := time.Parse("2006-01-02", serviceDateFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -service-date %q: %v\n", serviceDateFlag, err)
			os.Exit(1)
		}
		serviceDate = parsed
	}

	env := appconf.EnvFlagToEnvironment(envFlag)
	cfg := appconf.NewConfig(port, env, ParseAPIKeys(apiKeysFlag), rateLimit, verbose)

	gtfsCfg := gtfs.Config{
		GtfsURL:             gtfsURL,
		DataPath:            dataPath,
		Env:                 env,
		Verbose:             verbose,
		ServiceDate:         serviceDate,
		DefaultLayover:      defaultLayover,
		GenerateTransfers:   generateTransfers,
		MaxTransferDistance: maxTransferDistance,
	}

	if err := Run(cfg, gtfsCfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
