// Command bgserver runs the move generator REST API server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/bgmovegen/pkg/api"
	"github.com/yourusername/bgmovegen/pkg/engine"
)

const version = "0.2.0"

func main() {
	configFile := flag.String("config", "", "YAML config file (flags given explicitly override it)")
	host := flag.String("host", "localhost", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "Port to listen on")
	externalPort := flag.Int("external-port", 0, "FIBS line protocol port (0 = disabled)")
	cacheSize := flag.Int("cache", 0, "Move cache entries (0 = default, negative = disabled)")
	maxNodes := flag.Int("max-nodes", 1_000_000, "Search node budget per request (0 = unlimited)")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	pretty := flag.Bool("pretty", false, "Human-readable console logs")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("bgmovegen API Server v%s\n", version)
		os.Exit(0)
	}

	config := api.DefaultConfig()
	if *configFile != "" {
		var err error
		if config, err = api.LoadConfig(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			config.Host = *host
		case "port":
			config.Port = *port
		case "external-port":
			config.ExternalPort = *externalPort
		case "cache":
			config.CacheSize = *cacheSize
		case "max-nodes":
			config.MaxNodes = *maxNodes
		case "read-timeout":
			config.ReadTimeout = *readTimeout
		case "write-timeout":
			config.WriteTimeout = *writeTimeout
		case "log-level":
			config.LogLevel = *logLevel
		}
	})
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	var logger zerolog.Logger
	if *pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	logger = logger.Level(level).With().Timestamp().Logger()

	eng := engine.NewEngine(engine.EngineOptions{
		CacheSize: config.CacheSize,
		MaxNodes:  config.MaxNodes,
		Logger:    &logger,
	})

	server := api.NewServer(eng, config, version, logger)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
