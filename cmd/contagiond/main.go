// contagiond serves the contagion engine over HTTP.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/cascadelab/contagion/pkg/api"
	"github.com/cascadelab/contagion/pkg/logging"
	"github.com/cascadelab/contagion/pkg/metrics"
	"github.com/cascadelab/contagion/pkg/server"
)

func main() {
	port := flag.Int("port", 0, "HTTP server port (default 8080, or set PORT)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (default LOG_LEVEL or info)")
	flag.Parse()

	// Get port from env if not provided
	if *port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if p, err := strconv.Atoi(envPort); err == nil {
				*port = p
			} else {
				*port = 8080
			}
		} else {
			*port = 8080
		}
	}

	logger := logging.DefaultLogger()
	if *logLevel != "" {
		logger.SetLevel(logging.ParseLevel(*logLevel))
	}

	registry := metrics.DefaultRegistry()

	apiServer := api.NewServer(logger, registry, *port)
	apiServer.StartMetricsUpdater()

	gs := server.NewGracefulServer(fmt.Sprintf(":%d", *port), apiServer.Handler(), logger)
	gs.SetConfigReloadFunc(func() error {
		if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
			logger.SetLevel(logging.ParseLevel(envLevel))
		}
		return nil
	})

	logger.Info("contagiond starting", logging.Int("port", *port))
	if err := gs.Start(); err != nil {
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	}
}
