package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chrissnell/laketemp/internal/app"
	"github.com/chrissnell/laketemp/internal/constants"
	"github.com/chrissnell/laketemp/internal/log"
	"github.com/chrissnell/laketemp/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML: config.yaml, laketemp.yaml\n\t\t\t  SQLite: config.db, laketemp.db\n\t\t\t  Use 'laketemp-config-convert' tool to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases (default: detected from the file extension)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("laketemp-server %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	provider, err := config.OpenProvider(*cfgFile, *cfgBackend, log.GetSugaredLogger())
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	defer provider.Close()

	// Create and run the application
	application := app.New(provider, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		provider.Close()
		log.Sync()
		os.Exit(1)
	}
}
