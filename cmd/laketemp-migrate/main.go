package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/chrissnell/laketemp/internal/log"
	"github.com/chrissnell/laketemp/pkg/config"
)

func main() {
	var (
		dbPath        = flag.String("db", "", "Path to the SQLite configuration database (required)")
		command       = flag.String("command", "up", "Migration command: up, down, to, version")
		targetVersion = flag.String("target", "", "Target version for down/to commands")
		debug         = flag.Bool("debug", false, "Turn on debugging output")
		helpFlag      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}

	if *dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -db flag is required\n")
		showHelp()
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*dbPath, *command, *targetVersion); err != nil {
		log.Errorf("Migration command failed: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(dbPath, command, target string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	migrator, err := config.NewMigrator(db, log.GetSugaredLogger())
	if err != nil {
		return err
	}

	parseTarget := func() (int, error) {
		if target == "" {
			return 0, fmt.Errorf("-target flag is required for %s command", command)
		}
		v, err := strconv.Atoi(target)
		if err != nil {
			return 0, fmt.Errorf("invalid target version: %w", err)
		}
		return v, nil
	}

	switch command {
	case "up":
		err = migrator.MigrateUp()
	case "down":
		var v int
		if v, err = parseTarget(); err == nil {
			err = migrator.MigrateDown(v)
		}
	case "to":
		var v int
		if v, err = parseTarget(); err == nil {
			err = migrator.MigrateTo(v)
		}
	case "version":
		version, err := migrator.CurrentVersion()
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		fmt.Printf("Current version: %d\n", version)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	if err != nil {
		return err
	}

	fmt.Println("Migration completed successfully")
	return nil
}

func showHelp() {
	fmt.Println("laketemp configuration database migration tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  laketemp-migrate [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -db string         SQLite configuration database (required)")
	fmt.Println("  -command string    Migration command (default: up)")
	fmt.Println("  -target string     Target version for down/to commands")
	fmt.Println("  -debug             Turn on debugging output")
	fmt.Println("  -help              Show this help message")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up                 Apply all pending migrations")
	fmt.Println("  down               Roll back to target version")
	fmt.Println("  to                 Migrate to specific version (up or down)")
	fmt.Println("  version            Show current migration version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  laketemp-migrate -db config.db -command up")
	fmt.Println("  laketemp-migrate -db config.db -command down -target 0")
}
