package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/stockops/backoffice/internal/infrastructure/config"
	applogger "github.com/stockops/backoffice/internal/infrastructure/logger"
	"github.com/stockops/backoffice/internal/infrastructure/migration"
)

const usage = `Usage: migrate [flags] <command> [args]

Commands:
  up                    Apply all pending migrations
  down                  Roll back the most recent migration
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Print the current migration version
  force <version>       Force the version without running migrations
  drop -confirm         Drop everything in the database
  create <name> [desc]  Create a new migration file pair
  list                  List migration files

Flags:
  -path string          Migrations directory (default "migrations")
  -log-level string     Log level (default "info")
`

func main() {
	var (
		path     = flag.String("path", "migrations", "migrations directory")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := applogger.New(applogger.Config{Level: *logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	command := args[0]

	// create and list work without a database connection
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("create requires a migration name")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		file, err := migration.CreateMigration(*path, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		fmt.Printf("Created %s\n", file.UpPath)
		fmt.Printf("Created %s\n", file.DownPath)
		return
	case "list":
		files, err := migration.ListMigrations(*path)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := migration.New(db, *path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "step":
		if len(args) < 2 {
			log.Fatal("step requires a count")
		}
		n, parseErr := strconv.Atoi(args[1])
		if parseErr != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		err = migrator.Steps(n)
	case "goto":
		if len(args) < 2 {
			log.Fatal("goto requires a version")
		}
		v, parseErr := strconv.ParseUint(args[1], 10, 32)
		if parseErr != nil {
			log.Fatal("Invalid version", zap.String("value", args[1]))
		}
		err = migrator.GoTo(uint(v))
	case "version":
		version, dirty, verErr := migrator.Version()
		if verErr != nil {
			log.Fatal("Failed to read version", zap.Error(verErr))
		}
		fmt.Printf("version: %d dirty: %t\n", version, dirty)
		return
	case "force":
		if len(args) < 2 {
			log.Fatal("force requires a version")
		}
		v, parseErr := strconv.Atoi(args[1])
		if parseErr != nil {
			log.Fatal("Invalid version", zap.String("value", args[1]))
		}
		err = migrator.Force(v)
	case "drop":
		if len(args) < 2 || args[1] != "-confirm" {
			log.Fatal("drop is destructive, pass -confirm to proceed")
		}
		err = migrator.Drop()
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}
