package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gravadigital/amigo-secreto-api/internal/config"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/migrations"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/postgres"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List migrations and whether they are applied")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Log.Level)
	log := logger.Migration()

	db, err := postgres.Connect(cfg, postgres.DefaultConnectionConfig())
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer postgres.Close(db)

	switch {
	case *status:
		statuses, err := migrations.GetStatus(db)
		if err != nil {
			log.Error("Failed to read migration status", "error", err)
			os.Exit(1)
		}
		for _, st := range statuses {
			applied := "pending"
			if st.AppliedAt != nil {
				applied = st.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%s  %-40s %s\n", st.ID, st.Name, applied)
		}

		tables, conns, err := postgres.NewContainerWithDB(db).Stats(context.Background())
		if err != nil {
			log.Warn("Could not read table stats", "error", err)
			return
		}
		for _, ts := range tables {
			fmt.Printf("%-20s live=%d dead=%d size=%s indexes=%s\n", ts.TableName, ts.LiveRows, ts.DeadRows, ts.TableSize, ts.IndexSize)
		}
		fmt.Printf("connections %d/%d (%.1f%%)\n", conns.TotalConnections, conns.MaxConnections, conns.ConnectionsPercent)
	case *rollback:
		log.Info("Rolling back last migration...")
		if err := migrations.RollbackMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")
	default:
		if err := postgres.Migrate(db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
	}
}
