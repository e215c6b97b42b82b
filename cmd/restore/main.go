// Command restore reconciles a backup file straight into the database,
// for operators recovering a dashboard without going through the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/GermanFOSSIL/precom-planner-backend/config"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/bootstrap"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/backup"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/store"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/storage/postgres"
)

func main() {
	file := flag.String("file", "", "backup json file to import")
	target := flag.String("target", backup.TargetNew, "target project id, or \"new\"")
	title := flag.String("title", "", "title for the created project on the \"new\" path")
	dryRun := flag.Bool("dry-run", false, "reconcile and report counts without writing")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: restore -file backup.json [-target new|<project-id>] [-title ...]")
	}

	payload, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read backup: %v", err)
	}

	ctx := context.Background()
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.Database.Enabled() {
		log.Fatal("DB_DSN is not set")
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	snapStore := postgres.NewSnapshotStore(pool)
	snap, err := snapStore.LoadSnapshot(ctx)
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}

	st := store.New()
	st.Replace(snap)

	opts := backup.Options{TargetProjectID: *target, NewProjectTitle: *title}

	if *dryRun {
		b, err := backup.Parse(payload)
		if err != nil {
			log.Fatalf("parse: %v", err)
		}
		_, res, err := backup.Reconcile(st.Snapshot(), b, opts)
		if err != nil {
			log.Fatalf("reconcile: %v", err)
		}
		printResult(res)
		return
	}

	importer := backup.NewImporter(st, logger, snapStore)
	res, err := importer.Import(ctx, payload, opts)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	printResult(res)
}

func printResult(res backup.Result) {
	fmt.Printf("target project: %s (created=%v)\n", res.ProjectID, res.CreatedProject)
	fmt.Printf("projects:   %d imported, %d skipped\n", res.ProjectsImported, res.ProjectsSkipped)
	fmt.Printf("activities: %d imported, %d skipped\n", res.ActivitiesImported, res.ActivitiesSkipped)
	fmt.Printf("itrbs:      %d imported, %d skipped\n", res.ITRsImported, res.ITRsSkipped)
	fmt.Printf("alerts:     %d imported\n", res.AlertsImported)
}
