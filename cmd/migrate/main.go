package main

import (
	"flag"
	"os"

	"riftlog/config"
	"riftlog/database"
	"riftlog/logger"
	"riftlog/services"
)

// 独立的迁移入口：建表、播种默认数据，可选清理孤儿失误关联
func main() {
	repairOrphans := flag.Bool("repair-orphans", false, "remove mistake links whose match no longer exists")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.Default()

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		var err error
		dbPath, err = database.DefaultPath()
		if err != nil {
			log.WithError(err).Error("Failed to resolve database path")
			os.Exit(1)
		}
	}

	db, err := database.Connect(dbPath)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Error("Failed to run migrations")
		os.Exit(1)
	}
	log.WithField("path", dbPath).Info("Migrations completed")

	if *repairOrphans {
		removed, err := services.NewMistakeStore(db).RepairOrphanLinks()
		if err != nil {
			log.WithError(err).Error("Failed to repair orphan mistake links")
			os.Exit(1)
		}
		log.WithField("removed", removed).Info("Orphan mistake links repaired")
	}
}
