package main

import (
	"fmt"

	"finance-control/internal/config"
	"finance-control/internal/database"
	"finance-control/internal/router"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		logrus.Fatalf("init database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		logrus.Fatalf("migrate database: %v", err)
	}

	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logrus.Infof("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logrus.Fatalf("run server: %v", err)
	}
}
