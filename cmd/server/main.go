package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/goaltrack/internal/backup"
	"github.com/goaltrack/internal/config"
	"github.com/goaltrack/internal/handler"
	"github.com/goaltrack/internal/router"
	"github.com/goaltrack/internal/service"
	"github.com/goaltrack/internal/store"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化持久化后端并加载已有数据
	var (
		persist store.Store
		err     error
	)
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		persist, err = store.NewSQLiteStore(cfg.DatabasePath)
	default:
		persist, err = store.NewCSVStore(cfg.DataDir)
	}
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}

	state, err := persist.Load()
	if err != nil {
		log.Fatalf("failed to load state: %v", err)
	}

	// 备份推送只对文件型数据目录有意义
	var pusher *backup.Pusher
	if dir := cfg.BackupDir(); dir != "" {
		pusher = backup.New(dir)
	}

	svc := service.New(state, persist, pusher)
	api := handler.NewAPI(svc)

	r := router.SetupRouter(api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
