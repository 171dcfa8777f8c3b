package config

import (
	"fmt"
	"os"
	"strings"
)

// 持久化后端取值
const (
	StoreDriverCSV    = "csv"
	StoreDriverSQLite = "sqlite"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	GinMode       string
	DataDir       string
	StoreDriver   string
	DatabasePath  string
	BackupEnabled bool
}

// BackupDir 返回备份推送应当监控的目录，备份不适用时返回空串。
// git 备份只覆盖 CSV 后端的数据目录；SQLite 后端的数据不在其中，
// 此时即便开启备份也不构造推送器。
func (c AppConfig) BackupDir() string {
	if !c.BackupEnabled || c.StoreDriver != StoreDriverCSV {
		return ""
	}
	return c.DataDir
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	dataDir := strings.TrimSpace(os.Getenv("DATA_DIR"))
	if dataDir == "" {
		dataDir = "data"
	}

	storeDriver := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	if storeDriver != StoreDriverSQLite {
		storeDriver = StoreDriverCSV
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "goaltrack.db"
	}

	backupEnabled := strings.EqualFold(strings.TrimSpace(os.Getenv("BACKUP_ENABLED")), "true")

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		GinMode:       ginMode,
		DataDir:       dataDir,
		StoreDriver:   storeDriver,
		DatabasePath:  databasePath,
		BackupEnabled: backupEnabled,
	}
}
