package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goaltrack/internal/tracker"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// goalRow 与 historyRow 按规范列建表，日期以 2006-01-02 字符串存储
// 与 CSV 后端共用同一套表格契约，解析统一交给 tracker.Load
type goalRow struct {
	RowID     uint   `gorm:"primaryKey;autoIncrement"`
	ID        string `gorm:"uniqueIndex;column:id"`
	Name      string `gorm:"column:name"`
	Frequency string `gorm:"column:frequency"`
	Progress  float64
	DateAdded string `gorm:"column:date_added"`
}

func (goalRow) TableName() string {
	return "goals"
}

type historyRow struct {
	RowID    uint   `gorm:"primaryKey;autoIncrement"`
	GoalID   string `gorm:"index;column:goal_id"`
	Name     string `gorm:"column:name"`
	Date     string `gorm:"column:date"`
	Progress float64
	Outcome  int
	Change   float64
}

func (historyRow) TableName() string {
	return "history_events"
}

// SQLiteStore 把状态保存到 SQLite 数据库，作为 CSV 之外的可选后端
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore 打开数据库并执行自动迁移
// databasePath 为空时回退到默认值 goaltrack.db
func NewSQLiteStore(databasePath string) (*SQLiteStore, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "goaltrack.db"
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := gdb.AutoMigrate(&goalRow{}, &historyRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &SQLiteStore{db: gdb}, nil
}

// Load 读出两张表并交给核心解析
func (s *SQLiteStore) Load() (*tracker.State, error) {
	var goals []goalRow
	if err := s.db.Order("row_id").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}

	var events []historyRow
	if err := s.db.Order("row_id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	goalTable := [][]string{append([]string(nil), tracker.GoalColumns...)}
	for _, row := range goals {
		goalTable = append(goalTable, []string{
			row.ID,
			row.Name,
			row.Frequency,
			strconv.FormatFloat(row.Progress, 'g', -1, 64),
			row.DateAdded,
		})
	}

	historyTable := [][]string{append([]string(nil), tracker.HistoryColumns...)}
	for _, row := range events {
		historyTable = append(historyTable, []string{
			row.GoalID,
			row.Name,
			row.Date,
			strconv.FormatFloat(row.Progress, 'g', -1, 64),
			strconv.Itoa(row.Outcome),
			strconv.FormatFloat(row.Change, 'g', -1, 64),
		})
	}

	state, err := tracker.Load(goalTable, historyTable)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return state, nil
}

// Save 在一个事务内整体替换两张表
func (s *SQLiteStore) Save(state *tracker.State) error {
	goalTable, historyTable := state.Export()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&goalRow{}).Error; err != nil {
			return fmt.Errorf("clear goals: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&historyRow{}).Error; err != nil {
			return fmt.Errorf("clear history: %w", err)
		}

		for _, row := range goalTable[1:] {
			progress, err := strconv.ParseFloat(row[3], 64)
			if err != nil {
				return fmt.Errorf("encode goal progress: %w", err)
			}
			record := goalRow{
				ID:        row[0],
				Name:      row[1],
				Frequency: row[2],
				Progress:  progress,
				DateAdded: row[4],
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("insert goal: %w", err)
			}
		}

		for _, row := range historyTable[1:] {
			progress, err := strconv.ParseFloat(row[3], 64)
			if err != nil {
				return fmt.Errorf("encode history progress: %w", err)
			}
			outcome, err := strconv.Atoi(row[4])
			if err != nil {
				return fmt.Errorf("encode history outcome: %w", err)
			}
			change, err := strconv.ParseFloat(row[5], 64)
			if err != nil {
				return fmt.Errorf("encode history change: %w", err)
			}
			record := historyRow{
				GoalID:   row[0],
				Name:     row[1],
				Date:     row[2],
				Progress: progress,
				Outcome:  outcome,
				Change:   change,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("insert history event: %w", err)
			}
		}

		return nil
	})
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
