package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goaltrack/internal/tracker"
	"github.com/gofrs/flock"
)

const (
	goalsFileName   = "tracker_data.csv"
	historyFileName = "progress_history.csv"
	lockFileName    = ".goaltrack.lock"
)

// CSVStore 把状态保存为一对 CSV 文件
// 写入通过临时文件加重命名完成，并以文件锁防止多进程同时写坏数据
type CSVStore struct {
	dir string
}

// NewCSVStore 构造 CSVStore，数据目录不存在时自动创建
func NewCSVStore(dir string) (*CSVStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

// Dir 返回数据目录，备份推送需要知道文件位置
func (s *CSVStore) Dir() string {
	return s.dir
}

// Load 读取两个 CSV 文件并构建状态，文件缺失按空表处理
func (s *CSVStore) Load() (*tracker.State, error) {
	goalTable, err := readCSV(filepath.Join(s.dir, goalsFileName))
	if err != nil {
		return nil, fmt.Errorf("read goals file: %w", err)
	}

	historyTable, err := readCSV(filepath.Join(s.dir, historyFileName))
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	state, err := tracker.Load(goalTable, historyTable)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return state, nil
}

// Save 在文件锁保护下把两张表原子地写回磁盘
func (s *CSVStore) Save(state *tracker.State) error {
	lock := flock.New(filepath.Join(s.dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire data lock: %w", err)
	}
	defer lock.Unlock()

	goalTable, historyTable := state.Export()

	if err := writeCSV(filepath.Join(s.dir, goalsFileName), goalTable); err != nil {
		return fmt.Errorf("write goals file: %w", err)
	}
	if err := writeCSV(filepath.Join(s.dir, historyFileName), historyTable); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	return reader.ReadAll()
}

func writeCSV(path string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	writer := csv.NewWriter(tmp)
	if err := writer.WriteAll(records); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
