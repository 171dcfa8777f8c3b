package store

import "github.com/goaltrack/internal/tracker"

// Store 是核心之外的持久化协作方
// Load 在数据尚不存在时返回空状态而非报错；Save 负责把两张表落盘
// 持久化失败由调用方处理，内存状态不受影响
type Store interface {
	Load() (*tracker.State, error)
	Save(state *tracker.State) error
}
