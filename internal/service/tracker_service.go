package service

import (
	"log"
	"sync"
	"time"

	"github.com/goaltrack/internal/backup"
	"github.com/goaltrack/internal/store"
	"github.com/goaltrack/internal/tracker"
)

// TrackerService 串联核心状态、持久化与备份
// 整个检查-更新路径持锁执行，两个并发请求不可能同时通过节奏闸门
// 持久化是尽力而为的：失败会如实上报，但不回滚已生效的内存更新
type TrackerService struct {
	mu     sync.Mutex
	state  *tracker.State
	store  store.Store
	pusher *backup.Pusher
}

// SaveStatus 描述一次变更之后的持久化结果
type SaveStatus struct {
	Persisted bool
	Err       error
}

// Stats 汇总单个目标的进度对照数据
type Stats struct {
	Goal              tracker.Goal
	PotentialProgress float64
	SuccessDays       int
	FailureDays       int
}

// New 构造 TrackerService，pusher 可以为 nil 表示不启用备份
func New(state *tracker.State, persist store.Store, pusher *backup.Pusher) *TrackerService {
	return &TrackerService{state: state, store: persist, pusher: pusher}
}

// CreateGoal 创建目标并持久化
func (s *TrackerService) CreateGoal(name, frequency string, today time.Time) (tracker.Goal, SaveStatus, error) {
	freq, err := tracker.ParseFrequency(frequency)
	if err != nil {
		return tracker.Goal{}, SaveStatus{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.state.CreateGoal(name, freq, today)
	if err != nil {
		return tracker.Goal{}, SaveStatus{}, err
	}

	return goal, s.persist(), nil
}

// RecordProgress 为目标记录一次打卡并持久化
func (s *TrackerService) RecordProgress(goalID string, outcome int, today time.Time) (tracker.UpdateResult, SaveStatus, error) {
	parsed, err := tracker.ParseOutcome(outcome)
	if err != nil {
		return tracker.UpdateResult{}, SaveStatus{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.state.RecordProgress(goalID, parsed, today)
	if err != nil {
		return tracker.UpdateResult{}, SaveStatus{}, err
	}

	return result, s.persist(), nil
}

// DeleteGoal 删除目标及其历史并持久化
func (s *TrackerService) DeleteGoal(goalID string) (SaveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.DeleteGoal(goalID); err != nil {
		return SaveStatus{}, err
	}

	return s.persist(), nil
}

// Goals 返回全部目标
func (s *TrackerService) Goals() []tracker.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Goals()
}

// Goal 按编号返回目标
func (s *TrackerService) Goal(goalID string) (tracker.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Goal(goalID)
}

// History 返回目标的全部打卡记录
func (s *TrackerService) History(goalID string) ([]tracker.HistoryEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.state.Goal(goalID); err != nil {
		return nil, err
	}
	return s.state.HistoryFor(goalID), nil
}

// Strip 返回目标最近 days 天的状态条带
func (s *TrackerService) Strip(goalID string, days int, today time.Time) ([]tracker.DayCell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.state.Goal(goalID)
	if err != nil {
		return nil, err
	}
	return tracker.StatusStrip(goal, s.state.HistoryFor(goalID), days, today), nil
}

// Calendar 返回目标在指定月份的日历状态
func (s *TrackerService) Calendar(goalID string, year int, month time.Month, today time.Time) ([]tracker.DayCell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.state.Goal(goalID)
	if err != nil {
		return nil, err
	}
	return tracker.MonthCalendar(goal, s.state.HistoryFor(goalID), year, month, today), nil
}

// Stats 返回目标的实际进度、潜力进度与成败天数
func (s *TrackerService) Stats(goalID string, today time.Time) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.state.Goal(goalID)
	if err != nil {
		return Stats{}, err
	}

	tally := tracker.SuccessFailureCounts(goal, s.state.HistoryFor(goalID))
	return Stats{
		Goal:              goal,
		PotentialProgress: tracker.PotentialProgress(goal, today),
		SuccessDays:       tally.SuccessDays,
		FailureDays:       tally.FailureDays,
	}, nil
}

// persist 在持锁状态下落盘，成功后异步触发备份推送
func (s *TrackerService) persist() SaveStatus {
	if s.store == nil {
		return SaveStatus{Persisted: true}
	}

	if err := s.store.Save(s.state); err != nil {
		log.Printf("persist state failed: %v", err)
		return SaveStatus{Persisted: false, Err: err}
	}

	if s.pusher != nil {
		s.pusher.PushAsync()
	}
	return SaveStatus{Persisted: true}
}
