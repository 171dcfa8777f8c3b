package tracker

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 两张表的规范列名，Load/Export 以此为契约
var (
	GoalColumns    = []string{"id", "name", "frequency", "progress", "date_added"}
	HistoryColumns = []string{"goal_id", "name", "date", "progress", "outcome", "change"}
)

// State 持有一次会话内完整的目标表与历史表
// 由调用方独占：load → 变更 → export，核心不依赖任何全局可变状态
// 持久化与远端备份都发生在核心之外，失败不会回滚内存中的数据
type State struct {
	goals   []Goal
	history []HistoryEvent
	nextID  int
}

// UpdateResult 汇总一次成功打卡的产出
type UpdateResult struct {
	Goal  Goal
	Event HistoryEvent
}

// NewState 返回一份空状态
func NewState() *State {
	return &State{nextID: 1}
}

// Load 从两张表格数据构建内存状态
// 表格首行必须是规范列名；nil 或空表等价于一张只有表头的空表
// 无法解析的行视为数据损坏，整体加载失败
func Load(goalTable, historyTable [][]string) (*State, error) {
	state := NewState()

	if err := checkHeader(goalTable, GoalColumns, "goal"); err != nil {
		return nil, err
	}
	if err := checkHeader(historyTable, HistoryColumns, "history"); err != nil {
		return nil, err
	}

	if len(goalTable) > 0 {
		for i, row := range goalTable[1:] {
			goal, err := parseGoalRow(row)
			if err != nil {
				return nil, fmt.Errorf("goal table row %d: %w", i+1, err)
			}
			state.goals = append(state.goals, goal)
			state.bumpNextID(goal.ID)
		}
	}

	if len(historyTable) > 0 {
		for i, row := range historyTable[1:] {
			event, err := parseHistoryRow(row)
			if err != nil {
				return nil, fmt.Errorf("history table row %d: %w", i+1, err)
			}
			state.history = append(state.history, event)
			state.bumpNextID(event.GoalID)
		}
	}

	return state, nil
}

// Export 把当前状态导出为两张带表头的表格，是 Load 的逆操作
func (s *State) Export() (goalTable, historyTable [][]string) {
	goalTable = make([][]string, 0, len(s.goals)+1)
	goalTable = append(goalTable, append([]string(nil), GoalColumns...))
	for _, goal := range s.goals {
		goalTable = append(goalTable, []string{
			goal.ID,
			goal.Name,
			string(goal.Frequency),
			formatFloat(goal.Progress),
			goal.DateAdded.Format(DateFormat),
		})
	}

	historyTable = make([][]string, 0, len(s.history)+1)
	historyTable = append(historyTable, append([]string(nil), HistoryColumns...))
	for _, event := range s.history {
		historyTable = append(historyTable, []string{
			event.GoalID,
			event.GoalName,
			event.Date.Format(DateFormat),
			formatFloat(event.Progress),
			strconv.Itoa(int(event.Outcome)),
			formatFloat(event.Change),
		})
	}

	return goalTable, historyTable
}

// CreateGoal 新建目标并写入种子历史记录
// 进度从 1.0 起步；种子记录完成度为 0 且变化量为 0，不计入成败统计
func (s *State) CreateGoal(name string, frequency Frequency, today time.Time) (Goal, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Goal{}, ErrEmptyName
	}
	if _, err := ParseFrequency(string(frequency)); err != nil {
		return Goal{}, err
	}

	date := normalizeToDate(today)
	goal := Goal{
		ID:        fmt.Sprintf("G%d", s.nextID),
		Name:      trimmed,
		Frequency: frequency,
		Progress:  1.0,
		DateAdded: date,
	}
	s.nextID++

	s.goals = append(s.goals, goal)
	s.history = append(s.history, HistoryEvent{
		GoalID:   goal.ID,
		GoalName: goal.Name,
		Date:     date,
		Progress: goal.Progress,
		Outcome:  OutcomeZero,
		Change:   0,
	})

	return goal, nil
}

// RecordProgress 为目标记录一次打卡
// 节奏闸门放行后才会应用复利更新；目标进度与历史记录在同一次调用内
// 一起写入，二者始终保持一致
func (s *State) RecordProgress(goalID string, outcome Outcome, today time.Time) (UpdateResult, error) {
	if _, err := ParseOutcome(int(outcome)); err != nil {
		return UpdateResult{}, err
	}

	idx := s.indexOf(goalID)
	if idx < 0 {
		return UpdateResult{}, fmt.Errorf("%w: %s", ErrGoalNotFound, goalID)
	}

	goal := s.goals[idx]
	if rejection := MayUpdate(goal, s.history, today); rejection != nil {
		return UpdateResult{}, rejection
	}

	newProgress, change := ApplyOutcome(outcome, goal.Progress)
	s.goals[idx].Progress = newProgress

	event := HistoryEvent{
		GoalID:   goal.ID,
		GoalName: goal.Name,
		Date:     normalizeToDate(today),
		Progress: newProgress,
		Outcome:  outcome,
		Change:   change,
	}
	s.history = append(s.history, event)

	return UpdateResult{Goal: s.goals[idx], Event: event}, nil
}

// DeleteGoal 删除目标并级联清除其全部历史记录
// 已分配的编号不会被后续创建复用
func (s *State) DeleteGoal(goalID string) error {
	idx := s.indexOf(goalID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrGoalNotFound, goalID)
	}

	s.goals = append(s.goals[:idx], s.goals[idx+1:]...)

	kept := s.history[:0]
	for _, event := range s.history {
		if event.GoalID != goalID {
			kept = append(kept, event)
		}
	}
	s.history = kept

	return nil
}

// Goals 返回全部目标的副本
func (s *State) Goals() []Goal {
	return append([]Goal(nil), s.goals...)
}

// Goal 按编号查找目标
func (s *State) Goal(goalID string) (Goal, error) {
	idx := s.indexOf(goalID)
	if idx < 0 {
		return Goal{}, fmt.Errorf("%w: %s", ErrGoalNotFound, goalID)
	}
	return s.goals[idx], nil
}

// HistoryFor 返回指定目标的全部历史记录，按写入顺序排列
func (s *State) HistoryFor(goalID string) []HistoryEvent {
	var events []HistoryEvent
	for _, event := range s.history {
		if event.GoalID == goalID {
			events = append(events, event)
		}
	}
	return events
}

func (s *State) indexOf(goalID string) int {
	for i, goal := range s.goals {
		if goal.ID == goalID {
			return i
		}
	}
	return -1
}

// bumpNextID 依据已出现的编号推进计数器，保证会话内编号只增不减
// 历史表也参与扫描，尽量避免复用刚被删除目标的编号
func (s *State) bumpNextID(goalID string) {
	if !strings.HasPrefix(goalID, "G") {
		return
	}
	n, err := strconv.Atoi(goalID[1:])
	if err != nil {
		return
	}
	if n >= s.nextID {
		s.nextID = n + 1
	}
}

func checkHeader(table [][]string, columns []string, label string) error {
	if len(table) == 0 {
		return nil
	}
	header := table[0]
	if len(header) != len(columns) {
		return fmt.Errorf("%s table: expected %d columns, got %d", label, len(columns), len(header))
	}
	for i, column := range columns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), column) {
			return fmt.Errorf("%s table: expected column %q at position %d, got %q", label, column, i, header[i])
		}
	}
	return nil
}

func parseGoalRow(row []string) (Goal, error) {
	if len(row) != len(GoalColumns) {
		return Goal{}, fmt.Errorf("expected %d fields, got %d", len(GoalColumns), len(row))
	}

	frequency, err := ParseFrequency(row[2])
	if err != nil {
		return Goal{}, err
	}

	progress, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return Goal{}, fmt.Errorf("invalid progress %q", row[3])
	}
	if progress <= 0 {
		return Goal{}, fmt.Errorf("progress must be positive, got %v", progress)
	}

	dateAdded, err := parseDate(row[4])
	if err != nil {
		return Goal{}, err
	}

	return Goal{
		ID:        strings.TrimSpace(row[0]),
		Name:      strings.TrimSpace(row[1]),
		Frequency: frequency,
		Progress:  progress,
		DateAdded: dateAdded,
	}, nil
}

func parseHistoryRow(row []string) (HistoryEvent, error) {
	if len(row) != len(HistoryColumns) {
		return HistoryEvent{}, fmt.Errorf("expected %d fields, got %d", len(HistoryColumns), len(row))
	}

	date, err := parseDate(row[2])
	if err != nil {
		return HistoryEvent{}, err
	}

	progress, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return HistoryEvent{}, fmt.Errorf("invalid progress %q", row[3])
	}

	// 历史数据里完成度可能以浮点形式出现（如 50.0），先按浮点解析
	rawOutcome, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return HistoryEvent{}, fmt.Errorf("invalid outcome %q", row[4])
	}
	outcome, err := ParseOutcome(int(rawOutcome))
	if err != nil {
		return HistoryEvent{}, err
	}

	change, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil {
		return HistoryEvent{}, fmt.Errorf("invalid change %q", row[5])
	}

	return HistoryEvent{
		GoalID:   strings.TrimSpace(row[0]),
		GoalName: strings.TrimSpace(row[1]),
		Date:     date,
		Progress: progress,
		Outcome:  outcome,
		Change:   change,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
