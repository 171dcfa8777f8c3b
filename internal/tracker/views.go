package tracker

import (
	"math"
	"strings"
	"time"
)

// DayStatus 描述日历单元格里某一天的状态
type DayStatus int

const (
	// StatusMissed 表示该天没有任何打卡记录
	StatusMissed DayStatus = iota
	// StatusStart 表示目标的创建日
	StatusStart
	// StatusFuture 表示晚于今天的日期，渲染为空白
	StatusFuture
	// StatusFull 对应完成度 100
	StatusFull
	// StatusHalf 对应完成度 50
	StatusHalf
	// StatusZero 对应完成度 0
	StatusZero
)

func (s DayStatus) String() string {
	switch s {
	case StatusStart:
		return "start"
	case StatusFuture:
		return "future"
	case StatusFull:
		return "full"
	case StatusHalf:
		return "half"
	case StatusZero:
		return "zero"
	default:
		return "missed"
	}
}

// Emoji 返回状态对应的表情符号，未来日期为空白
func (s DayStatus) Emoji() string {
	switch s {
	case StatusStart:
		return "🚀"
	case StatusFull:
		return "✅"
	case StatusHalf:
		return "🌗"
	case StatusZero:
		return "❌"
	case StatusFuture:
		return ""
	default:
		return "⬜"
	}
}

// DayCell 是日历/条带中的一格
type DayCell struct {
	Date   time.Time
	Status DayStatus
}

// PotentialProgress 计算假设每个周期都拿到 100% 时的进度系数
// 仅作对照展示，与节奏闸门无关
func PotentialProgress(goal Goal, today time.Time) float64 {
	days := daysBetween(goal.DateAdded, today)
	if days < 0 {
		days = 0
	}
	return math.Pow(fullFactor, float64(days))
}

// DayStatuses 对日期区间内的每一天做状态分类
// 判定优先级：创建日 > 未来 > 当日最后一条打卡记录 > 缺卡
// 纯函数，相同输入必然得到相同输出
func DayStatuses(goal Goal, events []HistoryEvent, from, to, today time.Time) []DayCell {
	from = normalizeToDate(from)
	to = normalizeToDate(to)
	if to.Before(from) {
		return nil
	}

	cells := make([]DayCell, 0, daysBetween(from, to)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		cells = append(cells, DayCell{Date: d, Status: classifyDay(goal, events, d, today)})
	}
	return cells
}

func classifyDay(goal Goal, events []HistoryEvent, day, today time.Time) DayStatus {
	if sameDay(day, goal.DateAdded) {
		return StatusStart
	}
	if normalizeToDate(day).After(normalizeToDate(today)) {
		return StatusFuture
	}

	// 同一天存在多条记录时以最后写入的为准
	found := false
	var outcome Outcome
	for _, event := range events {
		if event.GoalID == goal.ID && sameDay(event.Date, day) {
			found = true
			outcome = event.Outcome
		}
	}
	if !found {
		return StatusMissed
	}

	switch outcome {
	case OutcomeFull:
		return StatusFull
	case OutcomeHalf:
		return StatusHalf
	default:
		return StatusZero
	}
}

// StatusStrip 返回截至今天的最近 days 天状态条带
func StatusStrip(goal Goal, events []HistoryEvent, days int, today time.Time) []DayCell {
	if days <= 0 {
		return nil
	}
	end := normalizeToDate(today)
	start := end.AddDate(0, 0, -(days - 1))
	return DayStatuses(goal, events, start, end, today)
}

// EmojiStrip 把状态条带渲染成表情字符串
func EmojiStrip(cells []DayCell) string {
	var b strings.Builder
	for _, cell := range cells {
		b.WriteString(cell.Status.Emoji())
	}
	return b.String()
}

// MonthCalendar 返回指定月份每一天的状态
func MonthCalendar(goal Goal, events []HistoryEvent, year int, month time.Month, today time.Time) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	last := first.AddDate(0, 1, -1)
	return DayStatuses(goal, events, first, last, today)
}

// Tally 汇总成功与失败的天数
type Tally struct {
	SuccessDays int
	FailureDays int
}

// SuccessFailureCounts 统计完成度 100 与 0 的打卡天数
// 创建日的种子记录不计入：闸门保证创建当天不会有其他记录，
// 因此按日期等于创建日即可识别种子
func SuccessFailureCounts(goal Goal, events []HistoryEvent) Tally {
	var tally Tally
	for _, event := range events {
		if event.GoalID != goal.ID {
			continue
		}
		if sameDay(event.Date, goal.DateAdded) {
			continue
		}
		switch event.Outcome {
		case OutcomeFull:
			tally.SuccessDays++
		case OutcomeZero:
			tally.FailureDays++
		}
	}
	return tally
}
