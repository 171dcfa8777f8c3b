package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateFormat 是全部表格与 API 中使用的日期格式
const DateFormat = "2006-01-02"

var (
	// ErrGoalNotFound 在指定目标不存在时返回
	ErrGoalNotFound = errors.New("goal not found")
	// ErrInvalidFrequency 当频率取值非法时返回
	ErrInvalidFrequency = errors.New("invalid goal frequency")
	// ErrInvalidOutcome 当打卡结果不在 0/50/100 之内时返回
	ErrInvalidOutcome = errors.New("invalid outcome value")
	// ErrEmptyName 当目标名称为空时返回
	ErrEmptyName = errors.New("goal name is required")
)

// Frequency 描述目标的打卡节奏
// 仅支持 daily/weekly/monthly 三档，不支持自定义周期
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency 解析并规范化频率取值
func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(strings.TrimSpace(strings.ToLower(value))) {
	case FrequencyDaily:
		return FrequencyDaily, nil
	case FrequencyWeekly:
		return FrequencyWeekly, nil
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFrequency, value)
	}
}

// Outcome 表示一个周期内上报的完成度，只取 0/50/100 三个值
type Outcome int

const (
	OutcomeZero Outcome = 0
	OutcomeHalf Outcome = 50
	OutcomeFull Outcome = 100
)

// ParseOutcome 校验完成度取值
func ParseOutcome(value int) (Outcome, error) {
	switch Outcome(value) {
	case OutcomeZero, OutcomeHalf, OutcomeFull:
		return Outcome(value), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidOutcome, value)
	}
}

// Goal 定义了目标模型
// Progress 是从 1.0 起步的复利系数，不是百分比；只能经由打卡更新
// DateAdded 为创建日期，创建后不可变
type Goal struct {
	ID        string
	Name      string
	Frequency Frequency
	Progress  float64
	DateAdded time.Time
}

// HistoryEvent 记录一次打卡产生的进度快照
// Progress 是应用本次变化之后的值；Change 冗余存储便于展示与审计
// 创建目标时会写入一条零变化的种子记录
type HistoryEvent struct {
	GoalID   string
	GoalName string
	Date     time.Time
	Progress float64
	Outcome  Outcome
	Change   float64
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// sameISOWeek 按 (ISO 年, ISO 周) 整体比较，跨年时第 1 周不会与上一年的
// 第 52/53 周混淆
func sameISOWeek(a, b time.Time) bool {
	y1, w1 := a.ISOWeek()
	y2, w2 := b.ISOWeek()
	return y1 == y2 && w1 == w2
}

func sameMonth(a, b time.Time) bool {
	y1, m1, _ := a.Date()
	y2, m2, _ := b.Date()
	return y1 == y2 && m1 == m2
}

// daysBetween 返回两个日期相差的整天数，忽略时分秒
// 统一换算到 UTC 午夜再相减，本地时区的夏令时切换不会让天数少一
func daysBetween(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
