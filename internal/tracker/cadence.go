package tracker

import (
	"fmt"
	"time"
)

// RejectionReason 区分打卡被拒绝的原因
type RejectionReason string

const (
	// ReasonCreationDay 表示当天刚创建目标，种子记录已占据第一天
	ReasonCreationDay RejectionReason = "creation_day"
	// ReasonPeriodLogged 表示当前周期内已有打卡记录
	ReasonPeriodLogged RejectionReason = "period_logged"
)

// RejectionError 表示一次被节奏闸门拒绝的打卡
// 这是正常的业务判定结果而非异常，调用方据此向用户解释原因
type RejectionError struct {
	Reason    RejectionReason
	Frequency Frequency
}

func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonCreationDay:
		return "cannot record progress on the goal's creation day"
	default:
		return fmt.Sprintf("progress already recorded for the current %s period", periodName(e.Frequency))
	}
}

func periodName(freq Frequency) string {
	switch freq {
	case FrequencyWeekly:
		return "weekly"
	case FrequencyMonthly:
		return "monthly"
	default:
		return "daily"
	}
}

// MayUpdate 判断目标当前是否允许打卡，返回 nil 表示允许
// 纯函数，不产生任何副作用：
//   - 创建当天一律拒绝，种子记录已经占据第一天
//   - daily 按自然日判重，weekly 按 (ISO 年, ISO 周) 判重，monthly 按年月判重
func MayUpdate(goal Goal, history []HistoryEvent, today time.Time) *RejectionError {
	if sameDay(today, goal.DateAdded) {
		return &RejectionError{Reason: ReasonCreationDay, Frequency: goal.Frequency}
	}

	for _, event := range history {
		if event.GoalID != goal.ID {
			continue
		}
		if inSamePeriod(event.Date, today, goal.Frequency) {
			return &RejectionError{Reason: ReasonPeriodLogged, Frequency: goal.Frequency}
		}
	}

	return nil
}

func inSamePeriod(a, b time.Time, freq Frequency) bool {
	switch freq {
	case FrequencyWeekly:
		return sameISOWeek(a, b)
	case FrequencyMonthly:
		return sameMonth(a, b)
	default:
		return sameDay(a, b)
	}
}
