package tracker

import (
	"errors"
	"math"
	"testing"
	"time"
)

func mustCreate(t *testing.T, state *State, name string, freq Frequency, day time.Time) Goal {
	t.Helper()
	goal, err := state.CreateGoal(name, freq, day)
	if err != nil {
		t.Fatalf("CreateGoal returned error: %v", err)
	}
	return goal
}

func rejectionReason(t *testing.T, err error) RejectionReason {
	t.Helper()
	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected rejection, got %v", err)
	}
	return rejection.Reason
}

func TestDailyCadence(t *testing.T) {
	state := NewState()
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	goal := mustCreate(t, state, "晨跑", FrequencyDaily, created)

	// 创建当天一律拒绝
	_, err := state.RecordProgress(goal.ID, OutcomeFull, created)
	if reason := rejectionReason(t, err); reason != ReasonCreationDay {
		t.Fatalf("expected creation day rejection, got %s", reason)
	}

	// 次日放行并应用复利
	nextDay := created.AddDate(0, 0, 1)
	result, err := state.RecordProgress(goal.ID, OutcomeFull, nextDay)
	if err != nil {
		t.Fatalf("RecordProgress returned error: %v", err)
	}
	if math.Abs(result.Goal.Progress-1.01) > tolerance {
		t.Fatalf("expected progress 1.01, got %v", result.Goal.Progress)
	}

	// 同一天第二次拒绝
	_, err = state.RecordProgress(goal.ID, OutcomeHalf, nextDay)
	if reason := rejectionReason(t, err); reason != ReasonPeriodLogged {
		t.Fatalf("expected period rejection, got %s", reason)
	}
}

func TestWeeklyCadence(t *testing.T) {
	state := NewState()
	// 2024-04-22 是周一
	created := time.Date(2024, 4, 22, 0, 0, 0, 0, time.Local)
	goal := mustCreate(t, state, "复盘", FrequencyWeekly, created)

	// 种子记录占据创建周，周三仍被拒绝
	wednesday := created.AddDate(0, 0, 2)
	_, err := state.RecordProgress(goal.ID, OutcomeFull, wednesday)
	if reason := rejectionReason(t, err); reason != ReasonPeriodLogged {
		t.Fatalf("expected period rejection, got %s", reason)
	}

	// 下一个 ISO 周放行
	nextMonday := created.AddDate(0, 0, 7)
	if _, err := state.RecordProgress(goal.ID, OutcomeFull, nextMonday); err != nil {
		t.Fatalf("RecordProgress returned error: %v", err)
	}

	// 同一周的周三再次拒绝
	_, err = state.RecordProgress(goal.ID, OutcomeFull, nextMonday.AddDate(0, 0, 2))
	if reason := rejectionReason(t, err); reason != ReasonPeriodLogged {
		t.Fatalf("expected period rejection, got %s", reason)
	}
}

func TestWeeklyCadenceAcrossYearBoundary(t *testing.T) {
	state := NewState()
	created := time.Date(2024, 11, 4, 0, 0, 0, 0, time.Local)
	goal := mustCreate(t, state, "总结", FrequencyWeekly, created)

	// 2024-12-23 属于 2024 年第 52 周
	if _, err := state.RecordProgress(goal.ID, OutcomeFull, time.Date(2024, 12, 23, 0, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("RecordProgress returned error: %v", err)
	}

	// 2024-12-30 已属于 2025 年第 1 周，应当放行
	if _, err := state.RecordProgress(goal.ID, OutcomeFull, time.Date(2024, 12, 30, 0, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("expected new ISO week to be allowed, got %v", err)
	}

	// 2025-01-03 仍在 2025 年第 1 周，拒绝
	_, err := state.RecordProgress(goal.ID, OutcomeFull, time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local))
	if reason := rejectionReason(t, err); reason != ReasonPeriodLogged {
		t.Fatalf("expected period rejection, got %s", reason)
	}
}

func TestWeeklySameWeekNumberDifferentYear(t *testing.T) {
	// 同为第 2 周但年份不同，不应相互阻塞
	a := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)
	b := time.Date(2025, 1, 8, 0, 0, 0, 0, time.Local)
	if sameISOWeek(a, b) {
		t.Fatal("weeks in different ISO years must not collide")
	}
}

func TestMonthlyCadence(t *testing.T) {
	state := NewState()
	created := time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local)
	goal := mustCreate(t, state, "账单整理", FrequencyMonthly, created)

	// 种子记录占据创建月份
	_, err := state.RecordProgress(goal.ID, OutcomeFull, time.Date(2024, 5, 30, 0, 0, 0, 0, time.Local))
	if reason := rejectionReason(t, err); reason != ReasonPeriodLogged {
		t.Fatalf("expected period rejection, got %s", reason)
	}

	if _, err := state.RecordProgress(goal.ID, OutcomeFull, time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("RecordProgress returned error: %v", err)
	}

	_, err = state.RecordProgress(goal.ID, OutcomeHalf, time.Date(2024, 6, 28, 0, 0, 0, 0, time.Local))
	if reason := rejectionReason(t, err); reason != ReasonPeriodLogged {
		t.Fatalf("expected period rejection, got %s", reason)
	}
}

func TestMayUpdateIsPure(t *testing.T) {
	goal := Goal{
		ID:        "G1",
		Name:      "晨跑",
		Frequency: FrequencyDaily,
		Progress:  1.0,
		DateAdded: time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local),
	}
	history := []HistoryEvent{
		{GoalID: "G1", Date: goal.DateAdded, Progress: 1.0},
	}
	today := time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local)

	first := MayUpdate(goal, history, today)
	second := MayUpdate(goal, history, today)
	if first != nil || second != nil {
		t.Fatalf("expected both calls to allow, got %v and %v", first, second)
	}
	if len(history) != 1 {
		t.Fatalf("history must not be mutated, got %d entries", len(history))
	}
}
