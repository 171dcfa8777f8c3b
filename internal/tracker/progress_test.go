package tracker

import (
	"math"
	"testing"
	"time"
)

const tolerance = 1e-9

func TestApplyOutcomeRule(t *testing.T) {
	tests := []struct {
		name         string
		outcome      Outcome
		current      float64
		wantProgress float64
		wantChange   float64
	}{
		{name: "full", outcome: OutcomeFull, current: 1.0, wantProgress: 1.01, wantChange: 0.01},
		{name: "half", outcome: OutcomeHalf, current: 1.0, wantProgress: 1.005, wantChange: 0.005},
		{name: "zero uses division", outcome: OutcomeZero, current: 1.0, wantProgress: 1.0 / 1.01, wantChange: -0.01},
		{name: "full compounds", outcome: OutcomeFull, current: 2.5, wantProgress: 2.5 * 1.01, wantChange: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, change := ApplyOutcome(tt.outcome, tt.current)
			if math.Abs(got-tt.wantProgress) > tolerance {
				t.Fatalf("expected progress %v, got %v", tt.wantProgress, got)
			}
			if math.Abs(change-tt.wantChange) > tolerance {
				t.Fatalf("expected change %v, got %v", tt.wantChange, change)
			}
		})
	}
}

func TestCompoundingThreeWins(t *testing.T) {
	state := NewState()
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)

	goal, err := state.CreateGoal("晨跑", FrequencyDaily, created)
	if err != nil {
		t.Fatalf("CreateGoal returned error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		day := created.AddDate(0, 0, i)
		if _, err := state.RecordProgress(goal.ID, OutcomeFull, day); err != nil {
			t.Fatalf("RecordProgress day %d returned error: %v", i, err)
		}
	}

	updated, err := state.Goal(goal.ID)
	if err != nil {
		t.Fatalf("Goal returned error: %v", err)
	}

	if math.Abs(updated.Progress-1.030301) > tolerance {
		t.Fatalf("expected progress 1.030301, got %v", updated.Progress)
	}
}

func TestZeroOutcomeDivides(t *testing.T) {
	state := NewState()
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)

	goal, err := state.CreateGoal("阅读", FrequencyDaily, created)
	if err != nil {
		t.Fatalf("CreateGoal returned error: %v", err)
	}

	result, err := state.RecordProgress(goal.ID, OutcomeZero, created.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("RecordProgress returned error: %v", err)
	}

	if math.Abs(result.Goal.Progress-1.0/1.01) > tolerance {
		t.Fatalf("expected progress %v, got %v", 1.0/1.01, result.Goal.Progress)
	}

	if math.Abs(result.Event.Change-(-0.01)) > tolerance {
		t.Fatalf("expected change -0.01, got %v", result.Event.Change)
	}
}

func TestProgressStaysPositive(t *testing.T) {
	state := NewState()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	goal, err := state.CreateGoal("冥想", FrequencyDaily, created)
	if err != nil {
		t.Fatalf("CreateGoal returned error: %v", err)
	}

	// 连续一年全 0 也不会归零或翻负
	for i := 1; i <= 365; i++ {
		day := created.AddDate(0, 0, i)
		result, err := state.RecordProgress(goal.ID, OutcomeZero, day)
		if err != nil {
			t.Fatalf("RecordProgress day %d returned error: %v", i, err)
		}
		if result.Goal.Progress <= 0 {
			t.Fatalf("progress must stay positive, got %v on day %d", result.Goal.Progress, i)
		}
	}
}
