package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltrack/internal/service"
	"github.com/goaltrack/internal/tracker"
)

type goalPayload struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
}

type progressPayload struct {
	Outcome int `json:"outcome"`
}

// CreateGoal 创建目标
func (a *API) CreateGoal(c *gin.Context) {
	var payload goalPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	// 一次请求内只取一次当前时间，避免跨越零点时前后不一致
	now := a.now()
	goal, saved, err := a.tracker.CreateGoal(payload.Name, payload.Frequency, now)
	if err != nil {
		handleTrackerError(c, err)
		return
	}

	respondWithSave(c, saved, gin.H{"goal": goalToPayload(goal, now)})
}

// ListGoals 返回目标列表
func (a *API) ListGoals(c *gin.Context) {
	now := a.now()
	goals := a.tracker.Goals()

	items := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		items = append(items, goalToPayload(goal, now))
	}

	c.JSON(http.StatusOK, gin.H{"goals": items})
}

// GetGoal 返回单个目标详情
func (a *API) GetGoal(c *gin.Context) {
	goal, err := a.tracker.Goal(c.Param("id"))
	if err != nil {
		handleTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(goal, a.now())})
}

// DeleteGoal 删除目标并级联清除历史
func (a *API) DeleteGoal(c *gin.Context) {
	saved, err := a.tracker.DeleteGoal(c.Param("id"))
	if err != nil {
		handleTrackerError(c, err)
		return
	}

	respondWithSave(c, saved, gin.H{"deleted": true})
}

// RecordProgress 为目标打卡
func (a *API) RecordProgress(c *gin.Context) {
	var payload progressPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	now := a.now()
	result, saved, err := a.tracker.RecordProgress(c.Param("id"), payload.Outcome, now)
	if err != nil {
		handleTrackerError(c, err)
		return
	}

	respondWithSave(c, saved, gin.H{
		"goal":  goalToPayload(result.Goal, now),
		"event": eventToPayload(result.Event),
	})
}

// GetHistory 返回目标的全部打卡记录
func (a *API) GetHistory(c *gin.Context) {
	events, err := a.tracker.History(c.Param("id"))
	if err != nil {
		handleTrackerError(c, err)
		return
	}

	items := make([]gin.H, 0, len(events))
	for _, event := range events {
		items = append(items, eventToPayload(event))
	}

	c.JSON(http.StatusOK, gin.H{"history": items})
}

func goalToPayload(goal tracker.Goal, now time.Time) gin.H {
	return gin.H{
		"id":                 goal.ID,
		"name":               goal.Name,
		"frequency":          string(goal.Frequency),
		"progress":           goal.Progress,
		"date_added":         goal.DateAdded.Format(tracker.DateFormat),
		"potential_progress": tracker.PotentialProgress(goal, now),
	}
}

func eventToPayload(event tracker.HistoryEvent) gin.H {
	return gin.H{
		"goal_id":  event.GoalID,
		"name":     event.GoalName,
		"date":     event.Date.Format(tracker.DateFormat),
		"progress": event.Progress,
		"outcome":  int(event.Outcome),
		"change":   event.Change,
	}
}

// respondWithSave 在响应中如实带上持久化结果
// 落盘失败不影响已生效的内存更新，但要让调用方知道
func respondWithSave(c *gin.Context, saved service.SaveStatus, payload gin.H) {
	payload["persisted"] = saved.Persisted
	if !saved.Persisted {
		payload["warning"] = "数据暂未写入磁盘，请稍后重试保存"
	}
	c.JSON(http.StatusOK, payload)
}

func handleTrackerError(c *gin.Context, err error) {
	var rejection *tracker.RejectionError
	switch {
	case errors.As(err, &rejection):
		respondRejection(c, rejection)
	case errors.Is(err, tracker.ErrGoalNotFound):
		respondError(c, http.StatusNotFound, "目标不存在")
	case errors.Is(err, tracker.ErrEmptyName):
		respondError(c, http.StatusBadRequest, "目标名称不能为空")
	case errors.Is(err, tracker.ErrInvalidFrequency):
		respondError(c, http.StatusBadRequest, "频率只支持 daily/weekly/monthly")
	case errors.Is(err, tracker.ErrInvalidOutcome):
		respondError(c, http.StatusBadRequest, "完成度只支持 0/50/100")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}

func respondRejection(c *gin.Context, rejection *tracker.RejectionError) {
	message := "当前周期已经打过卡"
	if rejection.Reason == tracker.ReasonCreationDay {
		message = "目标创建当天不能打卡"
	}

	c.JSON(http.StatusConflict, gin.H{
		"error":  message,
		"reason": string(rejection.Reason),
	})
}
