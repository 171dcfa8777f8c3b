package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltrack/internal/tracker"
)

const (
	defaultStripDays = 30
	maxStripDays     = 366
)

// GetStrip 返回目标最近 N 天的状态条带，附带表情渲染
func (a *API) GetStrip(c *gin.Context) {
	days := parseIntQuery(c, "days", defaultStripDays)
	if days < 1 || days > maxStripDays {
		respondError(c, http.StatusBadRequest, "天数需在 1 到 366 之间")
		return
	}

	cells, err := a.tracker.Strip(c.Param("id"), days, a.now())
	if err != nil {
		handleTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":  serializeCells(cells),
		"strip": tracker.EmojiStrip(cells),
	})
}

// GetCalendar 返回目标指定月份的打卡日历
func (a *API) GetCalendar(c *gin.Context) {
	now := a.now()
	year := parseIntQuery(c, "year", now.Year())
	month := parseIntQuery(c, "month", int(now.Month()))
	if month < 1 || month > 12 {
		respondError(c, http.StatusBadRequest, "无效的月份")
		return
	}

	cells, err := a.tracker.Calendar(c.Param("id"), year, time.Month(month), now)
	if err != nil {
		handleTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"days":  serializeCells(cells),
	})
}

// GetStats 返回实际进度与潜力进度的对照及成败天数
func (a *API) GetStats(c *gin.Context) {
	now := a.now()
	stats, err := a.tracker.Stats(c.Param("id"), now)
	if err != nil {
		handleTrackerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"goal":               goalToPayload(stats.Goal, now),
		"potential_progress": stats.PotentialProgress,
		"success_days":       stats.SuccessDays,
		"failure_days":       stats.FailureDays,
	})
}

func serializeCells(cells []tracker.DayCell) []gin.H {
	items := make([]gin.H, 0, len(cells))
	for _, cell := range cells {
		items = append(items, gin.H{
			"date":   cell.Date.Format(tracker.DateFormat),
			"status": cell.Status.String(),
			"emoji":  cell.Status.Emoji(),
		})
	}
	return items
}
