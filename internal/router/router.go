package router

import (
	"github.com/gin-gonic/gin"
	"github.com/goaltrack/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	group := r.Group("/api")
	{
		group.GET("/goals", api.ListGoals)
		group.POST("/goals", api.CreateGoal)
		group.GET("/goals/:id", api.GetGoal)
		group.DELETE("/goals/:id", api.DeleteGoal)

		group.POST("/goals/:id/progress", api.RecordProgress)
		group.GET("/goals/:id/history", api.GetHistory)

		group.GET("/goals/:id/strip", api.GetStrip)
		group.GET("/goals/:id/calendar", api.GetCalendar)
		group.GET("/goals/:id/stats", api.GetStats)
	}

	return r
}
