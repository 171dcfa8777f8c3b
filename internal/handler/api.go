package handler

import (
	"time"

	"github.com/goaltrack/internal/service"
)

// API bundles shared dependencies for HTTP handlers.
// now 可在测试中替换，处理单个请求时只取一次当前时间。
type API struct {
	tracker *service.TrackerService
	now     func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(tracker *service.TrackerService) *API {
	return &API{tracker: tracker, now: time.Now}
}
