package tracker

// 复利系数的固定参数
// 100% 乘 1.01，50% 乘 1.005，0% 除以 1.01
// 0% 采用除法（而非乘 0.99），与历史数据口径保持一致；
// 对外展示的 Change 统一记为 -0.01
const (
	fullFactor  = 1.01
	halfFactor  = 1.005
	zeroDivisor = 1.01

	changeFull = 0.01
	changeHalf = 0.005
	changeZero = -0.01
)

// ApplyOutcome 根据完成度计算新的进度系数与本次变化量
// 结果恒为正数，不做上限截断：这是一个激励系数，不是百分比
func ApplyOutcome(outcome Outcome, current float64) (newProgress, change float64) {
	switch outcome {
	case OutcomeFull:
		return current * fullFactor, changeFull
	case OutcomeHalf:
		return current * halfFactor, changeHalf
	default:
		return current / zeroDivisor, changeZero
	}
}
