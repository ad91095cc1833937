package model

import "time"

// TimeRange 半开时间区间 [From, To)
// 系统里所有的冲突判断最终都归结为 Overlaps
type TimeRange struct {
	From time.Time
	To   time.Time
}

// NewTimeRange 以起点和时长构造区间
func NewTimeRange(from time.Time, d time.Duration) TimeRange {
	return TimeRange{From: from, To: from.Add(d)}
}

// Overlaps 判断两个半开区间是否重叠
// 端点相接（a.To == b.From）不算重叠
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.From.Before(o.To) && r.To.After(o.From)
}
