package model

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err != nil {
		t.Fatalf("解析时间失败: %v", err)
	}
	return ts
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := TimeRange{
		From: mustTime(t, "2026-09-01 12:00"),
		To:   mustTime(t, "2026-09-01 13:00"),
	}

	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"完全重合", "2026-09-01 12:00", "2026-09-01 13:00", true},
		{"部分重叠-前", "2026-09-01 11:30", "2026-09-01 12:30", true},
		{"部分重叠-后", "2026-09-01 12:30", "2026-09-01 13:30", true},
		{"包含", "2026-09-01 11:00", "2026-09-01 14:00", true},
		{"被包含", "2026-09-01 12:15", "2026-09-01 12:45", true},
		{"端点相接-前", "2026-09-01 11:00", "2026-09-01 12:00", false},
		{"端点相接-后", "2026-09-01 13:00", "2026-09-01 14:00", false},
		{"完全分离", "2026-09-01 14:00", "2026-09-01 15:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other := TimeRange{From: mustTime(t, tc.from), To: mustTime(t, tc.to)}
			if got := base.Overlaps(other); got != tc.want {
				t.Errorf("Overlaps(%s~%s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
			// 重叠关系对称
			if got := other.Overlaps(base); got != tc.want {
				t.Errorf("对称性: Overlaps 反向结果 = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewTimeRange(t *testing.T) {
	from := mustTime(t, "2026-09-01 18:00")
	r := NewTimeRange(from, time.Hour)
	if !r.To.Equal(from.Add(time.Hour)) {
		t.Errorf("To = %v, want %v", r.To, from.Add(time.Hour))
	}
}
