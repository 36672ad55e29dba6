package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTime 支持 RFC3339、unix 秒、"2006-01-02 15:04:05" 和 "2006-01-02"，结果统一为 UTC
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间: %s", s)
}

// DateString 页面上展示的日期，YYYY-MM-DD
func DateString(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
