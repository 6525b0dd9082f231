package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateTimeLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02/01/06",
	"02.01.2006",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"15h04",
	"15h",
}

// parseDate 解析日期单元格（Excel 序列号或文本）
// hasClock 表示单元格本身带有时间部分
func parseDate(raw string) (t time.Time, hasClock bool, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 1 {
			return time.Time{}, false, false
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return time.Time{}, false, false
		}
		t = roundToSecond(t)
		_, frac := math.Modf(f)
		return t, frac != 0, true
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}

// parseClock 解析时间单元格，返回当天的偏移量
func parseClock(raw string) (time.Duration, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return numericClock(f)
	}

	// 时间列里也会出现完整的日期时间
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return clockOf(t), true
		}
	}

	lower := strings.ToLower(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, lower); err == nil {
			return clockOf(t), true
		}
	}
	// "08:30 - 09:00" 之类的区间只取起点
	if i := strings.IndexAny(lower, " -"); i > 0 {
		return parseClock(lower[:i])
	}
	return 0, false
}

// numericClock 整数 0-23 视为小时；带小数的按 Excel 序列号取小数部分
// 其它整数（纯日期序列号等）没有时间信息
func numericClock(f float64) (time.Duration, bool) {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	whole, frac := math.Modf(f)
	if frac == 0 {
		if whole < 24 {
			return time.Duration(whole) * time.Hour, true
		}
		return 0, false
	}
	secs := math.Round(frac * 24 * 3600)
	if secs >= 24*3600 {
		secs = 0
	}
	return time.Duration(secs) * time.Second, true
}

func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// resolveTimestamp 组合日期和时间
// 只有日期和时间都能解析时才返回时间戳
func resolveTimestamp(dateRaw, timeRaw string) (*time.Time, string, string) {
	date, dateHasClock, ok := parseDate(dateRaw)
	if !ok {
		return nil, strings.TrimSpace(dateRaw), strings.TrimSpace(timeRaw)
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dateText := day.Format("2006-01-02")

	if clock, ok := parseClock(timeRaw); ok {
		ts := day.Add(clock)
		return &ts, dateText, ts.Format("15:04")
	}
	if dateHasClock {
		ts := date.UTC()
		return &ts, dateText, ts.Format("15:04")
	}
	return nil, dateText, strings.TrimSpace(timeRaw)
}

func roundToSecond(t time.Time) time.Time {
	return t.Round(time.Second)
}
