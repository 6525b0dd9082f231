package classifier

import (
	"time"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

// ShiftOf 根据就诊小时推导时段，区间均为左闭右开
// nil 或超出 [0,24) 的小时返回 Undefined
func ShiftOf(hour *int) models.Shift {
	if hour == nil {
		return models.ShiftUndefined
	}
	h := *hour
	switch {
	case h >= 6 && h < 12:
		return models.ShiftMorning
	case h >= 12 && h < 18:
		return models.ShiftAfternoon
	case h >= 18 && h < 24:
		return models.ShiftNight
	case h >= 0 && h < 6:
		return models.ShiftDawn
	default:
		return models.ShiftUndefined
	}
}

// ShiftOfTime 根据时间戳推导时段
func ShiftOfTime(ts *time.Time) models.Shift {
	if ts == nil {
		return models.ShiftUndefined
	}
	h := ts.Hour()
	return ShiftOf(&h)
}
