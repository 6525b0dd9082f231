package aggregator

import (
	"sort"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

// ReturnFlags 计算每条记录是否为窗口期内的返诊
// 按 (patient_id, timestamp) 排序，与同一患者的上一次就诊比较；
// 首次就诊、缺少时间戳或患者ID的记录为 nil。不修改输入。
func ReturnFlags(records []models.Encounter, windowHours float64) []*bool {
	flags := make([]*bool, len(records))

	idx := make([]int, 0, len(records))
	for i := range records {
		if records[i].Timestamp == nil || records[i].PatientID == "" {
			continue
		}
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := &records[idx[a]], &records[idx[b]]
		if ra.PatientID != rb.PatientID {
			return ra.PatientID < rb.PatientID
		}
		return ra.Timestamp.Before(*rb.Timestamp)
	})

	var prev *models.Encounter
	for _, i := range idx {
		rec := &records[i]
		if prev != nil && prev.PatientID == rec.PatientID {
			elapsed := rec.Timestamp.Sub(*prev.Timestamp).Hours()
			returned := elapsed <= windowHours
			flags[i] = &returned
		}
		prev = rec
	}
	return flags
}

// MarkReturns 把返诊标记写回记录（调用方传入自己的副本）
func MarkReturns(records []models.Encounter, windowHours float64) {
	flags := ReturnFlags(records, windowHours)
	for i := range records {
		records[i].ReturnedWithin72h = flags[i]
	}
}
