package models

import "time"

// Shift 时段（由就诊小时推导）
type Shift string

const (
	ShiftMorning   Shift = "Morning"   // [6,12)
	ShiftAfternoon Shift = "Afternoon" // [12,18)
	ShiftNight     Shift = "Night"     // [18,24)
	ShiftDawn      Shift = "Dawn"      // [0,6)
	ShiftUndefined Shift = "Undefined"
)

// Shifts 固定展示顺序
var Shifts = []Shift{ShiftMorning, ShiftAfternoon, ShiftNight, ShiftDawn, ShiftUndefined}

// Outcome 离院结局分类
type Outcome string

const (
	OutcomeResolvedOnSite    Outcome = "ResolvedOnSite"
	OutcomeNotResolvedOnSite Outcome = "NotResolvedOnSite"
	OutcomeUndefined         Outcome = "Undefined"
)

// Outcomes 固定展示顺序
var Outcomes = []Outcome{OutcomeResolvedOnSite, OutcomeNotResolvedOnSite, OutcomeUndefined}

// Canonical column names of an encounter row, in positional order.
const (
	ColPatientID       = "patient_id"
	ColPatientName     = "patient_name"
	ColTimestampDate   = "timestamp_date"
	ColTimestampTime   = "timestamp_time"
	ColSpecialty       = "specialty"
	ColProfessional    = "professional"
	ColDischargeReason = "discharge_reason"
	ColProcedure       = "procedure"
	ColDiagnosisCode   = "diagnosis_code"
	ColPriority        = "priority"
)

// Columns 标准列顺序（也是 positional 模式下的列顺序）
var Columns = []string{
	ColPatientID,
	ColPatientName,
	ColTimestampDate,
	ColTimestampTime,
	ColSpecialty,
	ColProfessional,
	ColDischargeReason,
	ColProcedure,
	ColDiagnosisCode,
	ColPriority,
}

// Encounter 一次就诊记录（上传表格中的一行）
type Encounter struct {
	PatientID       string     `json:"patient_id"`
	PatientName     string     `json:"patient_name,omitempty"`
	TimestampDate   string     `json:"timestamp_date,omitempty"`
	TimestampTime   string     `json:"timestamp_time,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"` // date 与 time 都能解析时才有值
	Specialty       string     `json:"specialty,omitempty"`
	Professional    string     `json:"professional,omitempty"`
	DischargeReason string     `json:"discharge_reason,omitempty"`
	Procedure       string     `json:"procedure,omitempty"`
	DiagnosisCode   string     `json:"diagnosis_code,omitempty"`
	Priority        string     `json:"priority,omitempty"`

	SourceFile string `json:"source_file,omitempty"`
	SourceRow  int    `json:"source_row,omitempty"`

	// 派生字段（每次加载/筛选后计算）
	Shift             Shift   `json:"shift,omitempty"`
	Outcome           Outcome `json:"outcome,omitempty"`
	ReturnedWithin72h *bool   `json:"returned_within_72h,omitempty"`
}

// Hour 返回就诊小时；时间戳缺失时为 nil
func (e *Encounter) Hour() *int {
	if e.Timestamp == nil {
		return nil
	}
	h := e.Timestamp.Hour()
	return &h
}

// Value 按标准列名取值（用于筛选和分组统计）
func (e *Encounter) Value(column string) (string, bool) {
	switch column {
	case ColPatientID:
		return e.PatientID, true
	case ColPatientName:
		return e.PatientName, true
	case ColTimestampDate:
		return e.TimestampDate, true
	case ColTimestampTime:
		return e.TimestampTime, true
	case ColSpecialty:
		return e.Specialty, true
	case ColProfessional:
		return e.Professional, true
	case ColDischargeReason:
		return e.DischargeReason, true
	case ColProcedure:
		return e.Procedure, true
	case ColDiagnosisCode:
		return e.DiagnosisCode, true
	case ColPriority:
		return e.Priority, true
	}
	return "", false
}

// IsColumn 判断是否为标准列名
func IsColumn(column string) bool {
	for _, c := range Columns {
		if c == column {
			return true
		}
	}
	return false
}
