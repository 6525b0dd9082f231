package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

const dateLayout = "2006-01-02"

var (
	// ErrUnknownColumn 筛选了不存在的列
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidRange 日期/小时范围不合法
	ErrInvalidRange = errors.New("invalid range")
)

// Filter 用户选择的筛选条件
//   - Values: 每列的可选值集合，同列内 OR，不同列之间 AND；空集合表示不限制
//   - DateFrom/DateTo: 闭区间（YYYY-MM-DD）
//   - HourFrom/HourTo: 闭区间；HourFrom > HourTo 时跨越午夜（如 22 到 5）
//
// 日期或小时条件生效时，没有时间戳的记录会被排除
type Filter struct {
	Values   map[string][]string `json:"values,omitempty"`
	DateFrom string              `json:"date_from,omitempty"`
	DateTo   string              `json:"date_to,omitempty"`
	HourFrom *int                `json:"hour_from,omitempty"`
	HourTo   *int                `json:"hour_to,omitempty"`
}

// IsEmpty 没有任何条件
func (f Filter) IsEmpty() bool {
	for _, v := range f.Values {
		if len(v) > 0 {
			return false
		}
	}
	return f.DateFrom == "" && f.DateTo == "" && f.HourFrom == nil && f.HourTo == nil
}

// Matcher 编译后的筛选条件
type Matcher struct {
	values   map[string]map[string]bool
	columns  []string
	from     *time.Time
	to       *time.Time
	hourFrom int
	hourTo   int
	hasHour  bool
}

// Compile 校验并编译筛选条件
func (f Filter) Compile() (*Matcher, error) {
	m := &Matcher{values: make(map[string]map[string]bool)}

	for col, vals := range f.Values {
		if !models.IsColumn(col) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		if len(vals) == 0 {
			continue
		}
		set := make(map[string]bool, len(vals))
		for _, v := range vals {
			set[v] = true
		}
		m.values[col] = set
		m.columns = append(m.columns, col)
	}
	sort.Strings(m.columns)

	var err error
	if m.from, err = parseDay(f.DateFrom); err != nil {
		return nil, err
	}
	if m.to, err = parseDay(f.DateTo); err != nil {
		return nil, err
	}
	if m.from != nil && m.to != nil && m.to.Before(*m.from) {
		return nil, fmt.Errorf("%w: date_to %s is before date_from %s", ErrInvalidRange, f.DateTo, f.DateFrom)
	}

	if f.HourFrom != nil || f.HourTo != nil {
		m.hasHour = true
		m.hourFrom, m.hourTo = 0, 23
		if f.HourFrom != nil {
			m.hourFrom = *f.HourFrom
		}
		if f.HourTo != nil {
			m.hourTo = *f.HourTo
		}
		if m.hourFrom < 0 || m.hourFrom > 23 || m.hourTo < 0 || m.hourTo > 23 {
			return nil, fmt.Errorf("%w: hours must be within 0-23", ErrInvalidRange)
		}
	}

	return m, nil
}

func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidRange, s)
	}
	return &t, nil
}

// Match 判断记录是否满足条件
func (m *Matcher) Match(rec *models.Encounter) bool {
	for _, col := range m.columns {
		v, _ := rec.Value(col)
		if !m.values[col][v] {
			return false
		}
	}

	if m.from != nil || m.to != nil {
		if rec.Timestamp == nil {
			return false
		}
		ts := rec.Timestamp.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		if m.from != nil && day.Before(*m.from) {
			return false
		}
		if m.to != nil && day.After(*m.to) {
			return false
		}
	}

	if m.hasHour {
		if rec.Timestamp == nil {
			return false
		}
		h := rec.Timestamp.Hour()
		if m.hourFrom <= m.hourTo {
			if h < m.hourFrom || h > m.hourTo {
				return false
			}
		} else if h < m.hourFrom && h > m.hourTo {
			return false
		}
	}

	return true
}

// Apply 返回满足条件的记录副本，不修改输入
func Apply(records []models.Encounter, f Filter) ([]models.Encounter, error) {
	m, err := f.Compile()
	if err != nil {
		return nil, err
	}
	out := make([]models.Encounter, 0, len(records))
	for i := range records {
		if m.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out, nil
}

// Options 每个分类列的去重取值（排序后），用于前端多选框
// 空字符串不计入
func Options(records []models.Encounter) map[string][]string {
	columns := []string{
		models.ColSpecialty,
		models.ColProfessional,
		models.ColDischargeReason,
		models.ColProcedure,
		models.ColDiagnosisCode,
		models.ColPriority,
	}
	out := make(map[string][]string, len(columns))
	for _, col := range columns {
		seen := make(map[string]bool)
		vals := []string{}
		for i := range records {
			v, _ := records[i].Value(col)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			vals = append(vals, v)
		}
		sort.Strings(vals)
		out[col] = vals
	}
	return out
}

// Describe 以可读文本列出生效的条件（报告中使用），列名按字母序
func (f Filter) Describe() []string {
	var out []string
	cols := make([]string, 0, len(f.Values))
	for col, vals := range f.Values {
		if len(vals) > 0 {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	for _, col := range cols {
		out = append(out, fmt.Sprintf("%s: %s", col, strings.Join(f.Values[col], ", ")))
	}
	if f.DateFrom != "" || f.DateTo != "" {
		out = append(out, fmt.Sprintf("date: %s .. %s", orAny(f.DateFrom), orAny(f.DateTo)))
	}
	if f.HourFrom != nil || f.HourTo != nil {
		from, to := 0, 23
		if f.HourFrom != nil {
			from = *f.HourFrom
		}
		if f.HourTo != nil {
			to = *f.HourTo
		}
		out = append(out, fmt.Sprintf("hour: %02dh .. %02dh", from, to))
	}
	return out
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
