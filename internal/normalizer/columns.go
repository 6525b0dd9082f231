package normalizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// trimmedWidth 去掉行尾空单元格后的列数
func trimmedWidth(row []string) int {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return n
}

// headerMapping 根据表头行建立 列下标 -> 标准列名
// 同一标准列出现多次时取第一次
func headerMapping(header []string) (map[int]string, []string) {
	mapping := make(map[int]string)
	used := make(map[string]bool)
	var unmapped []string
	for i, cell := range header {
		text := strings.TrimSpace(cell)
		if text == "" {
			continue
		}
		col, ok := lookupColumn(text)
		if !ok || used[col] {
			unmapped = append(unmapped, text)
			continue
		}
		used[col] = true
		mapping[i] = col
	}
	return mapping, unmapped
}

// positionalMapping 固定列顺序；超出 10 列的部分以列字母报告
func positionalMapping(width int) (map[int]string, []string) {
	mapping := make(map[int]string)
	var unmapped []string
	for i := 0; i < width; i++ {
		if i < len(models.Columns) {
			mapping[i] = models.Columns[i]
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			name = fmt.Sprintf("column %d", i+1)
		}
		unmapped = append(unmapped, name)
	}
	return mapping, unmapped
}

func missingColumns(mapping map[int]string) []string {
	present := make(map[string]bool, len(mapping))
	for _, col := range mapping {
		present[col] = true
	}
	var missing []string
	for _, col := range models.Columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func buildEncounter(row []string, mapping map[int]string) models.Encounter {
	values := make(map[string]string, len(mapping))
	for idx, col := range mapping {
		if idx < len(row) {
			values[col] = strings.TrimSpace(row[idx])
		}
	}

	rec := models.Encounter{
		PatientID:       values[models.ColPatientID],
		PatientName:     values[models.ColPatientName],
		Specialty:       values[models.ColSpecialty],
		Professional:    values[models.ColProfessional],
		DischargeReason: strings.ToUpper(values[models.ColDischargeReason]),
		Procedure:       values[models.ColProcedure],
		DiagnosisCode:   diagnosisGroup(values[models.ColDiagnosisCode]),
		Priority:        strings.ToUpper(values[models.ColPriority]),
	}
	rec.Timestamp, rec.TimestampDate, rec.TimestampTime = resolveTimestamp(
		values[models.ColTimestampDate],
		values[models.ColTimestampTime],
	)
	return rec
}

// diagnosisGroup CID-10 取前 3 位（分组粒度）
func diagnosisGroup(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if utf8.RuneCountInString(code) <= 3 {
		return code
	}
	return string([]rune(code)[:3])
}
