package normalizer

import (
	"github.com/smspocoredondo/DashUPA/internal/models"
	"github.com/smspocoredondo/DashUPA/internal/textutil"
)

// columnAliases 各版本导出表头 -> 标准列名
// 比较前会经过 textutil.Fold（去重音、大写、合并空白）
var columnAliases = map[string][]string{
	models.ColPatientID: {
		"patient_id", "patient id", "id", "id paciente", "paciente id",
		"prontuário", "nº prontuário", "cns", "cartão sus", "código", "cod paciente",
	},
	models.ColPatientName: {
		"patient_name", "patient name", "usuário", "paciente", "nome", "nome do paciente",
	},
	models.ColTimestampDate: {
		"timestamp_date", "date", "data", "data atendimento", "data do atendimento",
		"data/hora", "data entrada", "dt atendimento",
	},
	models.ColTimestampTime: {
		"timestamp_time", "time", "hora", "horário", "hora atendimento", "hora entrada",
	},
	models.ColSpecialty: {
		"specialty", "especialidade",
	},
	models.ColProfessional: {
		"professional", "profissional", "profissional responsável",
	},
	models.ColDischargeReason: {
		"discharge_reason", "discharge reason", "motivo alta", "motivo da alta", "motivo de alta", "desfecho",
	},
	models.ColProcedure: {
		"procedure", "procedimento", "procedimentos",
	},
	models.ColDiagnosisCode: {
		"diagnosis_code", "diagnosis code", "cid10", "cid 10", "cid-10", "cid",
	},
	models.ColPriority: {
		"priority", "prioridade", "classificação de risco", "classificação", "risco",
	},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	idx := make(map[string]string)
	for col, aliases := range columnAliases {
		for _, a := range aliases {
			idx[textutil.Fold(a)] = col
		}
	}
	return idx
}

// lookupColumn 表头文本 -> 标准列名
func lookupColumn(header string) (string, bool) {
	col, ok := aliasIndex[textutil.Fold(header)]
	return col, ok
}

// countKnownColumns 统计一行中可识别为表头的单元格数量（去重）
func countKnownColumns(row []string) int {
	seen := make(map[string]bool)
	for _, cell := range row {
		if col, ok := lookupColumn(cell); ok {
			seen[col] = true
		}
	}
	return len(seen)
}
