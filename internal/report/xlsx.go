package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

// Sheet names of the generated workbook.
const (
	SheetReport     = "Relatório"
	SheetIndicators = "Indicadores"
	SheetTop        = "Top 10"
)

// GenerateXLSX 生成报告 Excel 文件
func GenerateXLSX(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX 把报告写成三个工作表：正文、指标、Top 10
func WriteXLSX(r *Report, w io.Writer) error {
	f := excelize.NewFile()

	if err := buildWorkbook(f, r); err != nil {
		f.Close()
		return err
	}

	// File must remain open during Write operation
	if _, err := f.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

type styles struct {
	title   int
	header  int
	section int
	text    int
	percent int
	score   int
}

type styleDef struct {
	dst   *int
	style *excelize.Style
}

func newStyles(f *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	percentFmt := "0.0%"
	scoreFmt := "0.000"

	s := &styles{}
	defs := []styleDef{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.section, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}},
		{&s.text, &excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}}},
		{&s.percent, &excelize.Style{CustomNumFmt: &percentFmt, Border: border}},
		{&s.score, &excelize.Style{CustomNumFmt: &scoreFmt, Border: border}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

func buildWorkbook(f *excelize.File, r *Report) error {
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	index, err := f.NewSheet(SheetReport)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	// 删除默认的 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := writeReportSheet(f, st, r); err != nil {
		return err
	}
	if err := writeIndicatorsSheet(f, st, r.Indicators); err != nil {
		return err
	}
	return writeTopSheet(f, st, r.Breakdown)
}

func writeReportSheet(f *excelize.File, st *styles, r *Report) error {
	sheet := SheetReport
	if err := f.SetColWidth(sheet, "A", "A", 110); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	row := 1
	if err := setStyledCell(f, sheet, 1, row, r.Title, st.title); err != nil {
		return err
	}
	row += 2
	for _, s := range r.Sections {
		if err := setStyledCell(f, sheet, 1, row, s.Title, st.section); err != nil {
			return err
		}
		row++
		for _, p := range s.Paragraphs {
			if err := setStyledCell(f, sheet, 1, row, p, st.text); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func writeIndicatorsSheet(f *excelize.File, st *styles, indicators []Indicator) error {
	sheet := SheetIndicators
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeHeader(f, sheet, st, []string{"Indicador", "Valor"}, []float64{40, 25}); err != nil {
		return err
	}

	for i, ind := range indicators {
		row := i + 2 // 从第2行开始（第1行是表头）
		if err := setCellValue(f, sheet, 1, row, ind.Name); err != nil {
			return err
		}
		style := 0
		switch ind.Format {
		case FormatPercent:
			style = st.percent
		case FormatScore:
			style = st.score
		}
		if err := setStyledCell(f, sheet, 2, row, ind.Value, style); err != nil {
			return err
		}
	}
	return freezeHeader(f, sheet)
}

func writeTopSheet(f *excelize.File, st *styles, b models.Breakdown) error {
	sheet := SheetTop
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeHeader(f, sheet, st, []string{"Categoria", "Valor", "Quantidade"}, []float64{28, 45, 14}); err != nil {
		return err
	}

	groups := []struct {
		name  string
		items []models.CategoryCount
	}{
		{"Especialidade", b.TopSpecialties},
		{"Motivo da alta", b.TopDischargeReasons},
		{"Prioridade", b.TopPriorities},
		{"CID (grupo)", b.TopDiagnosisCodes},
		{"Categoria profissional", b.ProfessionalGroups},
		{"Outros profissionais", b.OtherProfessionals},
		{"Turno", b.ShiftDistribution},
		{"Desfecho", b.OutcomeDistribution},
	}

	row := 2
	for _, g := range groups {
		for _, item := range g.items {
			for col, v := range []any{g.name, item.Value, item.Count} {
				if err := setCellValue(f, sheet, col+1, row, v); err != nil {
					return err
				}
			}
			row++
		}
	}
	return freezeHeader(f, sheet)
}

func writeHeader(f *excelize.File, sheet string, st *styles, headers []string, widths []float64) error {
	for i, h := range headers {
		if err := setStyledCell(f, sheet, i+1, 1, h, st.header); err != nil {
			return err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if i < len(widths) && widths[i] > 0 {
			if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}
	return nil
}

// 冻结表头
func freezeHeader(f *excelize.File, sheet string) error {
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

// setCellValue 设置单元格值
func setCellValue(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func setStyledCell(f *excelize.File, sheet string, col, row int, value any, style int) error {
	if err := setCellValue(f, sheet, col, row, value); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("failed to set style for %s!%s: %w", sheet, cell, err)
	}
	return nil
}
