package normalizer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

// Schema 表格列布局
type Schema string

const (
	// SchemaHeader 表头在数据中（前面可能有横幅行），按表头名映射列
	SchemaHeader Schema = "header"
	// SchemaPositional 固定 10 列顺序（models.Columns）
	SchemaPositional Schema = "positional"
)

// headerScanLimit 查找表头时最多检查的非空行数
const headerScanLimit = 10

// minHeaderMatches 一行至少命中多少个别名才被视为表头
const minHeaderMatches = 2

var (
	// ErrUnsupportedFile 文件不是可读取的表格
	ErrUnsupportedFile = errors.New("unsupported file content")
	// ErrUnknownSchema 未知的列布局
	ErrUnknownSchema = errors.New("unknown schema")
)

// ParseSchema 解析列布局名称，空字符串返回 SchemaHeader
func ParseSchema(s string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemaHeader:
		return SchemaHeader, nil
	case SchemaPositional:
		return SchemaPositional, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSchema, s)
}

// Input 一个上传文件
type Input struct {
	Name   string
	Reader io.Reader
}

// FileResult 单个文件的规范化结果
type FileResult struct {
	Name            string             `json:"name"`
	Records         []models.Encounter `json:"-"`
	RecordCount     int                `json:"record_count"`
	EmptyRows       int                `json:"empty_rows"`
	MissingColumns  []string           `json:"missing_columns,omitempty"`
	UnmappedColumns []string           `json:"unmapped_columns,omitempty"`
	Err             error              `json:"-"`
	Error           string             `json:"error,omitempty"`
}

// HasWarning 是否有缺失/未识别的列
func (r *FileResult) HasWarning() bool {
	return len(r.MissingColumns) > 0 || len(r.UnmappedColumns) > 0
}

func (r *FileResult) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}

// Normalizer 记录规范化器：原始表格 -> 标准就诊记录
type Normalizer struct {
	schema Schema
	logger *zap.Logger
}

// NewNormalizer 创建规范化器
func NewNormalizer(schema Schema, logger *zap.Logger) *Normalizer {
	if schema == "" {
		schema = SchemaHeader
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{schema: schema, logger: logger}
}

// Schema 返回当前列布局
func (n *Normalizer) Schema() Schema {
	return n.schema
}

// LoadAll 逐个读取文件并拼接记录
// 单个文件失败不会中断其他文件；跨文件不去重
func (n *Normalizer) LoadAll(inputs []Input) ([]models.Encounter, []FileResult) {
	var all []models.Encounter
	results := make([]FileResult, 0, len(inputs))
	for _, in := range inputs {
		res := n.ReadFile(in.Name, in.Reader)
		if res.Err != nil {
			n.logger.Warn("Failed to read encounter file",
				zap.String("file", in.Name),
				zap.Error(res.Err),
			)
		} else if res.HasWarning() {
			n.logger.Warn("Encounter file has unmapped columns",
				zap.String("file", in.Name),
				zap.Strings("missing_columns", res.MissingColumns),
				zap.Strings("unmapped_columns", res.UnmappedColumns),
			)
		}
		all = append(all, res.Records...)
		results = append(results, res)
	}
	n.logger.Info("Loaded encounter files",
		zap.Int("files", len(inputs)),
		zap.Int("records", len(all)),
	)
	return all, results
}

// ReadFile 读取一个 xlsx 文件的第一个工作表
func (n *Normalizer) ReadFile(name string, r io.Reader) FileResult {
	res := FileResult{Name: name}

	f, err := excelize.OpenReader(r)
	if err != nil {
		res.fail(fmt.Errorf("%w: %v", ErrUnsupportedFile, err))
		return res
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		res.fail(fmt.Errorf("%w: workbook has no sheets", ErrUnsupportedFile))
		return res
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		res.fail(fmt.Errorf("failed to read rows: %w", err))
		return res
	}

	return n.NormalizeRows(name, rows)
}

// NormalizeRows 规范化已读取的行（不依赖文件格式）
func (n *Normalizer) NormalizeRows(name string, rows [][]string) FileResult {
	res := FileResult{Name: name}

	nonEmpty := make([]indexedRow, 0, len(rows))
	for i, row := range rows {
		if isEmptyRow(row) {
			res.EmptyRows++
			continue
		}
		nonEmpty = append(nonEmpty, indexedRow{line: i + 1, cells: row})
	}
	if len(nonEmpty) == 0 {
		res.MissingColumns = append([]string(nil), models.Columns...)
		return res
	}

	var mapping map[int]string
	var dataStart int
	switch n.schema {
	case SchemaPositional:
		mapping, res.UnmappedColumns = positionalMapping(maxWidth(nonEmpty))
		if countKnownColumns(nonEmpty[0].cells) >= minHeaderMatches {
			dataStart = 1
		}
	default:
		headerIdx := 0
		for i := 0; i < len(nonEmpty) && i < headerScanLimit; i++ {
			if countKnownColumns(nonEmpty[i].cells) >= minHeaderMatches {
				headerIdx = i
				break
			}
		}
		mapping, res.UnmappedColumns = headerMapping(nonEmpty[headerIdx].cells)
		dataStart = headerIdx + 1
	}
	res.MissingColumns = missingColumns(mapping)

	res.Records = make([]models.Encounter, 0, len(nonEmpty)-dataStart)
	for _, row := range nonEmpty[dataStart:] {
		rec := buildEncounter(row.cells, mapping)
		rec.SourceFile = name
		rec.SourceRow = row.line
		res.Records = append(res.Records, rec)
	}
	res.RecordCount = len(res.Records)
	return res
}

type indexedRow struct {
	line  int // 表格中的行号（从 1 开始）
	cells []string
}

func maxWidth(rows []indexedRow) int {
	w := 0
	for _, r := range rows {
		if n := trimmedWidth(r.cells); n > w {
			w = n
		}
	}
	return w
}
