package httpapi

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/smspocoredondo/DashUPA/internal/normalizer"
	"github.com/smspocoredondo/DashUPA/internal/service"
)

const datasetsPrefix = "/api/v1/datasets/"

// DatasetHandler 数据集相关 Handler
type DatasetHandler struct {
	svc            service.AnalysisService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewDatasetHandler 创建 Handler；maxUploadMB <= 0 时为 32MB
func NewDatasetHandler(svc service.AnalysisService, maxUploadMB int64, logger *zap.Logger) *DatasetHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}
	return &DatasetHandler{
		svc:            svc,
		maxUploadBytes: maxUploadMB << 20,
		logger:         logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *DatasetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 路由分发
	switch {
	case r.URL.Path == "/api/v1/datasets" && r.Method == http.MethodPost:
		h.Upload(w, r)
	case r.URL.Path == "/api/v1/profiles" && r.Method == http.MethodGet:
		h.Profiles(w, r)
	case strings.HasPrefix(r.URL.Path, datasetsPrefix):
		id, action, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, datasetsPrefix), "/")
		if id == "" || strings.Contains(action, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case action == "" && r.Method == http.MethodGet:
			h.GetDataset(w, r, id)
		case action == "analysis" && r.Method == http.MethodPost:
			h.Analyze(w, r, id)
		case action == "report" && r.Method == http.MethodPost:
			h.Report(w, r, id)
		case action == "runs" && r.Method == http.MethodGet:
			h.ListRuns(w, r, id)
		case action == "" || action == "analysis" || action == "report" || action == "runs":
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Upload 上传一个或多个 xlsx（multipart 字段 files，可选 schema）
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("failed to parse form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("files not found in request"))
		return
	}

	inputs := make([]normalizer.Input, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail(fmt.Sprintf("failed to read file %s", fh.Filename)))
			return
		}
		opened = append(opened, f)
		inputs = append(inputs, normalizer.Input{Name: fh.Filename, Reader: f})
	}

	resp, err := h.svc.Upload(ctx, service.UploadRequest{
		Schema: r.FormValue("schema"),
		Files:  inputs,
	})
	if err != nil {
		h.fail(w, "Upload failed", err)
		return
	}

	for _, f := range resp.Files {
		if f.Err != nil || f.HasWarning() {
			writeJSON(w, http.StatusOK, Warn("some files could not be fully read", resp))
			return
		}
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// GetDataset 数据集摘要及筛选项
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request, id string) {
	summary, err := h.svc.GetDataset(r.Context(), id)
	if err != nil {
		h.fail(w, "GetDataset failed", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}

// Analyze 指标 + 分组统计
func (h *DatasetHandler) Analyze(w http.ResponseWriter, r *http.Request, id string) {
	var req service.AnalyzeRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	req.DatasetID = id

	resp, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		h.fail(w, "Analyze failed", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Report 下载 xlsx 报告
func (h *DatasetHandler) Report(w http.ResponseWriter, r *http.Request, id string) {
	var req service.AnalyzeRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	req.DatasetID = id

	resp, err := h.svc.Report(r.Context(), req)
	if err != nil {
		h.fail(w, "Report failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", resp.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(resp.Content)
}

// ListRuns 分析历史
func (h *DatasetHandler) ListRuns(w http.ResponseWriter, r *http.Request, id string) {
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	runs, err := h.svc.ListRuns(r.Context(), id, limit)
	if err != nil {
		h.fail(w, "ListRuns failed", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": runs,
		"total": len(runs),
	}))
}

// Profiles 可用的评分/关键字配置
func (h *DatasetHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Profiles()))
}

func (h *DatasetHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	} else {
		h.logger.Debug(msg, zap.Error(err))
	}
	writeJSON(w, status, Fail(err.Error()))
}
