package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/tanky/internal/ports"
)

type AdminHandler struct {
	records ports.RecordService
	log     *logger.ZapLogger
}

func NewAdminHandler(records ports.RecordService, log *logger.ZapLogger) *AdminHandler {
	return &AdminHandler{records: records, log: log}
}

// Logs отдаёт плоский лог целиком; отсутствующий файл = пустой ответ
func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	content, err := h.records.ReadLog(r.Context())
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to read chat log", Error: err})
		writeError(w, http.StatusInternalServerError, "failed to read logs")
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "serving chat log (" + humanize.Bytes(uint64(len(content))) + ")",
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

// Recent: последние записи истории, новые первыми
func (h *AdminHandler) Recent(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.Recent(r.Context())
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to read recent history", Error: err})
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if records == nil {
		records = []ports.LogRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}
