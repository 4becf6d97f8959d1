package delivery

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/Vovarama1992/tanky/internal/ai"
	"github.com/Vovarama1992/tanky/internal/ports"
)

const StatusText = "Tanky API is running 🐠"

type ChatReply struct {
	Reply string `json:"reply"`
}

type ChatHandler struct {
	ai      ai.Service
	records ports.RecordService
	maxBody int64
	log     *logger.ZapLogger
}

func NewChatHandler(aiSvc ai.Service, records ports.RecordService, maxBody int64, log *logger.ZapLogger) *ChatHandler {
	return &ChatHandler{
		ai:      aiSvc,
		records: records,
		maxBody: maxBody,
		log:     log,
	}
}

// Status: liveness для фронта
func (h *ChatHandler) Status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(StatusText))
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Log(logger.LogEntry{Level: "warn", Message: "chat body over limit", Error: err})
			writeError(w, http.StatusRequestEntityTooLarge,
				"request body too large (max "+humanize.IBytes(uint64(tooLarge.Limit))+")")
			return
		}
		h.log.Log(logger.LogEntry{Level: "warn", Message: "failed to read chat body", Error: err})
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	// пустое тело = пустой запрос, сработает приветствие по умолчанию
	var req ai.ChatRequest
	if body = bytes.TrimSpace(body); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid chat body", Error: err})
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	reply, err := h.ai.GetReply(r.Context(), req)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "tanky chat failed", Error: err})
		h.records.LogFailure(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.records.LogExchange(r.Context(), ports.LogRecord{
		Lang:     reply.Lang,
		User:     reply.UserText,
		HasImage: reply.HasImage,
		Reply:    reply.Text,
	})
	if reply.HasImage {
		h.records.ArchiveImage(r.Context(), reply.ImageURL)
	}

	writeJSON(w, http.StatusOK, ChatReply{Reply: reply.Text})
}
