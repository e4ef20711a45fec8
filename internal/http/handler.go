package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/davidbz/howl/internal/config"
	"github.com/davidbz/howl/internal/domain"
	"github.com/davidbz/howl/internal/http/resp"
	"github.com/davidbz/howl/internal/observability"
	"github.com/davidbz/howl/internal/relay"
	"github.com/davidbz/howl/internal/upload"
)

// Handler handles HTTP requests. Each handler defines the shape of its own
// expected input; malformed input fails with the same envelope and logging
// contract everywhere.
type Handler struct {
	completer   domain.Completer
	padding     *relay.Padding
	idleTimeout time.Duration
	uploads     *upload.Store
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	completer domain.Completer,
	padding *relay.Padding,
	streamCfg *config.StreamConfig,
	uploads *upload.Store,
) *Handler {
	return &Handler{
		completer:   completer,
		padding:     padding,
		idleTimeout: time.Duration(streamCfg.IdleTimeout) * time.Second,
		uploads:     uploads,
	}
}

// HandleMessage processes non-streaming chat requests.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	req, ok := h.decodeCompletionRequest(w, r)
	if !ok {
		return
	}

	logger.Info("message received",
		observability.String("message", req.Message),
		observability.Int("context_turns", len(req.Context)),
	)

	answer, err := h.completer.Complete(ctx, req)
	if err != nil {
		logger.Error("completion failed",
			observability.Error(err),
			observability.String("message", req.Message),
		)
		resp.Error(w, resp.CodeServerError, err.Error())
		return
	}

	resp.Success(w, answer)
}

// HandleMessageStream processes streaming chat requests. The response body
// is raw text fragments, each followed by the padding token; on upstream
// failure before the first byte the client still gets a JSON envelope, after
// that only a truncated stream.
func (h *Handler) HandleMessageStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	req, ok := h.decodeCompletionRequest(w, r)
	if !ok {
		return
	}
	req.Stream = true

	logger.Info("stream message received",
		observability.String("message", req.Message),
		observability.Int("context_turns", len(req.Context)),
	)

	chunks, err := h.completer.Stream(ctx, req)
	if err != nil {
		logger.Error("stream start failed", observability.Error(err))
		resp.Error(w, resp.CodeServerError, err.Error())
		return
	}

	session, err := relay.NewSession(w, h.padding)
	if err != nil {
		logger.Error("stream session rejected", observability.Error(err))
		resp.Error(w, resp.CodeServerError, err.Error())
		return
	}

	if err := relay.Pump(ctx, session, chunks, h.idleTimeout); err != nil {
		if !session.Committed() {
			// Content type is not committed yet; a clean error shape is
			// still possible.
			logger.Error("stream failed before first byte", observability.Error(err))
			resp.Error(w, resp.CodeServerError, err.Error())
			return
		}

		// The response is already an event stream; the client observes an
		// early termination and must treat the answer as incomplete.
		logger.Error("stream aborted",
			observability.Error(err),
			observability.String("message", req.Message),
		)
		return
	}

	logger.Info("stream completed")
}

// HandleStreamSalt returns the padding token so clients can strip it from
// accumulated text without relying on a hardcoded constant.
func (h *Handler) HandleStreamSalt(w http.ResponseWriter, _ *http.Request) {
	resp.Success(w, h.padding.Token())
}

type translateRequest struct {
	Text        string   `json:"text"`
	Lang        string   `json:"lang"`
	TargetLangs []string `json:"targetLangs"`
}

// HandleTranslate translates text into each target language.
func (h *Handler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		logger.Warn("invalid translate params")
		resp.Error(w, resp.CodeForbidden, "invalid params")
		return
	}

	if req.Lang == "" {
		req.Lang = "zh"
	}
	if len(req.TargetLangs) == 0 {
		req.TargetLangs = []string{"en"}
	}

	logger.Info("translate received",
		observability.String("text", req.Text),
		observability.String("lang", req.Lang),
	)

	translations, err := h.completer.Translate(ctx, req.Text, req.Lang, req.TargetLangs)
	if err != nil {
		logger.Error("translate failed",
			observability.Error(err),
			observability.String("text", req.Text),
		)
		resp.Error(w, resp.CodeServerError, err.Error())
		return
	}

	resp.Success(w, translations)
}

type drawImageRequest struct {
	Description string `json:"description"`
}

// HandleDrawImage generates an image and returns its URL.
func (h *Handler) HandleDrawImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	var req drawImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Description == "" {
		logger.Warn("invalid draw-image params")
		resp.Error(w, resp.CodeForbidden, "invalid params")
		return
	}

	logger.Info("draw-image received", observability.String("description", req.Description))

	url, err := h.completer.DrawImage(ctx, req.Description)
	if err != nil {
		logger.Error("draw-image failed", observability.Error(err))
		resp.Error(w, resp.CodeServerError, err.Error())
		return
	}

	// An empty URL means the upstream explicitly returned no image; that is
	// failure-equivalent for the caller.
	if url == "" {
		logger.Error("draw-image returned no image")
		resp.Error(w, resp.CodeServerError, "upstream returned no image")
		return
	}

	resp.Success(w, url)
}

type wechatRequest struct {
	Question string `json:"question"`
}

type wechatResponse struct {
	AnswerType string `json:"answer_type"`
	TextInfo   struct {
		ShortAnswer string `json:"short_answer"`
	} `json:"text_info"`
}

// HandleWechatMessage adapts the non-streaming completion path to the fixed
// response shape the third-party platform expects. Failures are reported
// inside that shape, not through the envelope.
func (h *Handler) HandleWechatMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	var req wechatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeWechat(w, "400")
		return
	}

	logger.Info("wechat question received", observability.String("question", req.Question))

	answer, err := h.completer.Complete(ctx, &domain.CompletionRequest{Message: req.Question})
	if err != nil {
		logger.Error("wechat completion failed",
			observability.Error(err),
			observability.String("question", req.Question),
		)
		writeWechat(w, "500")
		return
	}

	writeWechat(w, answer)
}

func writeWechat(w http.ResponseWriter, answer string) {
	var body wechatResponse
	body.AnswerType = "text"
	body.TextInfo.ShortAnswer = answer

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// HandleUpload saves a multipart file and returns the path it is served at.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Warn("invalid upload", observability.Error(err))
		resp.Error(w, resp.CodeClientError, "invalid params")
		return
	}
	defer file.Close()

	name, err := h.uploads.Save(file, header)
	if err != nil {
		logger.Error("upload failed", observability.Error(err))
		resp.Error(w, resp.CodeServerError, err.Error())
		return
	}

	logger.Info("file uploaded", observability.String("name", name))
	resp.Success(w, "/files/"+name)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// decodeCompletionRequest parses and validates the shared chat payload.
// On failure it writes the error envelope and returns ok=false.
func (h *Handler) decodeCompletionRequest(w http.ResponseWriter, r *http.Request) (*domain.CompletionRequest, bool) {
	var req domain.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.FromContext(r.Context()).Warn("invalid request body", observability.Error(err))
		resp.Error(w, resp.CodeClientError, "invalid params")
		return nil, false
	}

	if err := req.Validate(); err != nil {
		observability.FromContext(r.Context()).Warn("invalid params", observability.Error(err))
		resp.Error(w, resp.CodeClientError, "invalid params")
		return nil, false
	}

	return &req, true
}
