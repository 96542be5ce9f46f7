package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
	"github.com/heartmarshall/jpkr-backend/internal/service/feed"
)

const maxFeedBodyBytes = 16 << 10

// feedService defines the minimal interface needed by FeedHandler.
type feedService interface {
	GetFeed(ctx context.Context, input feed.FeedInput) ([]domain.FeedItem, error)
}

// FeedHandler serves the example feed.
type FeedHandler struct {
	svc feedService
	log *slog.Logger
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(svc feedService, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{svc: svc, log: logger.With("handler", "feed")}
}

type feedRequest struct {
	Tags            []string           `json:"tags"`
	Levels          []domain.JLPTLevel `json:"levels"`
	WordsK          *int               `json:"words_k"`
	ExamplesPerWord *int               `json:"examples_per_word"`
	TotalExamples   *int               `json:"total_examples"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields []fieldErrorEntry `json:"fields"`
}

type fieldErrorEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Feed handles POST /examples/feed. An empty body asks for the defaults.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFeedBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.svc.GetFeed(r.Context(), feed.FeedInput{
		Tags:            req.Tags,
		Levels:          req.Levels,
		WordsK:          req.WordsK,
		ExamplesPerWord: req.ExamplesPerWord,
		TotalExamples:   req.TotalExamples,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.FeedItem{}
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *FeedHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		resp := validationResponse{Error: "validation failed"}
		for _, fe := range valErr.Errors {
			resp.Fields = append(resp.Fields, fieldErrorEntry{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		h.log.DebugContext(r.Context(), "feed request canceled")
	default:
		h.log.ErrorContext(r.Context(), "feed request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
