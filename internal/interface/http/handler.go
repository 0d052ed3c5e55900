package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
)

// Handler wires the HTTP transport to the FAQ domain.
type Handler struct {
	faqSvc faq.Service
	ledger *faq.Ledger
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, ledger *faq.Ledger, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc: faqSvc,
		ledger: ledger,
		logger: logger.With("component", "http.handler"),
	}
}

// Ask resolves a user question into an answer with vote counts.
func (h *Handler) Ask(c *gin.Context) {
	var req faq.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.faqSvc.Resolve(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "ask_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "llm_error"):
			status = http.StatusBadGateway
			code = "llm_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, result)
}

type voteRequest struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Vote applies a like/dislike to a FAQ record.
func (h *Handler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	event := faq.VoteEvent{TargetID: req.ID, Kind: faq.VoteKind(req.Type)}
	if err := h.ledger.Vote(c.Request.Context(), event); err != nil {
		status := http.StatusBadGateway
		code := "vote_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type feedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

// Feedback produces an improved answer from user feedback.
func (h *Handler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	answer, err := h.faqSvc.Improve(c.Request.Context(), faq.ImproveRequest{
		Question: req.Question,
		Answer:   req.Answer,
		Feedback: req.Feedback,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "feedback_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "llm_error"):
			status = http.StatusBadGateway
			code = "llm_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// ListFaqs returns the full corpus for presentation.
func (h *Handler) ListFaqs(c *gin.Context) {
	records, err := h.faqSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "list_failed", errMessage(err), err))
		return
	}
	if records == nil {
		records = []faq.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"faqs": records})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
