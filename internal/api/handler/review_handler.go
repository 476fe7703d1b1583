package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bazarly/vendor-portal/internal/core/ports"
)

// ReviewHandler exposes the review step: the flattened payload preview and
// the one-shot submit.
type ReviewHandler struct {
	submissions ports.SubmissionService
}

func NewReviewHandler(submissions ports.SubmissionService) *ReviewHandler {
	return &ReviewHandler{submissions: submissions}
}

// Preview returns the backend-shaped payload the submit would send, plus
// per-section completion.
//
// @Summary      Review the registration before submitting
// @Tags         review
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  ports.ReviewView
// @Router       /v1/review [get]
func (h *ReviewHandler) Preview(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	view, err := h.submissions.Preview(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Submit forwards the registration to the backend. Portal-side gating
// (incomplete sections, duplicate submit) maps to 4xx; a backend rejection
// or network failure returns 200 with Success=false so the client can render
// the message inline and keep the form editable.
//
// @Summary      Submit the vendor registration
// @Tags         review
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  ports.SubmitResult
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/review/submit [post]
func (h *ReviewHandler) Submit(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	result, err := h.submissions.Submit(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
