package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
)

// maxDocumentSize caps a single document upload.
const maxDocumentSize = 10 << 20 // 10 MiB

// WizardHandler exposes the registration wizard operations.
type WizardHandler struct {
	wizard ports.WizardService
}

func NewWizardHandler(wizard ports.WizardService) *WizardHandler {
	return &WizardHandler{wizard: wizard}
}

// View returns the full wizard state.
//
// @Summary      Wizard state
// @Tags         wizard
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  ports.WizardView
// @Router       /v1/wizard [get]
func (h *WizardHandler) View(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	view, err := h.wizard.View(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateSection merges a partial field map into one section.
//
// @Summary      Update a wizard section
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        step  path      string          true  "Step key (e.g. business)"
// @Param        body  body      map[string]any  true  "Partial section fields"
// @Success      200   {object}  ports.WizardView
// @Failure      404   {object}  map[string]string
// @Router       /v1/wizard/sections/{step} [put]
func (h *WizardHandler) UpdateSection(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	fields := domain.SectionData{}
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.wizard.UpdateSection(c.Request().Context(), sessionID, domain.StepKey(c.Param("step")), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *WizardHandler) Next(c echo.Context) error {
	return h.navigate(c, func(ctx echo.Context, sessionID string) (*ports.WizardView, error) {
		return h.wizard.Next(ctx.Request().Context(), sessionID)
	})
}

func (h *WizardHandler) Prev(c echo.Context) error {
	return h.navigate(c, func(ctx echo.Context, sessionID string) (*ports.WizardView, error) {
		return h.wizard.Prev(ctx.Request().Context(), sessionID)
	})
}

// Goto jumps to an already-reached step; forward jumps are rejected.
func (h *WizardHandler) Goto(c echo.Context) error {
	return h.navigate(c, func(ctx echo.Context, sessionID string) (*ports.WizardView, error) {
		return h.wizard.Goto(ctx.Request().Context(), sessionID, domain.StepKey(ctx.Param("step")))
	})
}

func (h *WizardHandler) navigate(c echo.Context, op func(echo.Context, string) (*ports.WizardView, error)) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	view, err := op(c, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *WizardHandler) AppendPickupAddress(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	view, err := h.wizard.AppendPickupAddress(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *WizardHandler) UpdatePickupAddress(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pickup address index")
	}

	var req ports.PickupAddressInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.wizard.UpdatePickupAddress(c.Request().Context(), sessionID, index, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// RemovePickupAddress deletes one pickup address. Removing the last
// remaining address is rejected with 409.
func (h *WizardHandler) RemovePickupAddress(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pickup address index")
	}

	view, err := h.wizard.RemovePickupAddress(c.Request().Context(), sessionID, index)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// AttachDocument uploads a file into one of the six document slots.
//
// @Summary      Upload a registration document
// @Tags         wizard
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionAuth
// @Param        slot  path      string  true  "Document slot (e.g. commercialRegistration)"
// @Param        file  formData  file    true  "PDF, JPEG, or PNG"
// @Success      200   {object}  ports.WizardView
// @Failure      404   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/wizard/documents/{slot} [put]
func (h *WizardHandler) AttachDocument(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	if fileHeader.Size > maxDocumentSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds the 10 MiB limit")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	view, err := h.wizard.AttachDocument(c.Request().Context(), sessionID, domain.DocumentSlot(c.Param("slot")), ports.DocumentUpload{
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Data:        data,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *WizardHandler) RemoveDocument(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	view, err := h.wizard.RemoveDocument(c.Request().Context(), sessionID, domain.DocumentSlot(c.Param("slot")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
