package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bazarly/vendor-portal/internal/core/ports"
)

// ProductHandler proxies product CRUD to the marketplace backend. Backend
// outcomes come back as the uniform result shape for the client to render;
// only portal-side failures map to error statuses.
type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create posts a new product: multipart productData JSON field plus image
// files.
//
// @Summary      Create a product
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionAuth
// @Param        productData  formData  string  true   "Product fields as JSON"
// @Param        images       formData  file    false  "Product images"
// @Success      200          {object}  ports.ProductResult
// @Failure      400          {object}  map[string]string
// @Failure      409          {object}  map[string]string
// @Router       /v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	data, images, err := productForm(c)
	if err != nil {
		return err
	}

	result, err := h.products.Create(c.Request().Context(), sessionID, data, images)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// List returns a page of the vendor's products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     SessionAuth
// @Param        page   query     int  false  "1-based page"
// @Param        limit  query     int  false  "page size"
// @Success      200    {object}  ports.ProductListResult
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.products.List(c.Request().Context(), sessionID, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) Update(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	data, images, err := productForm(c)
	if err != nil {
		return err
	}

	result, err := h.products.Update(c.Request().Context(), sessionID, c.Param("id"), data, images)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	result, err := h.products.Delete(c.Request().Context(), sessionID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// PatchImmediate applies a JSON subset of mutable fields without the
// multipart round trip.
func (h *ProductHandler) PatchImmediate(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.products.PatchImmediate(c.Request().Context(), sessionID, c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// SubmitForReview queues the product for the marketplace review pipeline.
func (h *ProductHandler) SubmitForReview(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req ports.ReviewSubmission
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.products.SubmitForReview(c.Request().Context(), sessionID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Vendor returns the vendor record linked to the session's user.
func (h *ProductHandler) Vendor(c echo.Context) error {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	result, err := h.products.Vendor(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Brands returns the public brands list.
//
// @Summary      List brands
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  ports.BrandsResult
// @Router       /v1/catalog/brands [get]
func (h *ProductHandler) Brands(c echo.Context) error {
	return c.JSON(http.StatusOK, h.products.Brands(c.Request().Context()))
}

// productForm parses the multipart product request: the productData JSON
// field plus any image files.
func productForm(c echo.Context) (map[string]any, []ports.FileUpload, error) {
	raw := c.FormValue("productData")
	if raw == "" {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "missing productData field")
	}

	data := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "productData is not valid JSON")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	var images []ports.FileUpload
	for _, fh := range form.File["images"] {
		upload, err := readUpload(fh)
		if err != nil {
			return nil, nil, err
		}
		images = append(images, upload)
	}
	return data, images, nil
}

func readUpload(fh *multipart.FileHeader) (ports.FileUpload, error) {
	src, err := fh.Open()
	if err != nil {
		return ports.FileUpload{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return ports.FileUpload{}, err
	}
	return ports.FileUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
