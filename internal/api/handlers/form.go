package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"rubconv/internal/converter"
	"rubconv/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// FormTemplate is the name of the conversion page template
const FormTemplate = "index.html"

// formPage is the data rendered into the conversion page
type formPage struct {
	Options      []models.CurrencyOption
	Selected     string
	Quantity     string
	Flashes      []string
	Errors       map[string]string
	CatalogEmpty bool
}

// FormHandler serves the HTML conversion form
type FormHandler struct {
	catalog   CurrencyCatalog
	converter Converter
	logger    *zap.Logger
}

// NewFormHandler creates a new FormHandler
func NewFormHandler(catalog CurrencyCatalog, conv Converter, logger *zap.Logger) *FormHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormHandler{catalog: catalog, converter: conv, logger: logger}
}

// Show renders the empty form
func (h *FormHandler) Show(c *gin.Context) {
	page := h.newPage(c)
	h.render(c, http.StatusOK, page)
}

// Submit validates the form, converts and renders the outcome as flash messages
func (h *FormHandler) Submit(c *gin.Context) {
	page := h.newPage(c)
	page.Selected = c.PostForm("currency")
	page.Quantity = c.PostForm("quantity")

	var req models.ConversionRequest
	if err := c.ShouldBind(&req); err != nil {
		page.Errors = fieldErrors(err)
		h.render(c, http.StatusBadRequest, page)
		return
	}
	if !h.catalog.Contains(req.Currency) {
		page.Errors["currency"] = "Not a valid choice"
		h.render(c, http.StatusBadRequest, page)
		return
	}

	session := sessions.Default(c)
	result, err := h.converter.Convert(c.Request.Context(), req)
	if err != nil {
		failure := converter.Describe(err, req.Currency)
		h.logger.Warn("Conversion failed",
			zap.String("currency", req.Currency),
			zap.Int("error_code", failure.ErrorCode),
			zap.Error(err),
		)
		for _, msg := range failure.Flashes() {
			session.AddFlash(msg)
		}
	} else {
		session.AddFlash(result.Summary())
	}

	h.render(c, http.StatusOK, page)
}

func (h *FormHandler) newPage(c *gin.Context) formPage {
	if err := h.catalog.EnsureLoaded(c.Request.Context()); err != nil {
		h.logger.Warn("Currency list unavailable", zap.Error(err))
	}
	options := h.catalog.Options()
	return formPage{
		Options:      options,
		Errors:       make(map[string]string),
		CatalogEmpty: len(options) == 0,
	}
}

// render drains the queued flashes into the page so each shows once
func (h *FormHandler) render(c *gin.Context, status int, page formPage) {
	session := sessions.Default(c)
	for _, f := range session.Flashes() {
		page.Flashes = append(page.Flashes, fmt.Sprint(f))
	}
	if err := session.Save(); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
	}
	c.HTML(status, FormTemplate, page)
}

// fieldErrors maps a binding error to per-field messages
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// form mapping failed before validation, only quantity can fail to parse
		out["quantity"] = "Not a valid number"
		return out
	}

	for _, fe := range verrs {
		switch fe.Field() {
		case "Currency":
			if fe.Tag() == "required" {
				out["currency"] = "This field is required"
			} else {
				out["currency"] = "Not a valid choice"
			}
		case "Quantity":
			if fe.Tag() == "required" {
				out["quantity"] = "This field is required"
			} else {
				out["quantity"] = "Must be greater than zero"
			}
		}
	}
	return out
}
