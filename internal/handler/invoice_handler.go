package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skbarnwal/gst-invoice-service/internal/domain"
	"github.com/skbarnwal/gst-invoice-service/internal/model"
	"github.com/skbarnwal/gst-invoice-service/internal/service"
)

// InvoiceHandler handles HTTP requests for invoice drafts.
type InvoiceHandler struct {
	submitter service.Submitter
	log       zerolog.Logger
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(submitter service.Submitter, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		submitter: submitter,
		log:       log,
	}
}

// RegisterRoutes registers the handler's routes with the given router.
func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/invoices/pdf", h.GeneratePDF)
	router.POST("/v1/invoices/totals", h.Totals)
}

// GeneratePDF handles a request to render an invoice draft as a PDF
// @Summary Generate an invoice PDF
// @Description Validate an invoice draft, render it through the PDF service and return the file as a download
// @Tags invoices
// @Accept json
// @Produce application/pdf
// @Param draft body model.DraftDTO true "Invoice draft"
// @Success 200 {file} binary "Rendered invoice PDF"
// @Failure 400 {object} model.ErrorResponse "Missing required field or malformed draft"
// @Failure 502 {object} model.ErrorResponse "Render service failure"
// @Router /v1/invoices/pdf [post]
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	var dto model.DraftDTO
	if err := bindJSON(c, &dto); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	outcome, err := h.submitter.Submit(c.Request.Context(), dto.ToDomain())
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			respondBadRequest(c, vErr.Message, model.ErrorDetail{Field: vErr.Field, Message: vErr.Message})
			return
		}
		h.log.Error().Err(err).Str("invoice_no", dto.InvoiceNo).Msg("invoice submission failed")
		respondBadGateway(c, fmt.Sprintf("%s: %v", ErrRenderFailed, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outcome.Filename))
	c.Data(StatusOK, "application/pdf", outcome.PDF)
}

// Totals handles a request to compute the derived amounts for a draft
// @Summary Compute draft totals
// @Description Compute item amounts, subtotal, CGST, SGST and total for a draft without rendering it
// @Tags invoices
// @Accept json
// @Produce json
// @Param draft body model.DraftDTO true "Invoice draft"
// @Success 200 {object} model.TotalsResponse "Derived amounts"
// @Failure 400 {object} model.ErrorResponse "Malformed draft"
// @Router /v1/invoices/totals [post]
func (h *InvoiceHandler) Totals(c *gin.Context) {
	var dto model.DraftDTO
	if err := bindJSON(c, &dto); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	respondOK(c, model.NewTotalsResponse(dto.ToDomain()))
}
