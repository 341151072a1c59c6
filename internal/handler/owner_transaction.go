package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/report"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func transactionFilter(c echo.Context) repository.TransactionFilter {
	return repository.TransactionFilter{
		Status: strings.ToLower(strings.TrimSpace(c.QueryParam("status"))),
		KosID:  queryUint(c, "kos_id"),
	}
}

// ListTransactions handles GET /v1/owner/transactions?status=&kos_id=.
func (h *OwnerHandler) ListTransactions(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Txs.ListByOwner(ctx, ownerID, transactionFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// ExportTransactions handles GET /v1/owner/transactions/export and sends
// the filtered list as an .xlsx workbook.
func (h *OwnerHandler) ExportTransactions(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Txs.ListByOwner(ctx, ownerID, transactionFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	data, err := report.TransactionsXLSX(list)
	if err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("transaksi-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// MarkTransactionPaid handles POST /v1/owner/transactions/:id/paid.
func (h *OwnerHandler) MarkTransactionPaid(c echo.Context) error {
	return h.settle(c, h.Txs.MarkPaid)
}

// RejectTransaction handles POST /v1/owner/transactions/:id/reject.
func (h *OwnerHandler) RejectTransaction(c echo.Context) error {
	return h.settle(c, h.Txs.Reject)
}

func (h *OwnerHandler) settle(c echo.Context, step txStepFunc) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := step(ctx, id, ownerID)
	if err != nil {
		return respondError(c, err)
	}
	h.Notifier.Notify(ctx, service.PaymentStatusEvent(*t))
	return c.JSON(http.StatusOK, t)
}
