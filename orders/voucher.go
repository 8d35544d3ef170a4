package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"andariego/apperr"
	"andariego/catalog"
	"andariego/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// SignVoucherPayload builds the QR content: orderid|timestamp|signature. The
// signature lets the front desk verify a voucher offline.
func SignVoucherPayload(secret []byte, orderID string, issuedAt time.Time) string {
	data := fmt.Sprintf("%s|%d", orderID, issuedAt.Unix())
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyVoucherPayload checks a payload produced by SignVoucherPayload.
func VerifyVoucherPayload(secret []byte, payload string) bool {
	idx := lastPipe(payload)
	if idx < 0 {
		return false
	}
	data, sig := payload[:idx], payload[idx+1:]
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

func lastPipe(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '|' {
			return i
		}
	}
	return -1
}

// Voucher renders a booking voucher PDF with a signed QR code. Always
// owner-or-admin regardless of the order ownership flag; the document carries
// personal data.
func (h *Handler) Voucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	order, err := fetchOrder(ctx, orderID)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}
	if err := h.requireOrderAccess(order, r, true); err != nil {
		utils.RespondWithError(w, apperr.Status(err), "You do not own this order")
		return
	}

	locale := utils.ParseQueryOptions(r).Lang
	tourIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		tourIDs = append(tourIDs, item.Tour)
	}
	tours, err := catalog.DisplayMap(ctx, tourIDs, locale)
	if err != nil {
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}

	qrPayload := SignVoucherPayload(h.voucherSecret, order.OrderID, time.Now())
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Voucher")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Customer: %s (%s)", order.Customer.FullName, order.Customer.Email))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, "Tours")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		title := item.Tour
		if t, ok := tours[item.Tour]; ok && t.Title != "" {
			title = t.Title
		}
		pdf.Cell(0, 8, fmt.Sprintf("%s - %s, %d people, %.2f",
			title, item.StartDate.Format("2006-01-02"), item.People, item.Total))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f", order.TotalPrice))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=voucher-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
