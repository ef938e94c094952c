package handler

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/iliyamo/smart-campus-hub/internal/model"
)

// pickupPayload is what the counter scans when the student collects an
// order.
func pickupPayload(o model.Order) string {
	return fmt.Sprintf("campus-order|%s|%s", o.ID, o.OrderNumber)
}

// renderReceipt lays out an A6 pickup slip. Line names fall back to the
// menu, then to the raw menu item id.
func renderReceipt(o model.Order, menu []model.MenuItem) ([]byte, error) {
	byID := make(map[string]model.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	qr, err := qrcode.Encode(pickupPayload(o), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode pickup qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Smart Campus Canteen")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Order "+o.OrderNumber)
	pdf.Ln(6)
	if o.StudentName != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Student: %s (%s)", o.StudentName, o.StudentID))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Status: "+string(o.Status))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(12, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, it := range o.Items {
		name, amount := it.Name, "-"
		if m, ok := byID[it.MenuItemID]; ok {
			if name == "" {
				name = m.Name
			}
			amount = fmt.Sprintf("%.2f", m.Price*float64(it.Quantity))
		}
		if name == "" {
			name = it.MenuItemID
		}
		pdf.CellFormat(50, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(12, 6, fmt.Sprint(it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, amount, "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(62, 7, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("%.2f", o.Total), "T", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Ready around "+o.EstimatedReady.Format("15:04 MST")+" | Paid via "+o.PaymentMethod)
	pdf.Ln(8)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("pickup-qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("pickup-qr", 32, pdf.GetY(), 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
