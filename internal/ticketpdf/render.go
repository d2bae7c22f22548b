// Package ticketpdf turns an issued ticket into a printable PDF carrying a
// QR code of the ticket id. Rendering is a pure function of its input.
package ticketpdf

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Page geometry in points.
const (
	PageWidth  = 400.0
	PageHeight = 600.0
	margin     = 30.0
	qrSize     = 200.0
)

// TicketView is everything printed on a ticket.
type TicketView struct {
	TicketID   string
	EventID    string
	EventName  string
	EventStart time.Time
	HolderName string
	IssuedAt   time.Time
}

// Filename is the attachment name used for a ticket download.
func Filename(ticketID string) string {
	return "ticket-" + ticketID + ".pdf"
}

// Render builds the PDF document for v.
func Render(v TicketView) ([]byte, error) {
	if v.TicketID == "" {
		return nil, errors.New("ticketpdf: ticket id is required")
	}
	png, err := qrcode.Encode(v.TicketID, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("ticketpdf: encode qr: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	if !v.IssuedAt.IsZero() {
		pdf.SetCreationDate(v.IssuedAt)
		pdf.SetModificationDate(v.IssuedAt)
	}
	pdf.SetTitle("Ticket "+v.TicketID, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	width := PageWidth - 2*margin

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(width, 30, "Event Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(width, 20, tr(v.EventName), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	if !v.EventStart.IsZero() {
		pdf.CellFormat(width, 16, v.EventStart.UTC().Format("Mon, 02 Jan 2006 15:04 MST"), "", 1, "C", false, 0, "")
	}
	if v.HolderName != "" {
		pdf.CellFormat(width, 16, tr("Holder: "+v.HolderName), "", 1, "C", false, 0, "")
	}

	qrY := 220.0
	pdf.RegisterImageOptionsReader("qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions("qr", (PageWidth-qrSize)/2, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetY(qrY + qrSize + 20)
	pdf.SetFont("Courier", "", 9)
	pdf.CellFormat(width, 12, "Ticket ID: "+v.TicketID, "", 1, "C", false, 0, "")
	if v.EventID != "" {
		pdf.CellFormat(width, 12, "Event ID: "+v.EventID, "", 1, "C", false, 0, "")
	}
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(width, 12, "Present this QR code at the entrance.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ticketpdf: %w", err)
	}
	return buf.Bytes(), nil
}
