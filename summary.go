package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// RenderSummary writes the plain-text breakdown of what one friend owes,
// one section per spender in the order they were given.
func RenderSummary(friend string, summary FriendSummary) string {
	var b strings.Builder
	b.WriteString("Friend Money Distribution\n")
	fmt.Fprintf(&b, "Friend: %s\n", friend)

	for _, ledger := range summary {
		fmt.Fprintf(&b, "Spender: %s\n", ledger.Spender)

		var totalDue float64
		for _, p := range ledger.Payments {
			status := "Paid"
			if !p.Paid {
				status = "Due"
				totalDue += p.Amount
			}
			fmt.Fprintf(&b, "%s paid for %s: %s (%s)\n", ledger.Spender, p.Description, formatAmount(p.Amount), status)
		}
		fmt.Fprintf(&b, "Total amount due by %s: %s\n", ledger.Spender, formatAmount(totalDue))
	}

	return b.String()
}

// formatAmount rounds the exact binary value of f half away from zero,
// so 1.005 (stored as 1.00499...) prints as 1.00.
func formatAmount(f float64) string {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return fmt.Sprintf("%.2f", f)
	}
	return decimal.NewFromBigRat(r, 30).StringFixed(2)
}

//go:embed fonts/DejaVuSansCondensed.ttf
var summaryFont []byte

const (
	pdfFontFamily = "DejaVu"
	pdfFontSize   = 12
	pdfLineHeight = 6
	pdfMargin     = 15
)

func newSummaryPDF(text string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", summaryFont)
	pdf.AddPage()
	pdf.SetFont(pdfFontFamily, "", pdfFontSize)

	pdf.MultiCell(0, pdfLineHeight, text, "", "L", false)
	return pdf
}

// RenderPDF lays the text out on as many A4 pages as it needs and returns
// the finished document.
func RenderPDF(text string) ([]byte, error) {
	pdf := newSummaryPDF(text)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
