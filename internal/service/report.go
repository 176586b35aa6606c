package service

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
	"github.com/phpdave11/gofpdf"

	"evo/internal/model"
	"evo/internal/reminder"
)

var counterLabels = map[model.CounterKind]string{
	model.CounterSmall:  "Small service",
	model.CounterBig:    "Big service",
	model.CounterBrakes: "Brakes",
}

// reportFilename is "<slug of brand model>-report.pdf".
func reportFilename(v *model.Vehicle) string {
	name := slug.Make(v.DisplayName())
	if name == "" {
		name = "vehicle"
	}
	return name + "-report.pdf"
}

// pdfText transliterates s; the core PDF fonts only cover Latin-1.
func pdfText(s string) string {
	return unidecode.Unidecode(s)
}

func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', 2, 64) + " EUR"
}

func formatOptional(p *int64, unit string) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatInt(*p, 10) + " " + unit
}

// renderReport lays out an A4 expense report for v.
func renderReport(v *model.Vehicle, rem reminder.Reminders, now time.Time, loc *time.Location) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(pdfText(v.DisplayName())+" expense report", false)
	pdf.SetCreator("evo", false)
	pdf.SetCreationDate(now)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, pdfText(v.DisplayName()))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Registration : " + dash(v.Registration),
		"Year         : " + yearText(v.Year),
		"Odometer     : " + strconv.FormatInt(v.Odometer, 10) + " km",
		"Generated    : " + now.In(loc).Format("2006-01-02 15:04"),
	}
	for _, s := range lines {
		pdf.Cell(0, 6, pdfText(s))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Service reminders")
	pdf.Ln(9)
	header(pdf, []string{"Item", "Km left", "Days left", "Status"}, []float64{60, 40, 40, 40})
	pdf.SetFont("Helvetica", "", 10)
	for _, k := range model.CounterKinds {
		e := rem.Get(k)
		row(pdf, []string{counterLabels[k], formatOptional(e.KmLeft, "km"), formatOptional(e.DaysLeft, "days"), string(e.Level)},
			[]float64{60, 40, 40, 40}, []string{"L", "R", "R", "C"})
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Costs")
	pdf.Ln(9)
	widths := []float64{25, 30, 40, 60, 30}
	header(pdf, []string{"Date", "Category", "Subcategory", "Description", "Amount"}, widths)
	pdf.SetFont("Helvetica", "", 9)
	if len(v.Costs) == 0 {
		pdf.CellFormat(185, 7, "No costs recorded.", "1", 1, "C", false, 0, "")
	}
	for _, c := range v.Costs {
		row(pdf, []string{
			c.Date.In(loc).Format("2006-01-02"),
			c.Category,
			dash(c.Subcategory),
			truncate(dash(c.Description), 38),
			formatAmount(c.Amount),
		}, widths, []string{"L", "L", "L", "L", "R"})
	}
	pdf.Ln(6)

	a := analyzeVehicle(v, loc)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Totals")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	for _, ct := range a.ByCategory {
		row(pdf, []string{ct.Category, formatAmount(ct.Total)}, []float64{60, 40}, []string{"L", "R"})
	}
	pdf.SetFont("Helvetica", "B", 11)
	row(pdf, []string{"Total", formatAmount(a.Total)}, []float64{60, 40}, []string{"L", "R"})

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func header(pdf *gofpdf.Fpdf, cols []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		pdf.CellFormat(widths[i], 7, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func row(pdf *gofpdf.Fpdf, cols []string, widths []float64, align []string) {
	for i, c := range cols {
		pdf.CellFormat(widths[i], 6, pdfText(c), "1", 0, align[i], false, 0, "")
	}
	pdf.Ln(-1)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yearText(y *int) string {
	if y == nil {
		return "-"
	}
	return strconv.Itoa(*y)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
