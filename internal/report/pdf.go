package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/go-pdf/fpdf"
)

const (
	pageWidth   = 190.0
	lineHeight  = 6.0
	labelWidth  = 50.0
	signatureW  = 60.0
	signatureH  = 25.0
	defaultFont = "Helvetica"
)

var resultLabels = map[lifecycle.OverallResult]string{
	lifecycle.ResultApproved:    "APPROVED",
	lifecycle.ResultConditional: "CONDITIONALLY APPROVED",
	lifecycle.ResultRejected:    "REJECTED",
}

var statusLabels = map[lifecycle.ChecklistStatus]string{
	lifecycle.StatusPass:          "Pass",
	lifecycle.StatusFail:          "Fail",
	lifecycle.StatusWarning:       "Warning",
	lifecycle.StatusNotApplicable: "N/A",
}

// PDFRenderer 基于 fpdf 的检验报告渲染器
type PDFRenderer struct {
	issuer string
}

// NewPDFRenderer 创建 PDF 渲染器,issuer 为报告抬头的机构名称
func NewPDFRenderer(issuer string) *PDFRenderer {
	if issuer == "" {
		issuer = "ECIS Inspection Services"
	}
	return &PDFRenderer{issuer: issuer}
}

// Render 渲染检验报告,只有已完成或已发送的检验单可以生成报告
func (r *PDFRenderer) Render(data *Data) ([]byte, error) {
	if data == nil || data.Inspection == nil {
		return nil, lifecycle.Validationf("inspection is required")
	}
	rec := data.Inspection
	if !rec.State.Reportable() {
		return nil, &lifecycle.Error{
			Code:    lifecycle.CodeInvalidTransition,
			Message: fmt.Sprintf("report is only available for completed inspections, current state is %s", rec.State),
		}
	}

	issuer := data.IssuerName
	if issuer == "" {
		issuer = r.issuer
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Inspection Report "+rec.Reference), false)
	pdf.SetCreator(tr(issuer), false)
	if !data.GeneratedAt.IsZero() {
		pdf.SetCreationDate(data.GeneratedAt)
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(defaultFont, "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s - page %d", rec.Reference, pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// 抬头
	pdf.SetFont(defaultFont, "B", 16)
	pdf.CellFormat(pageWidth, 10, tr(issuer), "", 1, "C", false, 0, "")
	pdf.SetFont(defaultFont, "B", 13)
	pdf.CellFormat(pageWidth, 8, tr("Equipment Inspection Report"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, tr, "Inspection")
	field(pdf, tr, "Reference", rec.Reference)
	field(pdf, tr, "Date", rec.InspectionDate.Format("2006-01-02"))
	field(pdf, tr, "Type", strings.ReplaceAll(string(rec.Type), "_", " "))
	field(pdf, tr, "Client", data.ClientName)
	if rec.DurationHours > 0 {
		field(pdf, tr, "Duration (hours)", fmt.Sprintf("%.2f", rec.DurationHours))
	}
	field(pdf, tr, "Weather conditions", rec.WeatherConditions)

	section(pdf, tr, "Equipment")
	eq := data.Equipment
	field(pdf, tr, "Name", eq.Name)
	field(pdf, tr, "Category", eq.Category.Label())
	field(pdf, tr, "Brand / model", strings.TrimSpace(eq.Brand+" "+eq.Model))
	field(pdf, tr, "Serial number", eq.SerialNumber)
	if eq.ManufactureYear > 0 {
		field(pdf, tr, "Manufacture year", fmt.Sprintf("%d", eq.ManufactureYear))
	}
	field(pdf, tr, "Capacity", eq.Capacity)
	field(pdf, tr, "Location", eq.Location)

	checklist(pdf, tr, rec)

	section(pdf, tr, "Conclusion")
	field(pdf, tr, "Overall result", resultLabels[rec.Result])
	paragraph(pdf, tr, "Defects found", rec.DefectsFound)
	paragraph(pdf, tr, "Immediate actions", rec.ImmediateActions)
	paragraph(pdf, tr, "Recommendations", rec.Recommendations)
	paragraph(pdf, tr, "Inspector notes", rec.InspectorNotes)
	if rec.NextDueDate != nil {
		field(pdf, tr, "Next inspection due", rec.NextDueDate.Format("2006-01-02"))
	}

	signatures(pdf, tr, rec)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(2)
	pdf.SetFont(defaultFont, "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(pageWidth, 7, tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

func field(pdf *fpdf.Fpdf, tr func(string) string, label string, value string) {
	if value == "" {
		return
	}
	pdf.SetFont(defaultFont, "B", 10)
	pdf.CellFormat(labelWidth, lineHeight, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont(defaultFont, "", 10)
	pdf.MultiCell(pageWidth-labelWidth, lineHeight, tr(value), "", "L", false)
}

func paragraph(pdf *fpdf.Fpdf, tr func(string) string, label string, value string) {
	if value == "" {
		return
	}
	pdf.SetFont(defaultFont, "B", 10)
	pdf.CellFormat(pageWidth, lineHeight, tr(label), "", 1, "L", false, 0, "")
	pdf.SetFont(defaultFont, "", 10)
	pdf.MultiCell(pageWidth, lineHeight, tr(value), "", "L", false)
}

func checklist(pdf *fpdf.Fpdf, tr func(string) string, rec *lifecycle.Inspection) {
	section(pdf, tr, "Checklist")
	stats := rec.Stats()
	pdf.SetFont(defaultFont, "", 10)
	pdf.CellFormat(pageWidth, lineHeight, tr(fmt.Sprintf("%d items: %d passed, %d failed, %d warnings, %d not applicable",
		stats.Total, stats.Passed, stats.Failed, stats.Warnings, stats.NotApplicable)), "", 1, "L", false, 0, "")
	if stats.Total == 0 {
		return
	}

	widths := []float64{80, 50, 20, 40}
	pdf.SetFont(defaultFont, "B", 9)
	for i, header := range []string{"Check item", "Requirement", "Result", "Notes"} {
		pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(defaultFont, "", 9)
	for _, item := range rec.Checklist {
		pdf.CellFormat(widths[0], 6, tr(truncate(item.Name, 48)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(truncate(item.Requirement, 30)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(statusLabels[item.Status]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(truncate(item.Notes, 24)), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}

func signatures(pdf *fpdf.Fpdf, tr func(string) string, rec *lifecycle.Inspection) {
	section(pdf, tr, "Signatures")
	y := pdf.GetY()
	signature(pdf, tr, "inspector", "Inspector", rec.InspectorSignature, 10, y)
	label := "Client representative"
	if rec.ClientRepresentative != "" {
		label += ": " + rec.ClientRepresentative
	}
	signature(pdf, tr, "client", label, rec.ClientSignature, 110, y)
	pdf.SetY(y + signatureH + 12)
}

// signature 绘制签名图片,无法识别的格式只打印文字
func signature(pdf *fpdf.Fpdf, tr func(string) string, name string, label string, image []byte, x float64, y float64) {
	pdf.SetXY(x, y)
	pdf.SetFont(defaultFont, "B", 9)
	pdf.CellFormat(signatureW+20, lineHeight, tr(label), "", 2, "L", false, 0, "")

	imageType := detectImageType(image)
	switch {
	case len(image) == 0:
		pdf.SetFont(defaultFont, "I", 9)
		pdf.CellFormat(signatureW, lineHeight, tr("Not signed"), "", 0, "L", false, 0, "")
	case imageType == "":
		pdf.SetFont(defaultFont, "I", 9)
		pdf.CellFormat(signatureW, lineHeight, tr("Signed electronically"), "", 0, "L", false, 0, "")
	default:
		opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(image))
		if pdf.Ok() {
			pdf.ImageOptions(name, x, y+lineHeight, signatureW, signatureH, false, opts, 0, "")
		} else {
			// 图片损坏时清除错误,报告照常生成
			pdf.ClearError()
			pdf.SetFont(defaultFont, "I", 9)
			pdf.CellFormat(signatureW, lineHeight, tr("Signed electronically"), "", 0, "L", false, 0, "")
		}
	}
}

func detectImageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "JPG"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "GIF"
	}
	return ""
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
