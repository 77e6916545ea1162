package report_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signaturePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 16))
	for x := 0; x < 40; x++ {
		img.Set(x, 8, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func completedInspection(signature []byte) *lifecycle.Inspection {
	due := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	return &lifecycle.Inspection{
		ID:             "ins-001",
		Reference:      "INS/2025/00001",
		Type:           lifecycle.TypePeriodic,
		InspectionDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Checklist: []lifecycle.ChecklistItem{
			{Sequence: 10, Name: "Hoist rope condition", Requirement: "ISO 4309", Status: lifecycle.StatusPass},
			{Sequence: 20, Name: "Brakes and limit switches", Requirement: "ISO 9927-1", Status: lifecycle.StatusWarning, Notes: "Adjust brake pads"},
		},
		Result:               lifecycle.ResultConditional,
		DefectsFound:         "Worn brake pads",
		Recommendations:      "Replace pads within 30 days",
		InspectorSignature:   signature,
		ClientRepresentative: "Karim Haddad",
		State:                lifecycle.StateCompleted,
		NextDueDate:          &due,
	}
}

// TestRenderPDF 测试生成检验报告
func TestRenderPDF(t *testing.T) {
	renderer := report.NewPDFRenderer("")
	content, err := renderer.Render(&report.Data{
		Inspection: completedInspection(signaturePNG(t)),
		Equipment: report.EquipmentInfo{
			Name:         "Liebherr LTM 1100",
			Category:     lifecycle.CategoryCrane,
			SerialNumber: "LTM-1100-0042",
			Capacity:     "100T",
		},
		ClientName:  "Société Générale de Levage",
		GeneratedAt: time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
	assert.Greater(t, len(content), 1000)
}

// TestRenderPDFUnknownSignatureFormat 测试无法识别的签名格式仍能生成报告
func TestRenderPDFUnknownSignatureFormat(t *testing.T) {
	renderer := report.NewPDFRenderer("ECIS")
	content, err := renderer.Render(&report.Data{
		Inspection: completedInspection([]byte("opaque-signature-bytes")),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

// TestRenderPDFRequiresCompleted 测试未完成的检验单不能生成报告
func TestRenderPDFRequiresCompleted(t *testing.T) {
	renderer := report.NewPDFRenderer("")
	for _, state := range []lifecycle.InspectionState{lifecycle.StateDraft, lifecycle.StateInProgress, lifecycle.StateCancelled} {
		rec := completedInspection(nil)
		rec.State = state
		_, err := renderer.Render(&report.Data{Inspection: rec})
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, "state %s", state)
	}

	rec := completedInspection(nil)
	rec.State = lifecycle.StateSent
	_, err := renderer.Render(&report.Data{Inspection: rec})
	assert.NoError(t, err)

	_, err = renderer.Render(nil)
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
}
