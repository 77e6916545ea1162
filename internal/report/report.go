package report

import (
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
)

// EquipmentInfo 报告中的设备信息
type EquipmentInfo struct {
	Name            string
	Category        lifecycle.EquipmentCategory
	Brand           string
	Model           string
	SerialNumber    string
	ManufactureYear int
	Capacity        string
	Location        string
}

// Data 报告数据
type Data struct {
	Inspection  *lifecycle.Inspection
	Equipment   EquipmentInfo
	ClientName  string
	IssuerName  string
	GeneratedAt time.Time
}

// Renderer 报告渲染器
type Renderer interface {
	Render(data *Data) ([]byte, error)
}

// Document 渲染后的报告
type Document struct {
	Filename string
	Content  []byte
}
