package service

import (
	"fmt"
	"os"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"gopkg.in/yaml.v3"
)

// templateFile 检查项模板文件格式,按设备类别分组
//
//	crane:
//	  - name: Hoist rope condition
//	    requirement: ISO 4309
type templateFile map[string][]struct {
	Sequence    int    `yaml:"sequence"`
	Name        string `yaml:"name"`
	Requirement string `yaml:"requirement"`
	Description string `yaml:"description"`
	Active      *bool  `yaml:"active"`
}

// LoadTemplateFile 读取 YAML 检查项模板文件
// 未指定 sequence 时按出现顺序以 10 递增
func LoadTemplateFile(path string) ([]lifecycle.ChecklistItemTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates 解析 YAML 检查项模板
func ParseTemplates(data []byte) ([]lifecycle.ChecklistItemTemplate, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}

	var out []lifecycle.ChecklistItemTemplate
	for _, category := range lifecycle.Categories() {
		items, ok := file[string(category)]
		if !ok {
			continue
		}
		for i, item := range items {
			if item.Name == "" {
				return nil, lifecycle.Validationf("%s template #%d has no name", category, i+1)
			}
			sequence := item.Sequence
			if sequence == 0 {
				sequence = (i + 1) * 10
			}
			active := item.Active == nil || *item.Active
			out = append(out, lifecycle.ChecklistItemTemplate{
				Category:    category,
				Sequence:    sequence,
				Name:        item.Name,
				Requirement: item.Requirement,
				Description: item.Description,
				Active:      active,
			})
		}
		delete(file, string(category))
	}
	for unknown := range file {
		return nil, lifecycle.Validationf("unknown equipment type: %s", unknown)
	}
	return out, nil
}
