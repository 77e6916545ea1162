package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseTemplates 测试解析 YAML 模板
func TestParseTemplates(t *testing.T) {
	templates, err := service.ParseTemplates([]byte(`
crane:
  - name: Hoist rope condition
    requirement: ISO 4309
  - name: Load moment limiter
    sequence: 50
forklift:
  - name: Fork wear
    active: false
`))
	require.NoError(t, err)
	require.Len(t, templates, 3)

	assert.Equal(t, lifecycle.CategoryCrane, templates[0].Category)
	assert.Equal(t, 10, templates[0].Sequence)
	assert.Equal(t, "ISO 4309", templates[0].Requirement)
	assert.True(t, templates[0].Active)
	assert.Equal(t, 50, templates[1].Sequence)

	assert.Equal(t, lifecycle.CategoryForklift, templates[2].Category)
	assert.False(t, templates[2].Active)
}

// TestParseTemplatesInvalid 测试不合法的模板文件
func TestParseTemplatesInvalid(t *testing.T) {
	_, err := service.ParseTemplates([]byte("submarine:\n  - name: Hull\n"))
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	_, err = service.ParseTemplates([]byte("crane:\n  - requirement: ISO 4309\n"))
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	_, err = service.ParseTemplates([]byte("crane: [\n"))
	assert.Error(t, err)
}

// TestLoadTemplateFile 测试读取模板文件
func TestLoadTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("elevator:\n  - name: Door interlocks\n"), 0644))

	templates, err := service.LoadTemplateFile(path)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, lifecycle.CategoryElevator, templates[0].Category)

	_, err = service.LoadTemplateFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
