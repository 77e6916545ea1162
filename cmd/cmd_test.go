package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ecis/inspection-gin/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommand 测试子命令注册
func TestRootCommand(t *testing.T) {
	root := GetRootCmd()
	assert.Equal(t, "ecis-inspection", root.Use)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))

	for _, name := range []string{"server", "migrate", "seed-templates", "hash-key"} {
		found, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}

// TestHashKeyCommand 测试生成的哈希可以校验原密钥
func TestHashKeyCommand(t *testing.T) {
	root := GetRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"hash-key", "s3cret"})
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetArgs(nil)
	})

	require.NoError(t, root.Execute())

	hash := strings.TrimSpace(out.String())
	require.NotEmpty(t, hash)
	authenticator := auth.NewAPIKeyAuthenticator("", hash)
	_, err := authenticator.Authenticate(context.Background(), "s3cret")
	assert.NoError(t, err)
	_, err = authenticator.Authenticate(context.Background(), "wrong")
	assert.Error(t, err)
}
