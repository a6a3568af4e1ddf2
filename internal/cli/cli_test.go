package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = "https://dl.example.com/dl/eyJ1cmwiOiJodHRwczovL2EuY29tL2ZpbGUuemlwIn0=\n\nhttps://a.com/x/y.mp4\n"

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDecodeCommand(t *testing.T) {
	out, errOut, err := execute(t, input, "decode")
	require.NoError(t, err)

	assert.Equal(t, "https://a.com/file.zip\nhttps://a.com/x/y.mp4\n", out)
	assert.Contains(t, errOut, "2 links resolved, 1 decoded")
}

func TestDecodeCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://a.com/1\n"), 0o600))

	out, _, err := execute(t, "", "decode", path)
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/1\n", out)

	_, _, err = execute(t, "", "decode", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestDecodeCommand_Empty(t *testing.T) {
	_, errOut, err := execute(t, " \n\n", "decode")
	require.Error(t, err)
	assert.Contains(t, errOut, "no valid links found")
}

func TestGenerateCommand(t *testing.T) {
	out, errOut, err := execute(t, input, "generate", "--tab", "cloudflare", "--filenames")
	require.NoError(t, err)

	want := "file.zip\nhttps://cloudflare-proxy.com/v1/https%3A%2F%2Fa.com%2Ffile.zip\n\n" +
		"y.mp4\nhttps://cloudflare-proxy.com/v1/https%3A%2F%2Fa.com%2Fx%2Fy.mp4\n"
	assert.Equal(t, want, out)
	assert.Contains(t, errOut, "2 links processed, 1 decoded")
}

func TestGenerateCommand_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	out, _, err := execute(t, input, "generate", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.ir/proxy/https%3A%2F%2Fa.com%2Ffile.zip\nhttps://cdn.ir/proxy/https%3A%2F%2Fa.com%2Fx%2Fy.mp4", string(data))
}

func TestGenerateCommand_Save(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	_, errOut, err := execute(t, input, "generate", "--save", "--tab", "original")
	require.NoError(t, err)
	assert.Contains(t, errOut, "saved multi-link-proxy-original-links-only.txt")

	data, err := os.ReadFile("multi-link-proxy-original-links-only.txt")
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/file.zip\nhttps://a.com/x/y.mp4", string(data))
}

func TestGenerateCommand_BadTab(t *testing.T) {
	_, _, err := execute(t, input, "generate", "--tab", "ftp")
	assert.Error(t, err)

	_, _, err = execute(t, input, "generate", "--save", "-o", "x.txt")
	assert.Error(t, err)
}
