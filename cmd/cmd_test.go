package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	origLogger := log.Logger
	t.Cleanup(func() {
		log.Logger = origLogger
		escapeQuote = false
	})

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestBuildCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yml")
	content := `
query:
  - not
  - exists: type
  - and
  - term: ssh
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := execute(t, "", "build", path)
	require.NoError(t, err)
	assert.Equal(t, "NOT _exists_:type AND \"ssh\"\n", out)
}

func TestBuildCmd_Stdin(t *testing.T) {
	out, err := execute(t, `{"query": [{"field": {"name": "content_type", "value": "application/json"}}]}`, "build", "-")
	require.NoError(t, err)
	assert.Equal(t, "content_type:\"application\\/json\"\n", out)
}

func TestBuildCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "", "build", filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot open query definition")
}

func TestBuildCmd_InvalidDefinition(t *testing.T) {
	_, err := execute(t, "query:\n  - xor\n", "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot load stdin")
}

func TestEscapeCmd(t *testing.T) {
	out, err := execute(t, "", "escape", "application/json", "a:b")
	require.NoError(t, err)
	assert.Equal(t, "application\\/json\na\\:b\n", out)
}

func TestEscapeCmd_Quote(t *testing.T) {
	out, err := execute(t, "", "escape", "--quote", "hello?")
	require.NoError(t, err)
	assert.Equal(t, "\"hello\\?\"\n", out)
}

func TestRunBuild_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runBuild(&out, strings.NewReader(""), "test"))
	assert.Equal(t, "\n", out.String())
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		file   string
		level  string
		format string
	}{
		{
			name:   "flag defaults",
			level:  "info",
			format: "text",
		},
		{
			name:   "env level is normalized",
			env:    map[string]string{"GRAYLOGQ_LOG_LEVEL": "DEBUG"},
			level:  "debug",
			format: "text",
		},
		{
			name:   "env format is trimmed",
			env:    map[string]string{"GRAYLOGQ_LOG_FORMAT": " JSON "},
			level:  "info",
			format: "json",
		},
		{
			name:   "config file",
			file:   "log:\n  format: JSON\n  level: warn\n",
			level:  "warn",
			format: "json",
		},
		{
			name:   "env overrides config file",
			env:    map[string]string{"GRAYLOGQ_LOG_LEVEL": "debug"},
			file:   "log:\n  level: warn\n",
			level:  "debug",
			format: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				cfgFile = ""
				*config = Config{}
				viper.Reset()
				require.NoError(t, bindFlags())
			})
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			args := []string{"escape", "x"}
			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "config.yml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
				args = append([]string{"--config", path}, args...)
			}

			_, err := execute(t, "", args...)
			require.NoError(t, err)
			assert.Equal(t, tt.level, config.Log.Level)
			assert.Equal(t, tt.format, config.Log.Format)
		})
	}
}
