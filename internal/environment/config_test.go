package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/answers/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Format)
	assert.Equal(t, "astyle", cfg.Formatter)
	assert.Equal(t, []string{".java", ".txt"}, cfg.MemberSuffixes)
	assert.Equal(t, runner.DefaultCommands, cfg.Commands)
	assert.Equal(t, "tools", filepath.Base(cfg.ToolsDir))
	assert.Equal(t, runner.DefaultRuntime(cfg.ToolsDir), cfg.RuntimePath())
	assert.NoError(t, cfg.Validate())
}

func TestReadConfigFile(t *testing.T) {
	p := writeConfig(t, `
tools_dir = "/opt/answers/tools"
format = false
member_suffixes = [".java"]
out_dir = "reports"

[commands]
JAR = "{runtime} -Xmx256m -jar {file}"
java = ""
py = "python3 {file}"
`)
	cfg := Default()
	require.NoError(t, ReadConfigFile(p, cfg))

	assert.Equal(t, "/opt/answers/tools", cfg.ToolsDir)
	assert.False(t, cfg.Format)
	assert.Equal(t, []string{".java"}, cfg.MemberSuffixes)
	assert.Equal(t, []string{".java"}, cfg.FormatSuffixes)
	assert.Equal(t, "reports", cfg.OutDir)
	assert.Equal(t, "astyle", cfg.Formatter)
	assert.Equal(t, map[string]string{
		"jar": "{runtime} -Xmx256m -jar {file}",
		"py":  "python3 {file}",
	}, cfg.Commands)
	assert.Equal(t, runner.DefaultRuntime("/opt/answers/tools"), cfg.RuntimePath())

	// defaults must not be mutated
	assert.Contains(t, runner.DefaultCommands, "java")
}

func TestReadConfigFileErrors(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, ReadConfigFile(filepath.Join(t.TempDir(), "missing.toml"), cfg), os.ErrNotExist)

	p := writeConfig(t, "format = [")
	assert.Error(t, ReadConfigFile(p, cfg))
	assert.Equal(t, runner.DefaultCommands, cfg.Commands)
}

func TestLoadFromXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "answers-out", cfg.OutDir)

	require.NoError(t, os.MkdirAll(filepath.Join(home, AppName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, AppName, ConfigFileName), []byte(`runtime = "/usr/bin/java"`), 0644))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/java", cfg.RuntimePath())

	_, err = Load(filepath.Join(home, "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Commands["bad"] = "{runtime} {nope}"
	cfg.MemberSuffixes = []string{""}
	cfg.Formatter = ""
	cfg.SqsURL = "https://sqs"
	cfg.AwsRegion = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "commands.bad")
	assert.ErrorContains(t, err, "member_suffixes")
	assert.ErrorContains(t, err, "formatter")
	assert.ErrorContains(t, err, "aws_region")
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("ANSWERS_TEST_VALUE=from-dotenv\n"), 0644))
	t.Setenv("ANSWERS_TEST_VALUE", "")
	os.Unsetenv("ANSWERS_TEST_VALUE")

	require.NoError(t, LoadDotEnv(p))
	assert.Equal(t, "from-dotenv", os.Getenv("ANSWERS_TEST_VALUE"))
}
