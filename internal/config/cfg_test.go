package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, ViewportConfig{Width: 800, Height: 600}, cfg.Layout.Viewport)
	assert.Equal(t, 1.0, cfg.Layout.Scale)
	assert.True(t, cfg.Layout.InlineStyles)
	assert.False(t, cfg.Layout.PruneDeclarations)
	assert.Empty(t, cfg.Layout.UserStylesheets)
	assert.True(t, cfg.Render.Compress)
	assert.Equal(t, "normal", cfg.Logging.ConsoleLogger.Level)
	assert.Equal(t, "none", cfg.Logging.FileLogger.Level)
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `version: 1
layout:
  viewport:
    width: 1024
  scale: 2
  prune_declarations: true
  user_stylesheets: ["user.css", "https://example.com/u.css"]
  resource_paths: ["`+dir+`"]
dump:
  verbose: true
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, 1024.0, cfg.Layout.Viewport.Width)
	assert.Equal(t, 600.0, cfg.Layout.Viewport.Height, "kept from defaults")
	assert.Equal(t, 2.0, cfg.Layout.Scale)
	assert.True(t, cfg.Layout.PruneDeclarations)
	assert.True(t, cfg.Layout.InlineStyles, "kept from defaults")
	assert.Equal(t, []string{"user.css", "https://example.com/u.css"}, cfg.Layout.UserStylesheets)
	assert.Equal(t, []string{dir}, cfg.Layout.ResourcePaths)
	assert.True(t, cfg.Dump.Verbose)
	assert.Equal(t, "debug", cfg.Logging.ConsoleLogger.Level)
}

func TestLoadConfiguration_UnknownField(t *testing.T) {
	path := writeConfig(t, "version: 1\nlayout:\n  zoom: 3\n")
	_, err := LoadConfiguration(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zoom")
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidationReportsEveryField(t *testing.T) {
	path := writeConfig(t, `version: 2
layout:
  scale: 0
  user_agent_stylesheet: /definitely/not/here.css
dump:
  indent: -1
logging:
  console:
    level: loud
`)
	_, err := LoadConfiguration(path)
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 5, err.Error())
	for _, e := range errs {
		assert.True(t, strings.HasPrefix(e.Error(), "failed to process configuration file: "), e.Error())
	}
	for _, want := range []string{"Config.Version", "Config.Layout.Scale", "Config.Layout.UserAgentStylesheet", "Config.Dump.Indent", "Config.Logging.ConsoleLogger.Level"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	data, err := Dump(cfg)
	require.NoError(t, err)

	var back Config
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	require.NoError(t, dec.Decode(&back))
	assert.Equal(t, cfg.Layout.Viewport, back.Layout.Viewport)
	assert.NoError(t, Validate(&back))
}

func TestPrepareIsACopy(t *testing.T) {
	a := Prepare()
	a[0] = '#'
	assert.NotEqual(t, a[0], Prepare()[0])
}

func TestLoggerPrepare(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "run.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: dest, Mode: "overwrite"},
	}
	log, err := conf.Prepare()
	require.NoError(t, err)
	log.Debug("hello from test")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), AppName)
}

func TestAnnotateKeepsErrorsApart(t *testing.T) {
	err := annotate("ctx", multierr.Combine(os.ErrNotExist, os.ErrPermission))
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "ctx: "+os.ErrNotExist.Error(), errs[0].Error())
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.NoError(t, annotate("ctx", nil))
}
