package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/raytrace-testing/pkg/config"
	"github.com/df07/raytrace-testing/pkg/scene"
	"github.com/df07/raytrace-testing/pkg/transferfunction"
)

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	jobFile := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(jobFile, []byte("render:\n  width: 100\n  height: 50\n  samples: 2\n"), 0o644))

	opts, fs, err := parseFlags([]string{"--config", jobFile, "--height", "40", "--renderer", "ao",
		"--fixture", "texture2d", "--param", "filter=nearest,lightSet=true"}, &bytes.Buffer{})
	require.NoError(t, err)
	cfg, err := loadConfig(opts, fs)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Render.Width, "file value kept")
	assert.Equal(t, 40, cfg.Render.Height, "flag overrides file")
	assert.Equal(t, 2, cfg.Render.Samples)
	assert.Equal(t, "ao", cfg.Render.Renderer)
	require.Len(t, cfg.Fixtures, 1)
	assert.Equal(t, config.FixtureConfig{Kind: "texture2d", Params: map[string]string{"filter": "nearest", "lightSet": "true"}}, cfg.Fixtures[0])
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown fixture", []string{"--fixture", "cornell"}},
		{"unknown param", []string{"--fixture", "texture2d", "--param", "wrap=clamp"}},
		{"unknown renderer", []string{"--renderer", "bdpt"}},
		{"bad size", []string{"--width", "-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, fs, err := parseFlags(tt.args, &bytes.Buffer{})
			require.NoError(t, err)
			_, err = loadConfig(opts, fs)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestRun_List(t *testing.T) {
	out, err := runArgs(t, "--list")
	require.NoError(t, err)

	var catalog scene.CatalogResponse
	require.NoError(t, json.Unmarshal([]byte(out), &catalog))
	total := 0
	for _, group := range catalog.Groups {
		total += len(group.Fixtures)
	}
	assert.Equal(t, len(scene.ListFixtures()), total)
}

func TestRun_FreezesTransferFunctions(t *testing.T) {
	_, err := runArgs(t, "--list")
	require.NoError(t, err)
	assert.True(t, transferfunction.Default.Frozen())

	err = transferfunction.Register("late", func() transferfunction.Builder { return transferfunction.Grayscale{} })
	assert.ErrorIs(t, err, transferfunction.ErrRegistryFrozen)

	// Built-in tags stay usable after the freeze
	_, err = transferfunction.New("jet")
	assert.NoError(t, err)
}

func TestRun_RenderSaveAndGolden(t *testing.T) {
	dir := t.TempDir()
	golden := filepath.Join(dir, "golden")
	jobFile := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(jobFile, []byte("golden:\n  dir: "+golden+"\n"), 0o644))

	common := []string{"--config", jobFile, "--width", "8", "--height", "6", "--samples", "1",
		"--fixture", "texture2d-transform", "--param", "transform=scale", "-o", filepath.Join(dir, "out")}

	_, err := runArgs(t, common...)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "out", "Texture2DTransform_scale.png"))
	assert.NoError(t, err, "render writes one image per fixture")

	_, err = runArgs(t, append(common, "--golden")...)
	assert.ErrorIs(t, err, errFailures, "no golden image yet")

	_, err = runArgs(t, append(common, "--update-golden")...)
	require.NoError(t, err)
	_, err = runArgs(t, append(common, "--golden")...)
	assert.NoError(t, err, "deterministic render matches its new golden image")
}

func TestRun_Benchmark(t *testing.T) {
	out, err := runArgs(t, "--benchmark", "--width", "4", "--height", "4", "--samples", "1",
		"--fixture", "transfer-function", "--param", "tag=rgb")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "test name,"))
	assert.True(t, strings.HasPrefix(lines[1], "TransferFunction_rgb,"))
}

func TestRun_BadFlag(t *testing.T) {
	_, err := runArgs(t, "--no-such-flag")
	assert.Error(t, err)
}
