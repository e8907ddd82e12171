package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_PerProject(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output_dir: ./out\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, DefaultPython, cfg.Python)
	assert.False(t, cfg.MultiProject())
	assert.Empty(t, cfg.Projects)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "python: python3\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "./generated_docs", cfg.OutputDir)
	assert.Equal(t, "python3", cfg.Python)
}

func TestLoad_MultiProject(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `projects:
  - name: users
    path: ./user-service
  - name: billing
    path: /srv/billing
output_dir: ./out
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.MultiProject())
	require.Len(t, cfg.Projects, 2)
	assert.Equal(t, Project{Name: "users", Path: "./user-service"}, cfg.Projects[0])
	assert.Equal(t, []string{"users", "billing"}, cfg.ProjectNames())
}

func TestLoad_EmptyProjectListIsMultiProject(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "projects: []\noutput_dir: ./out\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.MultiProject())
	assert.Empty(t, cfg.Projects)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "projects: [\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigNotFound))
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output_dir: ./out\npython: python3\n")
	t.Setenv("DOCU_GEN_PYTHON", "/opt/venv/bin/python")
	t.Setenv("DOCU_GEN_OUTPUT_DIR", "/tmp/api-docs")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/opt/venv/bin/python", cfg.Python)
	assert.Equal(t, "/tmp/api-docs", cfg.OutputDir)
}

func TestInit_CreatesDefault(t *testing.T) {
	dir := t.TempDir()

	path, err := Init(dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "output_dir: ./docs/api")
	assert.NotContains(t, string(data), "projects")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.False(t, cfg.MultiProject())
}

func TestInit_Workspace(t *testing.T) {
	dir := t.TempDir()

	_, err := Init(dir, true)
	require.NoError(t, err)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.MultiProject())
	assert.Empty(t, cfg.Projects)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestInit_AlreadyExists(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output_dir: ./custom\n")

	_, err := Init(dir, false)
	assert.ErrorIs(t, err, ErrConfigAlreadyExists)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "output_dir: ./custom\n", string(data))
}

func TestResolveProject(t *testing.T) {
	cfg := &Config{Projects: []Project{
		{Name: "users", Path: "./first"},
		{Name: "billing", Path: "./billing"},
		{Name: "users", Path: "./second"},
	}}

	project, err := cfg.ResolveProject("users")
	require.NoError(t, err)
	assert.Equal(t, "./second", project.Path, "last match wins")

	_, err = cfg.ResolveProject("orders")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	var notFound *ProjectNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "orders", notFound.Name)
	assert.Equal(t, []string{"users", "billing", "users"}, notFound.Available)
	assert.Contains(t, err.Error(), "'orders'")
}

func TestProjectDir(t *testing.T) {
	base := filepath.Join("work", "space")

	assert.Equal(t, filepath.Join(base, "user-service"), Project{Path: "./user-service"}.Dir(base))

	abs, err := filepath.Abs(filepath.Join("srv", "billing"))
	require.NoError(t, err)
	assert.Equal(t, abs, Project{Path: abs}.Dir(base))
}
