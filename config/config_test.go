package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumenvcs/lumen/internal/env"
	"github.com/lumenvcs/lumen/internal/gitpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("looks up the working tree when nothing is set", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
		sub := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		out, err := LoadConfig(env.NewFromKVList(nil), LoadOptions{WorkingDirectory: sub})
		require.NoError(t, err)

		assert.Equal(t, root, out.WorkTreePath)
		assert.Equal(t, filepath.Join(root, gitpath.DotGitPath), out.GitDirPath)
		assert.Equal(t, filepath.Join(root, gitpath.DotGitPath, gitpath.ConfigPath), out.LocalConfig)
		assert.Equal(t, filepath.Join(root, gitpath.DotGitPath, gitpath.ObjectsPath), out.ObjectDirPath)
	})

	t.Run("fails specifying a work tree without a git dir", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(env.NewFromKVList([]string{"GIT_WORK_TREE=" + t.TempDir()}), LoadOptions{})
		require.ErrorIs(t, err, ErrNoWorkTreeAlone)
	})

	t.Run("env overrides the defaults", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		e := env.NewFromKVList([]string{
			"GIT_WORK_TREE=" + filepath.Join(root, "wt"),
			"GIT_DIR=" + filepath.Join(root, "git"),
			"GIT_OBJECT_DIRECTORY=" + filepath.Join(root, "objects"),
			"GIT_CONFIG=" + filepath.Join(root, "gitconfig"),
			"GIT_CONFIG_NOSYSTEM=1",
		})
		out, err := LoadConfig(e, LoadOptions{SkipGitDirLookUp: true})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(root, "wt"), out.WorkTreePath)
		assert.Equal(t, filepath.Join(root, "git"), out.GitDirPath)
		assert.Equal(t, filepath.Join(root, "objects"), out.ObjectDirPath)
		assert.Equal(t, filepath.Join(root, "gitconfig"), out.LocalConfig)
		assert.True(t, out.SkipSystemConfig)
	})

	t.Run("options override env", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		e := env.NewFromKVList([]string{
			"GIT_WORK_TREE=" + filepath.Join(root, "wt"),
			"GIT_DIR=" + filepath.Join(root, "git"),
		})
		out, err := LoadConfig(e, LoadOptions{
			WorkTreePath: filepath.Join(root, "custom-wt"),
			GitDirPath:   filepath.Join(root, "custom-git"),
		})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(root, "custom-wt"), out.WorkTreePath)
		assert.Equal(t, filepath.Join(root, "custom-git"), out.GitDirPath)
	})

	t.Run("relative paths become absolute based on the working directory", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		e := env.NewFromKVList([]string{
			"GIT_WORK_TREE=wt",
			"GIT_DIR=git",
			"GIT_OBJECT_DIRECTORY=objects",
			"GIT_CONFIG=gitconfig",
		})
		out, err := LoadConfig(e, LoadOptions{WorkingDirectory: root, SkipGitDirLookUp: true})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(root, "wt"), out.WorkTreePath)
		assert.Equal(t, filepath.Join(root, "git"), out.GitDirPath)
		assert.Equal(t, filepath.Join(root, "objects"), out.ObjectDirPath)
		assert.Equal(t, filepath.Join(root, "gitconfig"), out.LocalConfig)
	})
}

func TestLoadConfigReadsWorkTreeFromLocalFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	gitDir := filepath.Join(root, "git")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))

	expectedWorkTree := filepath.Join(root, "some", "path")
	cfgPath := filepath.Join(gitDir, "config")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[core]\nworktree = "+expectedWorkTree+"\n"), 0o644))

	e := env.NewFromKVList([]string{"GIT_CONFIG=" + cfgPath})
	out, err := LoadConfig(e, LoadOptions{GitDirPath: gitDir})
	require.NoError(t, err)

	assert.Equal(t, expectedWorkTree, out.WorkTreePath)
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	t.Run("falls back to the default identity", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

		cfg, err := LoadConfig(env.NewFromKVList(nil), LoadOptions{WorkingDirectory: root})
		require.NoError(t, err)

		id := cfg.Identity(env.NewFromKVList(nil))
		assert.Equal(t, DefaultAuthorName, id.Name)
		assert.Equal(t, DefaultAuthorEmail, id.Email)
	})

	t.Run("env overrides gitconfig", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		gitDir := filepath.Join(root, "git")
		require.NoError(t, os.MkdirAll(gitDir, 0o755))
		cfgPath := filepath.Join(gitDir, "config")
		require.NoError(t, os.WriteFile(cfgPath, []byte("[user]\nname = Ada\nemail = ada@example.com\n"), 0o644))

		e := env.NewFromKVList([]string{
			"GIT_CONFIG=" + cfgPath,
			"GIT_AUTHOR_NAME=Override",
		})
		cfg, err := LoadConfig(e, LoadOptions{GitDirPath: gitDir})
		require.NoError(t, err)

		id := cfg.Identity(e)
		assert.Equal(t, "Override", id.Name)
		assert.Equal(t, "ada@example.com", id.Email)
	})
}

func TestDefaultBranch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	cfg, err := LoadConfig(env.NewFromKVList(nil), LoadOptions{WorkingDirectory: root})
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.DefaultBranch())
}
