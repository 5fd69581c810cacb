package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallenge_DefaultsWhenMissing(t *testing.T) {
	content := NewContentService(t.TempDir())

	challenge, err := content.Challenge()
	require.NoError(t, err)
	assert.Equal(t, "Step Challenge", challenge.Title)
	assert.Empty(t, challenge.Logo)
	assert.NotEmpty(t, challenge.Intro)
}

func TestChallenge_ReadsFrontmatter(t *testing.T) {
	dir := t.TempDir()
	page := "---\ntitle: Spring Walk-Off\nlogo: /uploads/logo.png\n---\n\nHit the goal every day.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "challenge.md"), []byte(page), 0644))

	challenge, err := NewContentService(dir).Challenge()
	require.NoError(t, err)
	assert.Equal(t, "Spring Walk-Off", challenge.Title)
	assert.Equal(t, "/uploads/logo.png", challenge.Logo)
	assert.Contains(t, string(challenge.Intro), "Hit the goal every day.")
}

func TestChallenge_TitleFromFileName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "challenge.md"), []byte("Walk."), 0644))

	challenge, err := NewContentService(dir).Challenge()
	require.NoError(t, err)
	assert.Equal(t, "Challenge", challenge.Title)
}
