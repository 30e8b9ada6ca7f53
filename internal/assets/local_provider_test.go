package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khanghh/photoshare/internal/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderUploadAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	provider, err := NewLocalProvider(filepath.Join(dir, "uploads"), "static/uploads/")
	require.NoError(t, err)

	asset, err := provider.Upload(ctx, strings.NewReader("fake png bytes"), "Cat.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(asset.PublicID, ".png"))
	assert.Equal(t, "/static/uploads/"+asset.PublicID, asset.URL)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", asset.PublicID))
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(data))

	require.NoError(t, provider.Delete(ctx, asset.PublicID))
	_, err = os.Stat(filepath.Join(dir, "uploads", asset.PublicID))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, provider.Delete(ctx, asset.PublicID))
}

func TestLocalProviderRejects(t *testing.T) {
	ctx := context.Background()
	provider, err := NewLocalProvider(t.TempDir(), "/static")
	require.NoError(t, err)

	_, err = provider.Upload(ctx, strings.NewReader("#!/bin/sh"), "run.sh")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = provider.Upload(ctx, strings.NewReader(""), "empty.jpg")
	assert.ErrorIs(t, err, images.ErrEmptyFile)

	assert.Error(t, provider.Delete(ctx, "../etc/passwd"))
	assert.Error(t, provider.Delete(ctx, ""))
}
