package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_FilesDirsAndGlobs(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "Biology_2e.txt", "cells.")
	md := writeFile(t, dir, "notes.md", "notes.")
	writeFile(t, dir, "ignored.docx", "binary")

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	nested := writeFile(t, sub, "Chemistry_2e.txt", "bonds.")

	files, err := Resolve([]string{txt})
	require.NoError(t, err)
	assert.Equal(t, []string{txt}, files)

	files, err = Resolve([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{txt, md, nested}, files)

	files, err = Resolve([]string{filepath.Join(dir, "*.md")})
	require.NoError(t, err)
	assert.Equal(t, []string{md}, files)
}

func TestResolve_MissingPathIsAnError(t *testing.T) {
	_, err := Resolve([]string{filepath.Join(t.TempDir(), "nope.txt")})
	assert.Error(t, err)
}

func TestLoad_TextFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Biology_2e.txt", "The cell membrane.\n\n\n\n\nIt is a lipid bilayer. [3]")

	document, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Biology_2e", document.Source)
	assert.Equal(t, "biology", document.Subject)
	assert.Equal(t, "Biology_2e.txt", document.Filename)
	assert.Equal(t, "The cell membrane.\n\nIt is a lipid bilayer.", document.Text,
		"raw text is cleaned on load")
}

func TestLoad_UnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "slides.pptx", "not text")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAll_PreservesOrderAndCountsFailures(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a_Physics.txt", "first."),
		filepath.Join(dir, "missing.txt"),
		writeFile(t, dir, "b_Biology.txt", "second."),
		writeFile(t, dir, "c_Chemistry.txt", "third."),
	}

	docs, failed := LoadAll(context.Background(), paths, 3)
	assert.Equal(t, 1, failed)
	require.Len(t, docs, 3)
	assert.Equal(t, "first.", docs[0].Text)
	assert.Equal(t, "second.", docs[1].Text)
	assert.Equal(t, "third.", docs[2].Text)
}

func TestLoadAll_EmptyInput(t *testing.T) {
	docs, failed := LoadAll(context.Background(), nil, 4)
	assert.Nil(t, docs)
	assert.Equal(t, 0, failed)
}

func TestLoadAll_CanceledContextStopsEarly(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 8; i++ {
		paths = append(paths, writeFile(t, dir, filepath.Base(dir)+string(rune('a'+i))+".txt", "text."))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// dispatch may race the cancellation, but every path is accounted for
	docs, failed := LoadAll(ctx, paths, 2)
	assert.Equal(t, len(paths), len(docs)+failed)
}
