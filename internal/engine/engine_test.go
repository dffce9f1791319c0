package engine

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaniGP17/PatternV/internal/pattern"
	"github.com/DaniGP17/PatternV/internal/types"
)

// writePE writes a minimal PE image whose .text section holds body at file
// offset 0x1000.
func writePE(t *testing.T, path string, body []byte) {
	t.Helper()
	const (
		peOff   = 0x80
		optSize = 0xE0
		textOff = 0x1000
	)
	buf := make([]byte, textOff+len(body))
	binary.LittleEndian.PutUint16(buf[0:], 0x5A4D)
	binary.LittleEndian.PutUint32(buf[0x3C:], peOff)
	binary.LittleEndian.PutUint32(buf[peOff:], 0x00004550)
	binary.LittleEndian.PutUint16(buf[peOff+6:], 1)
	binary.LittleEndian.PutUint16(buf[peOff+20:], optSize)
	rec := peOff + 24 + optSize
	copy(buf[rec:], ".text")
	binary.LittleEndian.PutUint32(buf[rec+16:], uint32(len(body)))
	binary.LittleEndian.PutUint32(buf[rec+20:], textOff)
	copy(buf[textOff:], body)
	require.NoError(t, os.WriteFile(path, buf, 0644))
}

func mustCompile(t *testing.T, text string) pattern.Pattern {
	t.Helper()
	pat, warnings := pattern.Compile(text)
	require.Empty(t, warnings)
	require.NotEmpty(t, pat)
	return pat
}

func TestScan_MixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	writePE(t, filepath.Join(dir, "Game_1000.exe"), []byte{0x90, 0xAA, 0xBB, 0xCC, 0x90})
	writePE(t, filepath.Join(dir, "Game_1001.exe"), []byte{0x90, 0x90, 0x90})
	// Not a PE at all, but carries the candidate extension.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Game_1002.exe"), []byte("junk"), 0644))

	rep, err := Scan(Config{Root: dir}, mustCompile(t, "AA ?? CC"))
	require.NoError(t, err)
	require.Len(t, rep.Results, 3)

	assert.Equal(t, types.StatusFound, rep.Results[0].Status)
	assert.Equal(t, "1000", rep.Results[0].Label)
	assert.Equal(t, []int{1}, rep.Results[0].Offsets)

	assert.Equal(t, types.StatusNotFound, rep.Results[1].Status)
	assert.Equal(t, types.StatusSkipped, rep.Results[2].Status)
	assert.NotEmpty(t, rep.Results[2].Reason)

	assert.False(t, rep.AllMatched, "a not-found outcome must clear AllMatched")
	assert.Equal(t, 3, rep.FilesScanned)
}

func TestScan_SkippedDoesNotClearAllMatched(t *testing.T) {
	dir := t.TempDir()
	writePE(t, filepath.Join(dir, "Game_1000.exe"), []byte{0xAA, 0xBB})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.exe"), []byte("MZ"), 0644))

	rep, err := Scan(Config{Root: dir}, mustCompile(t, "AA"))
	require.NoError(t, err)
	assert.True(t, rep.AllMatched)
}

func TestScan_SortedByBuildID(t *testing.T) {
	dir := t.TempDir()
	body := []byte{0xAA}
	writePE(t, filepath.Join(dir, "Game_3000.exe"), body)
	writePE(t, filepath.Join(dir, "Game_1000.exe"), body)
	writePE(t, filepath.Join(dir, "GameBeta.exe"), body) // sorts as build 0
	writePE(t, filepath.Join(dir, "Game_2000.exe"), body)

	rep, err := Scan(Config{Root: dir}, mustCompile(t, "AA"))
	require.NoError(t, err)
	var labels []string
	for _, r := range rep.Results {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"GameBeta.exe", "1000", "2000", "3000"}, labels)
}

func TestScan_DeterministicAcrossThreadCounts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Game_1000.exe", "Game_1001.exe", "Game_1002.exe", "Game_1003.exe"} {
		writePE(t, filepath.Join(dir, name), []byte{0x11, 0x22, 0x11, 0x22})
	}
	pat := mustCompile(t, "11 22")

	one, err := Scan(Config{Root: dir, Threads: 1}, pat)
	require.NoError(t, err)
	many, err := Scan(Config{Root: dir, Threads: 8}, pat)
	require.NoError(t, err)
	assert.Equal(t, one.Results, many.Results)
}

func TestScan_RawSectionFileSearchedWhole(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Game_1000.exe.text"), []byte{0xAA, 0x00, 0xCC}, 0644))

	rep, err := Scan(Config{Root: dir}, mustCompile(t, "AA ?? CC"))
	require.NoError(t, err)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, types.StatusFound, rep.Results[0].Status)
	assert.Equal(t, []int{0}, rep.Results[0].Offsets)
}

func TestScan_EmptyPattern(t *testing.T) {
	pat, _ := pattern.Compile("GG")
	_, err := Scan(Config{Root: t.TempDir()}, pat)
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestScan_BadDirectory(t *testing.T) {
	_, err := Scan(Config{Root: filepath.Join(t.TempDir(), "missing")}, mustCompile(t, "AA"))
	assert.Error(t, err)
}

func TestScan_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writePE(t, filepath.Join(dir, "Game_1000.exe"), []byte{0xAA, 0xAA, 0xAA})
	pat := mustCompile(t, "AA AA")

	first, err := Scan(Config{Root: dir}, pat)
	require.NoError(t, err)
	second, err := Scan(Config{Root: dir}, pat)
	require.NoError(t, err)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.AllMatched, second.AllMatched)
}

func TestScan_SectionCachePersisted(t *testing.T) {
	dir := t.TempDir()
	writePE(t, filepath.Join(dir, "Game_1000.exe"), []byte{0xAA})
	pat := mustCompile(t, "AA")

	_, err := Scan(Config{Root: dir}, pat)
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, ".patternv_cache.json"))
	assert.NoError(t, statErr, "cache file should be written after a scan")

	// The cache file itself must not disturb later scans.
	rep, err := Scan(Config{Root: dir}, pat)
	require.NoError(t, err)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, types.StatusFound, rep.Results[0].Status)
}

func TestScan_NoCache(t *testing.T) {
	dir := t.TempDir()
	writePE(t, filepath.Join(dir, "Game_1000.exe"), []byte{0xAA})

	_, err := Scan(Config{Root: dir, NoCache: true}, mustCompile(t, "AA"))
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, ".patternv_cache.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestScan_ProgressCalledPerFile(t *testing.T) {
	dir := t.TempDir()
	writePE(t, filepath.Join(dir, "Game_1000.exe"), []byte{0xAA})
	writePE(t, filepath.Join(dir, "Game_1001.exe"), []byte{0xAA})

	ticks := make(chan struct{}, 16)
	_, err := Scan(Config{Root: dir, Progress: func() { ticks <- struct{}{} }}, mustCompile(t, "AA"))
	require.NoError(t, err)
	assert.Len(t, ticks, 2)
}
