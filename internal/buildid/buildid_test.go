package buildid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "digits in middle", file: "Game_1234.exe", want: "1234"},
		{name: "no digit run", file: "GameBeta.exe", want: "GameBeta.exe"},
		{name: "short run ignored", file: "Game_123.exe", want: "Game_123.exe"},
		{name: "first run wins", file: "2024_build_9999.exe", want: "2024"},
		{name: "extracted section file", file: "Game_5678.exe.text", want: "5678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.file))
		})
	}
}

func TestSortKey(t *testing.T) {
	assert.Equal(t, 1234, SortKey("1234"))
	assert.Equal(t, 0, SortKey("GameBeta.exe"))
	assert.Equal(t, 0, SortKey(""))
}
