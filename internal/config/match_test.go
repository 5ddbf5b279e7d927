package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesAssociations(t *testing.T) {
	cmd := CommandSpec{Associations: "**/*.rs"}

	assert.True(t, cmd.MatchesAssociations("src/main.rs"))
	assert.True(t, cmd.MatchesAssociations("deep/nested/dir/lib.rs"))
	assert.False(t, cmd.MatchesAssociations("src/main.go"))

	none := CommandSpec{}
	assert.False(t, none.MatchesAssociations("src/main.rs"))
}

func TestMatchesExtsOrFileNames(t *testing.T) {
	cmd := CommandSpec{
		Exts:      []string{".txt"},
		FileNames: []string{"makefile"},
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "extension match", path: "notes.txt", want: true},
		{name: "extension match in directory", path: "a/b/notes.txt", want: true},
		{name: "case-normalized extension", path: "NOTES.TXT", want: true},
		{name: "file name match", path: "src/Makefile", want: true},
		{name: "no match", path: "main.go", want: false},
		{name: "suffix is not the whole name", path: "txt", want: false},
		{name: "no file name segment", path: "/", want: false},
		{name: "dot path", path: ".", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cmd.MatchesExtsOrFileNames(tt.path), "path %q", tt.path)
		})
	}
}
