package tmpl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	vars := Variables{
		FilePath:    "/work/src/main.rs",
		LineWidth:   120,
		UseTabs:     false,
		IndentWidth: 2,
		Cwd:         "/work",
		Timeout:     30,
	}

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{
			name: "plain argument passes through",
			arg:  "--edition=2021",
			want: "--edition=2021",
		},
		{
			name: "file path",
			arg:  "{{.file_path}}",
			want: "/work/src/main.rs",
		},
		{
			name: "numeric preference",
			arg:  "--line-width={{.line_width}}",
			want: "--line-width=120",
		},
		{
			name: "bool flag",
			arg:  "--use-tabs={{.use_tabs}}",
			want: "--use-tabs=false",
		},
		{
			name: "multiple variables in one argument",
			arg:  "{{.cwd}}:{{.indent_width}}:{{.timeout}}",
			want: "/work:2:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.arg, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	vars := Variables{FilePath: "a.txt", LineWidth: 80}
	first, err := Render("{{.file_path}}-{{.line_width}}", vars)
	require.NoError(t, err)
	second, err := Render("{{.file_path}}-{{.line_width}}", vars)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderUnknownVariable(t *testing.T) {
	_, err := Render("{{.file_paht}}", Variables{FilePath: "a.txt"})
	require.Error(t, err)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "{{.file_paht}}", renderErr.Template)
}

func TestRenderBadSyntax(t *testing.T) {
	_, err := Render("{{.file_path", Variables{})
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("{{.file_path}}"))
	assert.NoError(t, Validate("plain"))
	assert.Error(t, Validate("{{.unknown_name}}"))
	assert.Error(t, Validate("{{.broken"))
}
