// Package tmpl renders command argument templates against a fixed set of
// variables. Rendering is strict: an argument that references a name
// outside the schema fails instead of substituting a blank.
package tmpl

import (
	"fmt"
	"strings"
	"text/template"
)

// Variables is the full set of names available to argument templates.
// The set may grow, but removing a name is a breaking change for
// existing configurations.
type Variables struct {
	FilePath    string
	LineWidth   uint32
	UseTabs     bool
	IndentWidth uint8
	Cwd         string
	Timeout     uint32
}

func (v Variables) toMap() map[string]any {
	return map[string]any{
		"file_path":    v.FilePath,
		"line_width":   v.LineWidth,
		"use_tabs":     v.UseTabs,
		"indent_width": v.IndentWidth,
		"cwd":          v.Cwd,
		"timeout":      v.Timeout,
	}
}

// RenderError reports an argument template that could not be rendered.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot render argument %q: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Render substitutes variables into a single argument template.
func Render(arg string, vars Variables) (string, error) {
	t, err := template.New("arg").Option("missingkey=error").Parse(arg)
	if err != nil {
		return "", &RenderError{Template: arg, Err: err}
	}

	var sb strings.Builder
	if err := t.Execute(&sb, vars.toMap()); err != nil {
		return "", &RenderError{Template: arg, Err: err}
	}
	return sb.String(), nil
}

// Validate checks an argument template without keeping its output. It
// runs at configuration-resolution time so that broken templates show up
// as diagnostics rather than as failures mid-format.
func Validate(arg string) error {
	_, err := Render(arg, Variables{})
	return err
}
