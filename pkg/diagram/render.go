package diagram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/doppelganger/archviz/pkg/errors"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatJPG = "jpg"
	FormatSVG = "svg"
	FormatDOT = "dot"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]graphviz.Format{
	FormatPNG: graphviz.PNG,
	FormatJPG: graphviz.JPG,
	FormatSVG: graphviz.SVG,
}

// ValidateFormat checks that the requested output format is supported.
func ValidateFormat(format string) error {
	if format == FormatDOT {
		return nil
	}
	if _, ok := validFormats[format]; !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'png', 'jpg', 'svg', or 'dot')", format)
	}
	return nil
}

// Render rasterizes DOT text into the requested format using Graphviz.
// For FormatDOT the DOT text is returned as-is, which is useful for
// debugging a topology without a rendering pass.
func Render(ctx context.Context, dot string, format string) ([]byte, error) {
	if format == FormatDOT {
		return []byte(dot), nil
	}

	gvFormat, ok := validFormats[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
