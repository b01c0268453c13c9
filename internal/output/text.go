package output

// TextFormatter formats results as one path per line, with optional
// color and directory marking.
type TextFormatter struct {
	styles   Styles
	useColor bool
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(styles Styles, useColor bool) *TextFormatter {
	return &TextFormatter{styles: styles, useColor: useColor}
}

func (f *TextFormatter) Format(buf []byte, result Result) []byte {
	if result.Err != nil {
		return buf
	}
	if f.useColor && result.IsDir {
		buf = append(buf, f.styles.Dir.Render(result.Path)...)
	} else if f.useColor {
		buf = append(buf, f.styles.File.Render(result.Path)...)
	} else {
		buf = append(buf, result.Path...)
	}
	buf = append(buf, '\n')
	return buf
}

var _ Formatter = (*TextFormatter)(nil)
