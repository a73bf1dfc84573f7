package output

import (
	"fmt"
	"io"

	md "github.com/nao1215/markdown"
)

// Section is a titled table inside a Report.
type Section struct {
	Title string
	Data  Data
}

// Report is a document made of an intro line and titled tables. The table
// formatter prints every section in turn; the markdown formatter renders a
// full document.
type Report struct {
	Title    string
	Intro    string
	Sections []Section
}

// MarkdownFormatter outputs markdown.
type MarkdownFormatter struct{}

// Format renders a Report as a document and any Data or struct value as a
// single markdown table.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	builder := md.NewMarkdown(w)

	switch v := data.(type) {
	case Report:
		builder.H1(v.Title).LF()
		if v.Intro != "" {
			builder.PlainText(v.Intro).LF().LF()
		}
		for _, s := range v.Sections {
			builder.H2(s.Title).LF()
			builder.Table(tableSet(s.Data)).LF()
		}
	case Data:
		builder.Table(tableSet(v))
	default:
		converted := (&TableFormatter{}).convertToTableData(data)
		if converted == nil {
			return fmt.Errorf("markdown output is not supported for %T", data)
		}
		builder.Table(tableSet(*converted))
	}

	return builder.Build()
}

func tableSet(d Data) md.TableSet {
	return md.TableSet{
		Header: d.Headers,
		Rows:   d.Rows,
	}
}
