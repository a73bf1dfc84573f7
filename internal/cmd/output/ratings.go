package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/ratings"
)

// EntriesToTableData converts view entries to table rows. Wide output adds
// the full identifier column.
func EntriesToTableData(entries []imagerater.ViewEntry, wide bool) Data {
	headers := []string{"#", "NAME", "STARS", "RATING"}
	align := []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "ID")
		align = append(align, AlignLeft)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		stars := ""
		if e.Rated() {
			stars = e.Rating.Stars()
		}
		row := []string{
			strconv.Itoa(e.Index + 1),
			e.Name,
			stars,
			e.Label(),
		}
		if wide {
			row = append(row, e.ID)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// CountsToTableData converts aggregate counts to a bucket/count table.
func CountsToTableData(c filter.Counts) Data {
	rows := [][]string{
		{"Total", strconv.Itoa(c.Total)},
		{"Rated", strconv.Itoa(c.Rated)},
		{"Unrated", strconv.Itoa(c.Unrated)},
	}
	for _, r := range ratings.All() {
		rows = append(rows, []string{r.Stars(), strconv.Itoa(c.ByStars[r])})
	}
	rows = append(rows, []string{"Progress", fmt.Sprintf("%d%%", c.Progress())})

	return Data{
		Headers:         []string{"BUCKET", "COUNT"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// NewRatingsReport builds the export report of every image in list order.
func NewRatingsReport(entries []imagerater.ViewEntry, counts filter.Counts) Report {
	return Report{
		Title: "Image Ratings",
		Intro: fmt.Sprintf("%d of %d images rated (%d%%).", counts.Rated, counts.Total, counts.Progress()),
		Sections: []Section{
			{Title: "Summary", Data: CountsToTableData(counts)},
			{Title: "Ratings", Data: EntriesToTableData(entries, true)},
		},
	}
}

// FormatEntries writes entries in the given format. Table formats get
// rows, structured formats get the entries themselves.
func FormatEntries(w io.Writer, format Format, entries []imagerater.ViewEntry) error {
	formatter := NewFormatter(format)
	switch format {
	case FormatTable, FormatWide, FormatMarkdown, "":
		return formatter.Format(w, EntriesToTableData(entries, format == FormatWide))
	default:
		return formatter.Format(w, entries)
	}
}

// FormatCounts writes aggregate counts in the given format.
func FormatCounts(w io.Writer, format Format, c filter.Counts) error {
	formatter := NewFormatter(format)
	switch format {
	case FormatTable, FormatWide, FormatMarkdown, "":
		return formatter.Format(w, CountsToTableData(c))
	default:
		return formatter.Format(w, struct {
			filter.Counts `yaml:",inline"`
			Progress      int `json:"progress" yaml:"progress"`
		}{c, c.Progress()})
	}
}
