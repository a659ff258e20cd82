package cli

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/whiscribe/whiscribe/internal/prefs"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// look of rendered tables
type tableTheme struct {
	colorize bool
	dark     bool
}

// terminal output is colored according to the saved display preference
func themeFor(writer io.Writer) tableTheme {
	theme := tableTheme{colorize: shouldColorize(writer)}
	if !theme.colorize || cfg == nil {
		return theme
	}
	dark, _, err := prefs.Open(cfg.Paths.StateDir).DarkMode()
	if err != nil {
		logger.Debugw("Could not read display preference", "error", err)
		return theme
	}
	theme.dark = dark
	return theme
}

func (t tableTheme) style() table.Style {
	switch {
	case !t.colorize:
		return table.StyleRounded
	case t.dark:
		return table.StyleColoredDark
	default:
		return table.StyleColoredBright
	}
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, theme tableTheme) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(theme.style())

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
