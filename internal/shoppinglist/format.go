package shoppinglist

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	Filename    = "shopping_list.txt"
	ContentType = "text/plain"

	header          = "== Ваш список покупок ==\n"
	timestampFormat = "02-01-2006 15:04"
)

// Format renders the aggregated lines as the downloadable text document.
func Format(lines []Line, now time.Time) string {
	rows := make([]string, 0, len(lines)+2)
	rows = append(rows, header)
	for _, line := range lines {
		rows = append(rows, fmt.Sprintf("%-20s %-10s %5d", line.Name, "("+line.MeasurementUnit+")", line.Amount))
	}
	rows = append(rows, "Список создан: "+now.Format(timestampFormat))
	return strings.Join(rows, "\n")
}

func Render(w io.Writer, lines []Line, now time.Time) error {
	_, err := io.WriteString(w, Format(lines, now))
	return err
}
