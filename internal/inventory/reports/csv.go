package reports

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// utf8BOM keeps spreadsheet tools from mangling non-ASCII names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV renders header+rows to w in the requested encoding. Supported
// encodings: "" / "utf-8" (BOM prefixed) and "windows-1252" for legacy
// spreadsheet imports.
func WriteCSV(w io.Writer, header []string, rows [][]string, encoding string) error {
	var out io.Writer
	switch encoding {
	case "", "utf-8", "utf8":
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
		out = w
	case "windows-1252":
		tw := transform.NewWriter(w, charmap.Windows1252.NewEncoder())
		defer tw.Close()
		out = tw
	default:
		return fmt.Errorf("unsupported encoding %q", encoding)
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
