package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestWriteCSV(t *testing.T) {
	header := []string{"id", "name"}
	rows := [][]string{
		{"1", "Proyektor"},
		{"2", "Kabel, HDMI"},
	}

	t.Run("utf-8 with BOM", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, header, rows, ""); err != nil {
			t.Fatalf("write: %v", err)
		}
		out := buf.Bytes()
		if !bytes.HasPrefix(out, utf8BOM) {
			t.Fatal("expected UTF-8 BOM prefix")
		}

		r := csv.NewReader(bytes.NewReader(out[len(utf8BOM):]))
		records, err := r.ReadAll()
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(records))
		}
		if records[2][1] != "Kabel, HDMI" {
			t.Fatalf("comma not quoted correctly: %q", records[2][1])
		}
	})

	t.Run("windows-1252", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteCSV(&buf, []string{"name"}, [][]string{{"Café"}}, "windows-1252")
		if err != nil {
			t.Fatalf("write: %v", err)
		}
		if bytes.HasPrefix(buf.Bytes(), utf8BOM) {
			t.Fatal("legacy encoding must not carry a BOM")
		}
		// é is a single 0xE9 byte in windows-1252
		if !bytes.Contains(buf.Bytes(), []byte{0xE9}) {
			t.Fatalf("expected windows-1252 bytes, got %x", buf.Bytes())
		}

		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), buf.Bytes())
		if err != nil {
			t.Fatalf("decode back: %v", err)
		}
		if !strings.Contains(string(decoded), "Café") {
			t.Fatalf("round trip failed: %q", decoded)
		}
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteCSV(&buf, header, rows, "koi8-r")
		if err == nil || !strings.Contains(err.Error(), "unsupported encoding") {
			t.Fatalf("expected unsupported encoding error, got %v", err)
		}
		if buf.Len() != 0 {
			t.Fatal("nothing should be written on error")
		}
	})

	t.Run("empty rows still writes header", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, header, nil, "utf-8"); err != nil {
			t.Fatalf("write: %v", err)
		}
		r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), utf8BOM)))
		records, err := r.ReadAll()
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if len(records) != 1 || records[0][0] != "id" {
			t.Fatalf("expected header only, got %v", records)
		}
	})
}
