package output

import (
	"bytes"
	"testing"
)

type volume struct {
	Filename string `json:"filename" yaml:"filename"`
	Number   int    `json:"number" yaml:"number"`
}

func (v volume) Text() string { return v.Filename + "\n" }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	v := volume{Filename: "volume1_manifest.json", Number: 1}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "volume1_manifest.json\n"},
		{FormatJSON, "{\n  \"filename\": \"volume1_manifest.json\",\n  \"number\": 1\n}\n"},
		{FormatYAML, "filename: volume1_manifest.json\nnumber: 1\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tt.format, v); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Write = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWrite_TextFallback(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, 42); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "42\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Format("xml"), 1); err == nil {
		t.Error("expected error")
	}
}
