package sosi

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/net/html/charset"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
	utf8BOM   = []byte{0xef, 0xbb, 0xbf}
)

// tegnsettPattern finds ..TEGNSETT in the raw bytes; the key is ASCII in every
// SOSI character set.
var tegnsettPattern = regexp.MustCompile(`(?m)^\.\.TEGNSETT\s+"?([A-Za-z0-9_-]+)`)

// readSource reads a whole SOSI file. A zstd or gzip stream is recognised by
// its magic bytes and decompressed.
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	data, err = decompress(data)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	return data, nil
}

func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return data, nil
	}
}

// decodeText converts raw SOSI bytes to UTF-8. The character set is taken
// from override when set, else sniffed from ..TEGNSETT. A UTF-8 BOM is
// dropped.
func decodeText(data []byte, override string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	name := override
	if name == "" {
		if m := tegnsettPattern.FindSubmatch(data); m != nil {
			name = string(m[1])
		}
	}

	label := charsetLabel(name)
	if label == "" {
		return string(data), nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// charsetLabel maps a TEGNSETT name to a WHATWG encoding label.
// "" means the text is already UTF-8.
func charsetLabel(tegnsett string) string {
	switch strings.ToUpper(tegnsett) {
	case "ISO8859-1", "ISO-8859-1":
		return "iso-8859-1"
	case "ISO8859-10", "ISO-8859-10":
		return "iso-8859-10"
	case "ANSI", "WINDOWS-1252":
		return "windows-1252"
	default:
		return ""
	}
}

// splitLines splits text into lines with trailing whitespace removed
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r\v\f")
	}
	return lines
}
