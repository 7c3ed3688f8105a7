package search

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FormatLine renders up to LineWidth bytes as one dump line: an 8-digit
// address, two groups of eight hex bytes, and the printable ASCII column.
// Short lines are padded so the ASCII column stays aligned.
func FormatLine(addr int64, b []byte) string {
	if len(b) > LineWidth {
		b = b[:LineWidth]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%08X  ", addr)
	for i := 0; i < LineWidth; i++ {
		if i == LineWidth/2 {
			sb.WriteByte(' ')
		}
		if i < len(b) {
			fmt.Fprintf(&sb, "%02X ", b[i])
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteByte(' ')
	for _, c := range b {
		if c >= 32 && c <= 126 {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}
	// Pad the ASCII column so every line has the same width.
	for i := len(b); i < LineWidth; i++ {
		sb.WriteByte(' ')
	}
	return sb.String()
}

// Dump writes data as dump lines, addressing the first byte as base.
func Dump(w io.Writer, base int64, data []byte) error {
	bw := bufio.NewWriter(w)
	for off := 0; off < len(data); off += LineWidth {
		end := off + LineWidth
		if end > len(data) {
			end = len(data)
		}
		if _, err := bw.WriteString(FormatLine(base+int64(off), data[off:end])); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
