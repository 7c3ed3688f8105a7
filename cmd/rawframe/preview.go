package main

import (
	"bufio"
	"image"
	"io"
	"os"

	"golang.org/x/term"
)

// ramp orders characters from dark to bright.
const ramp = " .:-=+*#%@"

const defaultColumns = 80

// terminalWidth returns the stdout column count, or defaultColumns when
// stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultColumns
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultColumns
	}
	return w
}

// writePreview renders img as ASCII art at most cols wide. Rows are halved
// because terminal cells are about twice as tall as they are wide.
func writePreview(w io.Writer, img *image.Gray, cols int) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	cols = min(cols, b.Dx())
	rows := max(b.Dy()*cols/b.Dx()/2, 1)

	bw := bufio.NewWriter(w)
	line := make([]byte, cols+1)
	line[cols] = '\n'
	for r := 0; r < rows; r++ {
		y := b.Min.Y + r*b.Dy()/rows
		for c := 0; c < cols; c++ {
			x := b.Min.X + c*b.Dx()/cols
			v := int(img.GrayAt(x, y).Y)
			line[c] = ramp[v*(len(ramp)-1)/255]
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
