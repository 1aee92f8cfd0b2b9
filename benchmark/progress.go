package benchmark

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

const (
	progressDoneRune    = "█"
	progressPendingRune = "▒"
	defaultTermWidth    = 80
)

func clearCurrentTerminalLine(w io.Writer) {
	w.Write([]byte("\r\033[K"))
}

func printProgressLine(w io.Writer, line string, progress float64, eta time.Duration) {
	terminalWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		terminalWidth = defaultTermWidth
	}
	fmt.Fprintf(w, "%s %s ETA %s", line, progressBar(terminalWidth-len(line)-2-12, progress), formatETA(eta))
}

func progressBar(width int, progress float64) string {
	if width < 0 {
		width = 0
	}
	done := int(progress * float64(width))
	if done > width {
		done = width
	}
	return strings.Repeat(progressDoneRune, done) + strings.Repeat(progressPendingRune, width-done)
}

func formatETA(eta time.Duration) string {
	secs := int64(eta.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
