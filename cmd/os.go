package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/arfbllh/mdq/run"
)

var errorStyle = color.New(color.FgRed, color.Bold)

// systemOS performs a run's I/O on the process streams and file system.
type systemOS struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (s *systemOS) ReadStdin() (string, error) {
	data, err := io.ReadAll(s.stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *systemOS) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *systemOS) Stdout() io.Writer {
	return s.stdout
}

func (s *systemOS) WriteError(err *run.Error) {
	errorStyle.Fprint(s.stderr, "error: ")
	fmt.Fprintln(s.stderr, err)
}
