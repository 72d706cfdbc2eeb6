package output

import (
	"io"
	"strings"

	"github.com/arfbllh/mdq/mdelem"
)

// PlainWriter writes the text content of each node on its own lines, with
// all Markdown syntax removed.
type PlainWriter struct{}

func (PlainWriter) Write(out io.Writer, nodes []mdelem.Node) error {
	var sb strings.Builder
	for _, n := range nodes {
		text := mdelem.PlainText(n)
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(out, sb.String())
	return err
}
