// Package output renders selected Markdown nodes as Markdown, JSON or plain
// text.
package output
