// Package mdelem is the Markdown document model that selectors run against.
//
// Parse turns Markdown source into a Doc: a forest of typed nodes in which
// headings own the content that follows them, plus the link and footnote
// definitions that reference-style nodes point at. Nodes are plain structs
// behind the Node interface; type switches over them are the normal way to
// inspect a tree.
package mdelem
