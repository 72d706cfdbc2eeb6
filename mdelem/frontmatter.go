package mdelem

import "strings"

// splitFrontMatter removes a leading "---" (YAML) or "+++" (TOML) block from
// src. The fences must be alone on their lines and the block must be closed.
func splitFrontMatter(src string) (*FrontMatter, string) {
	var variant FrontMatterVariant
	var fence string
	switch {
	case hasFenceLine(src, "---"):
		variant, fence = FrontMatterYAML, "---"
	case hasFenceLine(src, "+++"):
		variant, fence = FrontMatterTOML, "+++"
	default:
		return nil, src
	}

	rest := src[strings.IndexByte(src, '\n')+1:]
	offset := 0
	for offset <= len(rest) {
		line := rest[offset:]
		next := len(rest)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = offset + i + 1
		}
		if strings.TrimRight(line, " \t\r") == fence {
			body := strings.TrimSuffix(rest[:offset], "\n")
			body = strings.TrimSuffix(body, "\r")
			return &FrontMatter{Variant: variant, Body: body}, rest[next:]
		}
		if next == len(rest) {
			break
		}
		offset = next
	}
	return nil, src
}

func hasFenceLine(src, fence string) bool {
	first, _, found := strings.Cut(src, "\n")
	return found && strings.TrimRight(first, " \t\r") == fence
}
