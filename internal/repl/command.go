package repl

import (
	"strings"

	"github.com/arfbllh/mdq/output"
)

// CommandKind identifies a REPL command.
type CommandKind int

const (
	CmdQuery CommandKind = iota
	CmdLoad
	CmdReload
	CmdFormat
	CmdSet
	CmdGet
	CmdVariables
	CmdHelp
	CmdInfo
	CmdClear
	CmdExit
	CmdUnknown
)

// Command is one parsed input line. Text holds the query, the file to load,
// the variable name, or the unrecognized input; Value holds a variable's
// value.
type Command struct {
	Kind   CommandKind
	Text   string
	Value  string
	Format output.Format
}

// ParseCommand interprets a line. Lines starting with "." are commands;
// anything else is a query.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	unknown := Command{Kind: CmdUnknown, Text: line}

	rest, isCommand := strings.CutPrefix(line, ".")
	if !isCommand {
		if line == "" {
			return unknown
		}
		return Command{Kind: CmdQuery, Text: line}
	}

	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return unknown
	}

	switch parts[0] {
	case "load":
		if len(parts) == 2 {
			return Command{Kind: CmdLoad, Text: parts[1]}
		}
	case "reload":
		return Command{Kind: CmdReload}
	case "format":
		if len(parts) == 2 {
			if f, err := output.ParseFormat(parts[1]); err == nil {
				return Command{Kind: CmdFormat, Format: f}
			}
		}
	case "set":
		if len(parts) >= 3 {
			return Command{Kind: CmdSet, Text: parts[1], Value: strings.Join(parts[2:], " ")}
		}
	case "get":
		if len(parts) == 2 {
			return Command{Kind: CmdGet, Text: parts[1]}
		}
	case "vars", "variables":
		return Command{Kind: CmdVariables}
	case "help":
		return Command{Kind: CmdHelp}
	case "info":
		return Command{Kind: CmdInfo}
	case "clear":
		return Command{Kind: CmdClear}
	case "exit", "quit":
		return Command{Kind: CmdExit}
	}
	return unknown
}
