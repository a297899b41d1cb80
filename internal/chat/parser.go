package chat

import "strings"

// ParseResult holds the parsed command name and arguments from a chat line.
type ParseResult struct {
	// Command is the first word of the input without its slash, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command.
	RawArgs string
}

// IsCommand reports whether line is addressed to the command handler.
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}

// Parse splits a chat line into a command and arguments. A leading slash
// is optional.
//
// Postcondition: Returns a ParseResult. If line is empty, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return ParseResult{}
	}

	spaceIdx := strings.IndexAny(line, " \t")
	if spaceIdx < 0 {
		return ParseResult{Command: strings.ToLower(line)}
	}

	rest := strings.TrimSpace(line[spaceIdx+1:])
	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}
	return ParseResult{
		Command: strings.ToLower(line[:spaceIdx]),
		Args:    args,
		RawArgs: rest,
	}
}
