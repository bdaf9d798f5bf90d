package models

import (
	"strconv"
	"strings"
)

// CommandType enumerates the report queries accepted over WhatsApp.
type CommandType string

const (
	CommandSummary CommandType = "resumen"
	CommandHelp    CommandType = "ayuda"
	CommandUnknown CommandType = "unknown"
)

// Command is a parsed chat query.
type Command struct {
	Type CommandType
	Raw  string
	// Year is the requested year, or zero for the current one.
	Year int
}

// ParseCommand reads "/resumen [year]" and "/ayuda". Anything else, including
// a non numeric year, is CommandUnknown.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.ToLower(message))
	if len(tokens) == 0 || len(tokens) > 2 {
		return cmd
	}

	switch CommandType(strings.TrimPrefix(tokens[0], "/")) {
	case CommandSummary:
		if len(tokens) == 2 {
			year, err := strconv.Atoi(tokens[1])
			if err != nil || year < 1 {
				return cmd
			}
			cmd.Year = year
		}
		cmd.Type = CommandSummary
	case CommandHelp:
		if len(tokens) == 1 {
			cmd.Type = CommandHelp
		}
	}
	return cmd
}
