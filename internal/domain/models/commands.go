package models

import "strings"

// CommandType enumerates analytics commands supported over WhatsApp.
type CommandType string

const (
	CommandSummary    CommandType = "summary"
	CommandTrending   CommandType = "trending"
	CommandStock      CommandType = "stock"
	CommandDaily      CommandType = "daily"
	CommandShops      CommandType = "shops"
	CommandCategories CommandType = "categories"
	CommandReport     CommandType = "report"
	CommandHelp       CommandType = "help"
	CommandUnknown    CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))

	if normalized == "" {
		return Command{Type: CommandUnknown, Raw: message}
	}

	tokens := strings.Fields(normalized)
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.TrimPrefix(tokens[0], "/")
	switch head {
	case string(CommandSummary):
		cmd.Type = CommandSummary
	case string(CommandTrending):
		cmd.Type = CommandTrending
	case string(CommandStock):
		cmd.Type = CommandStock
	case string(CommandDaily):
		cmd.Type = CommandDaily
	case string(CommandShops):
		cmd.Type = CommandShops
	case string(CommandCategories):
		cmd.Type = CommandCategories
	case string(CommandReport):
		cmd.Type = CommandReport
	case string(CommandHelp):
		cmd.Type = CommandHelp
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
