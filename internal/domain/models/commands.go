package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandConsumption CommandType = "consumo"
	CommandInventory   CommandType = "inventario"
	CommandUnmapped    CommandType = "skus"
	CommandHelp        CommandType = "ayuda"
	CommandUnknown     CommandType = "unknown"
)

// Command represents a parsed operator instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// IsSlashCommand reports whether the text is written as an explicit /command.
func IsSlashCommand(message string) bool {
	return strings.HasPrefix(strings.TrimSpace(message), "/")
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return Command{Type: CommandUnknown, Raw: message}
	}

	cmd := Command{Raw: message}

	switch head := strings.TrimPrefix(tokens[0], "/"); head {
	case string(CommandConsumption):
		cmd.Type = CommandConsumption
	case string(CommandInventory), "stock":
		cmd.Type = CommandInventory
	case string(CommandUnmapped), "sin-mapa":
		cmd.Type = CommandUnmapped
	case string(CommandHelp), "help":
		cmd.Type = CommandHelp
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
