package commands

import (
	"strings"

	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

const commandModuleRoot = "writing.commands"

// CommandLogger scopes a logger to writing.commands.<module>. Entries carry
// component=command and command_module so command output can be filtered as a group.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := commandModuleName(module)
	return logging.WithFields(
		logging.ModuleLogger(provider, commandModuleRoot+"."+name),
		map[string]any{"component": "command", "command_module": name},
	)
}

func commandModuleName(module string) string {
	name := strings.ToLower(strings.TrimSpace(module))
	if name == "" {
		return "core"
	}
	return strings.Join(strings.Fields(name), "_")
}
