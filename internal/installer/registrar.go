package installer

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"grok-search-installer/internal/logger"
)

const (
	// ToolID is the fixed identifier the binary is registered under in the
	// host CLI.
	ToolID = "grok-search"

	// hostCommand is the external host CLI used for MCP registration.
	hostCommand = "claude"

	// Environment variables the registered server process requires.
	apiURLVar = "GROK_API_URL"
	apiKeyVar = "GROK_API_KEY"
)

// Registration is the payload the host CLI stores for a stdio MCP server:
// the launch command plus the environment it needs.
type Registration struct {
	Type    string            `json:"type"`
	Command string            `json:"command"`
	Env     map[string]string `json:"env"`
}

// NewRegistration builds the stdio registration for an installed binary.
func NewRegistration(installPath, apiURL, apiKey string) Registration {
	return Registration{
		Type:    "stdio",
		Command: installPath,
		Env: map[string]string{
			apiURLVar: apiURL,
			apiKeyVar: apiKey,
		},
	}
}

// ExternalRegistrar abstracts the host CLI the binary is registered with.
// The installer treats registration as write-only idempotent-replace: always
// deregister first (tolerating "did not exist"), then register.
type ExternalRegistrar interface {
	// IsAvailable reports whether the host CLI is callable at all.
	IsAvailable() bool
	// Register adds the registration under the given identifier. A failure
	// carries the host's own error text.
	Register(id string, reg Registration) error
	// Deregister removes any registration under the identifier. Callers
	// ignore "not found" style failures.
	Deregister(id string) error
}

// ClaudeRegistrar registers the binary with the Claude CLI by shelling out to
// its `mcp` subcommands. The CLI's argument and JSON schema is an external
// interface this installer depends on without controlling.
type ClaudeRegistrar struct{}

// IsAvailable probes the CLI with a lightweight version call.
func (ClaudeRegistrar) IsAvailable() bool {
	err := exec.Command(hostCommand, "--version").Run()
	if err != nil {
		logger.Debug("[DEBUG] Host CLI probe failed: %v\n", err)
	}
	return err == nil
}

// Register runs `claude mcp add-json <id> --scope user <payload>`.
func (ClaudeRegistrar) Register(id string, reg Registration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to encode registration payload: %w", err)
	}

	cmd := exec.Command(hostCommand, "mcp", "add-json", id, "--scope", "user", string(payload))
	logger.Debug("[DEBUG] Running command: %s mcp add-json %s --scope user <payload>\n", hostCommand, id)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Surface the host's own failure text verbatim.
		return fmt.Errorf("%s registration failed: %s", hostCommand, strings.TrimSpace(string(output)))
	}
	return nil
}

// Deregister runs `claude mcp remove <id> --scope user`.
func (ClaudeRegistrar) Deregister(id string) error {
	cmd := exec.Command(hostCommand, "mcp", "remove", id, "--scope", "user")
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s deregistration failed: %s", hostCommand, strings.TrimSpace(string(output)))
	}
	return nil
}

// ManualRegistrationCommand is the literal command line printed when the host
// CLI is not installed, so the user can register the server by hand later.
func ManualRegistrationCommand(installPath string) string {
	reg := NewRegistration(installPath, "your-url", "your-key")
	payload, _ := json.Marshal(reg)
	return fmt.Sprintf("%s mcp add-json %s --scope user '%s'", hostCommand, ToolID, payload)
}
