package main

import (
	"grok-search-installer/cmd"
)

// main delegates to cmd.Execute(), which owns flag parsing, the interactive
// menu and process exit codes.
//
// grok-search-installer is a release-management client for the
// grok-search-mcp binary (an MCP server developed separately). It:
//   - Resolves the release artifact for the running OS/architecture from a
//     fixed mapping of five supported platforms
//   - Fetches latest-release metadata from the GitHub API and streams the
//     matching binary to a per-OS user-local install directory
//   - Derives the installed version by probing the binary itself; nothing is
//     persisted by the installer beyond the binary file
//   - Optionally registers the binary with the Claude CLI as a stdio MCP
//     server, collecting the two required secrets interactively
//   - Uninstalls by deregistering best-effort, deleting the binary, and
//     optionally removing the server's own configuration directory
func main() {
	cmd.Execute()
}
