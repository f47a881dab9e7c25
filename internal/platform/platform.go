package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
)

// BinaryBaseName is the name of the downstream binary managed by this
// installer, without any platform extension.
const BinaryBaseName = "grok-search-mcp"

// configDirName matches the directory the grok-search-mcp server itself uses
// for its persisted settings. The installer never reads it; uninstall may
// delete it on explicit request.
const configDirName = "grok-search"

// Environment carries the ambient facts path and platform resolution depend
// on. Production code uses Detect(); tests construct one directly to simulate
// any platform without touching real process state.
type Environment struct {
	OS           string // GOOS-style identifier, e.g. "darwin"
	Arch         string // GOARCH-style identifier, e.g. "arm64"
	Home         string // user home directory
	LocalAppData string // windows %LOCALAPPDATA%, empty elsewhere
	AppData      string // windows %APPDATA%, empty elsewhere
	XDGConfig    string // $XDG_CONFIG_HOME, empty if unset
}

// Detect builds an Environment from the running process.
func Detect() Environment {
	home, err := os.UserHomeDir()
	if err != nil {
		// Path derivation below degrades to relative paths; callers surface
		// the resulting filesystem errors.
		home = "."
	}
	return Environment{
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		Home:         home,
		LocalAppData: os.Getenv("LOCALAPPDATA"),
		AppData:      os.Getenv("APPDATA"),
		XDGConfig:    os.Getenv("XDG_CONFIG_HOME"),
	}
}

// Key returns the canonical platform key, e.g. "darwin-arm64".
func (e Environment) Key() string {
	return e.OS + "-" + e.Arch
}

// assetNames is the total mapping from platform key to release artifact name.
// A key outside this map means the platform is unsupported; there is no
// fallback or partial matching.
var assetNames = map[string]string{
	"darwin-arm64":  BinaryBaseName + "-macos-arm64",
	"darwin-amd64":  BinaryBaseName + "-macos-x64",
	"linux-amd64":   BinaryBaseName + "-linux-x64",
	"linux-arm64":   BinaryBaseName + "-linux-arm64",
	"windows-amd64": BinaryBaseName + "-windows-x64.exe",
}

// AssetName returns the expected release artifact name for a platform key,
// or ("", false) when the key is not supported.
func AssetName(key string) (string, bool) {
	name, ok := assetNames[key]
	return name, ok
}

// SupportedKeys lists every supported platform key in sorted order, for use
// in unsupported-platform error messages.
func SupportedKeys() []string {
	keys := make([]string, 0, len(assetNames))
	for k := range assetNames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BinaryName returns the installed binary file name, with the executable
// extension on windows.
func (e Environment) BinaryName() string {
	if e.OS == "windows" {
		return BinaryBaseName + ".exe"
	}
	return BinaryBaseName
}

// InstallDir returns the per-OS default directory for user-local executables:
// %LOCALAPPDATA%\Programs\grok-search-mcp on windows, ~/.local/bin elsewhere.
func (e Environment) InstallDir() string {
	if e.OS == "windows" {
		base := e.LocalAppData
		if base == "" {
			base = filepath.Join(e.Home, "AppData", "Local")
		}
		return filepath.Join(base, "Programs", BinaryBaseName)
	}
	return filepath.Join(e.Home, ".local", "bin")
}

// InstallPath returns the full path of the installed binary.
func (e Environment) InstallPath() string {
	return filepath.Join(e.InstallDir(), e.BinaryName())
}

// ConfigDir returns the downstream tool's own settings directory: the per-OS
// application-support base joined with "grok-search". This mirrors what the
// server derives for itself, so uninstall can offer to remove it.
func (e Environment) ConfigDir() string {
	return filepath.Join(e.configBase(), configDirName)
}

// configBase follows os.UserConfigDir semantics against the injected
// environment rather than the real process state.
func (e Environment) configBase() string {
	switch e.OS {
	case "windows":
		if e.AppData != "" {
			return e.AppData
		}
		return filepath.Join(e.Home, "AppData", "Roaming")
	case "darwin":
		return filepath.Join(e.Home, "Library", "Application Support")
	default:
		if e.XDGConfig != "" {
			return e.XDGConfig
		}
		return filepath.Join(e.Home, ".config")
	}
}

// String implements fmt.Stringer for debug logging.
func (e Environment) String() string {
	return fmt.Sprintf("%s (home=%s)", e.Key(), e.Home)
}
