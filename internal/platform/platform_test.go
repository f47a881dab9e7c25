package platform

import (
	"path/filepath"
	"sort"
	"testing"
)

func TestAssetName_SupportedKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"darwin-arm64", "grok-search-mcp-macos-arm64"},
		{"darwin-amd64", "grok-search-mcp-macos-x64"},
		{"linux-amd64", "grok-search-mcp-linux-x64"},
		{"linux-arm64", "grok-search-mcp-linux-arm64"},
		{"windows-amd64", "grok-search-mcp-windows-x64.exe"},
	}

	for _, tt := range tests {
		name, ok := AssetName(tt.key)
		if !ok {
			t.Errorf("AssetName(%q) reported unsupported, want supported", tt.key)
			continue
		}
		if name != tt.want {
			t.Errorf("AssetName(%q) = %q, want %q", tt.key, name, tt.want)
		}
	}
}

func TestAssetName_UnsupportedKeys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"linux-386", "windows-arm64", "plan9-amd64", "darwin-ARM64", ""} {
		if name, ok := AssetName(key); ok {
			t.Errorf("AssetName(%q) = %q, want unsupported", key, name)
		}
	}
}

func TestSupportedKeys(t *testing.T) {
	t.Parallel()

	keys := SupportedKeys()
	if len(keys) != 5 {
		t.Fatalf("got %d supported keys, want 5", len(keys))
	}
	if !sort.StringsAreSorted(keys) {
		t.Errorf("SupportedKeys() = %v, want sorted order", keys)
	}
	for _, k := range keys {
		if _, ok := AssetName(k); !ok {
			t.Errorf("SupportedKeys() lists %q but AssetName rejects it", k)
		}
	}
}

func TestEnvironment_Key(t *testing.T) {
	t.Parallel()

	env := Environment{OS: "darwin", Arch: "arm64"}
	if got := env.Key(); got != "darwin-arm64" {
		t.Errorf("Key() = %q, want %q", got, "darwin-arm64")
	}
}

func TestEnvironment_InstallPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  Environment
		want string
	}{
		{
			name: "linux",
			env:  Environment{OS: "linux", Arch: "amd64", Home: "/home/u"},
			want: filepath.Join("/home/u", ".local", "bin", "grok-search-mcp"),
		},
		{
			name: "darwin",
			env:  Environment{OS: "darwin", Arch: "arm64", Home: "/Users/u"},
			want: filepath.Join("/Users/u", ".local", "bin", "grok-search-mcp"),
		},
		{
			name: "windows with LOCALAPPDATA",
			env:  Environment{OS: "windows", Arch: "amd64", Home: `C:\Users\u`, LocalAppData: `C:\Users\u\AppData\Local`},
			want: filepath.Join(`C:\Users\u\AppData\Local`, "Programs", "grok-search-mcp", "grok-search-mcp.exe"),
		},
		{
			name: "windows without LOCALAPPDATA",
			env:  Environment{OS: "windows", Arch: "amd64", Home: `C:\Users\u`},
			want: filepath.Join(`C:\Users\u`, "AppData", "Local", "Programs", "grok-search-mcp", "grok-search-mcp.exe"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.env.InstallPath(); got != tt.want {
				t.Errorf("InstallPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvironment_ConfigDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  Environment
		want string
	}{
		{
			name: "darwin",
			env:  Environment{OS: "darwin", Home: "/Users/u"},
			want: filepath.Join("/Users/u", "Library", "Application Support", "grok-search"),
		},
		{
			name: "linux default",
			env:  Environment{OS: "linux", Home: "/home/u"},
			want: filepath.Join("/home/u", ".config", "grok-search"),
		},
		{
			name: "linux with XDG_CONFIG_HOME",
			env:  Environment{OS: "linux", Home: "/home/u", XDGConfig: "/custom/cfg"},
			want: filepath.Join("/custom/cfg", "grok-search"),
		},
		{
			name: "windows",
			env:  Environment{OS: "windows", Home: `C:\Users\u`, AppData: `C:\Users\u\AppData\Roaming`},
			want: filepath.Join(`C:\Users\u\AppData\Roaming`, "grok-search"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.env.ConfigDir(); got != tt.want {
				t.Errorf("ConfigDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvironment_BinaryName(t *testing.T) {
	t.Parallel()

	if got := (Environment{OS: "windows"}).BinaryName(); got != "grok-search-mcp.exe" {
		t.Errorf("windows BinaryName() = %q, want grok-search-mcp.exe", got)
	}
	if got := (Environment{OS: "linux"}).BinaryName(); got != "grok-search-mcp" {
		t.Errorf("linux BinaryName() = %q, want grok-search-mcp", got)
	}
}
