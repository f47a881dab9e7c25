package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inconshreveable/go-update"

	"grok-search-installer/internal/config"
	"grok-search-installer/internal/github"
	"grok-search-installer/internal/logger"
	"grok-search-installer/internal/platform"
)

var (
	// ErrUnsupportedPlatform is returned when the running OS/arch pair has no
	// release artifact. The dispatcher exits non-zero on it.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrAssetNotFound is returned when the latest release carries no
	// artifact matching this platform's expected name.
	ErrAssetNotFound = errors.New("release asset not found")
)

// Manager orchestrates install, update, check and uninstall of the
// grok-search-mcp binary. It holds no state of its own: the binary's
// presence on disk and its probed version are re-derived on every operation.
type Manager struct {
	env       platform.Environment
	settings  config.Settings
	client    *github.Client
	prompter  Prompter
	registrar ExternalRegistrar
	probe     func(binPath string) (string, bool)
}

// Option configures a Manager during construction. Tests use these to inject
// fakes for the prompt, the host CLI and the version probe.
type Option func(*Manager)

// WithClient overrides the release client.
func WithClient(c *github.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithPrompter overrides the interactive prompter.
func WithPrompter(p Prompter) Option {
	return func(m *Manager) { m.prompter = p }
}

// WithRegistrar overrides the external host registrar.
func WithRegistrar(r ExternalRegistrar) Option {
	return func(m *Manager) { m.registrar = r }
}

// WithVersionProbe overrides the installed-version probe.
func WithVersionProbe(probe func(string) (string, bool)) Option {
	return func(m *Manager) { m.probe = probe }
}

// New creates a Manager wired to the real prompt, the Claude CLI and the
// GitHub release API described by settings.
func New(env platform.Environment, settings config.Settings, opts ...Option) *Manager {
	m := &Manager{
		env:       env,
		settings:  settings,
		client:    github.NewClient(settings.Owner, settings.Repo, github.WithBaseURL(settings.BaseURL)),
		prompter:  NewStdinPrompter(),
		registrar: ClaudeRegistrar{},
		probe:     probeVersion,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InstallDir returns the directory the binary is installed into, honoring a
// settings override.
func (m *Manager) InstallDir() string {
	if m.settings.InstallDir != "" {
		return m.settings.InstallDir
	}
	return m.env.InstallDir()
}

// InstallPath returns the full path of the installed binary.
func (m *Manager) InstallPath() string {
	name := m.settings.BinaryName
	if name == "" {
		name = m.env.BinaryName()
	}
	return filepath.Join(m.InstallDir(), name)
}

// installed reports whether a file exists at the install path. Absence of the
// file means "not installed" regardless of anything else.
func (m *Manager) installed() bool {
	_, err := os.Stat(m.InstallPath())
	return err == nil
}

// InstalledVersion returns the probed version tag of the installed binary,
// or ("", false) when the binary is absent or the probe fails.
func (m *Manager) InstalledVersion() (string, bool) {
	return m.probe(m.InstallPath())
}

// Install resolves the platform artifact, downloads the latest release and
// places the binary at the install path. If a binary is already present the
// user is asked before overwriting (declining aborts without error).
func (m *Manager) Install(ctx context.Context) error {
	return m.install(ctx, false)
}

// install is the shared implementation. force bypasses the overwrite prompt;
// Update sets it because accepting an update already implies overwrite.
func (m *Manager) install(ctx context.Context, force bool) error {
	assetName, ok := platform.AssetName(m.env.Key())
	if !ok {
		return fmt.Errorf("%w %s (supported: %s)",
			ErrUnsupportedPlatform, m.env.Key(), strings.Join(platform.SupportedKeys(), ", "))
	}

	if !force && m.installed() {
		if !confirm(m.prompter, fmt.Sprintf("%s is already installed at %s. Overwrite? [y/N] ",
			platform.BinaryBaseName, m.InstallPath()), false) {
			logger.Info("[INFO] Keeping the existing installation.\n")
			return nil
		}
	}

	release, err := m.client.LatestRelease(ctx)
	if err != nil {
		return err
	}

	asset, ok := release.AssetByName(assetName)
	if !ok {
		return fmt.Errorf("%w: release %s has no asset named %s",
			ErrAssetNotFound, release.TagName, assetName)
	}

	if err := os.MkdirAll(m.InstallDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create install directory %s: %w", m.InstallDir(), err)
	}

	logger.Info("[INFO] Downloading %s %s...\n", assetName, release.TagName)
	tmp, err := os.CreateTemp("", platform.BinaryBaseName+"-*.download")
	if err != nil {
		return fmt.Errorf("failed to create temporary download file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary download file: %w", err)
	}
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil && !os.IsNotExist(rerr) {
			logger.Warn("[WARN] Failed to remove temporary download %s: %v\n", tmpPath, rerr)
		}
	}()

	if err := m.client.DownloadAsset(ctx, asset.BrowserDownloadURL, tmpPath); err != nil {
		return err
	}

	if err := m.applyBinary(tmpPath); err != nil {
		return err
	}

	logger.Info("[INFO] Installed %s %s to %s\n", platform.BinaryBaseName, release.TagName, m.InstallPath())
	return nil
}

// applyBinary moves the downloaded file into place. go-update stages the new
// binary next to the target and renames it over, so a concurrent reader never
// observes a partial file, and rolls back if the swap fails halfway.
func (m *Manager) applyBinary(srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open downloaded binary: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close downloaded binary: %v\n", cerr)
		}
	}()

	// 0755 also covers the execute-permission step on unix-like systems; the
	// mode bits are ignored on windows.
	err = update.Apply(src, update.Options{
		TargetPath: m.InstallPath(),
		TargetMode: 0o755,
	})
	if err != nil {
		if rerr := update.RollbackError(err); rerr != nil {
			logger.Error("[ERROR] Failed to roll back from broken install: %v\n", rerr)
		}
		return fmt.Errorf("failed to place binary at %s: %w", m.InstallPath(), err)
	}
	return nil
}

// Update fetches the latest release and, when its tag differs from the
// installed one, reinstalls after a proceed prompt (default accept). A
// missing installation is reported but is not an error.
func (m *Manager) Update(ctx context.Context) error {
	if !m.installed() {
		logger.Info("[INFO] %s is not installed. Use install first.\n", platform.BinaryBaseName)
		return nil
	}

	release, err := m.client.LatestRelease(ctx)
	if err != nil {
		return err
	}

	installed, known := m.InstalledVersion()
	if known && TagsEqual(installed, release.TagName) {
		logger.Info("[INFO] %s %s is up to date.\n", platform.BinaryBaseName, installed)
		return nil
	}
	if !known {
		logger.Warn("[WARN] Could not determine the installed version.\n")
		installed = "unknown"
	}

	if !confirm(m.prompter, fmt.Sprintf("Update %s from %s to %s? [Y/n] ",
		platform.BinaryBaseName, installed, release.TagName), true) {
		logger.Info("[INFO] Update cancelled.\n")
		return nil
	}

	// The user already accepted the overwrite by accepting the update, so
	// skip install's own overwrite prompt.
	return m.install(ctx, true)
}

// CheckUpdates is the read-only variant of Update's comparison. It never
// downloads anything and reports one of: not installed, up to date, update
// available.
func (m *Manager) CheckUpdates(ctx context.Context) error {
	if !m.installed() {
		logger.Info("[INFO] %s is not installed.\n", platform.BinaryBaseName)
		return nil
	}

	release, err := m.client.LatestRelease(ctx)
	if err != nil {
		return err
	}

	installed, known := m.InstalledVersion()
	switch {
	case known && TagsEqual(installed, release.TagName):
		logger.Info("[INFO] %s %s is up to date.\n", platform.BinaryBaseName, installed)
	case known:
		logger.Info("[INFO] Update available: %s -> %s\n", installed, release.TagName)
	default:
		logger.Info("[INFO] Installed version unknown; latest release is %s\n", release.TagName)
	}
	return nil
}

// Uninstall removes the installed binary after best-effort deregistration
// from the host CLI, then optionally deletes the downstream tool's config
// directory. A missing installation is reported but is not an error.
func (m *Manager) Uninstall() error {
	if !m.installed() {
		logger.Info("[INFO] %s is not installed.\n", platform.BinaryBaseName)
		return nil
	}

	// Best effort: the registration may never have existed.
	if m.registrar.IsAvailable() {
		if err := m.registrar.Deregister(ToolID); err != nil {
			logger.Debug("[DEBUG] Deregistration skipped: %v\n", err)
		}
	}

	if err := os.Remove(m.InstallPath()); err != nil {
		return fmt.Errorf("failed to remove %s: %w", m.InstallPath(), err)
	}
	logger.Info("[INFO] Removed %s\n", m.InstallPath())

	configDir := m.env.ConfigDir()
	if _, err := os.Stat(configDir); err == nil {
		if confirm(m.prompter, fmt.Sprintf("Also delete the configuration directory %s? [y/N] ", configDir), false) {
			if err := os.RemoveAll(configDir); err != nil {
				return fmt.Errorf("failed to remove config directory %s: %w", configDir, err)
			}
			logger.Info("[INFO] Removed %s\n", configDir)
		}
	}
	return nil
}

// ConfigureIntegration registers the installed binary with the host CLI as a
// stdio MCP server, collecting the two required secrets interactively. When
// the host CLI is not installed it prints manual instructions instead; that
// is a documented fallback, not a failure.
func (m *Manager) ConfigureIntegration() error {
	if !m.installed() {
		logger.Info("[INFO] %s is not installed. Use install first.\n", platform.BinaryBaseName)
		return nil
	}

	if !m.registrar.IsAvailable() {
		logger.Warn("[WARN] The %s CLI was not found. Register manually with:\n", hostCommand)
		fmt.Println("  " + ManualRegistrationCommand(m.InstallPath()))
		return nil
	}

	apiURL, err := m.prompter.Ask(apiURLVar + ": ")
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", apiURLVar, err)
	}
	if strings.TrimSpace(apiURL) == "" {
		return fmt.Errorf("%s must not be empty", apiURLVar)
	}

	apiKey, err := m.prompter.Ask(apiKeyVar + ": ")
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", apiKeyVar, err)
	}
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%s must not be empty", apiKeyVar)
	}

	// Idempotent replace: remove any previous registration, tolerating
	// "did not exist".
	if err := m.registrar.Deregister(ToolID); err != nil {
		logger.Debug("[DEBUG] Previous registration not removed: %v\n", err)
	}

	reg := NewRegistration(m.InstallPath(), strings.TrimSpace(apiURL), strings.TrimSpace(apiKey))
	if err := m.registrar.Register(ToolID, reg); err != nil {
		return err
	}

	logger.Info("[INFO] Registered %s with the %s CLI.\n", ToolID, hostCommand)
	return nil
}
