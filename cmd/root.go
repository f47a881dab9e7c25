package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"grok-search-installer/internal/config"
	"grok-search-installer/internal/installer"
	"grok-search-installer/internal/logger"
	"grok-search-installer/internal/platform"
)

// Flags for non-interactive invocation. Exactly one operation runs per
// invocation; when several are given the first match wins in the order
// install, update, uninstall.
var (
	installFlag   bool
	updateFlag    bool
	uninstallFlag bool
	configPath    string
	debug         bool
)

// rootCmd is the single top-level command. Without an operation flag it
// presents the interactive menu (or refuses when stdin is not a terminal).
var rootCmd = &cobra.Command{
	Use:   "grok-search-installer",
	Short: "Install and manage the grok-search-mcp binary",

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},

	RunE: run,

	// Errors are reported uniformly by Execute.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute parses flags and runs the requested operation. Any surfaced error
// is printed as `Error: <message>` and the process exits with status 1.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&installFlag, "install", false, "Install the latest release")
	rootCmd.Flags().BoolVar(&updateFlag, "update", false, "Update to the latest release")
	rootCmd.Flags().BoolVar(&uninstallFlag, "uninstall", false, "Remove the installed binary")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to an optional installer settings file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	env := platform.Detect()
	logger.Debug("[DEBUG] Detected platform %s\n", env)

	mgr := installer.New(env, settings)
	ctx := context.Background()

	switch {
	case installFlag:
		return mgr.Install(ctx)
	case updateFlag:
		return mgr.Update(ctx)
	case uninstallFlag:
		return mgr.Uninstall()
	}

	// No operation flag: interactive menu, but only on a real terminal.
	// Refusing here beats hanging forever on input that will never come.
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "No operation requested. Run with --install, --update or --uninstall.")
		os.Exit(1)
	}

	return runMenu(mgr)
}

// runMenu presents the fixed five-option menu, reads one choice and
// dispatches. Install failures propagate (the process must exit non-zero on
// an unsupported platform or a failed download); the other operations surface
// their error and leave the exit status at zero.
func runMenu(mgr *installer.Manager) error {
	fmt.Println("grok-search-mcp installer")
	fmt.Println("  1) Install")
	fmt.Println("  2) Update")
	fmt.Println("  3) Check for updates")
	fmt.Println("  4) Configure Claude integration")
	fmt.Println("  5) Uninstall")

	prompter := installer.NewStdinPrompter()
	choice, err := prompter.Ask("Select an option: ")
	if err != nil {
		return fmt.Errorf("failed to read selection: %w", err)
	}

	ctx := context.Background()
	switch strings.TrimSpace(choice) {
	case "1":
		return mgr.Install(ctx)
	case "2":
		reportMenuError(mgr.Update(ctx))
	case "3":
		reportMenuError(mgr.CheckUpdates(ctx))
	case "4":
		reportMenuError(mgr.ConfigureIntegration())
	case "5":
		reportMenuError(mgr.Uninstall())
	default:
		fmt.Println("Invalid option.")
	}
	return nil
}

// reportMenuError prints an operation failure without terminating the
// process; menu-driven operations other than install exit zero.
func reportMenuError(err error) {
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
	}
}
