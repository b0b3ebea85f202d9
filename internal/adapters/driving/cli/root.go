// Package cli provides the ebookctl command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
	"github.com/custodia-labs/ebookctl/internal/logger"
)

// EnvAPIURL overrides the configured API URL.
const EnvAPIURL = "EBOOKCTL_API_URL"

// version is set at build time.
var version = "dev"

// Flags shared by every command.
var (
	verbose    bool
	apiURLFlag string
)

// Services used by the commands. They are set by SetServices, or built
// lazily by the registered ServiceFactory before a command runs.
var (
	sessionService  driving.SessionService
	authService     driving.AuthService
	pipelineService driving.PipelineService
	assetService    driving.AssetService
	exportService   driving.ExportService
	settingsService driving.SettingsService
	observables     []driving.StageObservable
	specLoader      func(path string) (domain.Spec, error)
	configDir       string
)

// Services is the set of core services the commands drive.
type Services struct {
	Session  driving.SessionService
	Auth     driving.AuthService
	Pipeline driving.PipelineService
	Assets   driving.AssetService
	Export   driving.ExportService
	Settings driving.SettingsService

	// Observables publish stage events for progress output.
	Observables []driving.StageObservable

	// LoadSpec reads an ebook spec file.
	LoadSpec func(path string) (domain.Spec, error)

	// ConfigDir holds the login lock.
	ConfigDir string
}

// Options are the global flag values passed to a ServiceFactory.
type Options struct {
	// APIURL overrides the configured API URL when non-empty.
	APIURL string
}

// ServiceFactory builds the services for one invocation.
type ServiceFactory func(opts Options) (*Services, error)

var serviceFactory ServiceFactory

var rootCmd = &cobra.Command{
	Use:   "ebookctl",
	Short: "Generate ebooks with the remote ebook service",
	Long: `ebookctl drives the ebook generation service from the terminal.

Sign in, describe the ebook you want, then let the service write its table of
contents, chapters, cover, legal pages, visual theme and illustrations.

Examples:
  ebookctl auth login --email you@example.com
  ebookctl ebook create --spec book.toml --generate
  ebookctl ebook enrich <ebook-id>
  ebookctl export <ebook-id> --format epub`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "",
		fmt.Sprintf("API base URL (overrides settings and %s)", EnvAPIURL))
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory registers the factory run before each command.
func SetServiceFactory(factory ServiceFactory) {
	serviceFactory = factory
}

// SetServices installs services directly.
func SetServices(svc *Services) {
	sessionService = svc.Session
	authService = svc.Auth
	pipelineService = svc.Pipeline
	assetService = svc.Assets
	exportService = svc.Export
	settingsService = svc.Settings
	observables = svc.Observables
	specLoader = svc.LoadSpec
	configDir = svc.ConfigDir
}

// Execute runs the root command with ctx. Command output goes to stdout.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func preRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if serviceFactory == nil {
		return nil
	}

	opts := Options{APIURL: apiURLFlag}
	if opts.APIURL == "" {
		opts.APIURL = os.Getenv(EnvAPIURL)
	}
	svc, err := serviceFactory(opts)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(svc)
	return nil
}

// FormatError returns the message to print for an error returned by Execute.
func FormatError(err error) string {
	var (
		stageErr  *domain.StageError
		authErr   *domain.AuthError
		remoteErr *domain.RemoteError
	)
	switch {
	case errors.As(err, &stageErr), errors.As(err, &authErr), errors.As(err, &remoteErr),
		errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrOperationInFlight):
		return domain.UserMessage(err)
	default:
		return err.Error()
	}
}

func errNotConfigured(name string) error {
	return fmt.Errorf("%s service not configured", name)
}
