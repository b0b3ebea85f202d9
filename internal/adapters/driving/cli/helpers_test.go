package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/custodia-labs/ebookctl/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
	"github.com/custodia-labs/ebookctl/internal/core/services"
)

type testServices struct {
	pipeline *mockPipeline
	assets   *mockAssets
	export   *mockExport
	auth     *mockAuth
	session  *mockSession
	settings *services.SettingsService
}

// setupTestServices installs mocks for every service and restores the
// previous ones when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		pipeline: &mockPipeline{},
		assets:   &mockAssets{},
		export:   &mockExport{},
		auth:     &mockAuth{state: domain.AuthAnonymous},
		session:  &mockSession{},
		settings: services.NewSettingsService(memory.NewConfigStore()),
	}

	previous := &Services{
		Session:     sessionService,
		Auth:        authService,
		Pipeline:    pipelineService,
		Assets:      assetService,
		Export:      exportService,
		Settings:    settingsService,
		Observables: observables,
		LoadSpec:    specLoader,
		ConfigDir:   configDir,
	}
	SetServices(&Services{
		Session:     ts.session,
		Auth:        ts.auth,
		Pipeline:    ts.pipeline,
		Assets:      ts.assets,
		Export:      ts.export,
		Settings:    ts.settings,
		Observables: []driving.StageObservable{ts.pipeline},
		ConfigDir:   t.TempDir(),
	})
	t.Cleanup(func() { SetServices(previous) })

	return ts
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag variables left over from a previous execution.
func resetFlags() {
	verbose = false
	apiURLFlag = ""

	authUsername = ""
	authEmail = ""
	authPasswordStdin = false
	authRedirectURL = ""
	authNoBrowser = false
	authTimeout = DefaultLoginTimeout

	createSpecPath = ""
	createSpec = domain.Spec{}
	createAudience = ""
	createGenerate = false
	createEnrich = false
	tocSave = false
	generateFreshTOC = false
	getJSON = false
	legalFlags = domain.LegalOptions{}

	chapterEditFile = "-"
	exportFormat = string(domain.FormatPDF)
	exportDir = ""
	historyLimit = 20
}
