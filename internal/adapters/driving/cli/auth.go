package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/oauth"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// DefaultLoginTimeout bounds the wait for the browser callback.
const DefaultLoginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in and manage your session",
	Long: `Register, sign in with email and password or through the browser,
and inspect or end the current session.

Examples:
  ebookctl auth register --username ada --email ada@example.com
  ebookctl auth login --email ada@example.com
  ebookctl auth google
  ebookctl auth whoami
  ebookctl auth logout`,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  runAuthRegister,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE:  runAuthLogin,
}

var authGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Sign in through the browser",
	Long: `Sign in through the provider login page in your browser.

A local callback server receives the redirect. On a machine without a
browser, pass the redirect URL you were sent to with --redirect-url.

Examples:
  ebookctl auth google
  ebookctl auth google --no-browser
  ebookctl auth google --redirect-url 'http://localhost:18765/callback#session_id=...'`,
	RunE: runAuthGoogle,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE:  runAuthLogout,
}

var authWhoAmICmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runAuthWhoAmI,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state",
	RunE:  runAuthStatus,
}

// Flags for auth commands.
var (
	authUsername      string
	authEmail         string
	authPasswordStdin bool
	authRedirectURL   string
	authNoBrowser     bool
	authTimeout       time.Duration
)

func init() {
	for _, c := range []*cobra.Command{authRegisterCmd, authLoginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the password from stdin")
	}
	authRegisterCmd.Flags().StringVar(&authUsername, "username", "", "Account username")

	authGoogleCmd.Flags().StringVar(&authRedirectURL, "redirect-url", "", "Complete sign-in from a redirect URL")
	authGoogleCmd.Flags().BoolVar(&authNoBrowser, "no-browser", false, "Print the login URL instead of opening it")
	authGoogleCmd.Flags().DurationVar(&authTimeout, "timeout", DefaultLoginTimeout, "How long to wait for the browser")

	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authGoogleCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoAmICmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthRegister(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errNotConfigured("auth")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	username := authUsername
	if username == "" {
		cmd.Print("Username: ")
		username = readLine(reader)
	}
	email := authEmail
	if email == "" {
		cmd.Print("Email: ")
		email = readLine(reader)
	}
	password, err := promptPassword(cmd, reader)
	if err != nil {
		return err
	}

	identity, err := authService.Register(commandContext(cmd), domain.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}
	cmd.Printf("Signed in as %s\n", displayName(identity))
	return nil
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errNotConfigured("auth")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	email := authEmail
	if email == "" {
		cmd.Print("Email: ")
		email = readLine(reader)
	}
	password, err := promptPassword(cmd, reader)
	if err != nil {
		return err
	}

	identity, err := authService.Login(commandContext(cmd), domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	cmd.Printf("Signed in as %s\n", displayName(identity))
	return nil
}

func runAuthGoogle(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errNotConfigured("auth")
	}
	ctx := commandContext(cmd)

	if authRedirectURL != "" {
		location, err := oauth.ParseLocation(authRedirectURL)
		if err != nil {
			return err
		}
		if _, ok := location.ExchangeCode(); !ok {
			return fmt.Errorf("%w: redirect url has no %s", domain.ErrInvalidInput, oauth.SessionParam)
		}
		return resolveLocation(ctx, cmd, location)
	}

	if settingsService == nil {
		return errNotConfigured("settings")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.OAuth.LoginURL == "" {
		return errors.New("browser login is not configured; set it with: ebookctl settings set oauth.login_url <url>")
	}

	release, err := oauth.AcquireLoginLock(configDir)
	if err != nil {
		return err
	}
	defer release()

	port := settings.OAuth.CallbackPort
	redirectURI := fmt.Sprintf("http://localhost:%d/callback", port)
	loginURL, state, err := authService.BrowserLoginURL(settings.OAuth.LoginURL, redirectURI)
	if err != nil {
		return err
	}

	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	if authNoBrowser {
		cmd.Printf("Open this URL to sign in:\n\n  %s\n\n", loginURL)
	} else {
		cmd.Println("Opening your browser to sign in...")
		if err := oauth.OpenBrowser(loginURL); err != nil {
			cmd.Printf("Could not open a browser. Open this URL to sign in:\n\n  %s\n\n", loginURL)
		}
	}
	cmd.Println("Waiting for the browser to return...")

	waitCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()
	location, err := server.WaitForLocation(waitCtx)
	if err != nil {
		return err
	}
	return resolveLocation(ctx, cmd, location)
}

func resolveLocation(ctx context.Context, cmd *cobra.Command, location *oauth.Location) error {
	identity, err := authService.Resolve(ctx, location)
	if err != nil {
		return err
	}
	if identity == nil {
		return domain.ErrAuthRequired
	}
	cmd.Printf("Signed in as %s\n", displayName(identity))
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errNotConfigured("auth")
	}
	if err := authService.Logout(commandContext(cmd)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	cmd.Println("Signed out.")
	return nil
}

func runAuthWhoAmI(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errNotConfigured("auth")
	}
	identity, err := authService.Resolve(commandContext(cmd), nil)
	if err != nil {
		return err
	}
	if identity == nil {
		cmd.Println("Not signed in.")
		return nil
	}
	cmd.Printf("ID:       %s\n", identity.ID)
	cmd.Printf("Username: %s\n", identity.Name)
	cmd.Printf("Email:    %s\n", identity.Email)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil || sessionService == nil {
		return errNotConfigured("auth")
	}

	cred := sessionService.Credential()
	if !cred.IsPresent() {
		cmd.Println("State:   anonymous")
		cmd.Println("Session: none")
		return nil
	}

	identity, err := authService.Resolve(commandContext(cmd), nil)
	cmd.Printf("State:   %s\n", authService.State())
	if !cred.IssuedAt.IsZero() {
		cmd.Printf("Session: stored %s\n", cred.IssuedAt.Format(time.RFC3339))
	}
	if err != nil {
		cmd.Printf("Error:   %s\n", FormatError(err))
		return nil
	}
	if identity != nil {
		cmd.Printf("User:    %s\n", displayName(identity))
	}
	return nil
}

func displayName(identity *domain.Identity) string {
	switch {
	case identity.Name != "" && identity.Email != "":
		return fmt.Sprintf("%s <%s>", identity.Name, identity.Email)
	case identity.Email != "":
		return identity.Email
	case identity.Name != "":
		return identity.Name
	default:
		return identity.ID
	}
}

func promptPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	if authPasswordStdin {
		data, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	cmd.Print("Password: ")
	password := readPassword(cmd, reader)
	cmd.Println()
	return password, nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}
