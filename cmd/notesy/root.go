package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phrazzld/notesy-api/internal/client"
	"github.com/phrazzld/notesy-api/internal/config"
	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

const (
	envPrefix        = "NOTESY"
	keyServerURL     = "server_url"
	keyToken         = "token"
	keyLogLevel      = "log_level"
	defaultServerURL = "http://localhost:8080"
)

// cliEnv is the state shared by every subcommand.
type cliEnv struct {
	v          *viper.Viper
	configPath string
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	env := &cliEnv{v: viper.New()}

	root := &cobra.Command{
		Use:   "notesy",
		Short: "Study from your notes in the terminal",
		Long: `notesy turns notes into summaries and flashcards.

Paste text or load a .docx document, summarize it through the notesy server
and, once signed in, study it as a deck of flashcards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("server", defaultServerURL, "notesy server URL (env NOTESY_SERVER_URL)")
	flags.String("token", "", "bearer token (env NOTESY_TOKEN)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&env.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/notesy/config.yaml)")

	_ = env.v.BindPFlag(keyServerURL, flags.Lookup("server"))
	_ = env.v.BindPFlag(keyToken, flags.Lookup("token"))
	_ = env.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		newStudyCmd(env),
		newSummarizeCmd(env),
		newCountCmd(env),
		newFlashcardsCmd(env),
		newLoginCmd(env),
		newRegisterCmd(env),
		newLogoutCmd(env),
		newTodoCmd(env),
	)
	return root
}

// load reads the config file and environment and sets up logging.
func (e *cliEnv) load(cmd *cobra.Command) error {
	e.v.SetEnvPrefix(envPrefix)
	e.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	e.v.AutomaticEnv()
	e.v.SetDefault(keyServerURL, defaultServerURL)

	if e.configPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to locate config directory: %w", err)
		}
		e.configPath = filepath.Join(dir, "notesy", "config.yaml")
	}
	e.v.SetConfigFile(e.configPath)
	if err := e.v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: e.v.GetString(keyLogLevel)}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	e.logger = l
	return nil
}

func (e *cliEnv) serverURL() string {
	return e.v.GetString(keyServerURL)
}

func (e *cliEnv) token() string {
	return e.v.GetString(keyToken)
}

// saveToken persists token in the config file. An empty token signs out.
func (e *cliEnv) saveToken(token string) error {
	e.v.Set(keyToken, token)
	if err := os.MkdirAll(filepath.Dir(e.configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := viper.New()
	out.Set(keyServerURL, e.serverURL())
	out.Set(keyToken, token)
	if err := out.WriteConfigAs(e.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(e.configPath, 0o600)
}

func (e *cliEnv) apiClient() (*client.Client, error) {
	return client.New(client.Config{BaseURL: e.serverURL(), Token: e.token()})
}

func (e *cliEnv) remoteSummarizer(token string) *summarize.RemoteClient {
	remote := summarize.NewRemoteClient(summarize.RemoteConfig{
		BaseURL:    e.serverURL(),
		RetryCount: summarize.DefaultRemoteRetryCount,
	})
	remote.SetToken(token)
	return remote
}

// resolveSession verifies the stored token against the server. Without a
// usable token the session is anonymous; a rejected token is reported and
// ignored.
func (e *cliEnv) resolveSession(ctx context.Context, api *client.Client, w io.Writer) domain.Session {
	if api.Token() == "" {
		return domain.AnonymousSession()
	}

	user, err := api.Verify(ctx)
	switch {
	case err == nil:
		return domain.AuthenticatedSession(user.ID, user.Username)
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(w, "Stored token was rejected; continuing as guest. Run `notesy login` to sign in again.")
	default:
		e.logger.Warn("could not verify token", redact.Attr(err))
		fmt.Fprintln(w, "Could not reach the server to verify your token; continuing as guest.")
	}
	api.SetToken("")
	return domain.AnonymousSession()
}
