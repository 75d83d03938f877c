package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/talentlink/talentlink-client/internal/client/api"
	"github.com/talentlink/talentlink-client/internal/client/config"
	"github.com/talentlink/talentlink-client/internal/client/localdb"
	"github.com/talentlink/talentlink-client/internal/client/services"
	"github.com/talentlink/talentlink-client/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	repos   *localdb.Repositories
	api     *api.HTTPClient
	session *services.SessionManager
	stream  *services.StreamManager
	log     logging.Logger
	reader  *bufio.Reader

	// subs maps topic name to its unsubscribe handle.
	subs map[string]func()
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	repos, err := localdb.Init(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	cookies, err := services.NewCookieMirror(nil, c.APIBaseURL, c.CookieTTL, c.LegacyAuthCookies)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, cookies.Jar())
	logger := logging.NewDefault()

	session := services.NewSessionManager(services.SessionManagerOptions{
		Client:         apiClient,
		Sessions:       repos.Session,
		Prefs:          repos.Prefs,
		Cookies:        cookies,
		Logger:         logger,
		TokenFreshness: c.TokenFreshness,
	})

	gate := services.NewPermissionGate(terminalPermissionAPI{}, repos.Prefs, logger, c.PermissionReAsk)

	stream := services.NewStreamManager(services.StreamManagerOptions{
		URL:         c.StreamURL,
		Session:     session,
		Logger:      logger,
		Presenter:   terminalPresenter{},
		Gate:        gate,
		MaxAttempts: c.ReconnectMaxAttempts,
		BaseDelay:   c.ReconnectBaseDelay,
	})

	return &App{
		config:  c,
		repos:   repos,
		api:     apiClient,
		session: session,
		stream:  stream,
		log:     logger,
		reader:  bufio.NewReader(os.Stdin),
		subs:    make(map[string]func()),
	}, nil
}

// Run restores any persisted session, ties the stream to the authenticated
// state, and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()
	defer a.stream.Disconnect()

	a.stream.FollowSession(ctx)

	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	printlnFn("Welcome to TalentLink CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := ""
	if u := a.session.CurrentUser(); u != nil {
		s = u.Email + " "
	}
	s = s + a.stream.State().String()
	if unread := a.stream.Inbox().UnreadCount(); unread > 0 {
		s = fmt.Sprintf("%s, %d unread", s, unread)
	}
	return fmt.Sprintf("(%s)", s)
}
