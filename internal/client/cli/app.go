package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rlocatelli9/daily-diet-api/internal/client/api"
	"github.com/rlocatelli9/daily-diet-api/internal/client/config"
)

// apiClient is the part of *api.Client the commands use.
type apiClient interface {
	HasSession() bool
	SignUp(ctx context.Context, username, email, password string) (*api.Account, error)
	SignIn(ctx context.Context, email, password string) (*api.Account, error)
	SignOut(ctx context.Context) error
	CreateMeal(ctx context.Context, m api.NewMeal) (*api.Meal, error)
	ListMeals(ctx context.Context) ([]api.Meal, error)
	Metrics(ctx context.Context) (*api.Metrics, error)
	DeleteMeal(ctx context.Context, id string) error
	Export(ctx context.Context) (*api.Export, error)
}

type App struct {
	config   *config.Config
	api      apiClient
	download *http.Client
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.NewClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   c,
		api:      client,
		download: &http.Client{Timeout: c.RequestTimeout},
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.HasSession()
}

func (a *App) getStatus() string {
	if a.userName == "" || !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Run starts the REPL and returns when the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the Daily Diet CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// report prints a command failure.
func (a *App) report(err error) error {
	fmt.Fprintln(a.out, "Error:", err)
	return err
}
