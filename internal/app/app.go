// Package app implements the msgraph-snippets commands on top of the
// configured credential store, Graph client and snippet dispatcher.
package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/google/shlex"

	"github.com/Azure/msgraph-snippets/internal/config"
	"github.com/Azure/msgraph-snippets/internal/credential"
	"github.com/Azure/msgraph-snippets/internal/graph"
	"github.com/Azure/msgraph-snippets/internal/logger"
	"github.com/Azure/msgraph-snippets/internal/server"
	"github.com/Azure/msgraph-snippets/internal/signin"
	"github.com/Azure/msgraph-snippets/internal/snippets"
)

// ErrUnknownCommand is returned for a command name that does not exist.
var ErrUnknownCommand = errors.New("unknown command")

// CredentialFactory builds the token credential used by the signin command.
type CredentialFactory func(cfg *config.SignInConfig, prompt func(string)) (azcore.TokenCredential, error)

// App runs commands.
type App struct {
	cfg        *config.ConfigData
	store      credential.Store
	dispatcher *snippets.Dispatcher

	in            io.Reader
	out           io.Writer
	transport     policy.Transporter
	newCredential CredentialFactory
}

// Option configures an App.
type Option func(*App)

// WithStore replaces the preferences file store.
func WithStore(store credential.Store) Option {
	return func(a *App) { a.store = store }
}

// WithIO sets where the shell reads commands and where output goes.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
	}
}

// WithTransport sets the HTTP transport of the Graph client.
func WithTransport(t policy.Transporter) Option {
	return func(a *App) { a.transport = t }
}

// WithCredentialFactory replaces signin.NewCredential.
func WithCredentialFactory(f CredentialFactory) Option {
	return func(a *App) { a.newCredential = f }
}

// New wires the store, Graph client and dispatcher described by cfg.
func New(cfg *config.ConfigData, opts ...Option) (*App, error) {
	a := &App{
		cfg:           cfg,
		in:            os.Stdin,
		out:           os.Stdout,
		newCredential: signin.NewCredential,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		store, err := credential.NewFileStore(cfg.PrefsPath, cfg.PrefsNamespace)
		if err != nil {
			return nil, err
		}
		a.store = store
	}
	source := credential.StoreSource(a.store)

	client, err := graph.NewClient(&graph.ClientOptions{
		Endpoint:   cfg.Endpoint,
		Credential: source,
		Transport:  a.transport,
		Timeout:    cfg.ClientTimeout(),
		Logging:    graph.ConfigureLogging(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph client: %w", err)
	}

	dispatcherOpts := []snippets.Option{
		snippets.WithVersion(cfg.APIVersion),
		snippets.WithCredential(source),
	}
	if cfg.TelemetryService != nil {
		dispatcherOpts = append(dispatcherOpts, snippets.WithTracker(cfg.TelemetryService))
	}
	a.dispatcher = snippets.NewDispatcher(client, dispatcherOpts...)
	return a, nil
}

// Dispatcher returns the snippet dispatcher.
func (a *App) Dispatcher() *snippets.Dispatcher {
	return a.dispatcher
}

// Execute runs the command named by args[0] with the remaining operands.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.cfg.PrintUsage()
		return nil
	}

	name, operands := args[0], args[1:]
	switch name {
	case "help":
		a.cfg.PrintUsage()
		return nil
	case "list":
		return a.list(operands)
	case "run":
		return a.run(ctx, operands)
	case "signin":
		return a.signIn(ctx)
	case "signout":
		return signin.SignOut(a.store)
	case "serve":
		return a.serve(ctx)
	case "shell":
		return a.shell(ctx)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

func (a *App) list(operands []string) error {
	categories := snippets.Categories()
	if len(operands) > 0 {
		categories = categories[:0:0]
		for _, name := range operands {
			c, err := snippets.ParseCategory(name)
			if err != nil {
				return err
			}
			categories = append(categories, c)
		}
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, c := range categories {
		for _, op := range snippets.ListOperations(c) {
			if op.Marker {
				fmt.Fprintf(w, "%s\n", strings.ToUpper(op.Title))
				continue
			}
			fmt.Fprintf(w, "  %s\t%s %s\t%s\n", op.Name, op.Method, op.Path, op.Title)
		}
	}
	return w.Flush()
}

func (a *App) run(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return errors.New("run: at least one snippet name is required")
	}

	ops := make([]snippets.Operation, 0, len(names))
	for _, name := range names {
		op, err := snippets.Lookup(name)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}

	if !a.dispatcher.RequestContext().Credential.HasToken() {
		logger.Warnf("%v; requests are sent without a bearer token", credential.ErrNotSignedIn)
	}

	for _, op := range ops {
		r := a.dispatcher.RunAndWait(ctx, op)
		if r.Err != nil {
			return fmt.Errorf("%s: %w", op.Name, r.Err)
		}
		fmt.Fprintln(a.out, prettyJSON(r.Payload))
	}
	return nil
}

// prettyJSON indents payload when it is JSON and returns it unchanged otherwise.
func prettyJSON(payload []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return string(payload)
	}
	return buf.String()
}

func (a *App) signIn(ctx context.Context) error {
	tc, err := a.newCredential(a.cfg.SignIn, func(message string) {
		fmt.Fprintln(a.out, message)
	})
	if err != nil {
		return err
	}

	cred, err := signin.SignIn(ctx, tc, a.store, a.cfg.SignIn.TenantDomain)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in. Tenant: %s\n", cred.Tenant())
	return nil
}

func (a *App) serve(ctx context.Context) error {
	s := server.NewService(a.cfg, a.dispatcher)
	if err := s.Initialize(); err != nil {
		return err
	}
	return s.Run(ctx)
}

// shell reads commands line by line until EOF, exit or quit. Command errors
// are printed and do not end the session.
func (a *App) shell(ctx context.Context) error {
	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			return nil
		case "shell", "serve":
			fmt.Fprintf(a.out, "error: %s is not available inside the shell\n", args[0])
			continue
		}

		if err := a.Execute(ctx, args); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
