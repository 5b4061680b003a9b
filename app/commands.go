package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/themer/app/document"
	"github.com/umputun/themer/app/selection"
	"github.com/umputun/themer/app/selector"
	"github.com/umputun/themer/app/server"
	"github.com/umputun/themer/app/store"
)

// memoryDB selects the in-process store instead of a database.
const memoryDB = "memory"

// SharedOptions contains options shared between all commands
type SharedOptions struct {
	DB    string `short:"d" long:"db" env:"THEMER_DB" default:"themer.db" description:"database URL (sqlite file, postgres://... or memory)"`
	Debug bool   `long:"dbg" env:"DEBUG" description:"debug mode"`

	out io.Writer
}

// RegistryOptions configure the theme allow-list
type RegistryOptions struct {
	Themes     []string `long:"themes" env:"THEMER_THEMES" env-delim:"," default:"light" default:"dark" description:"allowed theme names"`
	ThemesFile string   `long:"themes-file" env:"THEMER_THEMES_FILE" description:"yaml file with allowed themes, overrides --themes"`
}

// ServerCmd implements the server subcommand
type ServerCmd struct {
	SharedOptions
	RegistryOptions

	Server struct {
		Address     string        `long:"address" env:"ADDRESS" default:":8080" description:"server listen address"`
		ReadTimeout time.Duration `long:"read-timeout" env:"READ_TIMEOUT" default:"5s" description:"read timeout"`
	} `group:"server" namespace:"server" env-namespace:"THEMER_SERVER"`

	Cache struct {
		Size int `long:"size" env:"SIZE" default:"100" description:"max cached keys, 0 disables cache"`
	} `group:"cache" namespace:"cache" env-namespace:"THEMER_CACHE"`

	Auth struct {
		PasswordHash string `long:"password-hash" env:"PASSWORD_HASH" description:"bcrypt hash for admin password (enables auth)"`
	} `group:"auth" namespace:"auth" env-namespace:"THEMER_AUTH"`

	ctx    context.Context
	cancel context.CancelFunc
}

// Execute runs the server command
func (s *ServerCmd) Execute(_ []string) error {
	setupLogs(s.Debug)

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	if s.ctx == nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
		signals(s.cancel)
	}

	return s.run(s.ctx)
}

func (s *ServerCmd) run(ctx context.Context) error {
	log.Printf("[INFO] starting themer server %s on %s", revision, s.Server.Address)

	kvStore, err := openStore(s.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if s.Cache.Size > 0 {
		cached, cacheErr := store.NewCached(kvStore, s.Cache.Size)
		if cacheErr != nil {
			_ = kvStore.Close()
			return fmt.Errorf("failed to initialize cache: %w", cacheErr)
		}
		kvStore = cached
	}
	defer kvStore.Close()

	if s.Auth.PasswordHash != "" {
		log.Printf("[INFO] authentication enabled for mutating routes")
	}

	doc := document.New()
	sel := selector.New(ctx, doc, kvStore)
	svc := selection.NewService(kvStore, s.registry())
	log.Printf("[INFO] initial mode %s", sel.Theme())

	if s.ThemesFile != "" {
		if err := svc.WatchRegistry(ctx, s.ThemesFile); err != nil {
			log.Printf("[WARN] themes file not watched, %v", err)
		}
	}

	srv := server.New(sel, doc, svc, kvStore, server.Config{
		Address:      s.Server.Address,
		ReadTimeout:  s.Server.ReadTimeout,
		Version:      revision,
		PasswordHash: s.Auth.PasswordHash,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// ToggleCmd implements the toggle subcommand
type ToggleCmd struct {
	SharedOptions
}

// Execute runs the toggle command
func (c *ToggleCmd) Execute(_ []string) error {
	setupLogs(c.Debug)
	ctx := context.Background()

	kvStore, err := openStore(c.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer kvStore.Close()

	sel := selector.New(ctx, document.New(), kvStore)
	sel.Toggle(ctx)
	fmt.Fprintf(c.writer(), "%s %s, toggle with %s\n", sel.Theme(), sel.Icon(), sel.Label())
	return nil
}

// SelectCmd implements the select subcommand
type SelectCmd struct {
	SharedOptions
	RegistryOptions

	Theme string `long:"theme" required:"true" description:"theme name to select"`
}

// Execute runs the select command
func (c *SelectCmd) Execute(_ []string) error {
	setupLogs(c.Debug)

	kvStore, err := openStore(c.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer kvStore.Close()

	svc := selection.NewService(kvStore, c.registry())
	theme, err := svc.Select(context.Background(), c.Theme)
	if err != nil {
		return fmt.Errorf("can't select %q: %w", c.Theme, err)
	}
	fmt.Fprintln(c.writer(), theme)
	return nil
}

// ShowCmd implements the show subcommand
type ShowCmd struct {
	SharedOptions

	Keys bool `long:"keys" description:"list stored keys"`
}

// Execute runs the show command
func (c *ShowCmd) Execute(_ []string) error {
	setupLogs(c.Debug)
	ctx := context.Background()

	kvStore, err := openStore(c.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer kvStore.Close()

	sel := selector.New(ctx, document.New(), kvStore)
	fmt.Fprintf(c.writer(), "%s %s, toggle with %s\n", sel.Theme(), sel.Icon(), sel.Label())
	if !c.Keys {
		return nil
	}

	keys, err := kvStore.List(ctx)
	if err != nil {
		return fmt.Errorf("can't list keys: %w", err)
	}
	for _, k := range keys {
		fmt.Fprintf(c.writer(), "%s\t%d\t%s\n", k.Key, k.Size, k.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

// ResetCmd implements the reset subcommand
type ResetCmd struct {
	SharedOptions
}

// Execute drops the stored theme
func (c *ResetCmd) Execute(_ []string) error {
	setupLogs(c.Debug)

	kvStore, err := openStore(c.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer kvStore.Close()

	if err := selection.NewService(kvStore, nil).Reset(context.Background()); err != nil {
		return fmt.Errorf("can't reset theme: %w", err)
	}
	fmt.Fprintln(c.writer(), "theme reset")
	return nil
}

// SchemaCmd implements the schema subcommand
type SchemaCmd struct {
	out io.Writer
}

// Execute prints the themes file schema
func (c *SchemaCmd) Execute(_ []string) error {
	data, err := selection.GenerateRegistrySchema()
	if err != nil {
		return fmt.Errorf("can't generate schema: %w", err)
	}
	out := c.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, string(data))
	return err //nolint:wrapcheck // write to stdout
}

// openStore opens the database or in-memory store named by db.
func openStore(db string) (store.Interface, error) {
	if db == memoryDB {
		log.Printf("[DEBUG] using in-memory store")
		return store.NewMemory(), nil
	}
	st, err := store.New(db)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap
	}
	return st, nil
}

// registry builds the theme allow-list. A broken themes file leaves it unloaded.
func (r RegistryOptions) registry() *selection.Registry {
	if r.ThemesFile == "" {
		return selection.NewRegistry(r.Themes...)
	}
	reg, err := selection.LoadRegistry(r.ThemesFile)
	if err != nil {
		log.Printf("[WARN] themes not loaded, %v", err)
		return nil
	}
	log.Printf("[INFO] loaded %d themes from %s", len(reg.Themes()), r.ThemesFile)
	return reg
}

func (o SharedOptions) writer() io.Writer {
	if o.out != nil {
		return o.out
	}
	return os.Stdout
}
