package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-lifestats/internal/apiclient"
	"github.com/tartampluch/go-lifestats/internal/compat"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/export"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/server"
	"github.com/tartampluch/go-lifestats/internal/share"
	"github.com/tartampluch/go-lifestats/internal/storage"
	"github.com/tartampluch/go-lifestats/internal/telemetry"
	"github.com/tartampluch/go-lifestats/internal/views"
	"golang.org/x/sync/errgroup"
)

// app carries the dependencies of the commands so tests can swap them.
type app struct {
	out   io.Writer
	in    io.Reader
	clock engine.Clock
	debug bool

	logSetup     func(debug bool) io.Closer
	logFile      io.Closer
	loadSettings func() (config.Settings, error)
	storeKey     func(string) error
	deleteKey    func() error
}

func newApp() *app {
	return &app{
		out:          os.Stdout,
		in:           os.Stdin,
		clock:        engine.RealClock{},
		logSetup:     setupLogging,
		loadSettings: config.Load,
		storeKey:     config.StoreAPIKey,
		deleteKey:    config.DeleteAPIKey,
	}
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close() // Best effort close
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           config.CmdRoot,
		Short:         config.CmdDescRoot,
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.logFile = a.logSetup(a.debug)
		},
	}
	root.SetVersionTemplate(versionLine())
	root.SetOut(a.out)
	root.SetIn(a.in)
	root.Flags().Bool(config.FlagVersion, false, config.FlagDescVer)
	root.PersistentFlags().BoolVar(&a.debug, config.FlagDebug, false, config.FlagDescDbg)

	root.AddCommand(a.serveCmd(), a.calcCmd(), a.shareCmd(), a.tokenCmd())
	return root
}

// -----------------------------------------------------------------------------
// serve
// -----------------------------------------------------------------------------

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdServe,
		Short: config.CmdDescServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logStartupInfo()
			return a.runServe(cmd.Context())
		},
	}
}

func (a *app) runServe(ctx context.Context) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, config.ServiceName, settings.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			slog.Warn(config.ErrTelemetryFlush,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err)
		}
	}()

	cat, err := locale.NewCatalog()
	if err != nil {
		return err
	}
	slog.Info(config.MsgCatalogReady,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyLangs, cat.Languages())

	dbPath := settings.DBPath
	if dbPath == "" {
		if dbPath, err = defaultDBPath(); err != nil {
			return err
		}
	}
	store, err := storage.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Leave the interface nil when there is no backend; a typed nil would not compare equal.
	var analyzer compat.Analyzer
	if settings.UpstreamURL != "" {
		client, err := apiclient.New(settings.UpstreamURL, a.apiKey(settings))
		if err != nil {
			return err
		}
		pingUpstream(ctx, client)
		analyzer = client
	}

	srv := server.New(settings.Addr, server.Deps{
		Catalog:     cat,
		Views:       views.NewService(store),
		Compat:      compat.NewService(analyzer, a.clock),
		Clock:       a.clock,
		BaseURL:     settings.BaseURL,
		CORSOrigins: settings.CORSOrigins,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return nil
}

// pingUpstream reports whether the analysis backend answers. Serving starts either way.
func pingUpstream(ctx context.Context, client *apiclient.Client) {
	ctx, cancel := context.WithTimeout(ctx, config.UpstreamPingTimeout)
	defer cancel()

	status, err := client.Health(ctx)
	if err != nil {
		slog.Warn(config.MsgUpstreamDown,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyURL, client.BaseURL,
			config.LogKeyError, err)
		return
	}
	slog.Info(config.MsgUpstreamUp,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyURL, client.BaseURL,
		config.LogKeyStatus, status.Status)
}

// apiKey resolves the upstream key. A keyring failure only costs the key.
func (a *app) apiKey(settings config.Settings) string {
	key, err := settings.ResolveAPIKey()
	if err != nil {
		slog.Warn(config.ErrKeyringRead,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyError, err)
		return ""
	}
	return key
}

// -----------------------------------------------------------------------------
// calc
// -----------------------------------------------------------------------------

type calcOptions struct {
	birth   engine.Birthdate
	lang    string
	remote  string
	pdfPath string
	icsPath string
}

func (a *app) calcCmd() *cobra.Command {
	var opts calcOptions
	cmd := &cobra.Command{
		Use:   config.CmdCalc,
		Short: config.CmdDescCalc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalc(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.birth.Year, config.FlagYear, 0, config.FlagDescYear)
	f.IntVar(&opts.birth.Month, config.FlagMonth, 0, config.FlagDescMon)
	f.IntVar(&opts.birth.Day, config.FlagDay, 0, config.FlagDescDay)
	f.StringVar(&opts.lang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	f.StringVar(&opts.remote, config.FlagRemote, "", config.FlagDescRem)
	f.StringVar(&opts.pdfPath, config.FlagPDF, "", config.FlagDescPDF)
	f.StringVar(&opts.icsPath, config.FlagICS, "", config.FlagDescICS)
	for _, name := range []string{config.FlagYear, config.FlagMonth, config.FlagDay} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) runCalc(ctx context.Context, opts calcOptions) error {
	loc, ok := locale.Parse(opts.lang)
	if !ok {
		loc = locale.Default
	}
	cat, err := locale.NewCatalog()
	if err != nil {
		return err
	}

	var (
		stats  engine.LifeStats
		totals *views.Totals
	)
	if opts.remote != "" {
		stats, totals, err = a.remoteCalc(ctx, opts)
	} else {
		calc := engine.Calculator{Clock: a.clock}
		stats, err = calc.Calculate(opts.birth)
	}
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(a.out, renderStats(cat.Dictionary(loc), cat.Printer(loc), opts.birth, stats, totals)); err != nil {
		return err
	}

	if opts.pdfPath != "" {
		data, err := export.RenderPDF(ctx, export.Card{Birthdate: opts.birth, Stats: stats}, cat, loc).Await(ctx)
		if err != nil {
			return err
		}
		if err := writeFile(opts.pdfPath, data); err != nil {
			return err
		}
	}

	if opts.icsPath != "" {
		data, err := export.Calendar(opts.birth, a.clock.Now(), cat, loc)
		if err != nil {
			return err
		}
		if err := writeFile(opts.icsPath, data); err != nil {
			return err
		}
	}
	return nil
}

// remoteCalc fetches the stats and, concurrently, records a page view and reads
// the visitor totals. The counters are decoration: their failures are logged, not returned.
func (a *app) remoteCalc(ctx context.Context, opts calcOptions) (engine.LifeStats, *views.Totals, error) {
	settings, err := a.loadSettings()
	if err != nil {
		return engine.LifeStats{}, nil, err
	}
	client, err := apiclient.New(opts.remote, a.apiKey(settings))
	if err != nil {
		return engine.LifeStats{}, nil, err
	}

	var (
		stats  engine.LifeStats
		totals *views.Totals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := client.CalculateStats(gctx, opts.birth)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrRemoteCalc, err)
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		if _, err := client.IncrementPageView(gctx); err != nil {
			slog.Warn(config.ErrViewCountRecord,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyError, err)
		}
		t, err := client.AllViews(gctx)
		if err != nil {
			slog.Warn(config.ErrListCounts,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyError, err)
			return nil
		}
		totals = &t
		return nil
	})
	if err := g.Wait(); err != nil {
		return engine.LifeStats{}, nil, err
	}
	return stats, totals, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s %s: %w", config.ErrWriteFile, path, err)
	}
	slog.Info(config.MsgFileWritten,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyFile, path,
		config.LogKeySizeBytes, len(data))
	return nil
}

// -----------------------------------------------------------------------------
// share
// -----------------------------------------------------------------------------

func (a *app) shareCmd() *cobra.Command {
	var (
		birth   engine.Birthdate
		baseURL string
	)
	cmd := &cobra.Command{
		Use:   config.CmdShare,
		Short: config.CmdDescShare,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				b, ok := share.FromURL(args[0])
				if !ok {
					return errors.New(config.ErrShareURL)
				}
				_, err := fmt.Fprintln(a.out, b.String())
				return err
			}

			if err := birth.Validate(); err != nil {
				return err
			}
			if baseURL == "" {
				settings, err := a.loadSettings()
				if err != nil {
					return err
				}
				baseURL = settings.BaseURL
			}
			_, err := fmt.Fprintln(a.out, share.GenerateURL(baseURL, birth))
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&birth.Year, config.FlagYear, 0, config.FlagDescYear)
	f.IntVar(&birth.Month, config.FlagMonth, 0, config.FlagDescMon)
	f.IntVar(&birth.Day, config.FlagDay, 0, config.FlagDescDay)
	f.StringVar(&baseURL, config.FlagBaseURL, "", config.FlagDescBase)
	return cmd
}

// -----------------------------------------------------------------------------
// token
// -----------------------------------------------------------------------------

func (a *app) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdToken,
		Short: config.CmdDescToken,
	}

	set := &cobra.Command{
		Use:   config.CmdTokenSet,
		Short: config.CmdDescTokSet,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					key = scanner.Text()
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return errors.New(config.ErrKeyEmpty)
			}
			if err := a.storeKey(key); err != nil {
				return err
			}
			slog.Info(config.MsgKeyStored, config.LogKeyComponent, config.CompCLI)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   config.CmdTokenDelete,
		Short: config.CmdDescTokDel,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.deleteKey(); err != nil {
				return err
			}
			slog.Info(config.MsgKeyDeleted, config.LogKeyComponent, config.CompCLI)
			return nil
		},
	}

	cmd.AddCommand(set, del)
	return cmd
}
