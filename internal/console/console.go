// Package console implements the terminal front end: sub-command parsing,
// table and chart rendering, and localized error banners.
package console

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/export"
	"github.com/ammerola/stockroom/internal/i18n"
	"github.com/ammerola/stockroom/internal/importer"
	"github.com/ammerola/stockroom/internal/pkg/logger"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options wires the console to its collaborators
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	Client   *api.Client
	Sessions ports.SessionStore
	Settings *services.SettingsService

	// Storage receives exports; nil keeps them local
	Storage    ports.ObjectStorage
	PresignTTL time.Duration
	ExportDir  string
	Importer   *importer.Importer

	// Reporter receives stock movements that were only partially applied
	Reporter ports.PartialFailureReporter
	// Cache holds dashboard summaries; nil disables caching
	Cache    ports.CacheRepository
	CacheTTL time.Duration

	// Locale is the environment's language preference, e.g. $LANG
	Locale string
	Logger *slog.Logger
}

// Console runs one command line at a time
type Console struct {
	opts   Options
	out    io.Writer
	errOut io.Writer
	in     *bufio.Reader
	logger *slog.Logger

	settings domain.Settings
	l        *i18n.Localizer
	auth     *services.AuthService
	session  *domain.Session
}

type command struct {
	usage string
	auth  bool
	run   func(ctx context.Context, args []string) error
}

// errSilent fails a command whose output already explained the failure
var errSilent = errors.New("command failed")

type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// New creates a console
func New(opts Options) *Console {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Console{
		opts:   opts,
		out:    opts.Stdout,
		errOut: opts.Stderr,
		in:     bufio.NewReader(opts.Stdin),
		logger: opts.Logger.With(slog.String("component", "console")),
	}
}

func (c *Console) commands() map[string]command {
	return map[string]command{
		"login":             {usage: "login --email E [--password P]", run: c.login},
		"register":          {usage: "register --name N --email E [--password P]", run: c.register},
		"logout":            {usage: "logout", run: c.logout},
		"whoami":            {usage: "whoami", run: c.whoami},
		"health":            {usage: "health", run: c.health},
		"settings show":     {usage: "settings show", run: c.settingsShow},
		"settings set":      {usage: "settings set KEY VALUE", run: c.settingsSet},
		"inventory list":    {usage: "inventory list [--search S] [--category C] [--supplier S] [--status S] [--sort F] [--order asc|desc]", auth: true, run: c.inventoryList},
		"inventory show":    {usage: "inventory show ID", auth: true, run: c.inventoryShow},
		"inventory create":  {usage: "inventory create --name N --sku S --category C --supplier S --unit U --quantity Q --price P", auth: true, run: c.inventoryCreate},
		"inventory update":  {usage: "inventory update ID [field flags]", auth: true, run: c.inventoryUpdate},
		"inventory delete":  {usage: "inventory delete ID [--yes]", auth: true, run: c.inventoryDelete},
		"inventory export":  {usage: "inventory export [--out FILE] [list filters]", auth: true, run: c.inventoryExport},
		"inventory import":  {usage: "inventory import FILE [--dry-run]", auth: true, run: c.inventoryImport},
		"suppliers list":    {usage: "suppliers list [--search S] [--status S] [--sort F] [--order asc|desc]", auth: true, run: c.suppliersList},
		"suppliers show":    {usage: "suppliers show ID", auth: true, run: c.suppliersShow},
		"suppliers create":  {usage: "suppliers create --name N --contact C --email E --phone P", auth: true, run: c.suppliersCreate},
		"suppliers update":  {usage: "suppliers update ID [field flags]", auth: true, run: c.suppliersUpdate},
		"suppliers delete":  {usage: "suppliers delete ID [--yes]", auth: true, run: c.suppliersDelete},
		"suppliers export":  {usage: "suppliers export [--out FILE] [list filters]", auth: true, run: c.suppliersExport},
		"transactions list": {usage: "transactions list [--search S] [--type T] [--item ID] [--sort F] [--order asc|desc] [--limit N]", auth: true, run: c.transactionsList},
		"stock dispatch":    {usage: "stock dispatch ITEM-ID --quantity N [--note T] [--reference R]", auth: true, run: c.stockDispatch},
		"stock receive":     {usage: "stock receive ITEM-ID --quantity N [--note T] [--reference R]", auth: true, run: c.stockReceive},
		"dashboard":         {usage: "dashboard [--refresh] [--svg FILE] [--chart category|movements]", auth: true, run: c.dashboard},
	}
}

// Run executes one command line and returns the process exit code
func (c *Console) Run(ctx context.Context, args []string) int {
	global := flag.NewFlagSet("stockroom", flag.ContinueOnError)
	global.SetOutput(c.errOut)
	lang := global.String("lang", "", "interface language (en, es, id)")
	global.Usage = c.usage
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	settings, err := c.opts.Settings.Load()
	if err != nil {
		c.logger.WarnContext(ctx, "falling back to default settings", slog.String("error", err.Error()))
		settings = domain.DefaultSettings()
	}
	c.settings = settings
	c.l = i18n.New(i18n.Match(*lang, settings.Language, c.opts.Locale))
	c.auth = services.NewAuthService(api.NewAuthClient(c.opts.Client), c.opts.Sessions,
		c.opts.Client.BaseURL().String(), c.opts.Logger)

	name, rest := c.resolve(global.Args())
	cmd, ok := c.commands()[name]
	if !ok {
		if name == "" {
			c.usage()
		} else {
			fmt.Fprintf(c.errOut, "unknown command %q\n", name)
			c.usage()
		}
		return ExitUsage
	}

	ctx = logger.WithCommand(ctx, name)
	if cmd.auth {
		session, err := c.auth.Restore(ctx)
		if err != nil {
			return c.exit(ctx, name, cmd, err)
		}
		c.session = session
		ctx = logger.WithUserID(ctx, session.User.ID)
	}

	return c.exit(ctx, name, cmd, cmd.run(ctx, rest))
}

// resolve picks the longest registered command name that prefixes args
func (c *Console) resolve(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	cmds := c.commands()
	if len(args) >= 2 {
		if _, ok := cmds[args[0]+" "+args[1]]; ok {
			return args[0] + " " + args[1], args[2:]
		}
	}
	return args[0], args[1:]
}

func (c *Console) exit(ctx context.Context, name string, cmd command, err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if errors.Is(err, errSilent) {
		return ExitError
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(c.errOut, uerr.msg)
		fmt.Fprintln(c.errOut, "usage: stockroom "+cmd.usage)
		return ExitUsage
	}
	if errors.Is(err, ports.ErrNoSession) {
		fmt.Fprintln(c.errOut, c.l.T(i18n.MsgNotSignedIn))
		return ExitError
	}

	c.logger.DebugContext(ctx, "command failed",
		slog.String("command", name),
		slog.String("error", err.Error()))
	fmt.Fprintln(c.errOut, c.l.Describe(err))
	return ExitError
}

func (c *Console) usage() {
	cmds := c.commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(c.errOut, "usage: stockroom [--lang en|es|id] COMMAND [ARGS]")
	fmt.Fprintln(c.errOut, "commands:")
	for _, name := range names {
		fmt.Fprintln(c.errOut, "  "+cmds[name].usage)
	}
}

// parse parses flags that may appear before, between or after positionals
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, usagef("%v", err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (c *Console) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func exactArgs(args []string, n int, what string) error {
	if len(args) != n {
		return usagef("expected %s", what)
	}
	return nil
}

// visited reports the names of flags set on the command line
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func (c *Console) viewOptions() services.ViewOptions {
	return services.ViewOptions{Settings: c.settings, Language: c.l.Tag()}
}

func (c *Console) printf(key string, args ...any) {
	fmt.Fprintln(c.out, c.l.T(key, args...))
}

func (c *Console) renderTable(t export.Table, total int) error {
	if t.Len() == 0 {
		c.printf(i18n.MsgNoRecords)
		return nil
	}

	if err := c.writeTable(t); err != nil {
		return err
	}
	c.printf(i18n.MsgShowing, t.Len(), total)
	return nil
}

func (c *Console) writeTable(t export.Table) error {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Strings() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// renderRecord prints a single-row table as aligned label/value lines
func (c *Console) renderRecord(t export.Table) error {
	rows := t.Strings()
	if len(rows) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for i, h := range t.Headers {
		fmt.Fprintf(tw, "%s:\t%s\n", h, rows[0][i])
	}
	return tw.Flush()
}

// confirm asks a yes/no question on stdin; anything but y/yes declines
func (c *Console) confirm(subject string) bool {
	fmt.Fprint(c.out, c.l.T(i18n.MsgConfirmDel, subject))
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (c *Console) prompt(label string) string {
	fmt.Fprint(c.out, label+": ")
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (c *Console) dashboardService() *services.DashboardService {
	opts := []services.DashboardOption{}
	if c.opts.Cache != nil {
		opts = append(opts, services.WithDashboardCache(c.opts.Cache, c.opts.CacheTTL))
	}
	return services.NewDashboardService(
		api.NewInventoryAPI(c.opts.Client),
		api.NewSupplierAPI(c.opts.Client),
		api.NewTransactionAPI(c.opts.Client),
		c.opts.Logger, opts...)
}

// invalidateDashboard drops the cached summary after a write
func (c *Console) invalidateDashboard(ctx context.Context) {
	if c.opts.Cache != nil {
		c.dashboardService().Invalidate(ctx)
	}
}

func (c *Console) userEmail() string {
	if c.session == nil {
		return ""
	}
	return c.session.User.Email
}
