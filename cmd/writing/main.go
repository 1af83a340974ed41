package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	command "github.com/goliatone/go-command"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-writing"
	"github.com/goliatone/go-writing/cmd/writing/internal/bootstrap"
	writingcmd "github.com/goliatone/go-writing/internal/commands/writing"
	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

type handlerSet struct {
	list  command.Commander[writingcmd.ListPostsCommand]
	show  command.Commander[writingcmd.ShowPostCommand]
	check command.Commander[writingcmd.CheckContentCommand]
}

type moduleResources struct {
	handlers   handlerSet
	contentDir string
	logger     interfaces.Logger
	close      func() error
}

type moduleOptions struct {
	config    writing.Config
	logWriter io.Writer
}

var moduleBuilder = buildModule

func buildModule(opts moduleOptions) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(bootstrap.Options{
		Config:    opts.config,
		LogWriter: opts.logWriter,
	})
	if err != nil {
		return nil, err
	}
	return &moduleResources{
		handlers: handlerSet{
			list:  module.Handlers.List,
			show:  module.Handlers.Show,
			check: module.Handlers.Check,
		},
		contentDir: opts.config.Writing.ContentDir,
		logger:     module.Logger,
		close:      module.Close,
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "writing: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type app struct {
	v          *viper.Viper
	configFile string
	format     string
	out        io.Writer
	errOut     io.Writer
	resources  *moduleResources
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{
		v:      bootstrap.NewViper(),
		out:    out,
		errOut: errOut,
	}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if closeErr := a.teardown(); err == nil {
		err = closeErr
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "writing",
		Short:         "Inspect the writing collection",
		Long:          "writing lists, renders and checks the markdown posts under the content root.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./writing.yaml)")
	flags.StringVarP(&a.format, "format", "f", formatJSON, "output format: json or yaml")
	flags.String("content-dir", "", "content root holding the posts")
	flags.String("env", "", "runtime environment: development, production or test")
	flags.String("log-provider", "", "logging provider: console, gologger or zerolog")
	flags.String("log-level", "", "minimum log level")

	bindings := map[string]string{
		"content-dir":  bootstrap.KeyContentDir,
		"env":          bootstrap.KeyEnvironment,
		"log-provider": bootstrap.KeyLoggingProvider,
		"log-level":    bootstrap.KeyLoggingLevel,
	}
	for flag, key := range bindings {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newCheckCommand(a),
		newWatchCommand(a),
	)
	return root
}

func (a *app) setup() error {
	format, err := parseFormat(a.format)
	if err != nil {
		return err
	}
	a.format = format

	if err := bootstrap.ReadConfigFile(a.v, a.configFile); err != nil {
		return err
	}
	cfg := bootstrap.LoadConfig(a.v)

	resources, err := moduleBuilder(moduleOptions{config: cfg, logWriter: a.errOut})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if resources.logger == nil {
		resources.logger = logging.NoOp()
	}
	a.resources = resources
	return nil
}

func (a *app) teardown() error {
	if a.resources == nil || a.resources.close == nil {
		return nil
	}
	return a.resources.close()
}

func newListCommand(a *app) *cobra.Command {
	msg := writingcmd.ListPostsCommand{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var page *interfaces.PostPage
			msg.OnResult = func(result *interfaces.PostPage) { page = result }
			if err := a.resources.handlers.list.Execute(cmd.Context(), msg); err != nil {
				return err
			}
			return encode(a.out, a.format, page)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&msg.Limit, "limit", 0, "page size (0 uses the default)")
	flags.StringVar(&msg.Cursor, "cursor", "", "slug of the last post of the previous page")
	flags.StringVar(&msg.Category, "category", "", "only posts in this category")
	flags.StringVar(&msg.Tag, "tag", "", "only posts carrying this tag")
	flags.StringVar(&msg.Query, "query", "", "case-insensitive text search")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Render one post as blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content *interfaces.PostContent
			msg := writingcmd.ShowPostCommand{
				Slug:     strings.TrimSpace(args[0]),
				OnResult: func(result *interfaces.PostContent) { content = result },
			}
			if err := a.resources.handlers.show.Execute(cmd.Context(), msg); err != nil {
				return err
			}
			return encode(a.out, a.format, content)
		},
	}
}

func newCheckCommand(a *app) *cobra.Command {
	msg := writingcmd.CheckContentCommand{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Convert every post and report totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCheck(cmd.Context(), msg)
		},
	}
	cmd.Flags().BoolVar(&msg.FailOnFallback, "fail-on-fallback", false, "exit non-zero when a math expression falls back to source")
	return cmd
}

func (a *app) runCheck(ctx context.Context, msg writingcmd.CheckContentCommand) error {
	var report *interfaces.CheckReport
	msg.OnResult = func(result *interfaces.CheckReport) { report = result }
	err := a.resources.handlers.check.Execute(ctx, msg)
	if report != nil {
		if encErr := encode(a.out, a.format, report); encErr != nil {
			return encErr
		}
	}
	return err
}
