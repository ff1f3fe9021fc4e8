package playground

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/7vars/combine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string
	Verbose bool

	conf combine.Config
}

type entry struct {
	name  string
	short string
	run   func(*page)
}

// Pages in the order "all" runs them.
var pages = []entry{
	{"lifecycle", "Trace the subscribe, request, receive and complete handshake", lifecycle},
	{"publishers", "Just, Future, Deferred, Empty, Sequence, Fail, Record and Published", publishers},
	{"subscribers", "Sink and Assign", subscribers},
	{"cancellables", "Cancelling subscriptions by hand and through a Set", cancellables},
	{"operators", "Filter, Map, AllSatisfy, Count, Throttle, Debounce, Merge, CombineLatest and Catch", operators},
	{"subjects", "CurrentValueSubject and PassthroughSubject", subjects},
}

var logger = combine.NewLogger().WithField("component", "playground")

// NewRootCommand creates the root command of the playground.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "playground",
		Short: "Walk through reactive streams, one page at a time",
		Long: `Runs annotated demonstrations of publishers, subscribers, subjects,
operators and cancellables. Time-based operators run on a virtual clock, so
every run prints the same output.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.configure()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "configuration file (yaml, json or toml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	for _, e := range pages {
		cmd.AddCommand(newPageCommand(opts, e))
	}
	cmd.AddCommand(newAllCommand(opts))

	return cmd
}

func (o *RootOptions) configure() error {
	conf := combine.GlobalConfig()
	if o.Config != "" {
		loaded, err := combine.LoadConfig(o.Config)
		if err != nil {
			return err
		}
		conf = loaded
	}
	if o.Verbose {
		v := viper.New()
		for _, key := range []string{combine.KeyLogFormatter, combine.KeyPrintPrefix} {
			if conf.IsSet(key) {
				v.Set(key, conf.Get(key))
			}
		}
		v.Set(combine.KeyLogLevel, "DEBUG")
		conf = combine.ConfigFrom(v)
	}
	combine.ConfigureLogging(conf)
	o.conf = conf
	return nil
}

func (o *RootOptions) page(w io.Writer) *page {
	prefix := ""
	if o.conf != nil {
		prefix = o.conf.GetStringDefault(combine.KeyPrintPrefix, "")
	}
	return &page{w: w, prefix: prefix}
}

func newPageCommand(opts *RootOptions, e entry) *cobra.Command {
	return &cobra.Command{
		Use:   e.name,
		Short: e.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(opts, cmd.OutOrStdout(), e)
		},
	}
}

func newAllCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every page",
		Long: "Runs " + strings.Join(lo.Map(pages, func(e entry, _ int) string {
			return e.name
		}), ", ") + " in that order.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(opts, cmd.OutOrStdout(), pages...)
		},
	}
}

func runPages(opts *RootOptions, w io.Writer, entries ...entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page failed: %w", combine.Recovered(r))
		}
	}()
	p := opts.page(w)
	for _, e := range entries {
		logger.Debugf("running page %s", e.name)
		e.run(p)
	}
	return nil
}
