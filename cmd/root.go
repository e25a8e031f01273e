package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maastricht-university/alr-timing/config"
	"github.com/maastricht-university/alr-timing/logging"
	"github.com/maastricht-university/alr-timing/orchestrator"
	"github.com/maastricht-university/alr-timing/store"
)

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"store.path":         "db",
	"pipeline.log_level": "log-level",
	"labeling.doc_id":    "doc",
	"labeling.listener":  "listener",
	"labeling.tolerance": "tolerance",
}

type app struct {
	v       *viper.Viper
	cfgFile string
	conf    *config.Root
}

// NewRootCmd builds the alr command tree. Run without a subcommand it labels
// the configured document, which by default is document 1 for listener "o".
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "alr",
		Short: "Label listener response timing in ALR annotation databases",
		Long: `alr reads clause and response annotations from an ALR sqlite database and
labels listener response onsets on a 10 ms grid.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
		RunE:              a.runIntervals,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is config/$CONFIG_ENV/config.yaml)")
	pf.String("db", "", "annotation database path (default ./alr.db)")
	pf.String("log-level", "", "log level (default info)")
	pf.Int64("doc", 0, "document id (default 1)")
	pf.String("listener", "", `listener whose responses are labeled (default "o")`)
	pf.Float64("tolerance", 0, "onset match tolerance in seconds, 0 for exact match")

	for key, flag := range flagKeys {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind --%s to %s: %v", flag, key, err))
		}
	}

	root.AddCommand(
		a.intervalsCmd(),
		a.pairsCmd(),
		a.exportCmd(),
		a.dumpCmd(),
		a.responsesCmd(),
		a.metaCmd(),
		a.idsCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("alr failed")
		os.Exit(1)
	}
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	conf, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := logging.Init(conf.Pipeline.LogLvl); err != nil {
		return err
	}
	a.conf = conf
	return nil
}

// withStore opens the store for the duration of fn.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, s *store.Store, p *orchestrator.Pipeline) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := store.Open(ctx, a.conf.Store.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logging.For("cmd").WithError(err).Warn("close store")
		}
	}()
	return fn(ctx, s, orchestrator.NewPipeline(a.conf, s))
}
