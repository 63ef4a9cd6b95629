// bikeshare explores US bike share trip data for Chicago, New York City and
// Washington.
//
// Usage:
//
//	bikeshare [flags]                     interactive session
//	bikeshare -city chicago -month june   one-shot summary
//	bikeshare convert -city chicago -out chicago.parquet
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/xtxerr/bikeshare/internal/config"
	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

// globalFlags are shared by the default command and convert.
type globalFlags struct {
	config   string
	dataDir  string
	engine   string
	logLevel string
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.config, "config", "bikeshare.yaml", "config file path")
	fs.StringVar(&g.dataDir, "data-dir", "", "directory holding the city files (overrides config)")
	fs.StringVar(&g.engine, "engine", "", "loader engine: "+strings.Join(constants.ValidEngines, ", ")+" (overrides config)")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
}

// loadConfig loads the config file, falling back to defaults when it does
// not exist, and applies flag overrides.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.DefaultConfig()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
	}

	if g.dataDir != "" {
		cfg.DataDir = g.dataDir
	}
	if g.engine != "" {
		cfg.Loader.Engine = g.engine
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logging.Init(level, cfg.Log.JSON)

	return cfg, nil
}

func main() {
	log.SetFlags(0)

	// A .env file in the working directory feeds the BIKESHARE_* overrides.
	if err := loadDotEnv(".env"); err != nil {
		log.Fatalf("bikeshare: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	var err error
	if len(args) > 0 && args[0] == "convert" {
		err = runConvert(ctx, args[1:], os.Stdout)
	} else {
		err = runExplore(ctx, args, os.Stdin, os.Stdout)
	}

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		log.Fatal(failureMessage(err))
	}
}

// loadDotEnv copies path's variables into the environment without replacing
// ones already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

// failureMessage formats the error main exits with. Load failures get a hint
// at where the data directory is set.
func failureMessage(err error) string {
	msg := "bikeshare: " + err.Error()
	if errors.IsLoadError(err) {
		msg += "\nhint: check -data-dir, data_dir in the config file or BIKESHARE_DATA_DIR"
	}
	return msg
}

// runExplore runs either a one-shot summary or an interactive session.
func runExplore(ctx context.Context, args []string, in *os.File, out io.Writer) error {
	fs := flag.NewFlagSet("bikeshare", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	city := fs.String("city", "", "city to summarize; skips the interactive session")
	month := fs.String("month", "all", "month filter: january..june or all")
	day := fs.String("day", "all", "day filter: monday..sunday or all")
	jsonOut := fs.Bool("json", false, "print the summary as JSON")
	version := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *version {
		fmt.Fprintf(out, "bikeshare %s\n", Version)
		return nil
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logging.Debug("bikeshare starting", "version", Version, "engine", cfg.Loader.Engine, "data_dir", cfg.DataDir)

	s := newSession(cfg, out)
	s.json = *jsonOut

	if *city != "" {
		return s.oneShot(ctx, *city, *month, *day)
	}

	if term.IsTerminal(int(in.Fd())) {
		s.ask = &promptAsker{ctx: ctx}
	} else {
		s.ask = newLineAsker(in, out)
	}
	return s.run(ctx)
}
