package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/esiddiqui/agriwell/config"
	"github.com/esiddiqui/agriwell/identity"
	"github.com/esiddiqui/agriwell/site"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type RootOpts struct {
	ConfigPath string
	LoggerMode string
}

func Exec() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := getRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		log.Error(err)
		stop()
		os.Exit(-1)
	}
}

func getRootCommand() *cobra.Command {

	opts := &RootOpts{}
	version := "0.1.0"
	rootCmd := &cobra.Command{
		Use:           "agriwell",
		Version:       version,
		Short:         "agriwell serves the Agri-Well landing site & signs every visitor in with the identity provider",
		SilenceErrors: true, // errors returned from RunE are logged by Exec
		SilenceUsage:  true,
		RunE:          getRun(opts),
	}

	persistentFlags := rootCmd.PersistentFlags()
	persistentFlags.StringVar(&opts.ConfigPath, "config", "agriwell.yml", "The fully-qualified filename for agriwell configuration")
	persistentFlags.StringVar(&opts.LoggerMode, "log-level", "info", "Set the logger break-level (fatal | error| warn| info| debug|trace)")

	return rootCmd
}

// getRun returns the run function that does the work
func getRun(opts *RootOpts) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, s []string) error {
		// intialize logger
		configureLogger(opts.LoggerMode)

		// load config
		log.Debug("loading agriwell configuration")
		cfg, err := config.LoadConfig(opts.ConfigPath)
		if err != nil {
			return err
		}

		server, err := site.NewHttpServer(cfg, identity.NewFactory(cfg.Provider))
		if err != nil {
			return err
		}

		err = server.ListenAndServe(c.Context())
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// configures the logger to the supplied level
func configureLogger(level string) {

	var logLevel log.Level

	switch level {
	case "trace":
		logLevel = log.TraceLevel
	case "debug":
		logLevel = log.DebugLevel
	case "info":
		logLevel = log.InfoLevel
	case "warn":
		logLevel = log.WarnLevel
	case "error":
		logLevel = log.ErrorLevel
	case "fatal":
		logLevel = log.FatalLevel
	case "panic":
		logLevel = log.PanicLevel
	default:
		logLevel = log.InfoLevel
	}

	//set log level & formatter..
	log.SetLevel(logLevel)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})
	log.Debugf("log level set to %v", level)
}
