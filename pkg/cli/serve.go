package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ohyo-io/wampire/pkg/logging"
	"github.com/ohyo-io/wampire/pkg/router"
	"github.com/ohyo-io/wampire/pkg/wampmetrics"
)

var (
	servePort      int
	serveAdminPort int
	serveRealm     string
	serveConfig    string
	serveHost      string
)

// serveCmd starts the router.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start", "run"},
	Short:   "Start the WAMP router",
	Example: `  # Start with defaults
  wamprouterd serve

  # Start on a custom port, opening the realm eagerly
  wamprouterd serve -P 9000 -R my_realm

  # Load router settings from a YAML file
  wamprouterd serve --config wamprouterd.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveHost, "host", "H", "127.0.0.1", "address to bind")
	serveCmd.Flags().IntVarP(&servePort, "port", "P", 8090, "WAMP WebSocket port")
	serveCmd.Flags().IntVar(&serveAdminPort, "admin-port", 8091, "metrics/health endpoint port")
	serveCmd.Flags().StringVarP(&serveRealm, "realm", "R", "wampire_realm", "default realm name, created eagerly at startup")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "optional YAML config file")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logFormat := logging.FormatText
	logLevel := logging.LevelInfo
	if verbose {
		logLevel = logging.LevelDebug
	}

	host, port, adminPort, realm := serveHost, servePort, serveAdminPort, serveRealm
	var extraRealms []string

	if serveConfig != "" {
		fc, err := LoadFileConfig(serveConfig)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		extraRealms = fc.Realms
		if fc.Port != 0 {
			port = fc.Port
		}
		if fc.AdminPort != 0 {
			adminPort = fc.AdminPort
		}
		if fc.LogFormat == string(logging.FormatJSON) {
			logFormat = logging.FormatJSON
		}
		if fc.LogLevel != "" {
			logLevel = logging.ParseLevel(fc.LogLevel)
		}
	}

	log := logging.New(logging.Config{Level: logLevel, Format: logFormat})
	metrics := wampmetrics.New()
	r := router.New(log, metrics)

	// Opening the default realm (and any realms listed in the config
	// file) eagerly means they are counted in /metrics immediately,
	// rather than only after the first Hello.
	r.Open(realm)
	for _, name := range extraRealms {
		r.Open(name)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting wamprouterd", "host", host, "port", port, "admin_port", adminPort, "realm", realm)

	return r.ListenAndServe(ctx, router.Config{
		WAMPAddr:  fmt.Sprintf("%s:%d", host, port),
		AdminAddr: fmt.Sprintf("%s:%d", host, adminPort),
	})
}
