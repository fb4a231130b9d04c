package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/savebox/go/savebox/pkg"
	"github.com/provide-io/savebox/go/savebox/pkg/config"
	"github.com/provide-io/savebox/go/savebox/pkg/logging"
	"github.com/provide-io/savebox/go/savebox/pkg/save/session"
	"github.com/provide-io/savebox/go/savebox/pkg/server"
)

const version = "0.3.0"

var (
	logLevel     string
	dataDir      string
	profilesFile string
	checksumSalt string
	listenAddr   string
	batchMode    bool
	rootCmd      *cobra.Command
	versionFlag  bool
)

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion() {
	fmt.Printf("savebox %s\n", version)
	fmt.Printf("Built: %s\n", getBuildTimestamp())
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "savebox",
		Short: "Read and write the storage boxes of GBA Pokémon saves",
		Long: `savebox decodes the PC storage of FireRed-engine saves into JSON records,
writes edited records back into a copy of the save, and upgrades old cloud
box files to the current record format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				return nil
			}
			_, err := logging.ParseLevel(logLevel)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				printVersion()
				return nil
			}
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&dataDir, "data-dir", "", "Directory holding the game data tables")
	flags.StringVar(&profilesFile, "profiles", "", "YAML file adding or overriding game profiles")
	flags.StringVar(&checksumSalt, "salt", "", "Salt appended to records before checksumming")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	uploadCmd := &cobra.Command{
		Use:   "upload-save <save-file>",
		Short: "Print the boxes of a save as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(s *session.Session, args []string) error {
			return printJSON(server.Response{Data: s.UploadSave(args[0])})
		}),
	}

	updateCmd := &cobra.Command{
		Use:   "update-save <edited-json> <original-save>",
		Short: "Write edited records into a copy of a save",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(func(s *session.Session, args []string) error {
			return printJSON(server.Response{Data: s.UpdateSave(args[0], args[1])})
		}),
	}

	convertCmd := &cobra.Command{
		Use:   "convert-cloud-file <cloud-file>",
		Short: "Upgrade the records of a cloud box file in place",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(s *session.Session, args []string) error {
			return printJSON(server.Response{Data: s.ConvertOldCloudFile(args[0])})
		}),
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <save-file>",
		Short: "Check the block checksums and footers of a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := newLogger("savebox-verify", cfg)
			registry, err := pkg.LoadRegistry(cfg)
			if err != nil {
				return err
			}
			reports, err := pkg.VerifySaveWithLogger(args[0], registry, logger)
			for _, r := range reports {
				state := "valid"
				switch {
				case r.Empty:
					state = "empty"
				case !r.Valid():
					state = "invalid: " + r.Err.Error()
				}
				active := ""
				if r.Active {
					active = " (active)"
				}
				fmt.Printf("slot %s%s: %s\n", r.Name, active, state)
			}
			return err
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the save operations over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			logger := newLogger("savebox", cfg)
			s, err := pkg.NewSession(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(s, logger.Named("server")).ListenAndServe(ctx, cfg.ListenAddr)
		},
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on (default "+config.DefaultListenAddr+")")

	interfaceCmd := &cobra.Command{
		Use:   "interface [COMMAND args...]",
		Short: "Run one positional command, or a batch from stdin, printing {\"data\": ...}",
		RunE: withSession(func(s *session.Session, args []string) error {
			if batchMode {
				_, err := server.RunBatch(s, os.Stdin, os.Stdout, nil)
				return err
			}
			if len(args) == 0 {
				return fmt.Errorf("a command is required unless --batch is given")
			}
			return printJSON(server.Response{Data: server.Dispatch(s, args[0], args[1:])})
		}),
	}
	interfaceCmd.Flags().BoolVar(&batchMode, "batch", false, "Read one command per line from stdin")

	rootCmd.AddCommand(uploadCmd, updateCmd, convertCmd, verifyCmd, serveCmd, interfaceCmd)
}

// loadConfig layers the command-line flags over the environment
func loadConfig() config.Config {
	cfg := config.FromEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if profilesFile != "" {
		cfg.ProfilesFile = profilesFile
	}
	if checksumSalt != "" {
		cfg.ChecksumSalt = checksumSalt
	}
	return cfg
}

func newLogger(name string, cfg config.Config) hclog.Logger {
	return logging.NewLogger(name, cfg.LogLevel, nil)
}

func withSession(run func(s *session.Session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := pkg.NewSession(cfg, newLogger("savebox", cfg))
		if err != nil {
			return err
		}
		return run(s, args)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
