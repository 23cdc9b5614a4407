package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/vphpersson/typeddict_generation/internal/config"
	"github.com/vphpersson/typeddict_generation/internal/logging"
	"github.com/vphpersson/typeddict_generation/pkg/producers/typeddict"
)

var flagKeys = []struct {
	flag string
	key  string
}{
	{flag: "output-path", key: config.KeyOutputPath},
	{flag: "root-name", key: config.KeyRootName},
	{flag: "log-level", key: config.KeyLogLevel},
	{flag: "log-file", key: config.KeyLogFile},
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.WritesToStdout() {
		output, err := typeddict.ConvertFile(cfg.SchemaPath, cfg.RootName)
		if err != nil {
			return fmt.Errorf("convert file: %w", err)
		}
		if _, err := fmt.Fprint(cmd.OutOrStdout(), output); err != nil {
			return fmt.Errorf("fmt fprint: %w", err)
		}
		return nil
	}

	if err := typeddict.ConvertSchemaTo(cfg.SchemaPath, cfg.OutputPath, cfg.RootName); err != nil {
		return fmt.Errorf("convert schema to: %w", err)
	}

	return nil
}

func newConfigSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(config.GenerateJSONSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("json marshal indent: %w", err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(data)); err != nil {
				return fmt.Errorf("fmt fprintln: %w", err)
			}
			return nil
		},
	}
}

func NewRootCommand() *cobra.Command {
	v := config.NewViper()
	var configFile string

	cmd := &cobra.Command{
		Use:   "jsonschema_to_typeddict [flags] <schema_path>",
		Short: "Generate a Python TypedDict stub from a JSON Schema document",
		Long: `jsonschema_to_typeddict converts a JSON Schema document into a Python stub declaring
loosened TypedDict, Literal and alias types for it. Constraints of the schema become
typing_extensions.Annotated strings; nothing in the stub validates data at runtime.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set(config.KeySchemaPath, args[0])
			}

			cfg, err := config.Load(v, configFile)
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}

			logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("logging new: %w", err)
			}
			if closer != nil {
				defer closer.Close()
			}
			slog.SetDefault(logger)

			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("output-path", "o", config.StdoutPath, "path of the generated stub file (- for standard output)")
	flags.StringP("root-name", "r", "", "name of the root type")
	flags.String("log-level", "INFO", "log level ("+strings.Join(logging.Levels, ", ")+")")
	flags.String("log-file", "", "file to append log records to instead of standard error")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .typeddict.yaml in the working directory)")

	for _, flagKey := range flagKeys {
		if err := v.BindPFlag(flagKey.key, flags.Lookup(flagKey.flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flagKey.flag, err))
		}
	}

	cmd.AddCommand(newConfigSchemaCommand())

	return cmd
}
