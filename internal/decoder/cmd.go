package decoder

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zhukov-alex/idgen/internal/config"
	"github.com/zhukov-alex/idgen/internal/logger"
)

const (
	EnvStage   = "ENVIRONMENT"
	FlagFormat = "format"
)

// DecodeCmd prints the fields of every id given as an argument, using the
// layout from the loaded configuration.
func DecodeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(viper.GetViper())
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	var devMode = strings.ToLower(os.Getenv(EnvStage)) != "prod"
	l, err := logger.New(cfg.Logger, devMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer l.Sync()

	format, err := cmd.Flags().GetString(FlagFormat)
	if err != nil {
		return err
	}

	structure, err := cfg.Generator.NewStructure()
	if err != nil {
		return fmt.Errorf("id structure: %w", err)
	}
	d := New(structure)

	records := make([]Record, 0, len(args))
	for _, arg := range args {
		id, err := Parse(format, arg)
		if err != nil {
			l.Warn("skipping id", zap.String("input", arg), zap.Error(err))
			continue
		}
		records = append(records, d.Decode(id))
	}
	if len(records) == 0 {
		return fmt.Errorf("no valid ids to decode")
	}
	return Write(cmd.OutOrStdout(), records)
}
