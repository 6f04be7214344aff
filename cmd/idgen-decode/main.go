package main

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/zhukov-alex/idgen/internal/config"
	"github.com/zhukov-alex/idgen/internal/decoder"
)

func main() {
	log.SetFlags(log.Llongfile | log.Ldate | log.Ltime | log.Lmicroseconds)

	var cfgFile string
	cobra.OnInitialize(config.NewConfigInit(&cfgFile))

	cmd := &cobra.Command{
		Use:   "idgen-decode [id...]",
		Short: "Decode ids into timestamp, generator id and sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE:  decoder.DecodeCmd,
	}

	cmd.Flags().StringVar(&cfgFile, "config", "config/config.yaml", "Path to the configuration file (default: config/config.yaml)")
	cmd.Flags().String(decoder.FlagFormat, decoder.FormatDecimal, "Input format: decimal, base2, base32, base36, base58, base64")

	if err := cmd.Execute(); err != nil {
		log.Fatalf("command error: %v", err)
	}
}
