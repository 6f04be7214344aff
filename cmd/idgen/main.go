package main

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/zhukov-alex/idgen/internal/app"
	"github.com/zhukov-alex/idgen/internal/config"
)

func main() {
	log.SetFlags(log.Llongfile | log.Ldate | log.Ltime | log.Lmicroseconds)

	var cfgFile string
	cobra.OnInitialize(config.NewConfigInit(&cfgFile))

	cmd := &cobra.Command{
		Use:   "idgen",
		Short: "Snowflake id generator service",
		RunE:  app.ServeCmd,
	}

	cmd.Flags().StringVar(&cfgFile, "config", "config/config.yaml", "Path to the configuration file (default: config/config.yaml)")

	if err := cmd.Execute(); err != nil {
		log.Fatalf("command error: %v", err)
	}
}
