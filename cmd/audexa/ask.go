package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satriahrh/audexa/domain/entities"
)

var askLanguage string

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Answer one query and print the response package as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		application, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close(ctx)

		pkg := application.conversation.Answer(ctx, strings.Join(args, " "), entities.ConversationContext{}, askLanguage)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pkg)
	},
}

func init() {
	askCmd.Flags().StringVarP(&askLanguage, "language", "l", "auto", "reply language, or auto to detect")
	rootCmd.AddCommand(askCmd)
}
