package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satriahrh/audexa/domain/entities"
)

var transcribeLanguage string

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Run the voice ingest pipeline on a local recording",
	Args:  cobra.ExactArgs(1),
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

		asset, err := stageRecording(args[0], application.ingest.TempPath(filepath.Ext(args[0])))
		if err != nil {
			return err
		}

		text, fail := application.ingest.Transcribe(ctx, asset, transcribeLanguage)
		if fail != nil {
			return fail
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

// stageRecording copies src into the ingest temp dir, since the pipeline
// deletes its input once it is done.
func stageRecording(src, dst string) (*entities.AudioAsset, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to stage recording: %w", err)
	}
	return &entities.AudioAsset{
		Path:           dst,
		DeclaredFormat: strings.TrimPrefix(strings.ToLower(filepath.Ext(src)), "."),
		SizeBytes:      int64(len(data)),
	}, nil
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeLanguage, "language", "l", "auto", "language hint, or auto to detect")
	rootCmd.AddCommand(transcribeCmd)
}
