/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyze.go
Description: The analyze command. Loads one buffer from a model manifest, a
runtime directory or a raw file and runs the void/data scan over it.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/blobscan/pkg/core"
	"github.com/kleascm/blobscan/pkg/source"
	"github.com/spf13/cobra"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Scan a single model or file for void and data regions",
		Long: `Scan one buffer word by word. DATA regions are logged at info level with
their inferred type, VOID regions (8 or more zero words) at debug level and
per-word decodes at trace level.`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().String("model-file", "", "Path to a .model3.json manifest")
	cmd.Flags().String("runtime-dir", "", "Directory containing exactly one model")
	cmd.Flags().String("file", "", "Path to a raw binary file")
	cmd.MarkFlagsMutuallyExclusive("model-file", "runtime-dir", "file")
	cmd.MarkFlagsOneRequired("model-file", "runtime-dir", "file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	session, err := newScanSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer session.close()

	model, err := loadAnalyzeTarget(cmd)
	if err != nil {
		return err
	}

	buf := bufferFromModel(model, session.auto, session.logger.GetLogger())
	batch, err := session.run(cmd.Context(), []core.Buffer{buf})
	if err != nil {
		return err
	}
	return batch.Err()
}

func loadAnalyzeTarget(cmd *cobra.Command) (*source.Model, error) {
	modelFile, _ := cmd.Flags().GetString("model-file")
	runtimeDir, _ := cmd.Flags().GetString("runtime-dir")
	file, _ := cmd.Flags().GetString("file")

	switch {
	case modelFile != "":
		return source.LoadManifest(modelFile)
	case runtimeDir != "":
		return source.LoadRuntimeDir(runtimeDir)
	case file != "":
		return source.LoadRaw(file)
	default:
		return nil, fmt.Errorf("one of --model-file, --runtime-dir or --file is required")
	}
}
