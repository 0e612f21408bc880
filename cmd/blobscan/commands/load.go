/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: load.go
Description: The load command. Discovers model manifests under a directory,
loads each one, prints its moc3 header, and optionally scans all of them as a
batch.
*/

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/kleascm/blobscan/pkg/core"
	"github.com/kleascm/blobscan/pkg/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command
func NewLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Discover and load models under a directory",
		Long: `Walk a directory for model manifests, load every model found and print its
moc3 header. With --scan, every loaded buffer is analyzed in turn; a model that
fails to load or scan is logged and skipped.`,
		Args: cobra.NoArgs,
		RunE: runLoad,
	}

	cmd.Flags().String("root", "./assets", "Directory to search")
	cmd.Flags().String("pattern", "*"+source.ManifestSuffix, "Glob matched against file names")
	cmd.Flags().String("match-filename", "", "Only load files with exactly this name")
	cmd.Flags().Bool("scan", false, "Scan every loaded model")

	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	pattern, _ := cmd.Flags().GetString("pattern")
	matchFilename, _ := cmd.Flags().GetString("match-filename")
	doScan, _ := cmd.Flags().GetBool("scan")

	session, err := newScanSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer session.close()
	log := session.logger.GetLogger()

	log.WithFields(logrus.Fields{"root": root, "pattern": pattern}).Info("Looking for models")

	paths, err := source.Discover(root, source.DiscoverOptions{Pattern: pattern, MatchFilename: matchFilename})
	if err != nil {
		return err
	}

	var models []*source.Model
	for _, path := range paths {
		log.WithField("path", path).Debug("Found manifest")

		model, fallback, err := source.LoadDiscovered(path)
		if err != nil {
			log.WithFields(logrus.Fields{"path": path, "error": err}).Error("Failed to load model")
			continue
		}
		if fallback {
			log.WithField("path", path).Debug("Directory holds several models, loaded manifest directly")
		}
		models = append(models, model)
	}

	log.WithField("count", len(models)).Info("Loaded models")
	printModels(cmd, models)

	if !doScan || len(models) == 0 {
		return nil
	}

	bufs := make([]core.Buffer, 0, len(models))
	for _, model := range models {
		bufs = append(bufs, bufferFromModel(model, session.auto, log))
	}

	batch, err := session.run(cmd.Context(), bufs)
	if err != nil {
		return err
	}
	return batchError(batch)
}

// printModels writes one line per model with its header details
func printModels(cmd *cobra.Command, models []*source.Model) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tVERSION\tENDIAN\tMOC")
	for _, m := range models {
		version, endian := "-", "-"
		if m.Header != nil {
			version = m.Header.VersionName()
			endian = m.Header.Endian().String()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", m.Name, len(m.Moc), version, endian, m.MocPath)
	}
	w.Flush()
}
