/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: archive.go
Description: The archive command group. Lists the entries of a ZIP container,
extracts selected entries into a directory, and scans selected entries as a
batch, one buffer per entry.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/kleascm/blobscan/pkg/core"
	"github.com/kleascm/blobscan/pkg/source"
	"github.com/spf13/cobra"
)

// NewArchiveCommand creates the archive command group
func NewArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Work with container archives",
	}
	cmd.PersistentFlags().String("archive", "", "Path to a ZIP container (required)")
	cmd.MarkPersistentFlagRequired("archive")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of an archive",
		Args:  cobra.NoArgs,
		RunE:  runArchiveList,
	}
	listCmd.Flags().BoolP("no-header", "H", false, "Skip printing the column header")
	listCmd.Flags().BoolP("sizes", "s", false, "Include entry sizes")
	listCmd.Flags().BoolP("tags", "t", false, "Include entry tags")

	scanCmd := &cobra.Command{
		Use:   "scan [ENTRY...]",
		Short: "Scan archive entries for void and data regions",
		Long: `Scan the named entries of an archive, or every entry when none are named.
With --tagged, the names refer to entry tags rather than file names.`,
		RunE: runArchiveScan,
	}
	scanCmd.Flags().Bool("tagged", false, "Entries refer to tags rather than file names")

	extractCmd := &cobra.Command{
		Use:   "extract [ENTRY...]",
		Short: "Extract archive entries into a directory",
		Long: `Write the named entries of an archive, or every entry when none are named,
into the output directory. With --tagged, the names refer to entry tags.`,
		RunE: runArchiveExtract,
	}
	extractCmd.Flags().StringP("output", "o", "output", "Directory to extract into")
	extractCmd.Flags().Bool("tagged", false, "Entries refer to tags rather than file names")
	extractCmd.Flags().BoolP("verbose", "v", false, "Print each extracted entry")

	cmd.AddCommand(listCmd, extractCmd, scanCmd)
	return cmd
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("archive")
	noHeader, _ := cmd.Flags().GetBool("no-header")
	sizes, _ := cmd.Flags().GetBool("sizes")
	tags, _ := cmd.Flags().GetBool("tags")

	entries, err := source.OpenArchive(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !noHeader {
		columns := []string{"FILENAME"}
		if sizes {
			columns = append(columns, "SIZE")
		}
		if tags {
			columns = append(columns, "TAG")
		}
		fmt.Fprintln(out, strings.Join(columns, "\t"))
	}

	for _, e := range entries {
		fmt.Fprintln(out, formatEntry(e, sizes, tags))
	}
	return nil
}

// formatEntry renders an entry row; an empty tag leaves its column off
func formatEntry(e source.Entry, sizes, tags bool) string {
	columns := []string{e.Name}
	if sizes {
		columns = append(columns, fmt.Sprintf("%d", e.Size))
	}
	if tags && e.Tag != "" {
		columns = append(columns, e.Tag)
	}
	return strings.Join(columns, "\t")
}

func runArchiveExtract(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("archive")
	output, _ := cmd.Flags().GetString("output")
	tagged, _ := cmd.Flags().GetBool("tagged")
	verbose, _ := cmd.Flags().GetBool("verbose")

	entries, err := source.OpenArchive(path)
	if err != nil {
		return err
	}

	selected := source.SelectEntries(entries, args, tagged)
	if len(selected) == 0 {
		return fmt.Errorf("no archive entries match %v", args)
	}

	if _, err := source.ExtractEntries(selected, output); err != nil {
		return err
	}

	if verbose {
		for _, e := range selected {
			fmt.Fprintf(cmd.OutOrStdout(), "extract: %s (%d bytes)\n", e.Name, e.Size)
		}
	}
	return nil
}

func runArchiveScan(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("archive")
	tagged, _ := cmd.Flags().GetBool("tagged")

	session, err := newScanSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer session.close()
	log := session.logger.GetLogger()

	entries, err := source.OpenArchive(path)
	if err != nil {
		return err
	}

	selected := source.SelectEntries(entries, args, tagged)
	if len(selected) == 0 {
		return fmt.Errorf("no archive entries match %v", args)
	}

	bufs := make([]core.Buffer, 0, len(selected))
	for _, e := range selected {
		bufs = append(bufs, bufferFromModel(source.ModelFromEntry(path, e), session.auto, log))
	}

	batch, err := session.run(cmd.Context(), bufs)
	if err != nil {
		return err
	}
	return batchError(batch)
}
