package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVReferenceWriter writes reference listings as CSV.
type CSVReferenceWriter struct{}

// Write outputs the reference listing as CSV.
func (w *CSVReferenceWriter) Write(report *ReferenceReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"Name", "FullName", "Kind", "Target", "Tracks", "Detached"}); err != nil {
		return err
	}

	for _, ref := range report.References {
		row := []string{
			ref.Name,
			ref.FullName,
			ref.Kind.String(),
			ref.Target,
			ref.TracksRemote,
			fmt.Sprintf("%t", ref.Detached),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVCommitWriter writes commit listings as CSV.
type CSVCommitWriter struct{}

// Write outputs the commit listing as CSV.
func (w *CSVCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"SHA", "ShortID", "Summary", "Parents", "DetachedOnly"}); err != nil {
		return err
	}

	g := report.Graph
	for _, id := range g.Order {
		c := g.Commits[id]
		row := []string{c.ID, c.ShortID, c.Summary, strings.Join(c.Parents, " "), fmt.Sprintf("%t", id == report.DetachedOnly)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
