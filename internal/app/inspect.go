package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"filefusion/internal/domain"
	"filefusion/internal/services"
)

type inspectOptions struct {
	jobs   int
	asJSON bool
}

type inspectReport struct {
	Path          string    `json:"path"`
	Folders       int       `json:"folder_count"`
	Files         int       `json:"file_count"`
	TotalSize     int64     `json:"total_size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	AverageFiles  float64   `json:"avg_files_per_folder"`
	TopExtension  string    `json:"largest_file_type,omitempty"`
	TopExtBytes   int64     `json:"largest_file_type_bytes,omitempty"`
	Skipped       int       `json:"skipped,omitempty"`
	Customized    bool      `json:"customized"`
	CustomizeNote string    `json:"note,omitempty"`
	Error         string    `json:"error,omitempty"`

	err error
}

func (app *App) inspectCommand() *cobra.Command {
	var opts inspectOptions
	cmd := &cobra.Command{
		Use:   "inspect PATH...",
		Short: "Print folder statistics",
		Long: `Walk each folder recursively and print how many folders and files it
holds, their total size and the folder timestamps.

Folders are inspected in parallel; entries that cannot be read are
skipped and counted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runInspect(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", defaultJobs, "folders inspected at once")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}

// runInspect inspects every path and reports each one. The first failure
// is returned after all reports are printed.
func (app *App) runInspect(ctx context.Context, stdout, stderr io.Writer, paths []string, opts inspectOptions) error {
	inspector := services.NewFSInspector(app.logger)
	customizer := services.NewFSCustomizer(app.logger)
	reports := make([]inspectReport, len(paths))

	jobs := opts.jobs
	if jobs < 1 {
		jobs = 1
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for index, path := range paths {
		index, path := index, path
		group.Go(func() error {
			stats, err := inspector.Inspect(groupCtx, services.InspectRequest{Path: path})
			if err != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				reports[index] = inspectReport{Path: path, Error: err.Error(), err: err}
				return nil
			}
			report := newInspectReport(stats)
			if status, err := customizer.Status(stats.Path); err == nil {
				report.Customized = status.Applied
				report.CustomizeNote = status.Note
			}
			reports[index] = report
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	var firstErr error
	for _, report := range reports {
		if report.err != nil {
			app.logger.Debug("inspect failed", "path", report.Path, "error", report.err)
			if firstErr == nil {
				firstErr = report.err
			}
			if !opts.asJSON {
				fmt.Fprintf(stderr, "%s: %v\n", report.Path, report.err)
			}
		}
	}

	if opts.asJSON {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(reports); err != nil {
			return err
		}
		return firstErr
	}
	for index, report := range reports {
		if report.err != nil {
			continue
		}
		if index > 0 {
			fmt.Fprintln(stdout)
		}
		writeReport(stdout, report)
	}
	return firstErr
}

func newInspectReport(stats domain.FolderStats) inspectReport {
	return inspectReport{
		Path:         stats.Path,
		Folders:      stats.FolderCount,
		Files:        stats.FileCount,
		TotalSize:    stats.TotalSizeBytes,
		CreatedAt:    stats.CreatedAt,
		ModifiedAt:   stats.ModifiedAt,
		AverageFiles: stats.AverageFilesPerFolder(),
		TopExtension: stats.TopExtension,
		TopExtBytes:  stats.TopExtBytes,
		Skipped:      stats.Skipped,
	}
}

func writeReport(w io.Writer, report inspectReport) {
	status := "Not Applied"
	if report.Customized {
		status = "Applied"
	}
	topType := "-"
	if report.TopExtension != "" {
		topType = fmt.Sprintf("%s (%s)", report.TopExtension, services.FormatSize(report.TopExtBytes))
	}
	fmt.Fprintln(w, report.Path)
	fmt.Fprintf(w, "  Total Folders:     %d\n", report.Folders)
	fmt.Fprintf(w, "  Total Files:       %d\n", report.Files)
	fmt.Fprintf(w, "  Total Size:        %s\n", services.FormatSize(report.TotalSize))
	fmt.Fprintf(w, "  Created:           %s\n", report.CreatedAt.Format(timeLayout))
	fmt.Fprintf(w, "  Modified:          %s\n", report.ModifiedAt.Format(timeLayout))
	fmt.Fprintf(w, "  Avg files/folder:  %.1f\n", report.AverageFiles)
	fmt.Fprintf(w, "  Largest file type: %s\n", topType)
	fmt.Fprintf(w, "  Customization:     %s\n", status)
	if report.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped entries:   %d\n", report.Skipped)
	}
}

const timeLayout = "2006-01-02 15:04:05"
