package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"patient-management-service/internal/adapters"
	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/services"
	"patient-management-service/internal/storage/jsonfile"
	"patient-management-service/internal/validation"
)

// Export formats.
const (
	formatJSON = "json"
	formatXLSX = "xlsx"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every patient record to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			_, logger, repo, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := exportPatients(cmd.Context(), repo, format, out)
			if err != nil {
				return err
			}
			logger.Info().Int("patients", n).Str("format", format).Str("out", out).Msg("export finished")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d patient(s) to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().String("format", formatJSON, "Output format: json or xlsx")
	cmd.Flags().String("out", "", "Output file")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a patients JSON document into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			cfg, logger, repo, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			v := validation.New(cfg.AllowedEmailDomains)
			report, err := importPatients(cmd.Context(), repo, v, logger, args[0], overwrite)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().Bool("overwrite", false, "Replace records whose id already exists")
	return cmd
}

// exportPatients writes every record in repo to path and returns how many
// were written.
func exportPatients(ctx context.Context, repo repositories.PatientRepositoryContract, format, path string) (int, error) {
	list, err := repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing patients: %w", err)
	}

	switch strings.ToLower(format) {
	case formatJSON:
		if err := jsonfile.WriteDocumentFile(path, jsonfile.NewDocument(list)); err != nil {
			return 0, err
		}
	case formatXLSX:
		if err := writeSpreadsheet(path, list); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown export format %q (want json or xlsx)", format)
	}
	return len(list), nil
}

func writeSpreadsheet(path string, list []*entities.Patient) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := adapters.NewExcelExporter().Export(f, list); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func importPatients(ctx context.Context, repo repositories.PatientRepositoryContract, v *validation.Validator, logger zerolog.Logger, path string, overwrite bool) (services.ImportReport, error) {
	if _, err := os.Stat(path); err != nil {
		return services.ImportReport{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := jsonfile.ReadDocumentFile(path)
	if err != nil {
		return services.ImportReport{}, err
	}
	patients := make([]*entities.Patient, 0, len(doc))
	for _, p := range doc {
		patients = append(patients, p)
	}
	return services.NewImportService(repo, v, logger).Import(ctx, patients, overwrite)
}

func printReport(w io.Writer, r services.ImportReport) {
	fmt.Fprintf(w, "Created: %d\nOverwritten: %d\nSkipped: %d\nInvalid: %d\n",
		r.Created, r.Overwritten, len(r.Skipped), len(r.Invalid))
	for _, id := range r.Skipped {
		fmt.Fprintf(w, "  skipped %s (already exists)\n", id)
	}
	for _, line := range r.Invalid {
		fmt.Fprintf(w, "  invalid %s\n", line)
	}
}
