package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/muw78/amazon-ads-api-connector/adsapi"
	"github.com/muw78/amazon-ads-api-connector/adsapi/reports"
)

// reportsCmd returns the reports command group.
func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Create, poll and download performance reports",
	}
	cmd.AddCommand(reportsCreateCmd())
	cmd.AddCommand(reportsGetCmd())
	cmd.AddCommand(reportsDownloadCmd())
	return cmd
}

func reportsCreateCmd() *cobra.Command {
	var reportType string
	var start, end string
	var groupBy []string
	var name string
	var wait bool
	var interval time.Duration
	var out string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request an asynchronous report",
		Long: `Request a report for a date range. Without --wait the report ID and
status are printed; poll with "adsctl reports get" and fetch rows with
"adsctl reports download" once completed. With --wait the command polls
until the report is ready and writes the rows itself.

Examples:
  adsctl reports create --type searchTerm --start 2023-10-01 --end 2023-10-07
  adsctl reports create --type campaigns --start 2023-10-01 --end 2023-10-07 --group-by campaign,adGroup
  adsctl reports create --type targeting --start 2023-10-01 --end 2023-10-07 --wait --out rows.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reportType == "" || start == "" || end == "" {
				return fmt.Errorf("--type, --start and --end are required")
			}

			report, err := newReport(reportType, start, end, groupBy)
			if err != nil {
				return err
			}
			if name == "" {
				name = "adsctl-" + uuid.NewString()
			}
			report.Name = name

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := client.CreateReport(cmd.Context(), report)
			if err != nil {
				return err
			}

			if !wait {
				return printJSON(status)
			}

			fmt.Fprintf(os.Stderr, "Report %s requested, waiting for completion...\n", status.ReportID)
			status, err = client.WaitForReport(cmd.Context(), status.ReportID, interval)
			if err != nil {
				return err
			}
			if status.Failed() {
				return fmt.Errorf("report %s failed: %s", status.ReportID, status.FailureReason)
			}

			rows, err := client.DownloadReport(cmd.Context(), status)
			if err != nil {
				return err
			}
			return writeRows(rows, out)
		},
	}

	cmd.Flags().StringVar(&reportType, "type", "", "Report type: campaigns, targeting, searchTerm, advertisedProduct or purchasedProduct (required)")
	cmd.Flags().StringVar(&start, "start", "", "Start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "End date, YYYY-MM-DD (required)")
	cmd.Flags().StringSliceVar(&groupBy, "group-by", nil, "Grouping dimensions (default per report type)")
	cmd.Flags().StringVar(&name, "name", "", "Report name (default: adsctl-<uuid>)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until the report completes and download the rows")
	cmd.Flags().DurationVar(&interval, "interval", adsapi.DefaultPollInterval, "Poll interval with --wait")
	cmd.Flags().StringVar(&out, "out", "", "Write rows to a file instead of stdout")

	return cmd
}

func reportsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <report-id>",
		Short: "Show the status of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := client.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(status)
		},
	}
	return cmd
}

func reportsDownloadCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download <report-id>",
		Short: "Download the rows of a completed report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := client.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if status.Failed() {
				return fmt.Errorf("report %s failed: %s", status.ReportID, status.FailureReason)
			}
			if !status.Completed() {
				return fmt.Errorf("report %s is still %s, try again later", status.ReportID, status.Status)
			}

			rows, err := client.DownloadReport(cmd.Context(), status)
			if err != nil {
				return err
			}
			return writeRows(rows, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write rows to a file instead of stdout")

	return cmd
}

// newReport maps a CLI report type name to a preconfigured request.
func newReport(reportType, start, end string, groupBy []string) (reports.Report, error) {
	switch reportType {
	case "campaigns":
		return reports.NewCampaigns(start, end, groupBy...), nil
	case "targeting":
		return reports.NewTargeting(start, end, groupBy...), nil
	case "searchTerm":
		return reports.NewSearchTerm(start, end, groupBy...), nil
	case "advertisedProduct":
		return reports.NewAdvertisedProduct(start, end, groupBy...), nil
	case "purchasedProduct":
		return reports.NewPurchasedProduct(start, end, groupBy...), nil
	default:
		return reports.Report{}, fmt.Errorf("unknown report type %q (expected campaigns, targeting, searchTerm, advertisedProduct or purchasedProduct)", reportType)
	}
}

// writeRows prints report rows to stdout or writes them to a file.
func writeRows(rows []map[string]any, out string) error {
	if out == "" {
		return printJSON(rows)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), out)
	return nil
}
