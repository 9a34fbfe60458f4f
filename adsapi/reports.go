// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/muw78/amazon-ads-api-connector/adsapi/reports"
)

const (
	mediaTypeCreateReport = "application/vnd.createasyncreportrequest.v3+json"
	mediaTypeReport       = "application/vnd.advertisingReport+json"

	// DefaultPollInterval is the wait between report status checks in
	// WaitForReport.
	DefaultPollInterval = 5 * time.Second
)

// Report generation states returned by the API.
const (
	ReportStatusPending    = "PENDING"
	ReportStatusProcessing = "PROCESSING"
	ReportStatusCompleted  = "COMPLETED"
	ReportStatusFailed     = "FAILED"
)

// ReportStatus describes an asynchronous report: its identity, generation
// state and, once completed, the presigned download URL.
type ReportStatus struct {
	ReportID      string `json:"reportId"`
	Status        string `json:"status"`
	Name          string `json:"name"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
	URL           string `json:"url"`
	URLExpiresAt  string `json:"urlExpiresAt"`
	FailureReason string `json:"failureReason"`
	FileSize      int64  `json:"fileSize"`
}

// Completed reports whether the report is generated and downloadable.
func (s *ReportStatus) Completed() bool { return s.Status == ReportStatusCompleted }

// Failed reports whether generation failed; FailureReason carries the cause.
func (s *ReportStatus) Failed() bool { return s.Status == ReportStatusFailed }

// Pending reports whether the report is still being generated.
func (s *ReportStatus) Pending() bool {
	return s.Status == ReportStatusPending || s.Status == ReportStatusProcessing
}

// CreateReport submits an asynchronous report request and returns its
// initial status, which carries the report ID for later polling. Reports
// take minutes to generate; see GetReport and WaitForReport.
func (c *Client) CreateReport(ctx context.Context, report reports.Report) (*ReportStatus, error) {
	name := report.Name
	if name == "" {
		name = "Report"
	}
	timeUnit := report.TimeUnit
	if timeUnit == "" {
		timeUnit = reports.TimeUnitSummary
	}
	format := report.Format
	if format == "" {
		format = reports.FormatGzipJSON
	}

	body := map[string]any{
		"name":      name,
		"startDate": report.StartDate,
		"endDate":   report.EndDate,
		"configuration": map[string]any{
			"adProduct":    "SPONSORED_PRODUCTS",
			"groupBy":      report.GroupBy,
			"columns":      report.Columns,
			"reportTypeId": report.TypeID,
			"timeUnit":     timeUnit,
			"format":       format,
		},
	}

	data, err := c.do(ctx, http.MethodPost, "/reporting/reports", mediaTypeCreateReport, body)
	if err != nil {
		return nil, err
	}
	return decodeReportStatus(data)
}

// GetReport fetches the current status of a report. A pending report is a
// normal, non-error result; callers poll until Completed or Failed, or use
// WaitForReport.
func (c *Client) GetReport(ctx context.Context, reportID string) (*ReportStatus, error) {
	path := "/reporting/reports/" + url.PathEscape(reportID)
	data, err := c.do(ctx, http.MethodGet, path, mediaTypeReport, nil)
	if err != nil {
		return nil, err
	}
	return decodeReportStatus(data)
}

// WaitForReport polls GetReport every interval until the report completes or
// fails, or ctx is done. interval <= 0 uses DefaultPollInterval. A failed
// report is returned with a nil error; check Failed.
func (c *Client) WaitForReport(ctx context.Context, reportID string, interval time.Duration) (*ReportStatus, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for {
		status, err := c.GetReport(ctx, reportID)
		if err != nil {
			return nil, err
		}
		if !status.Pending() {
			return status, nil
		}
		c.debugf("report %s is %s, next check in %v", reportID, status.Status, interval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// DownloadReport fetches a completed report and returns its rows. The
// download URL is presigned, so the request carries no Amazon headers; the
// body is gzip-compressed JSON per the GZIP_JSON report format.
func (c *Client) DownloadReport(ctx context.Context, status *ReportStatus) ([]map[string]any, error) {
	if !status.Completed() {
		return nil, fmt.Errorf("report %s is not completed (status %s)", status.ReportID, status.Status)
	}
	if status.URL == "" {
		return nil, fmt.Errorf("report %s has no download URL", status.ReportID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, status.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequest(time.Since(start), err)
		return nil, fmt.Errorf("report download failed: %w", err)
	}
	data, statusCode, err := c.readResponse(resp)
	if err == nil && statusCode != http.StatusOK {
		err = newAPIError(statusCode, data)
	}
	c.metrics.RecordRequest(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress report: %w", err)
	}
	defer func() { _ = gz.Close() }()

	var rows []map[string]any
	if err := json.NewDecoder(gz).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode report rows: %w", err)
	}
	return rows, nil
}

func decodeReportStatus(data []byte) (*ReportStatus, error) {
	var status ReportStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode report status: %w", err)
	}
	return &status, nil
}
