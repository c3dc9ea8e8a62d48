package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// recordView mirrors the server's record shape.
type recordView struct {
	RecordID    string    `json:"recordId"`
	OwnerID     string    `json:"ownerId"`
	IndicatorID string    `json:"indicatorId"`
	Year        int       `json:"year"`
	Status      int       `json:"status"`
	Version     int64     `json:"version"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// auditEventView mirrors the server's audit event shape.
type auditEventView struct {
	EventType string    `json:"eventType"`
	Actor     string    `json:"actor,omitempty"`
	OldValue  string    `json:"oldValue,omitempty"`
	NewValue  string    `json:"newValue,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

var statusNames = map[int]string{
	1: "ToBeReviewed",
	2: "NeedsRevision",
	3: "Approved",
}

func statusName(status int) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	return strconv.Itoa(status)
}

var (
	createOwner     string
	createIndicator string
	createYear      int
	statusVersion   int64
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage assessment records",
}

var recordsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new submission cycle for a branch, indicator, and year",
	RunE:  runRecordsCreate,
}

var recordsGetCmd = &cobra.Command{
	Use:   "get <record-id>",
	Short: "Show one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsGet,
}

var recordsSetStatusCmd = &cobra.Command{
	Use:   "set-status <record-id> <status>",
	Short: "Move a record through review (1=ToBeReviewed, 2=NeedsRevision, 3=Approved)",
	Args:  cobra.ExactArgs(2),
	RunE:  runRecordsSetStatus,
}

var recordsHistoryCmd = &cobra.Command{
	Use:   "history <record-id>",
	Short: "Show a record's audit trail",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsHistory,
}

func init() {
	recordsCreateCmd.Flags().StringVar(&createOwner, "owner", "", "Branch office id (required)")
	recordsCreateCmd.Flags().StringVar(&createIndicator, "indicator", "", "Indicator id (required)")
	recordsCreateCmd.Flags().IntVar(&createYear, "year", 0, "Assessment year (required)")
	_ = recordsCreateCmd.MarkFlagRequired("owner")
	_ = recordsCreateCmd.MarkFlagRequired("indicator")
	_ = recordsCreateCmd.MarkFlagRequired("year")

	recordsSetStatusCmd.Flags().Int64Var(&statusVersion, "version", 0, "Expected record version; 0 skips the concurrency check")

	recordsCmd.AddCommand(recordsCreateCmd)
	recordsCmd.AddCommand(recordsGetCmd)
	recordsCmd.AddCommand(recordsSetStatusCmd)
	recordsCmd.AddCommand(recordsHistoryCmd)
}

func runRecordsCreate(cmd *cobra.Command, args []string) error {
	client := newClient()

	var rec recordView
	body := map[string]any{
		"ownerId":     createOwner,
		"indicatorId": createIndicator,
		"year":        createYear,
	}
	if err := client.postJSON("/api/v1/records", body, &rec); err != nil {
		return err
	}
	return printRecord(rec)
}

func runRecordsGet(cmd *cobra.Command, args []string) error {
	client := newClient()

	var rec recordView
	if err := client.getJSON("/api/v1/records/"+args[0], &rec); err != nil {
		return err
	}
	return printRecord(rec)
}

func runRecordsSetStatus(cmd *cobra.Command, args []string) error {
	status, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("status must be an integer (1, 2, or 3), got %q", args[1])
	}

	client := newClient()
	var rec recordView
	body := map[string]any{
		"status":          status,
		"expectedVersion": statusVersion,
	}
	if err := client.patchJSON("/api/v1/records/"+args[0]+"/status", body, &rec); err != nil {
		return err
	}
	return printRecord(rec)
}

func runRecordsHistory(cmd *cobra.Command, args []string) error {
	client := newClient()

	var history struct {
		RecordID string           `json:"recordId"`
		Events   []auditEventView `json:"events"`
	}
	if err := client.getJSON("/api/v1/records/"+args[0]+"/history", &history); err != nil {
		return err
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(history)
	}

	headers := []string{"Time", "Event", "Actor", "Old", "New"}
	rows := make([][]string, 0, len(history.Events))
	for _, event := range history.Events {
		rows = append(rows, []string{
			event.CreatedAt.Format(time.RFC3339),
			event.EventType,
			event.Actor,
			event.OldValue,
			event.NewValue,
		})
	}
	printTable(headers, rows)
	return nil
}

func printRecord(rec recordView) error {
	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(rec)
	}

	headers := []string{"Record", "Owner", "Indicator", "Year", "Status", "Version"}
	rows := [][]string{{
		rec.RecordID,
		rec.OwnerID,
		rec.IndicatorID,
		strconv.Itoa(rec.Year),
		statusName(rec.Status),
		strconv.FormatInt(rec.Version, 10),
	}}
	printTable(headers, rows)
	return nil
}
