package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type sectionScoreView struct {
	SectionID string  `json:"sectionId"`
	FormulaID string  `json:"formulaId"`
	Score     float64 `json:"score"`
}

type branchTotalView struct {
	BranchID string             `json:"branchId"`
	Total    float64            `json:"total"`
	Sections []sectionScoreView `json:"sections"`
}

type indicatorReportView struct {
	IndicatorID string            `json:"indicatorId"`
	Year        int               `json:"year"`
	Branches    []branchTotalView `json:"branches"`
	Degraded    bool              `json:"degraded,omitempty"`
}

type recordReportView struct {
	RecordID    string          `json:"recordId"`
	IndicatorID string          `json:"indicatorId"`
	Year        int             `json:"year"`
	Branch      branchTotalView `json:"branch"`
	Degraded    bool            `json:"degraded,omitempty"`
}

var reportCmd = &cobra.Command{
	Use:   "report <indicator-id> <year>",
	Short: "Show the cross-branch report for an indicator and year",
	Args:  cobra.ExactArgs(2),
	RunE:  runReport,
}

var reportRecordCmd = &cobra.Command{
	Use:   "record <record-id>",
	Short: "Show the scored view of one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportRecord,
}

func init() {
	reportCmd.AddCommand(reportRecordCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("year must be an integer, got %q", args[1])
	}

	client := newClient()
	var report indicatorReportView
	if err := client.getJSON(fmt.Sprintf("/api/v1/reports/%s/%d", args[0], year), &report); err != nil {
		return err
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(report)
	}

	if report.Degraded {
		fmt.Println("Warning: report is degraded, one or more inputs were unavailable")
	}
	headers := []string{"Branch", "Total", "Sections"}
	rows := make([][]string, 0, len(report.Branches))
	for _, branch := range report.Branches {
		rows = append(rows, []string{
			branch.BranchID,
			strconv.FormatFloat(branch.Total, 'f', -1, 64),
			strconv.Itoa(len(branch.Sections)),
		})
	}
	printTable(headers, rows)
	return nil
}

func runReportRecord(cmd *cobra.Command, args []string) error {
	client := newClient()

	var report recordReportView
	if err := client.getJSON("/api/v1/reports/records/"+args[0], &report); err != nil {
		return err
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(report)
	}

	if report.Degraded {
		fmt.Println("Warning: report is degraded, one or more inputs were unavailable")
	}
	headers := []string{"Section", "Formula", "Score"}
	rows := make([][]string, 0, len(report.Branch.Sections))
	for _, section := range report.Branch.Sections {
		rows = append(rows, []string{
			section.SectionID,
			section.FormulaID,
			strconv.FormatFloat(section.Score, 'f', -1, 64),
		})
	}
	printTable(headers, rows)
	fmt.Printf("\nTotal: %s\n", strconv.FormatFloat(report.Branch.Total, 'f', -1, 64))
	return nil
}
