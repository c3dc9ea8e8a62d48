package main

import "github.com/spf13/cobra"

var (
	answerRecord   string
	answerQuestion string
	answerBranch   string
	answerValue    string
)

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Submit and list raw answers",
}

var answersSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Append one answer to a record (corrections are new rows)",
	RunE:  runAnswersSubmit,
}

var answersListCmd = &cobra.Command{
	Use:   "list <record-id>",
	Short: "List a record's answers",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnswersList,
}

func init() {
	answersSubmitCmd.Flags().StringVar(&answerRecord, "record", "", "Record id (required)")
	answersSubmitCmd.Flags().StringVar(&answerQuestion, "question", "", "Question id (required)")
	answersSubmitCmd.Flags().StringVar(&answerBranch, "branch", "", "Branch office id (required)")
	answersSubmitCmd.Flags().StringVar(&answerValue, "value", "", "Submitted value")
	_ = answersSubmitCmd.MarkFlagRequired("record")
	_ = answersSubmitCmd.MarkFlagRequired("question")
	_ = answersSubmitCmd.MarkFlagRequired("branch")

	answersCmd.AddCommand(answersSubmitCmd)
	answersCmd.AddCommand(answersListCmd)
}

type answerRowView struct {
	AnswerID   string `json:"answerId"`
	QuestionID string `json:"questionId"`
	SectionID  string `json:"sectionId"`
	SubTag     string `json:"subTag"`
	Value      string `json:"value"`
}

func runAnswersSubmit(cmd *cobra.Command, args []string) error {
	client := newClient()

	var created map[string]any
	body := map[string]any{
		"recordId":   answerRecord,
		"questionId": answerQuestion,
		"branchId":   answerBranch,
		"value":      answerValue,
	}
	if err := client.postJSON("/api/v1/answers", body, &created); err != nil {
		return err
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(created)
	}
	id, _ := created["answerId"].(string)
	printTable([]string{"Answer", "Record", "Question", "Value"},
		[][]string{{id, answerRecord, answerQuestion, answerValue}})
	return nil
}

func runAnswersList(cmd *cobra.Command, args []string) error {
	client := newClient()

	var rows []answerRowView
	if err := client.getJSON("/api/v1/answers/"+args[0], &rows); err != nil {
		return err
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(rows)
	}

	headers := []string{"Question", "Section", "Sub-tag", "Value"}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{row.QuestionID, row.SectionID, row.SubTag, row.Value})
	}
	printTable(headers, out)
	return nil
}
