package formula

import "fmt"

// Machine-readable evaluation error codes.
const (
	CodeParse          = "FORMULA_PARSE"
	CodeDivisionByZero = "FORMULA_DIVISION_BY_ZERO"
	CodeBadCall        = "FORMULA_BAD_CALL"
)

// EvalError is a structured error for formulas that cannot be parsed or
// evaluated. Callers treat an EvalError as "this formula contributes zero"
// and continue; it is never fatal for a whole report.
type EvalError struct {
	Code       string `json:"code"`
	Expression string `json:"expression"`
	Message    string `json:"message"`
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s (in %q)", e.Code, e.Message, e.Expression)
}

func parseError(expr string, cause error) *EvalError {
	return &EvalError{Code: CodeParse, Expression: expr, Message: cause.Error()}
}

func badCallError(expr, format string, args ...any) *EvalError {
	return &EvalError{Code: CodeBadCall, Expression: expr, Message: fmt.Sprintf(format, args...)}
}
