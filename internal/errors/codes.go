package errors

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeConfigValidation   Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError    Code = "CONFIG_READ_ERROR"
	CodeConfigParseError   Code = "CONFIG_PARSE_ERROR"
	CodeConfigNotFound     Code = "CONFIG_NOT_FOUND"
	CodeNotImplemented     Code = "NOT_IMPLEMENTED"
	CodeTimeout            Code = "TIMEOUT_ERROR"
	CodeTypeAssertionError Code = "TYPE_ASSERTION_ERROR"

	// Fetch collaborator
	CodeFetchError       Code = "FETCH_ERROR"
	CodeAuthError        Code = "AUTH_ERROR"
	CodeThrottled        Code = "THROTTLED"
	CodeSourceReadError  Code = "SOURCE_READ_ERROR"
	CodeSourceParseError Code = "SOURCE_PARSE_ERROR"

	// Comparison core
	CodeDefinitionMissing Code = "DEFINITION_MISSING"
	CodeDefinitionParse   Code = "DEFINITION_PARSE_ERROR"
	CodeCanonicalize      Code = "CANONICALIZE_ERROR"
	CodeMatchingError     Code = "MATCHING_ERROR"
	CodeComparisonError   Code = "COMPARISON_ERROR"

	CodeReportError Code = "REPORT_ERROR"
)

func (c Code) String() string {
	return string(c)
}
