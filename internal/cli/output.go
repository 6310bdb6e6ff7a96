package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// outputFormat selects the response rendering: text, json or yaml.
var outputFormat string

// Response is the standard envelope for all structured CLI output.
type Response struct {
	OK       bool        `json:"ok" yaml:"ok"`
	Data     interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty" yaml:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code    string      `json:"code" yaml:"code"`
	Message string      `json:"message" yaml:"message"`
	Details interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// Warning represents a non-fatal warning.
type Warning struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Ref     string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Meta contains metadata about the response.
type Meta struct {
	Count int `json:"count,omitempty" yaml:"count,omitempty"`
}

func validateOutputFormat() error {
	switch outputFormat {
	case "text", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
}

// isStructuredOutput reports whether responses go out as JSON or YAML
// instead of human-readable text.
func isStructuredOutput() bool {
	return outputFormat == "json" || outputFormat == "yaml"
}

// emit writes the response envelope in the selected structured format.
func emit(resp Response) {
	switch outputFormat {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		_ = enc.Encode(resp)
		_ = enc.Close()
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(resp)
	}
}

// outputSuccess emits a successful structured response.
func outputSuccess(data interface{}, meta *Meta) {
	emit(Response{
		OK:   true,
		Data: data,
		Meta: meta,
	})
}

// outputSuccessWithWarnings emits a successful response with warnings.
func outputSuccessWithWarnings(data interface{}, warnings []Warning, meta *Meta) {
	emit(Response{
		OK:       true,
		Data:     data,
		Warnings: warnings,
		Meta:     meta,
	})
}

// outputError emits an error response.
func outputError(code, message string, details interface{}) {
	emit(Response{
		OK: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleError renders an error in the selected output mode. In
// structured modes it emits an error envelope and keeps Cobra quiet; in
// text mode it returns the error for Cobra to print.
func handleError(code string, err error) error {
	if isStructuredOutput() {
		outputError(code, err.Error(), nil)
		return errSilent
	}
	return err
}

// handleStoreError renders an error using the code derived from the
// store error taxonomy.
func handleStoreError(err error) error {
	return handleError(codeFor(err), err)
}

// handleErrorMsg renders an error message in the selected output mode.
func handleErrorMsg(code, message string) error {
	if isStructuredOutput() {
		outputError(code, message, nil)
		return errSilent
	}
	return fmt.Errorf("%s", message)
}

// errSilent signals main that the error is already rendered; it only
// carries the non-zero exit code.
var errSilent = fmt.Errorf("")

// IsSilent reports whether the error was already rendered as a
// structured response.
func IsSilent(err error) bool {
	return err == errSilent
}
