package ilerr

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Errors collects the errors found while processing one input, in the order
// they were found. A nil *Errors is empty and ready to use.
type Errors struct {
	errs []IleError
}

func (r *Errors) With(errs ...IleError) *Errors {
	if len(errs) == 0 {
		return r
	}
	if r == nil {
		return &Errors{errs: slices.Clone(errs)}
	}
	r.errs = append(r.errs, errs...)
	return r
}

// Merge appends the errors of other after those of r
func (r *Errors) Merge(other *Errors) *Errors {
	return r.With(other.Errors()...)
}

func (r *Errors) Errors() []IleError {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Errors) Len() int {
	return len(r.Errors())
}

func (r *Errors) HasError() bool {
	return r.Len() > 0
}

// Codes returns the code of every error, in order
func (r *Errors) Codes() []ErrCode {
	var codes []ErrCode
	for _, err := range r.Errors() {
		codes = append(codes, err.Code())
	}
	return codes
}

// Format renders one error per line, each formatted with FormatWithCode and preceded by prefix
func (r *Errors) Format(prefix string) string {
	sb := &strings.Builder{}
	for _, err := range r.Errors() {
		sb.WriteString(prefix)
		sb.WriteString(FormatWithCode(err))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Errors) LogValue() slog.Value {
	if !r.HasError() {
		return slog.IntValue(0)
	}
	attrs := make([]slog.Attr, 0, r.Len())
	for i, err := range r.Errors() {
		attrs = append(attrs, slog.String(strconv.Itoa(i), FormatWithCode(err)))
	}
	return slog.GroupValue(attrs...)
}
