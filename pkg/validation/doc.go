// Package validation provides composable, pure validation primitives that
// produce structured findings instead of errors.
//
// Every check is a pure function over a primitive value. Checks never fail
// with an error for bad input; they describe the problem as a Finding with
// a property path, a message, a severity, and (where it helps) a suggested
// fix. Only programmer error, such as an empty property name, panics.
//
// # Findings and Reports
//
// A Finding pinpoints one problem in one property:
//
//	validation.Finding{
//	    PropertyPath: "redis.port",
//	    Message:      "port must be between 1 and 65535",
//	    Suggestion:   "choose a port in the range 1-65535, e.g. 6379",
//	    Severity:     validation.SeverityError,
//	}
//
// A Report is an ordered collection of findings. Reports from independent
// checks are combined with Merge, which concatenates finding lists so that
// N failing checks yield all N findings. Nothing short-circuits:
//
//	report := validation.Port(cfg.Port, "redis.port")
//	report.Merge(validation.NonEmpty(cfg.BindAddress, "redis.bindAddress"))
//	report.Merge(validation.SizeString(cfg.MemoryLimit, "redis.memoryLimit"))
//	if !report.IsSuccess() {
//	    // all failures are present, not just the first
//	}
//
// # Success
//
// A report is successful when it contains no findings of severity Error or
// Critical. Info and Warning findings never fail a report; they carry
// advice for the operator.
//
// # Provided Checks
//
//   - Range: integer within [min, max]
//   - NonEmpty: string with non-whitespace content
//   - Pattern: string matching a compiled regular expression
//   - WellFormedPath: filesystem path without illegal characters
//   - Port: TCP/UDP port in 1-65535
//   - OneOf: string drawn from an enumerated set
//   - SizeString: memory size such as "512mb" or "1gb"
//
// Domain-specific validators are built from these primitives; see the
// config package.
package validation
