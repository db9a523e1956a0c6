package driven

// Logger is the diagnostic sink injected into the pipeline. The compiler's
// stderr text is reported through Warnf after the process exits; Debugf
// carries composition diagnostics such as unmatched source names.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}
