package pipeline

// Result is the uniform outcome a processor reports to the dispatcher.
// A processor never lets an error escape: failures are caught at its outer
// edge and translated into a Result, and the dispatcher alone decides
// whether to retry.
type Result struct {
	Success   bool
	Err       error
	Retryable bool
}

// Done reports a successful (or safely skipped) job.
func Done() Result {
	return Result{Success: true}
}

// Fail reports a failed job. Retryable failures are requeued by the
// dispatcher; non-retryable ones are dropped and surfaced for operators.
func Fail(err error, retryable bool) Result {
	return Result{Err: err, Retryable: retryable}
}
