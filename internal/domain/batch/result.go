package batch

// ItemStatus is the outcome of a single bulk item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of upserting one document in a bulk operation.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// IsOK reports whether the item succeeded.
func (r Result) IsOK() bool { return r.status == StatusOK }

// Count returns the number of succeeded and failed items.
func Count(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.IsOK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

// Errors returns the failed items.
func Errors(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.IsOK() {
			out = append(out, r)
		}
	}
	return out
}
