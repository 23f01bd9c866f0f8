package aspect

// DeferredCall is a recorded builder operation to replay against whichever
// backend executes the search. Queue order is insertion order and is
// preserved through replay.
type DeferredCall struct {
	Method string
	Args   []any
}
