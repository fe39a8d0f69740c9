package kernel

// Process is a deferred invocation of an operation on an owning entity with
// arguments already captured. Per SPEC_FULL.md §4.1/§9, the original
// "dispatch a string op_name on owner_entity" form is replaced with a
// closure bound at schedule time - the thunk the scheduler runs - while
// still carrying the owner's name and a human-readable label for
// diagnostics and logging.
type Process struct {
	OwnerName string
	Label     string
	fn        func()
}

// NewProcess binds fn as the deferred operation owned by owner, labeled for
// logging and diagnostics.
func NewProcess(owner Entity, label string, fn func()) *Process {
	return &Process{
		OwnerName: owner.Name(),
		Label:     label,
		fn:        fn,
	}
}

// Run executes the bound operation. Its return value, if any, is discarded
// by the kernel - side effects (further scheduling, state mutation) are the
// entire contract.
func (p *Process) Run() {
	p.fn()
}
