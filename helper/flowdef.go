package helper

import "upipe.dev/core"

// FlowDef caches the input flow definition a pipe has been told to
// expect (via CommandSetFlowDef) so the pipe's Control handler does not
// need its own storage and comparison logic for the common case of
// "reject an incompatible format change, accept the first one".
type FlowDef struct {
	def    string
	hasDef bool
	check  func(old, new string) error
}

// NewFlowDef creates a FlowDef cache. check, if non-nil, is called
// before accepting a changed (non-empty-to-different) flow definition;
// returning a non-nil error rejects the change and leaves the cached
// value unmodified.
func NewFlowDef(check func(old, new string) error) *FlowDef {
	return &FlowDef{check: check}
}

// Set implements the validation and caching behind CommandSetFlowDef.
func (f *FlowDef) Set(def string) error {
	if f.hasDef && f.check != nil {
		if err := f.check(f.def, def); err != nil {
			return err
		}
	}
	f.def = def
	f.hasDef = true
	return nil
}

// Get implements CommandGetFlowDef.
func (f *FlowDef) Get() (string, bool) {
	return f.def, f.hasDef
}

// CheckURef verifies that ref's own flow definition, if it carries one,
// matches the cached definition - the invariant a uref's payload must
// satisfy (see upipe.URef).
func (f *FlowDef) CheckURef(ref *upipe.URef) error {
	def, ok := ref.FlowDef()
	if !ok || !f.hasDef {
		return nil
	}
	if def != f.def {
		return upipe.ErrFlowFormatMismatch
	}
	return nil
}
