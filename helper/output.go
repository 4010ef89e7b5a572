// Package helper provides the composition building blocks most
// concrete pipes are assembled from: output routing, a bounded input
// queue with cooperative back-pressure, a sink helper for the
// terminal-pipe case, subpipe/bin helpers for composite pipes, and a
// uref-stream helper for pipes that need to reassemble or split framed
// data.
//
// Grounded on hztools-go-sdr's stream/bufpipe.go and stream/ring.go,
// generalized from an sdr.Samples-shaped byte pipe to the upipe.URef
// envelope and from thread-blocking I/O to the cooperative, pump-driven
// back-pressure upipe pipes require.
package helper

import (
	"upipe.dev/core"
)

// Output tracks the single downstream pipe a pipe forwards its data to,
// plus the flow definition currently being produced, so a pipe
// implementation only has to call Send and Helper handles routing,
// flow-def (re-)announcement, and the "no output attached yet" case.
type Output struct {
	output  upipe.Pipe
	flowDef string
	sent    bool
}

// NewOutput creates an empty Output helper.
func NewOutput() *Output {
	return &Output{}
}

// SetOutput implements the behavior backing CommandSetOutput: attach
// (or detach, if out is nil) the downstream pipe. The previously
// attached pipe, if any, has its external reference released.
func (o *Output) SetOutput(out upipe.Pipe) {
	if o.output != nil {
		o.output.Release()
	}
	if out != nil {
		out.Use()
	}
	o.output = out
	o.sent = false
}

// GetOutput implements CommandGetOutput.
func (o *Output) GetOutput() upipe.Pipe {
	return o.output
}

// SetFlowDef records the flow definition this pipe is about to start
// producing. The next Send will re-announce it to the (possibly newly
// attached) output before the first payload uref.
func (o *Output) SetFlowDef(def string) {
	if def == o.flowDef {
		return
	}
	o.flowDef = def
	o.sent = false
}

// Send forwards ref to the attached output, first sending a
// flow-definition-only uref if the flow definition has changed (or this
// is the first uref since SetOutput/SetFlowDef) since the last Send. If
// no output is attached, ref is freed and Send returns nil, matching a
// sink pipe with nothing downstream simply discarding its data.
func (o *Output) Send(ref *upipe.URef, pump interface{}) error {
	if o.output == nil {
		ref.Free()
		return nil
	}
	if !o.sent && o.flowDef != "" {
		def := upipe.NewURef()
		def.SetFlowDef(o.flowDef)
		if err := o.output.Input(def, pump); err != nil {
			return err
		}
		o.sent = true
	}
	return o.output.Input(ref, pump)
}

// Close detaches the output, releasing its reference, without sending
// anything further.
func (o *Output) Close() {
	o.SetOutput(nil)
}
