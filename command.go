package upipe

// Command identifies a control operation sent to a pipe's Control
// method. Commands above CommandLocal are reserved for pipe-specific
// control extensions, following the same split as Event/EventLocal.
type Command int

const (
	// CommandSetFlowDef installs the input flow definition the pipe
	// should expect from now on. Args: string.
	CommandSetFlowDef Command = iota
	// CommandGetFlowDef retrieves the pipe's current output flow
	// definition. Args: *string (out param).
	CommandGetFlowDef
	// CommandSetOutput attaches a downstream pipe to receive this
	// pipe's output. Args: Pipe.
	CommandSetOutput
	// CommandGetOutput retrieves the currently attached output pipe.
	// Args: *Pipe (out param).
	CommandGetOutput
	// CommandSetURI sets a pipe's source/sink URI (file path, network
	// address, device path). Args: string.
	CommandSetURI
	// CommandGetURI retrieves the pipe's URI. Args: *string (out param).
	CommandGetURI
	// CommandRegisterRequest registers a Request the pipe should try to
	// answer, or forward upstream via EventProvideRequest. Args:
	// *Request.
	CommandRegisterRequest
	// CommandUnregisterRequest cancels a previously registered Request.
	// Args: *Request.
	CommandUnregisterRequest
	// CommandAttachUpumpMgr attaches a pump manager the pipe should use
	// to schedule its internal watchers. Args: pump.Manager (as
	// interface{} to avoid an import cycle between upipe and
	// upipe/pump).
	CommandAttachUpumpMgr
	// CommandAttachUclock attaches a clock reference. Args:
	// interface{}.
	CommandAttachUclock
	// CommandAttachURefMgr attaches a uref allocator. Args:
	// interface{}.
	CommandAttachURefMgr
	// CommandAttachUbufMgr attaches a umem/ubuf manager for a specific
	// flow definition. Args: UMemManager.
	CommandAttachUbufMgr

	// CommandSubGetSuper retrieves a subpipe's super-pipe. Args: *Pipe
	// (out param).
	CommandSubGetSuper
	// CommandIterateSub iterates a super-pipe's subpipes. Args:
	// **Pipe (in/out cursor param, nil to start iteration).
	CommandIterateSub
	// CommandSplitIterate iterates a split pipe's current set of
	// outputs. Args: *interface{} (in/out cursor, nil to start or to
	// signal end of iteration), *string (out flow definition param).
	CommandSplitIterate

	// CommandBinGetFirstInner retrieves the first inner pipe of a bin,
	// the one that should receive the bin's external input. Args: *Pipe
	// (out param).
	CommandBinGetFirstInner
	// CommandBinGetLastInner retrieves the last inner pipe of a bin, the
	// one whose output is the bin's external output. Args: *Pipe (out
	// param).
	CommandBinGetLastInner
	// CommandBinFreeze asks a bin to detach its inner pipes from shared
	// managers ahead of a manager swap.
	CommandBinFreeze
	// CommandBinThaw asks a bin to reattach its inner pipes after a
	// manager swap.
	CommandBinThaw

	// CommandLocal is the first value pipe implementations may use for
	// their own, locally-defined control commands.
	CommandLocal Command = 0x8000
)

func (c Command) String() string {
	switch c {
	case CommandSetFlowDef:
		return "set-flow-def"
	case CommandGetFlowDef:
		return "get-flow-def"
	case CommandSetOutput:
		return "set-output"
	case CommandGetOutput:
		return "get-output"
	case CommandSetURI:
		return "set-uri"
	case CommandGetURI:
		return "get-uri"
	case CommandRegisterRequest:
		return "register-request"
	case CommandUnregisterRequest:
		return "unregister-request"
	case CommandAttachUpumpMgr:
		return "attach-upump-mgr"
	case CommandAttachUclock:
		return "attach-uclock"
	case CommandAttachURefMgr:
		return "attach-uref-mgr"
	case CommandAttachUbufMgr:
		return "attach-ubuf-mgr"
	case CommandSubGetSuper:
		return "sub-get-super"
	case CommandIterateSub:
		return "iterate-sub"
	case CommandSplitIterate:
		return "split-iterate"
	case CommandBinGetFirstInner:
		return "bin-get-first-inner"
	case CommandBinGetLastInner:
		return "bin-get-last-inner"
	case CommandBinFreeze:
		return "bin-freeze"
	case CommandBinThaw:
		return "bin-thaw"
	default:
		return "local"
	}
}
