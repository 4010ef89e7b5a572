// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

// Package debug exposes information about how this build of the module
// was assembled, for diagnostics and bug reports.
package debug

import "runtime"

// PumpBackend names the scheduler backend this build will select by
// default on the host platform.
type PumpBackend struct {
	// Name is "epoll" on linux, "native" everywhere else.
	Name string

	// GOOS is the platform the backend was selected for.
	GOOS string
}

// BuildInfo contains information about the compiled support inside this
// module.
type BuildInfo struct {
	// UbufVariants lists the Ubuf implementations this build knows how
	// to construct.
	UbufVariants []string

	// Pump describes the pump.Manager backend selected for this
	// platform.
	Pump PumpBackend
}

// ReadBuildInfo returns information about the internals of the module,
// including which optional backends were compiled in.
func ReadBuildInfo() BuildInfo {
	name := "native"
	if runtime.GOOS == "linux" {
		name = "epoll"
	}
	return BuildInfo{
		UbufVariants: []string{"block", "picture", "sound"},
		Pump: PumpBackend{
			Name: name,
			GOOS: runtime.GOOS,
		},
	}
}

// vim: foldmethod=marker
