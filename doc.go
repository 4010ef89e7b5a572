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

// Package upipe contains the core runtime of a real-time dataflow
// framework: pipes that exchange typed, reference-counted buffers over a
// directed graph, a probe chain that carries events back up to the
// application, and the pluggable pump scheduler that lets hundreds of
// independently-authored pipes share one event loop without blocking
// each other.
//
// This package holds the substrate every pipe is built on: Refcount,
// the umem/udict/uref memory model, and the polymorphic Ubuf payload
// container. The composition patterns pipe authors reuse (output
// routing, input queues, bins, subpipes) live in sibling packages:
// upipe/pump, upipe/probe, upipe/helper, upipe/xfer and upipe/pipes.
//
// Individual codec or protocol modules - TS demuxers, RTP depacketizers,
// resamplers - are not part of this package. They are external
// collaborators that plug into the contracts defined here.
package upipe

// vim: foldmethod=marker
