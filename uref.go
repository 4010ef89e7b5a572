package upipe

// Standard uref attribute names, mirroring the spec's list: flow id,
// flow definition, clock timestamps per domain, discontinuity/random
// access markers, duration and language.
const (
	AttrFlowID        = "flow.id"
	AttrFlowDef       = "flow.def"
	AttrDuration      = "clock.duration"
	AttrDiscontinuity = "flags.discontinuity"
	AttrRandomAccess  = "flags.random_access"
	AttrLanguage      = "lang"
)

// ClockDomain selects which of the three clock domains a timestamp
// attribute belongs to.
type ClockDomain int

const (
	// ClockSystem is the local wall-clock domain, assigned on ingest.
	ClockSystem ClockDomain = iota
	// ClockProgramme is the domain carried by the stream itself (e.g. an
	// MPEG-TS PCR-derived clock).
	ClockProgramme
	// ClockOriginal is the domain as originally encoded, before any
	// rebasing (e.g. the original capture PTS/DTS).
	ClockOriginal
)

func (c ClockDomain) prefix() string {
	switch c {
	case ClockProgramme:
		return "clock.prog"
	case ClockOriginal:
		return "clock.orig"
	default:
		return "clock.sys"
	}
}

// URef is the universal packet envelope passed between pipes: it owns
// at most one Ubuf and exactly one UDict of attributes.
//
// Invariant: if a URef carries a Ubuf, that Ubuf must be compatible with
// the flow definition carried in the same URef's attributes (see
// SetFlowDef and helper.FlowDef.CheckURef). A flow-definition-only uref (a control
// message announcing a new output format) carries no Ubuf.
type URef struct {
	buf   Ubuf
	attrs *UDict
}

// NewURef creates a uref with no payload and an empty attribute set.
// Use SetFlowDef to turn it into a flow-definition uref, or SetUbuf to
// attach a payload once the flow-def is known to be compatible.
func NewURef() *URef {
	return &URef{attrs: NewUDict()}
}

// Attrs returns the attribute dictionary, for reading or writing
// standard and pipe-specific attributes.
func (u *URef) Attrs() *UDict {
	return u.attrs
}

// Ubuf returns the attached payload, or nil for a flow-definition-only
// uref.
func (u *URef) Ubuf() Ubuf {
	return u.buf
}

// SetUbuf attaches a payload. The caller must have already established
// (via SetFlowDef or an equivalent invariant check) that buf's variant
// and dimensions are compatible with the uref's current flow
// definition; SetUbuf itself does not re-validate a pipe-specific
// flow-def string, only that replacing a payload doesn't silently leak
// the one being displaced.
func (u *URef) SetUbuf(buf Ubuf) {
	if u.buf != nil {
		u.buf.Release()
	}
	u.buf = buf
}

// SetFlowDef sets the flow.def attribute, describing the type and
// parameters of the stream this uref belongs to (e.g. "block.mpegts.",
// "pic.", "sound.f32.").
func (u *URef) SetFlowDef(def string) {
	u.attrs.SetString(AttrFlowDef, def)
}

// FlowDef returns the flow.def attribute, if set.
func (u *URef) FlowDef() (string, bool) {
	return u.attrs.String(AttrFlowDef)
}

// IsFlowDef reports whether this uref is a flow-definition announcement
// (carries no payload).
func (u *URef) IsFlowDef() bool {
	return u.buf == nil
}

// SetPTS sets the presentation timestamp, in ticks, for the given clock
// domain.
func (u *URef) SetPTS(domain ClockDomain, ticks int64) {
	u.attrs.SetInt(domain.prefix()+".pts", ticks)
}

// PTS returns the presentation timestamp for the given clock domain.
func (u *URef) PTS(domain ClockDomain) (int64, bool) {
	return u.attrs.Int(domain.prefix() + ".pts")
}

// SetDTS sets the decode timestamp, in ticks, for the given clock
// domain.
func (u *URef) SetDTS(domain ClockDomain, ticks int64) {
	u.attrs.SetInt(domain.prefix()+".dts", ticks)
}

// DTS returns the decode timestamp for the given clock domain.
func (u *URef) DTS(domain ClockDomain) (int64, bool) {
	return u.attrs.Int(domain.prefix() + ".dts")
}

// SetRate sets the clock rate rational accompanying a timestamp domain.
func (u *URef) SetRate(domain ClockDomain, rate Rational) {
	u.attrs.SetRational(domain.prefix()+".rate", rate)
}

// Rate returns the clock rate rational for a timestamp domain.
func (u *URef) Rate(domain ClockDomain) (Rational, bool) {
	return u.attrs.Rational(domain.prefix() + ".rate")
}

// SetDiscontinuity marks this uref as following a discontinuity in the
// stream (a dropped packet, a seek, a source reconnect).
func (u *URef) SetDiscontinuity(v bool) { u.attrs.SetBool(AttrDiscontinuity, v) }

// Discontinuity reports the discontinuity marker.
func (u *URef) Discontinuity() bool {
	v, _ := u.attrs.Bool(AttrDiscontinuity)
	return v
}

// SetRandomAccess marks this uref as a valid random-access point (e.g. a
// keyframe).
func (u *URef) SetRandomAccess(v bool) { u.attrs.SetBool(AttrRandomAccess, v) }

// RandomAccess reports the random-access marker.
func (u *URef) RandomAccess() bool {
	v, _ := u.attrs.Bool(AttrRandomAccess)
	return v
}

// Dup creates a new uref sharing this one's attribute dictionary
// (copy-on-write) and holding an additional reference to the same Ubuf
// payload (via the Ubuf's own Dup, not a deep copy). This is the
// operation a fork/dup pipe uses to hand the same logical packet to
// multiple downstream outputs while letting each recipient's refcount
// be independent.
func (u *URef) Dup() (*URef, error) {
	out := &URef{attrs: u.attrs.Dup()}
	if u.buf != nil {
		b, err := u.buf.Dup()
		if err != nil {
			return nil, err
		}
		out.buf = b
	}
	return out, nil
}

// Free releases the uref's payload, if any. Every uref handed to a
// pipe's input operation must eventually be freed or forwarded exactly
// once; Free is the terminal case.
func (u *URef) Free() {
	if u.buf != nil {
		u.buf.Release()
		u.buf = nil
	}
}
