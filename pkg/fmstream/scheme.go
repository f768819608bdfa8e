package fmstream

// Scheme is a stream transport scheme as written in front of "://".
type Scheme string

const (
	HTTP  Scheme = "http"
	HTTPS Scheme = "https"
	MMS   Scheme = "mms"
	MMSH  Scheme = "mmsh"
	RTSP  Scheme = "rtsp"
	RTMP  Scheme = "rtmp"
)

// schemeMask selects the low three bits of a scheme tag.
const schemeMask = 7

// schemes is indexed by tag & schemeMask. Indexes 6 and 7 are unassigned.
var schemes = [...]Scheme{HTTP, HTTPS, MMS, MMSH, RTSP, RTMP}

// DecodeScheme maps a scheme tag to its scheme. Bits above the low three are
// ignored, so 8 decodes as http and 9 as https.
func DecodeScheme(tag int64) (Scheme, error) {
	idx := int(tag & schemeMask)
	if idx >= len(schemes) {
		return "", &SchemeError{Tag: tag, Index: idx}
	}
	return schemes[idx], nil
}

// Schemes returns the defined schemes in tag order.
func Schemes() []Scheme {
	out := make([]Scheme, len(schemes))
	copy(out, schemes[:])
	return out
}
