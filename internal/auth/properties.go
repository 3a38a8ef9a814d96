package auth

// PropRedirectURI is the property key naming the post-login redirect target.
const PropRedirectURI = "redirect_uri"

// Properties is the opaque property bag attached to one authentication
// round trip. It is created at challenge time, round-tripped through the
// state cookie, and owned jointly by the flow and the host pipeline until
// the session cookie is written.
type Properties map[string]string

// Clone returns an independent copy so one stage cannot observe
// mutations made by another.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
