package optim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
)

// slots is a per-parameter list of state buffers, parallel to the gradients.
type slots []*linalg.Matrix

// ensure allocates zero buffers shaped like grads on first use and checks
// that later gradients still match.
func (s *slots) ensure(grads []*linalg.Matrix) error {
	for i, g := range grads {
		if g == nil {
			return errors.Errorf("gradient %d is nil", i)
		}
	}
	if *s == nil {
		buf := make(slots, len(grads))
		for i, g := range grads {
			buf[i] = linalg.ZerosLike(g)
		}
		*s = buf
		return nil
	}
	if len(*s) != len(grads) {
		return errors.Wrapf(ErrStateShape, "have %d buffers, got %d gradients", len(*s), len(grads))
	}
	for i, g := range grads {
		if !(*s)[i].Shape().Equal(g.Shape()) {
			return errors.Wrapf(ErrStateShape, "buffer %d: have %s, got %s", i, (*s)[i].Shape(), g.Shape())
		}
	}
	return nil
}

// export copies the buffers into dst under "<prefix>.<index>".
func (s slots) export(prefix string, dst map[string]*linalg.Matrix) {
	for i, m := range s {
		dst[prefix+"."+strconv.Itoa(i)] = m.Clone()
	}
}

// importSlots collects "<prefix>.<index>" entries from state.
// Indices must run from 0 without gaps. Returns nil if there are none.
func importSlots(prefix string, state map[string]*linalg.Matrix) (slots, error) {
	found := make(map[int]*linalg.Matrix)
	for key, m := range state {
		rest, ok := strings.CutPrefix(key, prefix+".")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(rest)
		if err != nil || i < 0 {
			return nil, errors.Errorf("malformed state key %q", key)
		}
		if m == nil {
			return nil, errors.Errorf("state %q is nil", key)
		}
		found[i] = m
	}
	if len(found) == 0 {
		return nil, nil
	}

	out := make(slots, len(found))
	for i := range out {
		m, ok := found[i]
		if !ok {
			return nil, errors.Errorf("state %q: missing index %d", prefix, i)
		}
		out[i] = m.Clone()
	}
	return out, nil
}

// sameShapes reports whether a and b hold buffers of identical shapes.
func sameShapes(a, b slots) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Shape().Equal(b[i].Shape()) {
			return false
		}
	}
	return true
}

// checkKnownKeys rejects state keys outside the given prefixes.
func checkKnownKeys(opt string, state map[string]*linalg.Matrix, prefixes ...string) error {
	for key := range state {
		known := false
		for _, p := range prefixes {
			if strings.HasPrefix(key, p+".") {
				known = true
				break
			}
		}
		if !known {
			return errors.Errorf("%s: unexpected state key %q", opt, key)
		}
	}
	return nil
}
