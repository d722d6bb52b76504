// Package fingerprint computes canonical hashes of API surfaces, so that two
// baselines, components or types can be recognised as identical without a
// full comparison.
package fingerprint

import (
	"encoding/hex"
	"hash"
	"sort"
	"strconv"

	"golang.org/x/crypto/blake2b"

	"apidelta/internal/baseline"
)

// Hasher computes canonical hashes for API elements.
// Uses length-prefixed encoding to avoid delimiter ambiguity.
// Format: ${len}:${value}${len}:${value}... where an empty field is 0:
// Algorithm: BLAKE2b-256, lowercase hex output
type Hasher struct{}

// NewHasher creates a new hasher instance
func NewHasher() *Hasher {
	return &Hasher{}
}

type fieldWriter struct {
	h hash.Hash
}

func newFieldWriter() *fieldWriter {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only fails for keys longer than 64 bytes
		panic(err)
	}
	return &fieldWriter{h: h}
}

func (w *fieldWriter) add(fields ...string) {
	for _, f := range fields {
		w.h.Write([]byte(strconv.Itoa(len(f))))
		w.h.Write([]byte{':'})
		w.h.Write([]byte(f))
	}
}

func (w *fieldWriter) list(tag string, values []string) {
	w.add(tag, strconv.Itoa(len(values)))
	w.add(values...)
}

func (w *fieldWriter) sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}

// HashType hashes the declaration of one type. Member order does not
// matter; members are hashed in name order.
func (h *Hasher) HashType(t *baseline.TypeDescriptor) string {
	w := newFieldWriter()
	w.add("type", t.Name, strconv.Itoa(int(t.Access)), t.Superclass)
	w.list("interfaces", sorted(t.Interfaces))
	w.list("enum", sorted(t.EnumConstants))
	w.list("members", sorted(t.MemberTypes))
	w.add(strconv.FormatBool(t.HasClinit), strconv.FormatBool(t.MemberType),
		strconv.FormatBool(t.Local), strconv.FormatBool(t.Anonymous))
	hashTypeParameters(w, t.TypeParameters)

	fields := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		fw := newFieldWriter()
		fw.add(f.Name, f.Type, strconv.Itoa(int(f.Access)), optional(f.Value))
		fw.list("args", f.TypeArguments)
		fields = append(fields, fw.sum())
	}
	w.list("fields", sorted(fields))
	w.list("methods", hashMethods(t.Methods))
	w.list("constructors", hashMethods(t.Constructors))
	return w.sum()
}

// HashComponent hashes a component's own types, API annotations and
// dependency declarations. Unreadable types contribute their name only.
func (h *Hasher) HashComponent(c *baseline.Component) (string, error) {
	w := newFieldWriter()
	w.add("component", c.ID, c.Version)
	w.list("ee", sorted(c.ExecutionEnvironments))

	reqs := make([]string, 0, len(c.Required))
	for _, r := range c.Required {
		reqs = append(reqs, r.ID+"@"+r.VersionRange+"#"+strconv.FormatBool(r.Exported))
	}
	w.list("requires", sorted(reqs))

	var types []string
	for _, tc := range c.OwnContainers() {
		err := tc.Walk(func(_ string, root baseline.TypeRoot) error {
			a := c.Annotation(baseline.TypeHandle(root.TypeName()))
			entry := root.TypeName() + "|" + strconv.Itoa(int(a.Visibility)) + "|" + strconv.Itoa(int(a.Restrictions))
			desc, err := root.Descriptor()
			if err != nil {
				types = append(types, entry+"|unreadable")
				return nil
			}
			types = append(types, entry+"|"+h.HashType(desc))
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	w.list("types", sorted(types))
	return w.sum(), nil
}

// Fingerprint identifies the API surface of a baseline.
type Fingerprint struct {
	Baseline   string            `json:"baseline"`
	Components map[string]string `json:"components"`
}

// HashBaseline hashes every component of b and combines them in id order.
func (h *Hasher) HashBaseline(b *baseline.Baseline) (*Fingerprint, error) {
	fp := &Fingerprint{Components: make(map[string]string)}
	w := newFieldWriter()
	w.add("baseline", b.Name())
	for _, id := range b.IDs() {
		c, _ := b.Component(id)
		sum, err := h.HashComponent(c)
		if err != nil {
			return nil, err
		}
		fp.Components[id] = sum
		w.add(id, sum)
	}
	fp.Baseline = w.sum()
	return fp, nil
}

// Changed lists the ids whose hashes differ between f and other, plus ids
// present on one side only, in sorted order.
func (f *Fingerprint) Changed(other *Fingerprint) []string {
	var out []string
	for id, sum := range f.Components {
		if other.Components[id] != sum {
			out = append(out, id)
		}
	}
	for id := range other.Components {
		if _, ok := f.Components[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func hashTypeParameters(w *fieldWriter, params []baseline.TypeParameter) {
	w.add("tparams", strconv.Itoa(len(params)))
	for _, p := range params {
		w.add(p.Name, p.ClassBound)
		w.list("bounds", p.InterfaceBounds)
	}
}

func hashMethods(ms []baseline.Method) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		mw := newFieldWriter()
		mw.add(m.Name, m.Descriptor, strconv.Itoa(int(m.Access)), optional(m.DefaultValue))
		ex := make([]string, 0, len(m.Exceptions))
		for _, e := range m.Exceptions {
			ex = append(ex, e.Type+"#"+strconv.FormatBool(e.Unchecked))
		}
		mw.list("throws", sorted(ex))
		hashTypeParameters(mw, m.TypeParameters)
		out = append(out, mw.sum())
	}
	return sorted(out)
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	// distinguishes an empty constant from no constant
	return "=" + *s
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
