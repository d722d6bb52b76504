// Package report serializes delta trees for files and terminals.
package report

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"apidelta/internal/delta"
)

const (
	rootElement     = "deltas"
	deltaElement    = "delta"
	argumentElement = "message_argument"
)

// WriteXML writes d as nested <delta> elements under a <deltas> root.
// Composites nest their children; every node lists its message arguments as
// <message_argument value="..."> children before any child delta.
func WriteXML(w io.Writer, d *delta.Delta) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: rootElement}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	if !d.IsEmpty() {
		v := &xmlVisitor{enc: enc}
		d.Accept(v)
		if v.err != nil {
			return v.err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// MarshalXML returns the WriteXML encoding of d.
func MarshalXML(d *delta.Delta) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXML(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type xmlVisitor struct {
	enc *xml.Encoder
	err error
}

func (v *xmlVisitor) Visit(d *delta.Delta) bool {
	if v.err != nil {
		return false
	}
	if v.err = v.enc.EncodeToken(startElement(d)); v.err != nil {
		return false
	}
	for _, arg := range d.Arguments() {
		el := xml.StartElement{
			Name: xml.Name{Local: argumentElement},
			Attr: []xml.Attr{attr("value", arg)},
		}
		if v.err = v.enc.EncodeToken(el); v.err != nil {
			return false
		}
		if v.err = v.enc.EncodeToken(el.End()); v.err != nil {
			return false
		}
	}
	return true
}

func (v *xmlVisitor) EndVisit(*delta.Delta) {
	if v.err != nil {
		return
	}
	v.err = v.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: deltaElement}})
}

func startElement(d *delta.Delta) xml.StartElement {
	attrs := []xml.Attr{
		attr("kind", d.Kind().String()),
		attr("flags", d.Flag().String()),
		attr("elementType", d.ElementType().String()),
		attr("oldModifiers", strconv.Itoa(int(d.OldModifiers()))),
		attr("newModifiers", strconv.Itoa(int(d.NewModifiers()))),
		attr("restrictions", strconv.Itoa(int(d.Restrictions()))),
		attr("previousRestrictions", strconv.Itoa(int(d.PreviousRestrictions()))),
	}
	optional := []xml.Attr{
		attr("typeName", d.TypeName()),
		attr("componentId", d.ComponentID()),
		attr("componentVersionId", d.ComponentVersionID()),
		attr("key", d.Key()),
		attr("message", d.Message()),
	}
	for _, a := range optional {
		if a.Value != "" {
			attrs = append(attrs, a)
		}
	}
	return xml.StartElement{Name: xml.Name{Local: deltaElement}, Attr: attrs}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
