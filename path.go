package valtio

import (
	"bytes"
	"strings"
)

// Path names a field by the chain of field names leading to it from a root.
type Path []string

// String renders the path as $.a.b, quoting fields that are empty or contain
// path metacharacters.
func (p Path) String() string {
	buf := bytes.NewBuffer([]byte{'$'})
	for _, f := range p {
		buf.WriteByte('.')
		if f != "" && strings.IndexAny(f, "'.*$[]") == -1 {
			buf.WriteString(f)
			continue
		}
		buf.WriteString("'" + strings.Replace(f, "'", "\\'", -1) + "'")
	}
	return buf.String()
}

// Child returns a new path extending p by field; p is not modified.
func (p Path) Child(field string) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, field)
}
