// Package layout builds trees of column batches from a declarative YAML
// description.
//
// A layout names one batch kind per node. Struct and union nodes list their
// fields or variants as children and take ownership of them; list nodes have
// exactly one child (the elements) and map nodes exactly two (keys, then
// values), which are built and attached as references. The returned Tree
// remembers the attached batches so a single Release frees everything.
//
//	kind: struct
//	children:
//	  - name: id
//	    kind: long
//	  - name: tags
//	    kind: list
//	    children:
//	      - kind: bytes
//	        capacity: 4096
package layout

import (
	"os"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/orcvector/pkg/config"
	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/logger"
	"github.com/ajitpratap0/orcvector/pkg/vector"
)

// maxUnionChildren is bounded by the one-byte tag.
const maxUnionChildren = 256

// Node describes one batch in a layout.
type Node struct {
	// Name labels the node; struct field names come from here
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Kind is a lowercase batch kind such as "long" or "struct"
	Kind string `yaml:"kind" json:"kind"`
	// Capacity overrides the capacity inherited from the parent
	Capacity uint64 `yaml:"capacity,omitempty" json:"capacity,omitempty"`
	// Children are fields, variants, elements or keys and values
	Children []Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// Parse decodes and validates a YAML layout.
func Parse(data []byte) (Node, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return Node{}, errors.Wrap(err, errors.ErrorTypeValidation, "failed to parse layout")
	}
	if err := n.Validate(); err != nil {
		return Node{}, err
	}
	return n, nil
}

// LoadFile reads a layout file, expanding ${VAR} references first.
func LoadFile(path string) (Node, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return Node{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to read layout").
			WithDetail("path", path)
	}
	n, err := Parse([]byte(config.ExpandEnv(string(data))))
	if err != nil {
		return Node{}, err
	}
	logger.Debug("loaded layout", zap.String("path", path), zap.String("root", n.Kind))
	return n, nil
}

// Validate checks kinds and child counts for the whole tree.
func (n Node) Validate() error {
	return n.validate("$")
}

func (n Node) validate(path string) error {
	kind, err := vector.ParseKind(n.Kind)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid layout node").
			WithDetail("path", path)
	}

	count := len(n.Children)
	switch kind {
	case vector.KindList:
		if count != 1 {
			return childCount(path, kind, "exactly 1", count)
		}
	case vector.KindMap:
		if count != 2 {
			return childCount(path, kind, "exactly 2", count)
		}
	case vector.KindUnion:
		if count == 0 || count > maxUnionChildren {
			return childCount(path, kind, "between 1 and 256", count)
		}
	case vector.KindStruct:
	default:
		if count != 0 {
			return childCount(path, kind, "no", count)
		}
	}

	for i, c := range n.Children {
		if err := c.validate(childPath(path, i, c)); err != nil {
			return err
		}
	}
	return nil
}

func childCount(path string, kind vector.Kind, want string, got int) error {
	return errors.Newf(errors.ErrorTypeValidation, "%s node needs %s children", kind, want).
		WithDetail("path", path).
		WithDetail("children", got)
}

func childPath(parent string, i int, c Node) string {
	if c.Name != "" {
		return parent + "." + c.Name
	}
	return parent + "[" + strconv.Itoa(i) + "]"
}
