package routes

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/routekit/pkg/parser"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// node is a position in the route trie.
type node struct {
	// segment is the static text this node is reached by ("" for root and
	// parameter nodes).
	segment string

	// children are static segment children in declaration order.
	children []*node

	// param is the parameter child. It is a field rather than a children
	// entry, so no static segment name can collide with it.
	param *node

	// paramName and paramValidator describe the edge into this node when it
	// is a parameter node.
	paramName      string
	paramValidator any

	// query and meta come from the definition that made this node terminal.
	query parser.Fields
	meta  Meta

	// terminal is set when a definition ends exactly here.
	terminal bool

	// declaredBy is the index of the definition that made the node terminal.
	declaredBy int
}

func newNode(segment string) *node {
	return &node{segment: segment}
}

// findChild finds a static child with an exact segment match.
func (n *node) findChild(segment string) *node {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a static child.
func (n *node) addChild(segment string) *node {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newNode(segment)
	n.children = append(n.children, child)
	return child
}

// treeBuilder inserts normalized definitions into a trie.
type treeBuilder struct {
	root   *node
	policy ConflictPolicy
	logger *slog.Logger
}

func newTreeBuilder(policy ConflictPolicy, logger *slog.Logger) *treeBuilder {
	return &treeBuilder{
		root:   newNode(""),
		policy: policy,
		logger: logger,
	}
}

// insert walks def's segments from the root, creating nodes as needed, and
// marks the final node terminal.
func (b *treeBuilder) insert(def normalized) error {
	current := b.root
	walked := make([]routepath.Segment, 0, len(def.segments))

	for _, seg := range def.segments {
		walked = append(walked, seg)

		if seg.Kind == routepath.Static {
			current = current.addChild(seg.Name)
			continue
		}

		next, err := b.addParamChild(current, def, seg.Name, walked)
		if err != nil {
			return err
		}
		current = next
	}

	return b.markTerminal(current, def)
}

func (b *treeBuilder) addParamChild(n *node, def normalized, name string, walked []routepath.Segment) (*node, error) {
	child := n.param
	switch {
	case child == nil:
		child = newNode("")
		child.paramName = name
		n.param = child
	case child.paramName != name:
		at := routepath.BuildPattern(walked[:len(walked)-1], false)
		if b.policy == ConflictStrict {
			return nil, &DefinitionError{
				Index: def.index,
				Path:  def.path,
				Err:   fmt.Errorf("%w: parameter :%s conflicts with :%s after %s", ErrConflict, name, child.paramName, at),
			}
		}
		b.logger.Warn("routes: parameter name overridden",
			slog.String("at", at),
			slog.String("previous", child.paramName),
			slog.String("name", name),
			slog.String("path", def.path))
		child.paramName = name
	}

	if v, ok := def.params[name]; ok {
		if child.paramValidator != nil {
			b.logger.Debug("routes: parameter validator replaced",
				slog.String("param", name),
				slog.String("path", def.path))
		}
		child.paramValidator = v
	}

	return child, nil
}

func (b *treeBuilder) markTerminal(n *node, def normalized) error {
	if n.terminal {
		if b.policy == ConflictStrict {
			return &DefinitionError{
				Index: def.index,
				Path:  def.path,
				Err:   fmt.Errorf("%w: %s already declared by route %d", ErrConflict, def.pattern, n.declaredBy),
			}
		}
		b.logger.Warn("routes: route redeclared, keeping last",
			slog.String("pattern", def.pattern),
			slog.Int("previous", n.declaredBy),
			slog.Int("index", def.index))
	}

	n.terminal = true
	n.declaredBy = def.index
	n.query = def.query
	n.meta = def.meta
	return nil
}
