// Package pysrc scans Python cell source with tree-sitter. It answers two
// questions the checking pipeline needs: which names does a cell bind and
// reference (Analyze), and where inside a cell is a given name bound
// (FindBinding). It never executes code.
package pysrc

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// BindingKind classifies how a name is introduced.
type BindingKind uint8

const (
	BindAssignment BindingKind = iota
	BindFunction
	BindClass
	BindImport
	BindParam
)

// Binding is one name-introducing node. Row and Col are 0-based and relative
// to the start of the scanned source.
type Binding struct {
	Name  string
	Row   int
	Col   int
	Kind  BindingKind
	Depth int // enclosing function/class scopes; 0 means module level
}

// Analysis summarizes one cell's source.
type Analysis struct {
	// Defs are the names the cell binds at module level, in source order.
	Defs []string
	// Refs are the names the cell reads without binding them anywhere in the
	// cell, in first-use order.
	Refs []string
	// Imports are the top-level module names imported by the cell.
	Imports []string
}

func parse(code string) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(code))
	if err != nil {
		return nil, fmt.Errorf("parse python source: %w", err)
	}
	return tree, nil
}

// Analyze scans code and reports its definitions, references and imports.
func Analyze(code string) (Analysis, error) {
	tree, err := parse(code)
	if err != nil {
		return Analysis{}, err
	}
	defer tree.Close()

	w := newWalker([]byte(code))
	w.walk(tree.RootNode(), 0)

	var out Analysis
	seenDef := map[string]struct{}{}
	for _, b := range w.bindings {
		if b.Depth != 0 || b.Kind == BindParam {
			continue
		}
		if _, dup := seenDef[b.Name]; dup {
			continue
		}
		seenDef[b.Name] = struct{}{}
		out.Defs = append(out.Defs, b.Name)
	}
	for _, name := range w.refOrder {
		if _, bound := w.bound[name]; bound {
			continue
		}
		out.Refs = append(out.Refs, name)
	}
	out.Imports = w.imports
	return out, nil
}

// FindBinding locates the first binding node for name: an assignment target,
// a function or class name, or an import alias. Row and Col are 0-based and
// relative to the start of code. ok is false when code has no such binding or
// does not parse.
func FindBinding(code, name string) (row, col int, ok bool) {
	tree, err := parse(code)
	if err != nil {
		return 0, 0, false
	}
	defer tree.Close()

	w := newWalker([]byte(code))
	w.walk(tree.RootNode(), 0)

	candidates := w.bindings[:0:0]
	for _, b := range w.bindings {
		if b.Name == name && b.Kind != BindParam {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return 0, 0, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Row != candidates[j].Row {
			return candidates[i].Row < candidates[j].Row
		}
		return candidates[i].Col < candidates[j].Col
	})
	return candidates[0].Row, candidates[0].Col, true
}

type walker struct {
	src      []byte
	bindings []Binding
	bound    map[string]struct{}
	refSeen  map[string]struct{}
	refOrder []string
	imports  []string
	impSeen  map[string]struct{}
}

func newWalker(src []byte) *walker {
	return &walker{
		src:     src,
		bound:   map[string]struct{}{},
		refSeen: map[string]struct{}{},
		impSeen: map[string]struct{}{},
	}
}

func (w *walker) addBinding(n *sitter.Node, kind BindingKind, depth int) {
	if n == nil {
		return
	}
	name := n.Content(w.src)
	pt := n.StartPoint()
	w.bindings = append(w.bindings, Binding{
		Name:  name,
		Row:   int(pt.Row),
		Col:   int(pt.Column),
		Kind:  kind,
		Depth: depth,
	})
	w.bound[name] = struct{}{}
}

func (w *walker) addRef(name string) {
	if _, dup := w.refSeen[name]; dup {
		return
	}
	w.refSeen[name] = struct{}{}
	w.refOrder = append(w.refOrder, name)
}

func (w *walker) addImport(name string) {
	if _, dup := w.impSeen[name]; dup {
		return
	}
	w.impSeen[name] = struct{}{}
	w.imports = append(w.imports, name)
}

func (w *walker) walkChildren(n *sitter.Node, depth int) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i), depth)
	}
}

func (w *walker) walk(n *sitter.Node, depth int) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_definition":
		w.addBinding(n.ChildByFieldName("name"), BindFunction, depth)
		if params := n.ChildByFieldName("parameters"); params != nil {
			w.bindParams(params, depth+1)
		}
		if ret := n.ChildByFieldName("return_type"); ret != nil {
			w.walk(ret, depth)
		}
		w.walk(n.ChildByFieldName("body"), depth+1)

	case "class_definition":
		w.addBinding(n.ChildByFieldName("name"), BindClass, depth)
		if supers := n.ChildByFieldName("superclasses"); supers != nil {
			w.walk(supers, depth)
		}
		w.walk(n.ChildByFieldName("body"), depth+1)

	case "lambda":
		if params := n.ChildByFieldName("parameters"); params != nil {
			w.bindParams(params, depth+1)
		}
		w.walk(n.ChildByFieldName("body"), depth+1)

	case "assignment", "augmented_assignment":
		w.bindTargets(n.ChildByFieldName("left"), depth)
		if typ := n.ChildByFieldName("type"); typ != nil {
			w.walk(typ, depth)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			w.walk(right, depth)
		}

	case "named_expression": // walrus
		w.bindTargets(n.ChildByFieldName("name"), depth)
		w.walk(n.ChildByFieldName("value"), depth)

	case "for_statement":
		w.bindTargets(n.ChildByFieldName("left"), depth)
		w.walk(n.ChildByFieldName("right"), depth)
		w.walk(n.ChildByFieldName("body"), depth)
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			w.walk(alt, depth)
		}

	case "import_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "dotted_name":
				if first := firstIdentifier(child); first != nil {
					w.addBinding(first, BindImport, depth)
					w.addImport(first.Content(w.src))
				}
			case "aliased_import":
				w.addBinding(child.ChildByFieldName("alias"), BindImport, depth)
				if mod := firstIdentifier(child.ChildByFieldName("name")); mod != nil {
					w.addImport(mod.Content(w.src))
				}
			}
		}

	case "import_from_statement":
		if mod := firstIdentifier(n.ChildByFieldName("module_name")); mod != nil {
			w.addImport(mod.Content(w.src))
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child == n.ChildByFieldName("module_name") {
				continue
			}
			switch child.Type() {
			case "dotted_name":
				if first := firstIdentifier(child); first != nil {
					w.addBinding(first, BindImport, depth)
				}
			case "aliased_import":
				w.addBinding(child.ChildByFieldName("alias"), BindImport, depth)
			}
		}

	case "as_pattern": // "with open(f) as g", "except E as e"
		if v := n.NamedChild(0); v != nil {
			w.walk(v, depth)
		}
		for i := 1; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "as_pattern_target" {
				w.bindTargets(child.NamedChild(0), depth)
			}
		}

	case "attribute":
		// only the object side can reference a cell-level name
		w.walk(n.ChildByFieldName("object"), depth)

	case "keyword_argument":
		w.walk(n.ChildByFieldName("value"), depth)

	case "identifier":
		w.addRef(n.Content(w.src))

	default:
		w.walkChildren(n, depth)
	}
}

// bindTargets treats n as an assignment target. Plain identifiers and
// tuple/list patterns introduce bindings; subscript and attribute targets
// mutate an existing object, so they count as references instead.
func (w *walker) bindTargets(n *sitter.Node, depth int) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier":
		w.addBinding(n, BindAssignment, depth)
	case "pattern_list", "tuple_pattern", "list_pattern", "expression_list":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			w.bindTargets(n.NamedChild(i), depth)
		}
	case "list_splat_pattern":
		w.bindTargets(n.NamedChild(0), depth)
	default:
		w.walk(n, depth)
	}
}

func (w *walker) bindParams(params *sitter.Node, depth int) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			w.addBinding(p, BindParam, depth)
		case "typed_parameter":
			if id := firstIdentifier(p); id != nil {
				w.addBinding(id, BindParam, depth)
			}
			if typ := p.ChildByFieldName("type"); typ != nil {
				w.walk(typ, depth-1)
			}
		case "default_parameter", "typed_default_parameter":
			w.addBinding(p.ChildByFieldName("name"), BindParam, depth)
			if val := p.ChildByFieldName("value"); val != nil {
				// defaults evaluate in the enclosing scope
				w.walk(val, depth-1)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if id := firstIdentifier(p); id != nil {
				w.addBinding(id, BindParam, depth)
			}
		}
	}
}

func firstIdentifier(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "identifier" {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if id := firstIdentifier(n.NamedChild(i)); id != nil {
			return id
		}
	}
	return nil
}
