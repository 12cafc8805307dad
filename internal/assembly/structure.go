package assembly

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Structure is the document graph discovered during a traversal: one vertex
// per document, one edge per parent/child document pair weighted by the
// number of occurrences. It refuses edges that would close a cycle, which is
// how the traversal guards against self-referencing assemblies.
type Structure struct {
	root string
	g    graph.Graph[string, string]
}

func newStructure(root string, kind Kind) *Structure {
	s := &Structure{
		root: root,
		g:    graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles(), graph.Weighted()),
	}
	_ = s.addVertex(root, kind)
	return s
}

// Root is the path of the traversed assembly.
func (s *Structure) Root() string { return s.root }

func (s *Structure) addVertex(path string, kind Kind) error {
	shape := "ellipse"
	if kind == SubAssembly {
		shape = "box"
	}
	err := s.g.AddVertex(path,
		graph.VertexAttribute("label", filepath.Base(filepath.FromSlash(strings.ReplaceAll(path, `\`, "/")))),
		graph.VertexAttribute("shape", shape),
	)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return err
	}
	return nil
}

// link records one occurrence of child under parent.
func (s *Structure) link(parent, child string, kind Kind) error {
	if err := s.addVertex(child, kind); err != nil {
		return err
	}

	err := s.g.AddEdge(parent, child, graph.EdgeWeight(1))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, graph.ErrEdgeAlreadyExists):
		edge, err := s.g.Edge(parent, child)
		if err != nil {
			return err
		}
		return s.g.UpdateEdge(parent, child, graph.EdgeWeight(edge.Properties.Weight+1))
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return fmt.Errorf("%w: %s references %s", ErrCycleDetected, parent, child)
	default:
		return err
	}
}

// Documents is the number of distinct documents seen, root included.
func (s *Structure) Documents() int {
	n, err := s.g.Order()
	if err != nil {
		return 0
	}
	return n
}

// WriteDOT renders the structure in Graphviz DOT format.
func (s *Structure) WriteDOT(w io.Writer) error {
	return draw.DOT(s.g, w)
}

// WriteTree renders the structure as an indented tree. Children are sorted by
// path; repeated placements are shown as a multiplier.
func (s *Structure) WriteTree(w io.Writer) error {
	adj, err := s.g.AdjacencyMap()
	if err != nil {
		return err
	}
	var walk func(path string, count, depth int) error
	walk = func(path string, count, depth int) error {
		line := strings.Repeat("  ", depth) + filepath.Base(filepath.FromSlash(strings.ReplaceAll(path, `\`, "/")))
		if count > 1 {
			line += fmt.Sprintf(" x%d", count)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}

		children := make([]string, 0, len(adj[path]))
		for child := range adj[path] {
			children = append(children, child)
		}
		sort.Strings(children)
		for _, child := range children {
			if err := walk(child, adj[path][child].Properties.Weight, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(s.root, 1, 0)
}
