// Package graph builds the table/index/column graph rendered by the UI.
package graph

import (
	"errors"
	"fmt"

	"github.com/jayronsoares/index-analysis-tool/internal/metadata"
)

// ErrNotFound reports that the selected schema or table has no metadata.
var ErrNotFound = errors.New("schema or table not found")

// ErrNoIndexes reports that the selected table exists but carries no indexes.
// Build still returns a graph holding the lone table node so the caller can
// render a placeholder.
var ErrNoIndexes = errors.New("table has no indexes")

// NodeKind tags the closed set of node variants.
type NodeKind string

const (
	NodeTable  NodeKind = "table"
	NodeIndex  NodeKind = "index"
	NodeColumn NodeKind = "column"
)

// EdgeKind tags the two edge variants.
type EdgeKind string

const (
	EdgeTableToIndex  EdgeKind = "table_index"
	EdgeIndexToColumn EdgeKind = "index_column"
)

// Node is one rendered graph node. ID is unique within a single build;
// Degree is filled in by a second pass once the full edge set exists.
type Node struct {
	ID     string   `json:"id"`
	Kind   NodeKind `json:"kind"`
	Label  string   `json:"label"`
	Hover  string   `json:"hover"`
	Degree int      `json:"degree"`
}

// Edge connects two nodes by ID.
type Edge struct {
	Kind EdgeKind `json:"kind"`
	From string   `json:"from"`
	To   string   `json:"to"`
}

// Graph is the complete node/edge set for one (schema, table) selection.
// Nodes keeps insertion order so repeated builds of the same metadata are
// identical.
type Graph struct {
	Schema string  `json:"schema"`
	Table  string  `json:"table"`
	Nodes  []*Node `json:"nodes"`
	Edges  []Edge  `json:"edges"`

	byID map[string]*Node
}

// Node IDs are composite so identical index or column names under different
// tables never merge into one node.
func tableID(table string) string { return "table:" + table }

func indexID(table, index string) string { return "index:" + table + "." + index }

func columnID(table, column string) string { return "column:" + table + "." + column }

func (g *Graph) addNode(id string, kind NodeKind, label, hover string) *Node {
	if n, ok := g.byID[id]; ok {
		return n
	}
	n := &Node{ID: id, Kind: kind, Label: label, Hover: hover}
	g.byID[id] = n
	g.Nodes = append(g.Nodes, n)
	return n
}

func (g *Graph) addEdge(kind EdgeKind, from, to string) {
	g.Edges = append(g.Edges, Edge{Kind: kind, From: from, To: to})
}

// NodeByID returns the node with the given ID, or nil.
func (g *Graph) NodeByID(id string) *Node {
	return g.byID[id]
}

// indexLabel renders the index display label with its uniqueness suffix.
func indexLabel(idx metadata.IndexMeta) string {
	if idx.Unique {
		return fmt.Sprintf("%s (UNIQUE)", idx.Name)
	}
	return fmt.Sprintf("%s (NON-UNIQUE)", idx.Name)
}

// indexHover renders the statistics shown when hovering an index node.
func indexHover(idx metadata.IndexMeta) string {
	return fmt.Sprintf("Index: %s<br>Type: %s<br>Cardinality: %d<br>Index Size: %.2f MB",
		idx.Name, idx.Type, idx.Cardinality, idx.SizeMB)
}

// Build constructs the graph for one table: a table node, one index node per
// index with a table-to-index edge, and one column node per covered column
// with an index-to-column edge. Column nodes are shared between indexes of
// the same table. Topology is built first; degrees are computed afterwards
// over the complete edge set.
func Build(schema, table string, indexes []metadata.IndexMeta) (*Graph, error) {
	g := &Graph{
		Schema: schema,
		Table:  table,
		byID:   make(map[string]*Node),
	}
	g.addNode(tableID(table), NodeTable, table, table)

	for _, idx := range indexes {
		label := indexLabel(idx)
		g.addNode(indexID(table, idx.Name), NodeIndex, label, indexHover(idx))
		g.addEdge(EdgeTableToIndex, tableID(table), indexID(table, idx.Name))

		for _, col := range idx.Columns {
			g.addNode(columnID(table, col.Name), NodeColumn, col.Name, col.Name)
			g.addEdge(EdgeIndexToColumn, indexID(table, idx.Name), columnID(table, col.Name))
		}
	}

	for _, e := range g.Edges {
		g.byID[e.From].Degree++
		g.byID[e.To].Degree++
	}

	if len(indexes) == 0 {
		return g, ErrNoIndexes
	}
	return g, nil
}
