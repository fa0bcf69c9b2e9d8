package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jayronsoares/index-analysis-tool/internal/metadata"
)

func ordersIndexes() []metadata.IndexMeta {
	return []metadata.IndexMeta{
		{
			Name: "PRIMARY", Table: "orders", Type: "BTREE", Unique: true,
			Cardinality: 150000, SizeMB: 4.58,
			Columns: []metadata.ColumnRef{{Name: "id", Index: "PRIMARY", OrdinalPosition: 1}},
		},
		{
			Name: "idx_customer", Table: "orders", Type: "BTREE", Unique: false,
			Cardinality: 1200, SizeMB: 0.04,
			Columns: []metadata.ColumnRef{{Name: "customer_id", Index: "idx_customer", OrdinalPosition: 1}},
		},
	}
}

func countNodes(g *Graph, kind NodeKind) int {
	n := 0
	for _, node := range g.Nodes {
		if node.Kind == kind {
			n++
		}
	}
	return n
}

func countEdges(g *Graph, kind EdgeKind) int {
	n := 0
	for _, e := range g.Edges {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestBuild(t *testing.T) {
	var tests = []struct {
		name        string
		table       string
		indexes     []metadata.IndexMeta
		wantTables  int
		wantIndexes int
		wantColumns int
		wantTIEdges int
		wantICEdges int
		wantErr     error
		tableDegree int
	}{
		{"two single-column indexes", "orders", ordersIndexes(), 1, 2, 2, 2, 2, nil, 2},
		{"no indexes", "logs", nil, 1, 0, 0, 0, 0, ErrNoIndexes, 0},
		{"multi-column index", "events",
			[]metadata.IndexMeta{{
				Name: "idx_multi", Table: "events", Type: "BTREE",
				Columns: []metadata.ColumnRef{
					{Name: "a", Index: "idx_multi", OrdinalPosition: 1},
					{Name: "b", Index: "idx_multi", OrdinalPosition: 2},
					{Name: "c", Index: "idx_multi", OrdinalPosition: 3},
				},
			}},
			1, 1, 3, 1, 3, nil, 1},
	}

	for _, tt := range tests {
		// Use t.Run to run each case as a subtest with a descriptive name
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build("sales", tt.table, tt.indexes)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("\ngot error %v, wanted %v", err, tt.wantErr)
			}
			if g == nil {
				t.Fatalf("\ngot nil graph")
			}
			if got := countNodes(g, NodeTable); got != tt.wantTables {
				t.Errorf("\ngot %d table nodes, wanted %d", got, tt.wantTables)
			}
			if got := countNodes(g, NodeIndex); got != tt.wantIndexes {
				t.Errorf("\ngot %d index nodes, wanted %d", got, tt.wantIndexes)
			}
			if got := countNodes(g, NodeColumn); got != tt.wantColumns {
				t.Errorf("\ngot %d column nodes, wanted %d", got, tt.wantColumns)
			}
			if got := countEdges(g, EdgeTableToIndex); got != tt.wantTIEdges {
				t.Errorf("\ngot %d table-index edges, wanted %d", got, tt.wantTIEdges)
			}
			if got := countEdges(g, EdgeIndexToColumn); got != tt.wantICEdges {
				t.Errorf("\ngot %d index-column edges, wanted %d", got, tt.wantICEdges)
			}
			if got := g.NodeByID(tableID(tt.table)).Degree; got != tt.tableDegree {
				t.Errorf("\ngot table degree %d, wanted %d", got, tt.tableDegree)
			}
		})
	}
}

func TestBuildMultiColumnIndexDegree(t *testing.T) {
	indexes := []metadata.IndexMeta{{
		Name: "idx_multi", Table: "events", Type: "BTREE",
		Columns: []metadata.ColumnRef{
			{Name: "a", Index: "idx_multi", OrdinalPosition: 1},
			{Name: "b", Index: "idx_multi", OrdinalPosition: 2},
			{Name: "c", Index: "idx_multi", OrdinalPosition: 3},
		},
	}}
	g, err := Build("sales", "events", indexes)
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}

	// One table edge plus three column edges.
	if got := g.NodeByID(indexID("events", "idx_multi")).Degree; got != 4 {
		t.Errorf("\ngot index degree %d, wanted 4", got)
	}
}

func TestBuildSharedColumnMerges(t *testing.T) {
	// Two indexes covering the same column must reuse one column node,
	// and that node accumulates one edge per covering index.
	indexes := []metadata.IndexMeta{
		{Name: "PRIMARY", Table: "orders", Unique: true,
			Columns: []metadata.ColumnRef{{Name: "id", Index: "PRIMARY", OrdinalPosition: 1}}},
		{Name: "idx_id_date", Table: "orders",
			Columns: []metadata.ColumnRef{
				{Name: "id", Index: "idx_id_date", OrdinalPosition: 1},
				{Name: "order_date", Index: "idx_id_date", OrdinalPosition: 2},
			}},
	}
	g, err := Build("sales", "orders", indexes)
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if got := countNodes(g, NodeColumn); got != 2 {
		t.Errorf("\ngot %d column nodes, wanted 2", got)
	}
	if got := g.NodeByID(columnID("orders", "id")).Degree; got != 2 {
		t.Errorf("\ngot shared column degree %d, wanted 2", got)
	}
}

func TestBuildDegreeMatchesEdgeList(t *testing.T) {
	g, err := Build("sales", "orders", ordersIndexes())
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}

	counts := make(map[string]int)
	for _, e := range g.Edges {
		counts[e.From]++
		counts[e.To]++
	}
	for _, n := range g.Nodes {
		if n.Degree != counts[n.ID] {
			t.Errorf("\nnode %s degree %d, edge list says %d", n.ID, n.Degree, counts[n.ID])
		}
	}
	// Every column node is referenced by at least one index.
	for _, n := range g.Nodes {
		if n.Kind == NodeColumn && n.Degree < 1 {
			t.Errorf("\nisolated column node %s", n.ID)
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	a, err := Build("sales", "orders", ordersIndexes())
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	b, err := Build("sales", "orders", ordersIndexes())
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if !reflect.DeepEqual(a.Nodes, b.Nodes) {
		t.Errorf("\nrepeated builds produced different node sets")
	}
	if !reflect.DeepEqual(a.Edges, b.Edges) {
		t.Errorf("\nrepeated builds produced different edge sets")
	}
}

func TestIndexLabelsAndHover(t *testing.T) {
	g, err := Build("sales", "orders", ordersIndexes())
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}

	primary := g.NodeByID(indexID("orders", "PRIMARY"))
	if primary.Label != "PRIMARY (UNIQUE)" {
		t.Errorf("\ngot label %q, wanted %q", primary.Label, "PRIMARY (UNIQUE)")
	}
	wantHover := "Index: PRIMARY<br>Type: BTREE<br>Cardinality: 150000<br>Index Size: 4.58 MB"
	if primary.Hover != wantHover {
		t.Errorf("\ngot hover %q, wanted %q", primary.Hover, wantHover)
	}

	custorder := g.NodeByID(indexID("orders", "idx_customer"))
	if custorder.Label != "idx_customer (NON-UNIQUE)" {
		t.Errorf("\ngot label %q, wanted %q", custorder.Label, "idx_customer (NON-UNIQUE)")
	}
}
