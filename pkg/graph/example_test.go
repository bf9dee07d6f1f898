package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

func ExampleWriteGraph() {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "0xvictim", Category: layout.CategoryMain},
			{ID: "0xhot", Category: layout.CategoryCEX},
		},
		Edges: []graph.Edge{{Source: "0xvictim", Target: "0xhot", Kind: graph.KindTransfer}},
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "0xhot",
	//       "category": "cex"
	//     },
	//     {
	//       "id": "0xvictim",
	//       "category": "main"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "source": "0xvictim",
	//       "target": "0xhot",
	//       "kind": "transfer"
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	input := `{
		"nodes": [
			{"id": "0xvictim", "category": "main"},
			{"id": "0xmixer", "category": "mixer"}
		],
		"edges": [{"source": "0xvictim", "target": "0xmixer"}, {"source": "0xmixer", "target": "0xgone"}]
	}`

	g, err := graph.ReadGraph(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("root:", g.Root())
	for _, w := range graph.Warnings(g) {
		fmt.Println("warning:", w)
	}
	// Output:
	// root: 0xvictim
	// warning: edge 0xmixer -> 0xgone references an unknown node and is ignored
}
