package driver

import (
	"fmt"
	"io"

	"github.com/nihei9/treerig/harness"
)

// Node is a parse tree node. Leaves hold a token; internal nodes hold a rule name and the number
// of the alternative that derived them.
type Node struct {
	Rule     string
	Alt      int
	Token    *harness.Token
	Children []*Node
}

func (n *Node) Leaf() bool {
	return n.Token != nil
}

func (n *Node) ChildCount() int {
	return len(n.Children)
}

func (n *Node) Child(i int) harness.Tree {
	return n.Children[i]
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Token != nil {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.Token.KindName, node.Token.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.Rule)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
