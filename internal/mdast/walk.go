package mdast

// WalkFunc is called for every node. Returning false skips the node's
// children.
type WalkFunc func(n Node, depth int) bool

// Walk visits n and its descendants depth-first, pre-order.
func Walk(n Node, fn WalkFunc) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn WalkFunc) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children() {
		walk(c, depth+1, fn)
	}
}

// Count tallies the nodes of each kind under n, n included
func Count(n Node) map[Kind]int {
	counts := make(map[Kind]int)
	Walk(n, func(n Node, _ int) bool {
		counts[n.Kind()]++
		return true
	})
	return counts
}

// PlainText concatenates the literal text below n without any markup.
// Used where a construct needs a flat label, such as image alt text.
func PlainText(n Node) string {
	var out []byte
	Walk(n, func(n Node, _ int) bool {
		switch v := n.(type) {
		case *Text:
			out = append(out, v.Value...)
		case *InlineCode:
			out = append(out, v.Value...)
		case *WikiLink:
			if v.Alias != "" {
				out = append(out, v.Alias...)
			} else {
				out = append(out, v.Target...)
			}
		case *Break:
			out = append(out, ' ')
		}
		return true
	})
	return string(out)
}
