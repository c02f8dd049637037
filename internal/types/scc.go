package types

import "github.com/bolt-lang/bolt/internal/cst"

// sccGroups partitions sibling let declarations into strongly connected
// components of the reference graph, using Tarjan's algorithm. Components
// are returned dependencies-first, so inference can generalize each group
// before any of its callers are visited.
func sccGroups(decls []*cst.LetDeclaration, successors func(*cst.LetDeclaration) []*cst.LetDeclaration) [][]*cst.LetDeclaration {
	index := make(map[*cst.LetDeclaration]int)
	lowlink := make(map[*cst.LetDeclaration]int)
	onStack := make(map[*cst.LetDeclaration]bool)
	var stack []*cst.LetDeclaration
	var groups [][]*cst.LetDeclaration
	next := 0

	var strongconnect func(d *cst.LetDeclaration)
	strongconnect = func(d *cst.LetDeclaration) {
		index[d] = next
		lowlink[d] = next
		next++
		stack = append(stack, d)
		onStack[d] = true

		for _, succ := range successors(d) {
			if _, seen := index[succ]; !seen {
				strongconnect(succ)
				if lowlink[succ] < lowlink[d] {
					lowlink[d] = lowlink[succ]
				}
			} else if onStack[succ] && index[succ] < lowlink[d] {
				lowlink[d] = index[succ]
			}
		}

		if lowlink[d] == index[d] {
			var group []*cst.LetDeclaration
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				group = append(group, top)
				if top == d {
					break
				}
			}
			groups = append(groups, group)
		}
	}

	for _, d := range decls {
		if _, seen := index[d]; !seen {
			strongconnect(d)
		}
	}
	return groups
}

// referencedSiblings computes the edges of the let reference graph: every
// sibling declaration whose bound name is referenced anywhere inside d.
func referencedSiblings(d *cst.LetDeclaration, siblings map[string]*cst.LetDeclaration) []*cst.LetDeclaration {
	seen := make(map[*cst.LetDeclaration]bool)
	var out []*cst.LetDeclaration
	cst.Walk(d, func(n cst.Node) bool {
		ref, ok := n.(*cst.ReferenceExpression)
		if !ok || len(ref.ModulePath) > 0 {
			return true
		}
		if target, ok := siblings[ref.Name.Text()]; ok && !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
		return true
	})
	return out
}
