package bslcheck

// Walk traverses the tree rooted at n in source order, calling fn for every
// node. If fn returns false the node's children are skipped. The else-if
// (condition, body) pairs of If nodes are visited explicitly: they are not
// nodes themselves.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch x := n.(type) {
	case *Module:
		for _, v := range x.Vars {
			Walk(v, fn)
		}
		for _, f := range x.Functions {
			Walk(f, fn)
		}
		for _, p := range x.Procedures {
			Walk(p, fn)
		}
		walkList(x.Statements, fn)

	case *VarDecl:
		// leaf

	case *Param:
		Walk(x.Default, fn)

	case *Function:
		for _, p := range x.Params {
			Walk(p, fn)
		}
		walkList(x.Body, fn)

	case *Procedure:
		for _, p := range x.Params {
			Walk(p, fn)
		}
		walkList(x.Body, fn)

	case *Assign:
		Walk(x.Target, fn)
		Walk(x.Value, fn)

	case *If:
		Walk(x.Cond, fn)
		walkList(x.Then, fn)
		for _, br := range x.ElseIfs {
			Walk(br.Cond, fn)
			walkList(br.Body, fn)
		}
		walkList(x.Else, fn)

	case *While:
		Walk(x.Cond, fn)
		walkList(x.Body, fn)

	case *For:
		Walk(x.From, fn)
		Walk(x.To, fn)
		walkList(x.Body, fn)

	case *ForEach:
		Walk(x.Collection, fn)
		walkList(x.Body, fn)

	case *Try:
		walkList(x.Body, fn)
		walkList(x.Except, fn)

	case *Return:
		Walk(x.Value, fn)

	case *Raise:
		Walk(x.Value, fn)

	case *Await:
		Walk(x.Value, fn)

	case *ExprStmt:
		Walk(x.X, fn)

	case *Binary:
		Walk(x.Left, fn)
		Walk(x.Right, fn)

	case *Unary:
		Walk(x.X, fn)

	case *Ternary:
		Walk(x.Cond, fn)
		Walk(x.Then, fn)
		Walk(x.Else, fn)

	case *Call:
		Walk(x.Fn, fn)
		walkList(x.Args, fn)

	case *Member:
		Walk(x.X, fn)

	case *Index:
		Walk(x.X, fn)
		Walk(x.Idx, fn)

	case *New:
		walkList(x.Args, fn)

	case *Ident, *Literal, *Break, *Continue:
		// leaves
	}
}

func walkList(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		Walk(n, fn)
	}
}
