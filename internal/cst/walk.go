package cst

// ForEachChild invokes f on every direct child node of n, in source order.
// Tokens are not children; only nodes of the CST families are visited.
func ForEachChild(n Node, f func(Node)) {
	visit := func(c Node) {
		if c != nil {
			f(c)
		}
	}
	switch n := n.(type) {
	case *SourceFile:
		for _, el := range n.Elements {
			visit(el)
		}
	case *ReferenceTypeExpression, *VarTypeExpression:
	case *AppTypeExpression:
		visit(n.Op)
		for _, a := range n.Args {
			visit(a)
		}
	case *ArrowTypeExpression:
		for _, p := range n.ParamTypes {
			visit(p)
		}
		visit(n.ReturnType)
	case *QualifiedTypeExpression:
		for _, c := range n.Constraints {
			visit(c)
		}
		visit(n.TE)
	case *TupleTypeExpression:
		for _, e := range n.Elements {
			visit(e)
		}
	case *NestedTypeExpression:
		visit(n.TE)
	case *TypeclassConstraintExpression:
		for _, te := range n.TEs {
			visit(te)
		}
	case *EqualityConstraintExpression:
		visit(n.Left)
		visit(n.Right)
	case *BindPattern, *LiteralPattern:
	case *NamedPattern:
		for _, p := range n.Patterns {
			visit(p)
		}
	case *NestedPattern:
		visit(n.P)
	case *ReferenceExpression, *ConstantExpression:
	case *CallExpression:
		visit(n.Function)
		for _, a := range n.Args {
			visit(a)
		}
	case *InfixExpression:
		visit(n.LHS)
		visit(n.RHS)
	case *PrefixExpression:
		visit(n.Argument)
	case *MemberExpression:
		visit(n.E)
	case *TupleExpression:
		for _, e := range n.Elements {
			visit(e)
		}
	case *NestedExpression:
		visit(n.Inner)
	case *MatchCase:
		visit(n.Pattern)
		visit(n.Expression)
	case *MatchExpression:
		visit(n.Value)
		for _, c := range n.Cases {
			visit(c)
		}
	case *RecordExpressionField:
		visit(n.E)
	case *RecordExpression:
		for _, fld := range n.Fields {
			visit(fld)
		}
	case *ExpressionStatement:
		visit(n.Expression)
	case *ReturnStatement:
		visit(n.Expression)
	case *IfStatementPart:
		visit(n.Test)
		for _, el := range n.Elements {
			visit(el)
		}
	case *IfStatement:
		for _, p := range n.Parts {
			visit(p)
		}
	case *TypeAssert:
		visit(n.TE)
	case *Parameter:
		visit(n.Pattern)
		if n.TypeAssert != nil {
			visit(n.TypeAssert)
		}
	case *LetBlockBody:
		for _, el := range n.Elements {
			visit(el)
		}
	case *LetExprBody:
		visit(n.Expression)
	case *LetDeclaration:
		visit(n.Pattern)
		for _, p := range n.Params {
			visit(p)
		}
		if n.TypeAssert != nil {
			visit(n.TypeAssert)
		}
		visit(n.Body)
	case *RecordDeclarationField:
		visit(n.TE)
	case *RecordDeclaration:
		for _, fld := range n.Fields {
			visit(fld)
		}
	case *TupleVariantDeclarationMember:
		for _, e := range n.Elements {
			visit(e)
		}
	case *RecordVariantDeclarationMember:
		for _, fld := range n.Fields {
			visit(fld)
		}
	case *VariantDeclaration:
		for _, tv := range n.TVs {
			visit(tv)
		}
		for _, m := range n.Members {
			visit(m)
		}
	case *ClassDeclaration:
		for _, tv := range n.TypeVars {
			visit(tv)
		}
		for _, el := range n.Elements {
			visit(el)
		}
	case *InstanceDeclaration:
		for _, te := range n.TypeExps {
			visit(te)
		}
		for _, el := range n.Elements {
			visit(el)
		}
	}
}

// SetParents fills in the parent back references of the whole subtree under
// root. It must run once after parsing, before scopes or the checker are
// used.
func SetParents(root Node) {
	ForEachChild(root, func(child Node) {
		child.setParent(root)
		SetParents(child)
	})
}

// Walk visits n and all its descendants in pre-order. Returning false from
// f prunes the subtree below the current node.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	ForEachChild(n, func(child Node) {
		Walk(child, f)
	})
}
