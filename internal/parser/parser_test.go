package parser

import (
	"testing"

	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
	"github.com/bolt-lang/bolt/internal/lexer"
	"github.com/bolt-lang/bolt/internal/text"
)

func parseSource(t *testing.T, input string) (*cst.SourceFile, *diag.Store) {
	t.Helper()
	file := text.NewFile("test.bolt", input)
	store := diag.NewStore()
	p := New(file, lexer.NewPunctuator(lexer.NewScanner(input)), store)
	sf := p.ParseSourceFile()
	cst.SetParents(sf)
	return sf, store
}

func parseClean(t *testing.T, input string) *cst.SourceFile {
	t.Helper()
	sf, store := parseSource(t, input)
	if store.Count() != 0 {
		for _, d := range store.Diagnostics {
			t.Logf("diagnostic: %s", d.Message())
		}
		t.Fatalf("expected no diagnostics, got %d", store.Count())
	}
	return sf
}

func TestParseExpressionStatement(t *testing.T) {
	sf := parseClean(t, "1")
	if len(sf.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(sf.Elements))
	}
	stmt, ok := sf.Elements[0].(*cst.ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %T", sf.Elements[0])
	}
	if _, ok := stmt.Expression.(*cst.ConstantExpression); !ok {
		t.Fatalf("expected constant expression, got %T", stmt.Expression)
	}
}

func TestParseLetDeclaration(t *testing.T) {
	sf := parseClean(t, "let f x y = x")
	d, ok := sf.Elements[0].(*cst.LetDeclaration)
	if !ok {
		t.Fatalf("expected let declaration, got %T", sf.Elements[0])
	}
	if name := d.Name(); name == nil || name.Text() != "f" {
		t.Fatalf("declaration name wrong")
	}
	if len(d.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(d.Params))
	}
	if _, ok := d.Body.(*cst.LetExprBody); !ok {
		t.Fatalf("expected expression body, got %T", d.Body)
	}
}

func TestParseLetModifiers(t *testing.T) {
	sf := parseClean(t, "pub let mut counter = 0")
	d := sf.Elements[0].(*cst.LetDeclaration)
	if d.PubKeyword == nil {
		t.Fatalf("pub keyword not captured")
	}
	if d.MutKeyword == nil {
		t.Fatalf("mut keyword not captured")
	}
}

func TestParseAbstractLet(t *testing.T) {
	sf := parseClean(t, "let f : Int -> Int")
	d := sf.Elements[0].(*cst.LetDeclaration)
	if d.Body != nil {
		t.Fatalf("expected abstract declaration, got body %T", d.Body)
	}
	arrow, ok := d.TypeAssert.TE.(*cst.ArrowTypeExpression)
	if !ok {
		t.Fatalf("expected arrow type, got %T", d.TypeAssert.TE)
	}
	if len(arrow.ParamTypes) != 1 {
		t.Fatalf("expected 1 param type, got %d", len(arrow.ParamTypes))
	}
}

func TestArrowTypeRightAssociative(t *testing.T) {
	sf := parseClean(t, "let f : Int -> Int -> Bool")
	d := sf.Elements[0].(*cst.LetDeclaration)
	arrow := d.TypeAssert.TE.(*cst.ArrowTypeExpression)
	if len(arrow.ParamTypes) != 2 {
		t.Fatalf("expected 2 param types for chained arrow, got %d", len(arrow.ParamTypes))
	}
	ret, ok := arrow.ReturnType.(*cst.ReferenceTypeExpression)
	if !ok || ret.Name.Text() != "Bool" {
		t.Fatalf("return type wrong: %T", arrow.ReturnType)
	}
}

func TestParseQualifiedType(t *testing.T) {
	sf := parseClean(t, "let f : Eq a, a ~ Int => a -> Bool")
	d := sf.Elements[0].(*cst.LetDeclaration)
	q, ok := d.TypeAssert.TE.(*cst.QualifiedTypeExpression)
	if !ok {
		t.Fatalf("expected qualified type, got %T", d.TypeAssert.TE)
	}
	if len(q.Constraints) != 2 {
		t.Fatalf("expected 2 constraints, got %d", len(q.Constraints))
	}
	if _, ok := q.Constraints[0].(*cst.TypeclassConstraintExpression); !ok {
		t.Fatalf("first constraint should be a class constraint, got %T", q.Constraints[0])
	}
	if _, ok := q.Constraints[1].(*cst.EqualityConstraintExpression); !ok {
		t.Fatalf("second constraint should be an equality constraint, got %T", q.Constraints[1])
	}
}

func TestOperatorPrecedence(t *testing.T) {
	sf := parseClean(t, "1 + 2 * 3")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	add, ok := e.(*cst.InfixExpression)
	if !ok || add.Operator.Text() != "+" {
		t.Fatalf("expected + at the root, got %T", e)
	}
	mul, ok := add.RHS.(*cst.InfixExpression)
	if !ok || mul.Operator.Text() != "*" {
		t.Fatalf("expected * on the right, got %T", add.RHS)
	}
}

func TestOperatorLeftAssociativity(t *testing.T) {
	sf := parseClean(t, "1 - 2 - 3")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	outer := e.(*cst.InfixExpression)
	inner, ok := outer.LHS.(*cst.InfixExpression)
	if !ok {
		t.Fatalf("left-associative chain wrong: LHS is %T", outer.LHS)
	}
	if inner.Operator.Text() != "-" || outer.Operator.Text() != "-" {
		t.Fatalf("operators wrong")
	}
}

func TestPrefixOperator(t *testing.T) {
	sf := parseClean(t, "- 1 + 2")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	add := e.(*cst.InfixExpression)
	if _, ok := add.LHS.(*cst.PrefixExpression); !ok {
		t.Fatalf("expected prefix expression on the left, got %T", add.LHS)
	}
}

func TestCallByJuxtaposition(t *testing.T) {
	sf := parseClean(t, "f 1 (g 2)")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	call, ok := e.(*cst.CallExpression)
	if !ok {
		t.Fatalf("expected call, got %T", e)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	nested, ok := call.Args[1].(*cst.NestedExpression)
	if !ok {
		t.Fatalf("expected nested expression, got %T", call.Args[1])
	}
	if _, ok := nested.Inner.(*cst.CallExpression); !ok {
		t.Fatalf("expected inner call, got %T", nested.Inner)
	}
}

func TestQualifiedReference(t *testing.T) {
	sf := parseClean(t, "List.map")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	ref, ok := e.(*cst.ReferenceExpression)
	if !ok {
		t.Fatalf("expected reference, got %T", e)
	}
	path := ref.Path()
	if len(path.Modules) != 1 || path.Modules[0] != "List" || path.Name != "map" {
		t.Fatalf("path wrong: %v", path)
	}
}

func TestMemberAccess(t *testing.T) {
	sf := parseClean(t, "p.x")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	m, ok := e.(*cst.MemberExpression)
	if !ok {
		t.Fatalf("expected member expression, got %T", e)
	}
	if m.Name.Text() != "x" {
		t.Fatalf("member name wrong: %q", m.Name.Text())
	}
}

func TestTupleExpression(t *testing.T) {
	sf := parseClean(t, "(1, 2, 3)")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	tup, ok := e.(*cst.TupleExpression)
	if !ok {
		t.Fatalf("expected tuple, got %T", e)
	}
	if len(tup.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(tup.Elements))
	}
}

func TestMatchExpression(t *testing.T) {
	input := "let f m = match m\n  Some x => x\n  None => 0"
	sf := parseClean(t, input)
	d := sf.Elements[0].(*cst.LetDeclaration)
	body := d.Body.(*cst.LetExprBody)
	m, ok := body.Expression.(*cst.MatchExpression)
	if !ok {
		t.Fatalf("expected match expression, got %T", body.Expression)
	}
	if len(m.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(m.Cases))
	}
	named, ok := m.Cases[0].Pattern.(*cst.NamedPattern)
	if !ok || named.Name.Text() != "Some" || len(named.Patterns) != 1 {
		t.Fatalf("first case pattern wrong: %T", m.Cases[0].Pattern)
	}
}

func TestRecordExpression(t *testing.T) {
	sf := parseClean(t, "{ x = 1, y = 2 }")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	rec, ok := e.(*cst.RecordExpression)
	if !ok {
		t.Fatalf("expected record literal, got %T", e)
	}
	if len(rec.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(rec.Fields))
	}
}

func TestIfStatementParts(t *testing.T) {
	input := "if 1\n  2\nelif 3\n  4\nelse\n  5"
	sf := parseClean(t, input)
	st, ok := sf.Elements[0].(*cst.IfStatement)
	if !ok {
		t.Fatalf("expected if statement, got %T", sf.Elements[0])
	}
	if len(st.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(st.Parts))
	}
	if st.Parts[0].Keyword.Kind != lexer.IfKeyword ||
		st.Parts[1].Keyword.Kind != lexer.ElifKeyword ||
		st.Parts[2].Keyword.Kind != lexer.ElseKeyword {
		t.Fatalf("part keywords wrong")
	}
	if st.Parts[2].Test != nil {
		t.Fatalf("else part must not carry a condition")
	}
	if len(st.Parts[1].Elements) != 1 {
		t.Fatalf("elif body wrong: %d elements", len(st.Parts[1].Elements))
	}
}

func TestLetBlockBody(t *testing.T) {
	input := "let f x\n  let y = 1\n  return x"
	sf := parseClean(t, input)
	d := sf.Elements[0].(*cst.LetDeclaration)
	block, ok := d.Body.(*cst.LetBlockBody)
	if !ok {
		t.Fatalf("expected block body, got %T", d.Body)
	}
	if len(block.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(block.Elements))
	}
	if _, ok := block.Elements[0].(*cst.LetDeclaration); !ok {
		t.Fatalf("expected nested let, got %T", block.Elements[0])
	}
	if _, ok := block.Elements[1].(*cst.ReturnStatement); !ok {
		t.Fatalf("expected return statement, got %T", block.Elements[1])
	}
}

func TestRecordDeclaration(t *testing.T) {
	input := "struct Point\n  x: Int\n  y: Int"
	sf := parseClean(t, input)
	d, ok := sf.Elements[0].(*cst.RecordDeclaration)
	if !ok {
		t.Fatalf("expected record declaration, got %T", sf.Elements[0])
	}
	if d.Name.Text() != "Point" || len(d.Fields) != 2 {
		t.Fatalf("record wrong: %s with %d fields", d.Name.Text(), len(d.Fields))
	}
}

func TestVariantDeclaration(t *testing.T) {
	input := "enum Maybe a\n  None\n  Some a"
	sf := parseClean(t, input)
	d, ok := sf.Elements[0].(*cst.VariantDeclaration)
	if !ok {
		t.Fatalf("expected variant declaration, got %T", sf.Elements[0])
	}
	if len(d.TVs) != 1 || len(d.Members) != 2 {
		t.Fatalf("variant head wrong: %d tyvars, %d members", len(d.TVs), len(d.Members))
	}
	some, ok := d.Members[1].(*cst.TupleVariantDeclarationMember)
	if !ok || some.Name.Text() != "Some" || len(some.Elements) != 1 {
		t.Fatalf("Some member wrong: %T", d.Members[1])
	}
}

func TestClassAndInstanceDeclarations(t *testing.T) {
	input := "class Show a\n  let show : a -> String\ninstance Show Int\n  let show x = \"int\""
	sf := parseClean(t, input)
	if len(sf.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(sf.Elements))
	}
	class, ok := sf.Elements[0].(*cst.ClassDeclaration)
	if !ok {
		t.Fatalf("expected class declaration, got %T", sf.Elements[0])
	}
	if class.Name.Text() != "Show" || len(class.TypeVars) != 1 || len(class.Elements) != 1 {
		t.Fatalf("class head wrong")
	}
	method := class.Elements[0].(*cst.LetDeclaration)
	if method.Body != nil || method.TypeAssert == nil {
		t.Fatalf("class method should be abstract with a signature")
	}
	inst, ok := sf.Elements[1].(*cst.InstanceDeclaration)
	if !ok {
		t.Fatalf("expected instance declaration, got %T", sf.Elements[1])
	}
	if inst.Name.Text() != "Show" || len(inst.TypeExps) != 1 || len(inst.Elements) != 1 {
		t.Fatalf("instance head wrong")
	}
}

func TestUnexpectedTokenRecovery(t *testing.T) {
	sf, store := parseSource(t, "let = 1\nlet b = 2")
	if store.Count() == 0 {
		t.Fatalf("expected a diagnostic for the malformed let")
	}
	first, ok := store.Diagnostics[0].(*diag.UnexpectedToken)
	if !ok {
		t.Fatalf("expected UnexpectedToken, got %T", store.Diagnostics[0])
	}
	if len(first.Expected) == 0 {
		t.Fatalf("expected token set is empty")
	}
	// The parser resynchronized and picked up the second declaration.
	if len(sf.Elements) != 1 {
		t.Fatalf("expected 1 surviving element, got %d", len(sf.Elements))
	}
	d := sf.Elements[0].(*cst.LetDeclaration)
	if name := d.Name(); name == nil || name.Text() != "b" {
		t.Fatalf("recovered declaration wrong")
	}
}

func TestRecoveryInsideBlock(t *testing.T) {
	input := "let f\n  let = 1\n  return 2\nlet g = 3"
	sf, store := parseSource(t, input)
	if store.Count() == 0 {
		t.Fatalf("expected a diagnostic")
	}
	if len(sf.Elements) != 2 {
		t.Fatalf("expected 2 top-level elements, got %d", len(sf.Elements))
	}
	f := sf.Elements[0].(*cst.LetDeclaration)
	block := f.Body.(*cst.LetBlockBody)
	if len(block.Elements) != 1 {
		t.Fatalf("expected 1 surviving block element, got %d", len(block.Elements))
	}
}

func TestOperatorTableExtension(t *testing.T) {
	file := text.NewFile("test.bolt", "1 <+> 2 <+> 3")
	store := diag.NewStore()
	p := New(file, lexer.NewPunctuator(lexer.NewScanner("1 <+> 2 <+> 3")), store)
	p.Operators().Add("<+>", OperatorInfixR, 5)
	sf := p.ParseSourceFile()
	if store.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %d", store.Count())
	}
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	outer := e.(*cst.InfixExpression)
	if _, ok := outer.RHS.(*cst.InfixExpression); !ok {
		t.Fatalf("right-associative custom operator parsed wrong: RHS is %T", outer.RHS)
	}
}
