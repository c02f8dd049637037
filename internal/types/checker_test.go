package types

import (
	"testing"

	"github.com/tliron/commonlog"

	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
	"github.com/bolt-lang/bolt/internal/lexer"
	"github.com/bolt-lang/bolt/internal/parser"
	"github.com/bolt-lang/bolt/internal/text"
)

func checkSource(t *testing.T, input string) (*cst.SourceFile, *Checker, *diag.Store) {
	t.Helper()
	file := text.NewFile("test.bolt", input)
	store := diag.NewStore()
	scanner := lexer.NewScanner(input)
	p := parser.New(file, lexer.NewPunctuator(scanner), store)
	sf := p.ParseSourceFile()
	for _, e := range scanner.Errors {
		store.Add(&diag.InvalidCharacter{Ch: e.Ch, Loc: e.Loc})
	}
	cst.SetParents(sf)
	c := NewChecker(store, commonlog.GetLogger("test"))
	c.Check(sf)
	return sf, c, store
}

func checkClean(t *testing.T, input string) (*cst.SourceFile, *Checker) {
	t.Helper()
	sf, c, store := checkSource(t, input)
	if store.Count() != 0 {
		for _, d := range store.Diagnostics {
			t.Logf("diagnostic: %s", d.Message())
		}
		t.Fatalf("expected no diagnostics, got %d", store.Count())
	}
	return sf, c
}

func letDecl(t *testing.T, sf *cst.SourceFile, index int) *cst.LetDeclaration {
	t.Helper()
	d, ok := sf.Elements[index].(*cst.LetDeclaration)
	if !ok {
		t.Fatalf("element %d is %T, not a let declaration", index, sf.Elements[index])
	}
	return d
}

func exprBody(t *testing.T, d *cst.LetDeclaration) cst.Expression {
	t.Helper()
	body, ok := d.Body.(*cst.LetExprBody)
	if !ok {
		t.Fatalf("declaration body is %T, not an expression body", d.Body)
	}
	return body.Expression
}

// S1: a sole integer expression statement types as Int with no diagnostics.
func TestInfersIntFromIntegerLiteral(t *testing.T) {
	sf, c := checkClean(t, "1")
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	if got := c.TypeOf(e); got != IntType {
		t.Fatalf("expected Int, got %v", got)
	}
}

func TestInfersStringFromStringLiteral(t *testing.T) {
	sf, c := checkClean(t, `"foo"`)
	e := sf.Elements[0].(*cst.ExpressionStatement).Expression
	if got := c.TypeOf(e); got != StringType {
		t.Fatalf("expected String, got %v", got)
	}
}

// S2: an annotation mismatch reports one UnificationError with the
// annotated type on the left.
func TestIllegalTypingVariable(t *testing.T) {
	_, _, store := checkSource(t, `let a: Int = "foo"`)
	if store.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", store.Count())
	}
	d, ok := store.Diagnostics[0].(*diag.UnificationError)
	if !ok {
		t.Fatalf("expected UnificationError, got %T", store.Diagnostics[0])
	}
	if d.Left.String() != "Int" {
		t.Fatalf("left type wrong: %s", d.Left)
	}
	if d.Right.String() != "String" {
		t.Fatalf("right type wrong: %s", d.Right)
	}
}

// S3: a polymorphic identity instantiates independently at each use.
func TestPolymorphicInstantiation(t *testing.T) {
	input := "let id x = x\nlet a = id 1\nlet b = id \"s\""
	sf, c := checkClean(t, input)

	id := letDecl(t, sf, 0)
	scheme := c.SchemeOf(id)
	if scheme == nil || len(scheme.Vars) != 1 {
		t.Fatalf("id should generalize one variable, got %v", scheme)
	}
	if len(scheme.Constraints) != 0 {
		t.Fatalf("id should have no constraints, got %v", scheme.Constraints)
	}

	if got := c.TypeOf(exprBody(t, letDecl(t, sf, 1))); got != IntType {
		t.Fatalf("id 1 should be Int, got %v", got)
	}
	if got := c.TypeOf(exprBody(t, letDecl(t, sf, 2))); got != StringType {
		t.Fatalf("id \"s\" should be String, got %v", got)
	}
}

// S4: self-recursion with an unconstrained result generalizes to a -> b.
func TestRecursiveGeneralization(t *testing.T) {
	sf, c := checkClean(t, "let f x = f x")
	scheme := c.SchemeOf(letDecl(t, sf, 0))
	if scheme == nil || len(scheme.Vars) != 2 {
		t.Fatalf("f should generalize two variables, got %v", scheme)
	}
	arrow, ok := Resolve(scheme.Body).(*TArrow)
	if !ok {
		t.Fatalf("f should have an arrow type, got %v", scheme.Body)
	}
	param, pok := Resolve(arrow.Param).(*TVar)
	ret, rok := Resolve(arrow.Return).(*TVar)
	if !pok || !rok || param == ret {
		t.Fatalf("f should be a -> b with distinct variables, got %v", scheme.Body)
	}
}

// S5: an if condition that is not Bool reports Bool against the found
// type.
func TestIfConditionMustBeBool(t *testing.T) {
	_, _, store := checkSource(t, "if 1\n  2")
	if store.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", store.Count())
	}
	d, ok := store.Diagnostics[0].(*diag.UnificationError)
	if !ok {
		t.Fatalf("expected UnificationError, got %T", store.Diagnostics[0])
	}
	if d.Left.String() != "Bool" || d.Right.String() != "Int" {
		t.Fatalf("expected Bool vs Int, got %s vs %s", d.Left, d.Right)
	}
}

// S6: mutual recursion is resolved by inferring the whole component before
// generalizing either member.
func TestMutualRecursion(t *testing.T) {
	input := "let even n\n" +
		"  if n == 0\n" +
		"    return True\n" +
		"  else\n" +
		"    return odd (n - 1)\n" +
		"let odd n\n" +
		"  if n == 0\n" +
		"    return False\n" +
		"  else\n" +
		"    return even (n - 1)"
	sf, c := checkClean(t, input)

	for i, name := range []string{"even", "odd"} {
		scheme := c.SchemeOf(letDecl(t, sf, i))
		if scheme == nil {
			t.Fatalf("%s has no scheme", name)
		}
		if len(scheme.Vars) != 0 {
			t.Fatalf("%s should be monomorphic, got %v", name, scheme)
		}
		if got := Resolve(scheme.Body).String(); got != "Int -> Bool" {
			t.Fatalf("%s should be Int -> Bool, got %s", name, got)
		}
	}
}

// Property 5: generalizing a non-polymorphic value yields an empty scheme.
func TestGeneralizeMonomorphicValue(t *testing.T) {
	sf, c := checkClean(t, "let a = 1")
	scheme := c.SchemeOf(letDecl(t, sf, 0))
	if scheme == nil || len(scheme.Vars) != 0 || len(scheme.Constraints) != 0 {
		t.Fatalf("expected an empty quantifier list, got %v", scheme)
	}
	if scheme.Body != IntType {
		t.Fatalf("expected Int body, got %v", scheme.Body)
	}
}

func TestMutBindingNotGeneralized(t *testing.T) {
	sf, c := checkClean(t, "let mut a = 1")
	d := letDecl(t, sf, 0)
	if c.SchemeOf(d) != nil {
		t.Fatalf("mut binding must not be generalized")
	}
}

// A mut function's unconstrained parameter survives solving as an unsolved
// variable and is reported by the post-solve sweep.
func TestMutFunctionLeavesAmbiguousType(t *testing.T) {
	_, _, store := checkSource(t, "let mut f x = x")
	found := 0
	for _, d := range store.Diagnostics {
		if _, ok := d.(*diag.AmbiguousType); ok {
			found++
		}
	}
	if found == 0 {
		t.Fatalf("expected an AmbiguousType diagnostic, got %v", store.Diagnostics)
	}
}

func TestUnresolvedName(t *testing.T) {
	_, _, store := checkSource(t, "x")
	if store.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", store.Count())
	}
	d, ok := store.Diagnostics[0].(*diag.UnresolvedName)
	if !ok {
		t.Fatalf("expected UnresolvedName, got %T", store.Diagnostics[0])
	}
	if d.Path.Name != "x" || d.SymbolKind != cst.SymVar {
		t.Fatalf("diagnostic payload wrong: %+v", d)
	}
}

func TestShadowingDisallowed(t *testing.T) {
	_, _, store := checkSource(t, "let a = 1\nlet a = 2")
	found := false
	for _, d := range store.Diagnostics {
		if sd, ok := d.(*diag.ShadowingDisallowed); ok {
			found = true
			if sd.Name != "a" {
				t.Fatalf("shadowing name wrong: %s", sd.Name)
			}
		}
	}
	if !found {
		t.Fatalf("expected a ShadowingDisallowed diagnostic")
	}
}

func TestEqualityConstraintInAnnotation(t *testing.T) {
	sf, c := checkClean(t, "let f x : a ~ Int => a -> a = x")
	scheme := c.SchemeOf(letDecl(t, sf, 0))
	if scheme == nil {
		t.Fatalf("f has no scheme")
	}
	if got := Resolve(scheme.Body).String(); got != "Int -> Int" {
		t.Fatalf("expected Int -> Int after solving the equality, got %s", got)
	}
}

func TestOperatorsAreIntTyped(t *testing.T) {
	sf, c := checkClean(t, "let a = 1 + 2 * 3")
	if got := c.TypeOf(exprBody(t, letDecl(t, sf, 0))); got != IntType {
		t.Fatalf("arithmetic should be Int, got %v", got)
	}
}

func TestEqualityOperatorResolvesEqInstance(t *testing.T) {
	sf, c := checkClean(t, "let a = 1 == 2")
	if got := c.TypeOf(exprBody(t, letDecl(t, sf, 0))); got != BoolType {
		t.Fatalf("comparison should be Bool, got %v", got)
	}
}

func TestEqualityOnFunctionsHasNoInstance(t *testing.T) {
	input := "let f x : Int -> Int = x\nlet a = f == f"
	_, _, store := checkSource(t, input)
	if store.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", store.Count())
	}
	if _, ok := store.Diagnostics[0].(*diag.ClassResolutionError); !ok {
		t.Fatalf("expected ClassResolutionError, got %T", store.Diagnostics[0])
	}
}

func TestVariantConstructorsAndMatch(t *testing.T) {
	input := "enum Maybe a\n" +
		"  None\n" +
		"  Some a\n" +
		"let unwrap m d = match m\n" +
		"  Some x => x\n" +
		"  None => d\n" +
		"let r = unwrap (Some 1) 0"
	sf, c := checkClean(t, input)

	unwrap := letDecl(t, sf, 1)
	scheme := c.SchemeOf(unwrap)
	if scheme == nil || len(scheme.Vars) != 1 {
		t.Fatalf("unwrap should generalize one variable, got %v", scheme)
	}
	r := letDecl(t, sf, 2)
	if got := c.TypeOf(exprBody(t, r)); got != IntType {
		t.Fatalf("unwrap (Some 1) 0 should be Int, got %v", got)
	}
}

func TestClassMethodAndInstance(t *testing.T) {
	input := "class Show a\n" +
		"  let show : a -> String\n" +
		"instance Show Int\n" +
		"  let show x = \"int\"\n" +
		"let s = show 1"
	sf, c := checkClean(t, input)

	s := letDecl(t, sf, 2)
	scheme := c.SchemeOf(s)
	if scheme == nil || Resolve(scheme.Body) != StringType {
		t.Fatalf("show 1 should be String, got %v", scheme)
	}
}

func TestMissingInstanceReported(t *testing.T) {
	input := "class Show a\n" +
		"  let show : a -> String\n" +
		"let s = show 1"
	_, _, store := checkSource(t, input)
	if store.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", store.Count())
	}
	d, ok := store.Diagnostics[0].(*diag.ClassResolutionError)
	if !ok {
		t.Fatalf("expected ClassResolutionError, got %T", store.Diagnostics[0])
	}
	if d.Constraint != "Show Int" {
		t.Fatalf("constraint wrong: %s", d.Constraint)
	}
}

func TestInstanceMethodMustMatchSignature(t *testing.T) {
	input := "class Show a\n" +
		"  let show : a -> String\n" +
		"instance Show Int\n" +
		"  let show x = 1"
	_, _, store := checkSource(t, input)
	if store.Count() == 0 {
		t.Fatalf("expected a diagnostic for the mismatched method")
	}
	if _, ok := store.Diagnostics[0].(*diag.UnificationError); !ok {
		t.Fatalf("expected UnificationError, got %T", store.Diagnostics[0])
	}
}

func TestRecordFieldAccess(t *testing.T) {
	input := "struct Point\n" +
		"  x: Int\n" +
		"  y: Int\n" +
		"let getx p : Point -> Int = p.x"
	sf, c := checkClean(t, input)
	getx := letDecl(t, sf, 1)
	scheme := c.SchemeOf(getx)
	if scheme == nil || Resolve(scheme.Body).String() != "Point -> Int" {
		t.Fatalf("getx type wrong: %v", scheme)
	}
}

func TestUnknownFieldReported(t *testing.T) {
	input := "struct Point\n" +
		"  x: Int\n" +
		"let f p : Point -> Int = p.z"
	_, _, store := checkSource(t, input)
	if store.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", store.Count())
	}
	d, ok := store.Diagnostics[0].(*diag.UnresolvedName)
	if !ok {
		t.Fatalf("expected UnresolvedName, got %T", store.Diagnostics[0])
	}
	if d.Path.Name != "z" {
		t.Fatalf("field name wrong: %s", d.Path.Name)
	}
}

func TestRecordLiteralResolvesByFieldSet(t *testing.T) {
	input := "struct Point\n" +
		"  x: Int\n" +
		"  y: Int\n" +
		"let origin = { x = 0, y = 0 }"
	sf, c := checkClean(t, input)
	origin := letDecl(t, sf, 1)
	scheme := c.SchemeOf(origin)
	if scheme == nil || Resolve(scheme.Body).String() != "Point" {
		t.Fatalf("record literal type wrong: %v", scheme)
	}
}

func TestTupleTypes(t *testing.T) {
	sf, c := checkClean(t, `let pair = (1, "a")`)
	scheme := c.SchemeOf(letDecl(t, sf, 0))
	if scheme == nil || Resolve(scheme.Body).String() != "(Int, String)" {
		t.Fatalf("tuple type wrong: %v", scheme)
	}
}

func TestAmbiguousNameAtUse(t *testing.T) {
	input := "let a = 1\nlet a = 2\nlet b = a"
	_, _, store := checkSource(t, input)
	var ambiguous *diag.AmbiguousName
	for _, d := range store.Diagnostics {
		if am, ok := d.(*diag.AmbiguousName); ok {
			ambiguous = am
		}
	}
	if ambiguous == nil {
		t.Fatalf("expected an AmbiguousName diagnostic")
	}
	if len(ambiguous.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ambiguous.Candidates))
	}
}

func TestInvalidCharacterSurfaces(t *testing.T) {
	_, _, store := checkSource(t, "let a = 1 @")
	found := false
	for _, d := range store.Diagnostics {
		if _, ok := d.(*diag.InvalidCharacter); ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an InvalidCharacter diagnostic")
	}
}

// Property 7: identical input yields identical diagnostic sequences.
func TestDeterminism(t *testing.T) {
	input := "let a: Int = \"x\"\nlet b = c\nif 1\n  2"
	_, _, first := checkSource(t, input)
	_, _, second := checkSource(t, input)
	first.Sort()
	second.Sort()
	if first.Count() != second.Count() {
		t.Fatalf("diagnostic counts differ: %d vs %d", first.Count(), second.Count())
	}
	for i := range first.Diagnostics {
		if first.Diagnostics[i].Message() != second.Diagnostics[i].Message() {
			t.Fatalf("diagnostic %d differs: %q vs %q",
				i, first.Diagnostics[i].Message(), second.Diagnostics[i].Message())
		}
	}
}

func TestDiagnosticsSortedBySourcePosition(t *testing.T) {
	input := "let a: Int = \"x\"\nlet b = c"
	_, _, store := checkSource(t, input)
	store.Sort()
	if store.Count() < 2 {
		t.Fatalf("expected at least 2 diagnostics, got %d", store.Count())
	}
	prev := store.Diagnostics[0].Start()
	for _, d := range store.Diagnostics[1:] {
		cur := d.Start()
		if cur.Before(prev) {
			t.Fatalf("diagnostics not sorted: %v after %v", cur, prev)
		}
		prev = cur
	}
}
