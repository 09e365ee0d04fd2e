package picol

import "testing"

func TestMathTable(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"+ 0 0", "0"},
		{"+ -2 5", "3"},
		{"- 5 -2", "7"},
		{"* -3 3", "-9"},
		{"/ 9 2", "4"},
		{"/ -9 2", "-4"},
		{"== -1 -1", "1"},
		{"!= 0 1", "1"},
		{"< -1 0", "1"},
		{"> 0 -1", "1"},
		{">= 2 2", "1"},
		{"<= 2 1", "0"},
	}
	ip, _ := newTestInterp()
	for _, c := range cases {
		wantVal(t, mustRun(t, ip, c.src), c.want)
	}
}

func TestMathArity(t *testing.T) {
	ip, _ := newTestInterp()
	wantErrKind(t, ip, "+ 1", ErrWrongNumArgs)
	wantErrKind(t, ip, "+ 1 2 3", ErrWrongNumArgs)
}

func TestSetReturnsValue(t *testing.T) {
	ip, _ := newTestInterp()
	wantVal(t, mustRun(t, ip, "set x hello"), "hello")
	wantErrKind(t, ip, "set x", ErrWrongNumArgs)
	wantErrKind(t, ip, "set", ErrWrongNumArgs)
}

func TestPutsWritesValuePlusNewline(t *testing.T) {
	ip, out := newTestInterp()
	mustRun(t, ip, `puts "hello world"`)
	mustRun(t, ip, "puts second")
	if got, want := out.String(), "hello world\nsecond\n"; got != want {
		t.Fatalf("want output %q, got %q", want, got)
	}
	wantVal(t, mustRun(t, ip, "puts x"), "")
	wantErrKind(t, ip, "puts", ErrWrongNumArgs)
	wantErrKind(t, ip, "puts a b", ErrWrongNumArgs)
}

func TestIfArity(t *testing.T) {
	ip, _ := newTestInterp()
	wantErrKind(t, ip, "if {1}", ErrWrongNumArgs)
	wantErrKind(t, ip, "if {1} {a} {b} {c} {d}", ErrWrongNumArgs)
	// Five words only work in the "else" keyword form.
	wantErrKind(t, ip, "if {1} {set x 1} otherwise {set x 2}", ErrWrongNumArgs)
}

func TestWhileArity(t *testing.T) {
	ip, _ := newTestInterp()
	wantErrKind(t, ip, "while {1}", ErrWrongNumArgs)
}

func TestWhileZeroIterations(t *testing.T) {
	ip, _ := newTestInterp()
	wantVal(t, mustRun(t, ip, "while {0} { set x boom }"), "")
	if _, ok := ip.Var("x"); ok {
		t.Fatal("body must not run when the condition starts false")
	}
}

func TestProcArity(t *testing.T) {
	ip, _ := newTestInterp()
	wantErrKind(t, ip, "proc f {x}", ErrWrongNumArgs)
	wantErrKind(t, ip, "proc", ErrWrongNumArgs)
}

func TestProcWithNoParams(t *testing.T) {
	ip, _ := newTestInterp()
	mustRun(t, ip, "proc five {} { return 5 }")
	wantVal(t, mustRun(t, ip, "five"), "5")
	wantErrKind(t, ip, "five 1", ErrArgumentCountMismatch)
}

func TestProcDefinitionResultIsEmpty(t *testing.T) {
	ip, _ := newTestInterp()
	wantVal(t, mustRun(t, ip, "proc f {} { return 1 }"), "")
}

func TestReturnArity(t *testing.T) {
	ip, _ := newTestInterp()
	r := ip.Eval("return a b")
	if r.Code != CodeError || r.Kind != ErrWrongNumArgs {
		t.Fatalf("want arity error, got %#v", r)
	}
}

func TestBreakContinueArity(t *testing.T) {
	ip, _ := newTestInterp()
	for _, src := range []string{"break 1", "continue 1"} {
		r := ip.Eval(src)
		if r.Code != CodeError || r.Kind != ErrWrongNumArgs {
			t.Fatalf("want arity error for %q, got %#v", src, r)
		}
	}
}

func TestReturnCodeFromEval(t *testing.T) {
	ip, _ := newTestInterp()
	r := ip.Eval("return hello")
	if r.Code != CodeReturn || r.Val != "hello" {
		t.Fatalf("want (hello, Return), got %#v", r)
	}
	if r := ip.Eval("break"); r.Code != CodeBreak {
		t.Fatalf("want Break, got %#v", r)
	}
	if r := ip.Eval("continue"); r.Code != CodeContinue {
		t.Fatalf("want Continue, got %#v", r)
	}
}
