// builtin_core.go — the native command set.
//
// Every construct of the language is a command, control flow included: if and
// while are ordinary commands that receive their condition and bodies as
// unevaluated braced words and run them through Eval, steering on the result
// code. Arity is checked fail-closed: each builtin accepts exactly its
// documented argument shapes and anything else is a WrongNumberOfArguments
// error.
package picol

import (
	"fmt"
	"strconv"
	"strings"
)

func registerCoreCommands(ip *Interp) {
	for _, op := range []string{"+", "-", "*", "/", "==", "!=", ">", "<", ">=", "<="} {
		ip.Register(op, cmdMath)
	}
	ip.Register("set", cmdSet)
	ip.Register("puts", cmdPuts)
	ip.Register("if", cmdIf)
	ip.Register("while", cmdWhile)
	ip.Register("proc", cmdProc)
	ip.Register("return", cmdReturn)
	ip.Register("break", cmdBreak)
	ip.Register("continue", cmdContinue)
}

// parseInt is the single entry point for "everything is a string, parsed on
// demand": values become integers only at the moment a command needs one.
func parseInt(s string) (int64, Result) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errRes(ErrInvalidNumber, "expected integer but got %q", s)
	}
	return n, okRes("")
}

func cmdMath(ip *Interp, argv []string) Result {
	if len(argv) != 3 {
		return arityRes(argv[0] + " a b")
	}
	a, r := parseInt(argv[1])
	if r.Code != CodeOK {
		return r
	}
	b, r := parseInt(argv[2])
	if r.Code != CodeOK {
		return r
	}

	var n int64
	switch argv[0] {
	case "+":
		n = a + b
	case "-":
		n = a - b
	case "*":
		n = a * b
	case "/":
		if b == 0 {
			return errRes(ErrDivisionByZero, "divide by zero")
		}
		n = a / b
	case ">":
		n = b2i(a > b)
	case "<":
		n = b2i(a < b)
	case ">=":
		n = b2i(a >= b)
	case "<=":
		n = b2i(a <= b)
	case "==":
		n = b2i(a == b)
	case "!=":
		n = b2i(a != b)
	}
	return okRes(strconv.FormatInt(n, 10))
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func cmdSet(ip *Interp, argv []string) Result {
	if len(argv) != 3 {
		return arityRes("set name value")
	}
	ip.SetVar(argv[1], argv[2])
	return okRes(argv[2])
}

func cmdPuts(ip *Interp, argv []string) Result {
	if len(argv) != 2 {
		return arityRes("puts value")
	}
	fmt.Fprintln(ip.Out, argv[1])
	return okRes("")
}

// evalCond turns a condition into a truth value. A condition that is itself
// an integer ({1}, {0}) stands for its own truth; anything else is evaluated
// as a script whose value must parse as an integer, nonzero meaning true. A
// non-OK result from the script wins over the truth test.
func evalCond(ip *Interp, cond string) (bool, Result) {
	if n, r := parseInt(cond); r.Code == CodeOK {
		return n != 0, okRes("")
	}
	r := ip.Eval(cond)
	if r.Code != CodeOK {
		return false, r
	}
	n, pr := parseInt(r.Val)
	if pr.Code != CodeOK {
		return false, pr
	}
	return n != 0, okRes("")
}

// cmdIf accepts "if cond then", "if cond then elseBody" and the classic
// "if cond then else elseBody". The result of whichever branch ran is the
// result of if; a false condition with no else yields an empty OK result.
func cmdIf(ip *Interp, argv []string) Result {
	elseBody := ""
	haveElse := false
	switch len(argv) {
	case 3:
	case 4:
		elseBody = argv[3]
		haveElse = true
	case 5:
		if argv[3] != "else" {
			return arityRes("if cond then ?else? ?elseBody?")
		}
		elseBody = argv[4]
		haveElse = true
	default:
		return arityRes("if cond then ?else? ?elseBody?")
	}

	truthy, r := evalCond(ip, argv[1])
	if r.Code != CodeOK {
		return r
	}
	if truthy {
		return ip.Eval(argv[2])
	}
	if haveElse {
		return ip.Eval(elseBody)
	}
	return okRes("")
}

// cmdWhile consumes Break and Continue at the loop boundary; Return and
// Error stop the loop and propagate unchanged.
func cmdWhile(ip *Interp, argv []string) Result {
	if len(argv) != 3 {
		return arityRes("while cond body")
	}
	for {
		truthy, r := evalCond(ip, argv[1])
		if r.Code != CodeOK {
			return r
		}
		if !truthy {
			return okRes("")
		}

		b := ip.Eval(argv[2])
		switch b.Code {
		case CodeOK, CodeContinue:
			// next iteration
		case CodeBreak:
			return okRes("")
		default: // CodeReturn, CodeError
			return b
		}
	}
}

// cmdProc registers (or replaces) a user procedure. Invocation semantics
// live in Proc.call (interpreter.go).
func cmdProc(ip *Interp, argv []string) Result {
	if len(argv) != 4 {
		return arityRes("proc name params body")
	}
	ip.registerProc(&Proc{
		Name:   argv[1],
		Params: strings.Fields(argv[2]),
		Body:   argv[3],
	})
	return okRes("")
}

func cmdReturn(ip *Interp, argv []string) Result {
	switch len(argv) {
	case 1:
		return Result{Code: CodeReturn}
	case 2:
		return Result{Code: CodeReturn, Val: argv[1]}
	default:
		return arityRes("return ?value?")
	}
}

func cmdBreak(ip *Interp, argv []string) Result {
	if len(argv) != 1 {
		return arityRes("break")
	}
	return Result{Code: CodeBreak}
}

func cmdContinue(ip *Interp, argv []string) Result {
	if len(argv) != 1 {
		return arityRes("continue")
	}
	return Result{Code: CodeContinue}
}
