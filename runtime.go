// runtime.go — engine construction and the host-facing entry points.
package picol

import "os"

// Version is the interpreter version reported by the CLI.
const Version = "0.1.0"

// New returns a fully-initialized interpreter: core commands registered, a
// fresh global frame, output wired to stdout. Instances are independent;
// hosts and tests can create as many as they like.
func New() *Interp {
	ip := &Interp{
		commands: make(map[string]*Command),
		frames:   []*Frame{newFrame()},
		Out:      os.Stdout,
	}
	registerCoreCommands(ip)
	return ip
}

// Run evaluates a script and converts the outcome to Go conventions: the
// value of the last command on success, an error otherwise. An Error result
// becomes an *EvalError (or the original *SyntaxError, so hosts can render a
// caret snippet); a Return, Break or Continue escaping the outermost
// evaluation is a usage error — those signals only mean something inside a
// procedure or loop.
//
// Evaluation state persists across calls on the same Interp, which is what a
// REPL wants. Scripted recursion maps directly onto Go stack recursion;
// exhausting the goroutine stack is fatal and is not converted to an error.
func (ip *Interp) Run(script string) (string, error) {
	r := ip.Eval(script)
	switch r.Code {
	case CodeOK:
		return r.Val, nil
	case CodeReturn:
		return "", &EvalError{Kind: ErrNone, Msg: `invoked "return" outside of a procedure`}
	case CodeBreak:
		return "", &EvalError{Kind: ErrNone, Msg: `invoked "break" outside of a loop`}
	case CodeContinue:
		return "", &EvalError{Kind: ErrNone, Msg: `invoked "continue" outside of a loop`}
	default:
		if r.syn != nil {
			return "", r.syn
		}
		return "", &EvalError{Kind: r.Kind, Msg: r.Val}
	}
}
