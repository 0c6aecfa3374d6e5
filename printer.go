package bslcheck

import (
	"fmt"
	"strings"
)

// PrintAST renders the tree rooted at n as an indented textual outline.
// The output is stable and is what the markdown corpus asserts against.
func PrintAST(n Node) string {
	p := &printer{}
	p.node(n)
	return strings.Join(p.lines, "\n")
}

type printer struct {
	lines []string
	depth int
}

func (p *printer) line(text string) {
	p.lines = append(p.lines, strings.Repeat("  ", p.depth)+text)
}

func (p *printer) indented(fn func()) {
	p.depth++
	fn()
	p.depth--
}

func (p *printer) list(nodes []Node) {
	for _, n := range nodes {
		p.node(n)
	}
}

// section prints a labeled child subtree, e.g. "Condition:" plus its node.
func (p *printer) section(label string, fn func()) {
	p.line(label)
	p.indented(fn)
}

func (p *printer) node(n Node) {
	switch x := n.(type) {
	case *Module:
		p.line("Module")
		p.indented(func() {
			if len(x.Vars) > 0 {
				p.section("Variable Declarations:", func() {
					for _, v := range x.Vars {
						p.node(v)
					}
				})
			}
			if len(x.Functions) > 0 {
				p.section("Functions:", func() {
					for _, f := range x.Functions {
						p.node(f)
					}
				})
			}
			if len(x.Procedures) > 0 {
				p.section("Procedures:", func() {
					for _, pr := range x.Procedures {
						p.node(pr)
					}
				})
			}
			if len(x.Statements) > 0 {
				p.section("Statements:", func() { p.list(x.Statements) })
			}
		})

	case *VarDecl:
		p.line("Var: " + strings.Join(x.Names, ", "))

	case *Function:
		p.line("Function " + routineHeader(x.Name, x.Params, x.Export, x.Async, x.Annotation))
		p.indented(func() { p.list(x.Body) })

	case *Procedure:
		p.line("Procedure " + routineHeader(x.Name, x.Params, x.Export, x.Async, x.Annotation))
		p.indented(func() { p.list(x.Body) })

	case *Assign:
		p.section("Assignment:", func() {
			p.section("Target:", func() { p.node(x.Target) })
			p.section("Value:", func() { p.node(x.Value) })
		})

	case *If:
		p.section("If:", func() {
			p.section("Condition:", func() { p.node(x.Cond) })
			p.section("Then:", func() { p.list(x.Then) })
			for _, br := range x.ElseIfs {
				p.section("ElseIf:", func() {
					p.section("Condition:", func() { p.node(br.Cond) })
					p.section("Then:", func() { p.list(br.Body) })
				})
			}
			if x.Else != nil {
				p.section("Else:", func() { p.list(x.Else) })
			}
		})

	case *While:
		p.section("While:", func() {
			p.section("Condition:", func() { p.node(x.Cond) })
			p.section("Body:", func() { p.list(x.Body) })
		})

	case *For:
		p.section("For: "+x.Var, func() {
			p.section("Start:", func() { p.node(x.From) })
			p.section("End:", func() { p.node(x.To) })
			p.section("Body:", func() { p.list(x.Body) })
		})

	case *ForEach:
		p.section("ForEach: "+x.Var, func() {
			p.section("Collection:", func() { p.node(x.Collection) })
			p.section("Body:", func() { p.list(x.Body) })
		})

	case *Try:
		p.section("Try:", func() { p.list(x.Body) })
		p.section("Except:", func() { p.list(x.Except) })

	case *Return:
		if x.Value == nil {
			p.line("Return")
		} else {
			p.section("Return:", func() { p.node(x.Value) })
		}

	case *Break:
		p.line("Break")

	case *Continue:
		p.line("Continue")

	case *Raise:
		if x.Value == nil {
			p.line("Raise")
		} else {
			p.section("Raise:", func() { p.node(x.Value) })
		}

	case *Await:
		p.section("Await:", func() { p.node(x.Value) })

	case *ExprStmt:
		p.section("ExpressionStatement:", func() { p.node(x.X) })

	case *Binary:
		p.section("BinaryOp: "+x.Op, func() {
			p.section("Left:", func() { p.node(x.Left) })
			p.section("Right:", func() { p.node(x.Right) })
		})

	case *Unary:
		p.section("UnaryOp: "+x.Op, func() { p.node(x.X) })

	case *Ternary:
		p.section("Ternary:", func() {
			p.section("Condition:", func() { p.node(x.Cond) })
			p.section("Then:", func() { p.node(x.Then) })
			p.section("Else:", func() { p.node(x.Else) })
		})

	case *Call:
		p.section("Call:", func() {
			p.section("Function:", func() { p.node(x.Fn) })
			if len(x.Args) > 0 {
				p.section("Arguments:", func() { p.list(x.Args) })
			}
		})

	case *Member:
		p.section("MemberAccess: ."+x.Name, func() { p.node(x.X) })

	case *Index:
		p.section("IndexAccess:", func() {
			p.section("Object:", func() { p.node(x.X) })
			p.section("Index:", func() { p.node(x.Idx) })
		})

	case *New:
		p.line("New: " + x.TypeName)
		if len(x.Args) > 0 {
			p.indented(func() {
				p.section("Arguments:", func() { p.list(x.Args) })
			})
		}

	case *Ident:
		p.line("Identifier: " + x.Name)

	case *Literal:
		if x.Kind == LitString {
			p.line(fmt.Sprintf("Literal (%s): %q", x.Kind, x.Text))
		} else {
			p.line(fmt.Sprintf("Literal (%s): %s", x.Kind, x.Text))
		}

	case *Param:
		p.line("Param: " + x.Name)

	default:
		p.line(fmt.Sprintf("<unknown %T>", n))
	}
}

func routineHeader(name string, params []*Param, export, async bool, annotation string) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	h := name + "(" + strings.Join(names, ", ") + ")"
	if export {
		h += " [Export]"
	}
	if async {
		h += " [Async]"
	}
	if annotation != "" {
		h += " " + annotation
	}
	return h
}
