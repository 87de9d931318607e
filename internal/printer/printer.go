// Package printer spells an ast tree as C++ source text.
//
// Types are printed in two halves: the left part holds everything before
// the declarator name and the right part everything after it, so that
// "pointer to function returning int" comes out as "int (*)()". Template
// parameters are resolved while printing, against a stack of the template
// argument lists in scope.
package printer

import (
	"fmt"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

const (
	// DefaultMaxOutput caps the rendered text when Options.MaxOutput is zero.
	DefaultMaxOutput = 4 << 20
	// DefaultMaxDepth caps print recursion when Options.MaxDepth is zero.
	DefaultMaxDepth = 2048

	maxDeref    = 1 << 10
	maxPackScan = 1 << 12
)

// Options controls rendering.
type Options struct {
	NoParams      bool // print only the entity name of a function
	NoReturnType  bool
	UpperLiterals bool // "1UL" instead of "1ul"
	CompactAngles bool // ">>" instead of "> >"
	MaxOutput     int
	MaxDepth      int
}

type printer struct {
	opts Options
	buf  []byte
	err  error

	steps    int
	maxSteps int
	depth    int
	maxDepth int

	frames    []*ast.TemplateArgs
	packIndex int
}

// Print renders n. It never returns partial output: on error the text is
// discarded.
func Print(n ast.Node, opts Options) (string, error) {
	if opts.MaxOutput <= 0 {
		opts.MaxOutput = DefaultMaxOutput
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	p := &printer{
		opts:      opts,
		maxSteps:  4 * max(opts.MaxOutput, 1<<16),
		maxDepth:  opts.MaxDepth,
		packIndex: -1,
	}
	p.print(n)
	if p.err != nil {
		return "", p.err
	}
	return string(p.buf), nil
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// enter accounts for one visit. It reports false once printing has failed.
func (p *printer) enter() bool {
	if p.err != nil {
		return false
	}
	p.steps++
	if p.steps > p.maxSteps {
		p.fail(fmt.Errorf("%w: step budget of %d exhausted", errs.ErrOutputTooLarge, p.maxSteps))
		return false
	}
	if p.depth >= p.maxDepth {
		p.fail(fmt.Errorf("%w: print depth %d", errs.ErrRecursionLimitExceeded, p.maxDepth))
		return false
	}
	p.depth++
	return true
}

func (p *printer) leave() {
	p.depth--
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	if len(p.buf)+len(s) > p.opts.MaxOutput {
		p.fail(fmt.Errorf("%w: limit %d bytes", errs.ErrOutputTooLarge, p.opts.MaxOutput))
		return
	}
	p.buf = append(p.buf, s...)
}

func (p *printer) writeByte(b byte) {
	p.write(string(b))
}

func (p *printer) last() byte {
	if len(p.buf) == 0 {
		return 0
	}
	return p.buf[len(p.buf)-1]
}

// print renders both halves of n.
func (p *printer) print(n ast.Node) {
	p.printLeft(n)
	p.printRight(n)
}

// printList renders nodes separated by ", ". An element that renders to
// nothing, such as an empty pack expansion, takes its separator with it.
func (p *printer) printList(nodes []ast.Node) {
	wrote := false
	for _, n := range nodes {
		mark := len(p.buf)
		if wrote {
			p.write(", ")
		}
		start := len(p.buf)
		p.print(n)
		if p.err != nil {
			return
		}
		if len(p.buf) == start {
			p.buf = p.buf[:mark]
			continue
		}
		wrote = true
	}
}

func (p *printer) printTemplateArgs(args *ast.TemplateArgs) {
	if args == nil {
		return
	}
	if p.last() == '<' {
		p.write(" ")
	}
	p.write("<")
	p.printList(args.Args)
	if p.last() == '>' && !p.opts.CompactAngles {
		p.write(" ")
	}
	p.write(">")
}

func (p *printer) printParams(params []ast.Node) {
	p.write("(")
	if len(params) != 1 || !ast.IsVoid(params[0]) {
		p.printList(params)
	}
	p.write(")")
}

func (p *printer) printQuals(q ast.Qualifiers) {
	if q.IsConst {
		p.write(" const")
	}
	if q.IsVolatile {
		p.write(" volatile")
	}
	if q.IsRestrict {
		p.write(" restrict")
	}
}

func (p *printer) printRef(r ast.RefQualifier) {
	switch r {
	case ast.RefQualifierLValue:
		p.write(" &")
	case ast.RefQualifierRValue:
		p.write(" &&")
	}
}

// push makes args the innermost template argument frame. The caller
// restores the previous stack.
func (p *printer) push(args *ast.TemplateArgs) {
	if args == nil {
		return
	}
	n := len(p.frames)
	p.frames = append(p.frames[:n:n], args)
}

// bind returns the argument for template parameter index in the innermost
// frame and pops that frame: the argument was written in the enclosing
// scope, and popping keeps a self-referential argument from looping.
func (p *printer) bind(index int) (ast.Node, bool) {
	n := len(p.frames)
	if n == 0 || index < 0 || index >= len(p.frames[n-1].Args) {
		return nil, false
	}
	arg := p.frames[n-1].Args[index]
	p.frames = p.frames[:n-1]
	return arg, true
}

// deref follows back-references and template parameters to the node they
// stand for. Inside a pack expansion a parameter bound to an argument pack
// yields the current element. Frames popped along the way stay popped; the
// caller saves and restores p.frames.
func (p *printer) deref(n ast.Node) ast.Node {
	for i := 0; i < maxDeref; i++ {
		switch t := n.(type) {
		case *ast.Substitution:
			n = t.Target
		case *ast.TemplateParam:
			arg, ok := p.bind(t.Index)
			if !ok {
				p.fail(fmt.Errorf("%w: T%d_ with %d frames in scope", errs.ErrBadTemplateParam, t.Index, len(p.frames)))
				return nil
			}
			n = arg
			if pack, ok := arg.(*ast.ArgPack); ok && p.packIndex >= 0 {
				if p.packIndex >= len(pack.Elements) {
					p.fail(fmt.Errorf("%w: pack element %d of %d", errs.ErrBadTemplateParam, p.packIndex, len(pack.Elements)))
					return nil
				}
				n = pack.Elements[p.packIndex]
			}
		default:
			return n
		}
	}
	p.fail(fmt.Errorf("%w: reference chain too long", errs.ErrRecursionLimitExceeded))
	return nil
}

type shape int

const (
	shapeOther shape = iota
	shapeArray
	shapeFunction
)

// shapeOf reports whether n is, under qualifiers, an array or function type.
func (p *printer) shapeOf(n ast.Node) shape {
	saved, savedErr := p.frames, p.err
	defer func() { p.frames, p.err = saved, savedErr }()

	for i := 0; i < maxDeref && n != nil; i++ {
		switch t := p.deref(n).(type) {
		case *ast.ArrayType:
			return shapeArray
		case *ast.FunctionType:
			return shapeFunction
		case *ast.Qualified:
			n = t.Type
		case *ast.VendorQualified:
			n = t.Type
		default:
			return shapeOther
		}
	}
	return shapeOther
}

// hasRight reports whether n prints anything after the declarator name.
func (p *printer) hasRight(n ast.Node) bool {
	saved, savedErr := p.frames, p.err
	defer func() { p.frames, p.err = saved, savedErr }()

	for i := 0; i < maxDeref && n != nil; i++ {
		switch t := p.deref(n).(type) {
		case *ast.ArrayType, *ast.FunctionType:
			return true
		case *ast.Pointer:
			n = t.Pointee
		case *ast.Reference:
			n = t.Pointee
		case *ast.PointerToMember:
			n = t.Member
		case *ast.Qualified:
			n = t.Type
		case *ast.VendorQualified:
			n = t.Type
		default:
			return false
		}
	}
	return false
}

// packSize finds the argument pack a pack expansion pattern ranges over.
// Nested expansions are skipped; they own their packs.
func (p *printer) packSize(pattern ast.Node) (int, bool) {
	stack := []ast.Node{pattern}
	for visited := 0; len(stack) > 0 && visited < maxPackScan; visited++ {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch t := n.(type) {
		case *ast.TemplateParam:
			top := len(p.frames) - 1
			if top >= 0 && t.Index >= 0 && t.Index < len(p.frames[top].Args) {
				if pack, ok := p.frames[top].Args[t.Index].(*ast.ArgPack); ok {
					return len(pack.Elements), true
				}
			}
			continue
		case *ast.PackExpansion, *ast.ExprPack:
			continue
		}

		children := ast.Children(n)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return 0, false
}

// printPack renders pattern once per element of the pack it refers to.
func (p *printer) printPack(pattern ast.Node) {
	size, ok := p.packSize(pattern)
	if !ok {
		p.print(pattern)
		p.write("...")
		return
	}

	saved := p.packIndex
	wrote := false
	for i := 0; i < size; i++ {
		mark := len(p.buf)
		if wrote {
			p.write(", ")
		}
		start := len(p.buf)
		p.packIndex = i
		p.print(pattern)
		if p.err != nil {
			break
		}
		if len(p.buf) == start {
			p.buf = p.buf[:mark]
			continue
		}
		wrote = true
	}
	p.packIndex = saved
}
