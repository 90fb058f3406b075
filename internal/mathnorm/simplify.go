package mathnorm

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Rational is the default Simplifier. It parses infix arithmetic over
// numbers, identifiers and function calls, folds constant subexpressions
// with exact rational arithmetic, and prints the result with "^" for
// exponents and no spaces. Its output is a fixed point: simplifying it
// again returns the same string.
type Rational struct{}

// maxDepth bounds parser recursion.
const maxDepth = 64

// maxExponent and maxResultBits bound constant folding of powers.
const (
	maxExponent   = 64
	maxResultBits = 1 << 14
)

// Simplify implements Simplifier.
func (Rational) Simplify(expr string) (string, bool) {
	toks, err := tokenize(expr)
	if err != nil || len(toks) == 0 {
		return "", false
	}
	p := &exprParser{toks: toks}
	n, err := p.parseInput()
	if err != nil {
		return "", false
	}
	return render(fold(n)), true
}

// --- tokens ---

type tokenKind int

const (
	tokNum tokenKind = iota
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(s string) ([]token, error) {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == ' ' || r == '\t':
			i++
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			j := i
			for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
				j++
			}
			if j+1 < len(rs) && rs[j] == '.' && rs[j+1] >= '0' && rs[j+1] <= '9' {
				j++
				for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
					j++
				}
			}
			toks = append(toks, token{tokNum, string(rs[i:j])})
			i = j
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || r == '_'):
			j := i
			for j < len(rs) && rs[j] < unicode.MaxASCII && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, string(rs[i:j])})
			i = j
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{tokOp, "^"})
			i += 2
		case (r == '<' || r == '>') && i+1 < len(rs) && rs[i+1] == '=':
			toks = append(toks, token{tokOp, string(r) + "="})
			i += 2
		case strings.ContainsRune("+-*/^()=<>,", r):
			toks = append(toks, token{tokOp, string(r)})
			i++
		case r == '×':
			toks = append(toks, token{tokOp, "*"})
			i++
		case r == '÷':
			toks = append(toks, token{tokOp, "/"})
			i++
		case r == '−':
			toks = append(toks, token{tokOp, "-"})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	return toks, nil
}

// --- syntax tree ---

type node interface{}

type numNode struct {
	v   *big.Rat
	dec bool // written or derived from a decimal literal
}

type symNode struct{ name string }

type callNode struct {
	fn   string
	args []node
}

type negNode struct{ x node }

type binNode struct {
	op   string
	l, r node
}

type relNode struct {
	op   string
	l, r node
}

// --- parser ---

type exprParser struct {
	toks  []token
	pos   int
	depth int
}

func (p *exprParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *exprParser) peekOp(ops ...string) (string, bool) {
	t, ok := p.peek()
	if !ok || t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			return op, true
		}
	}
	return "", false
}

func (p *exprParser) parseInput() (node, error) {
	l, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if op, ok := p.peekOp("=", "<", ">", "<=", ">="); ok {
		p.pos++
		r, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		l = relNode{op: op, l: l, r: r}
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("trailing input at token %d", p.pos)
	}
	return l, nil
}

func (p *exprParser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return fmt.Errorf("expression nested too deeply")
	}
	return nil
}

func (p *exprParser) leave() { p.depth-- }

func (p *exprParser) parseExpr() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	l, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("+", "-")
		if !ok {
			return l, nil
		}
		p.pos++
		r, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		l = binNode{op: op, l: l, r: r}
	}
}

func (p *exprParser) parseTerm() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("*", "/")
		if !ok {
			return l, nil
		}
		p.pos++
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = binNode{op: op, l: l, r: r}
	}
}

func (p *exprParser) parseUnary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if op, ok := p.peekOp("-", "+"); ok {
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			return x, nil
		}
		return negNode{x: x}, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.peekOp("^"); ok {
		p.pos++
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binNode{op: "^", l: base, r: exp}, nil
	}
	return base, nil
}

func (p *exprParser) parsePrimary() (node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	switch t.kind {
	case tokNum:
		p.pos++
		v, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("bad number %q", t.text)
		}
		return numNode{v: v, dec: strings.Contains(t.text, ".")}, nil

	case tokIdent:
		p.pos++
		if _, ok := p.peekOp("("); !ok {
			return symNode{name: t.text}, nil
		}
		p.pos++
		var args []node
		if _, ok := p.peekOp(")"); ok {
			p.pos++
			return callNode{fn: t.text}, nil
		}
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.peekOp(","); ok {
				p.pos++
				continue
			}
			if _, ok := p.peekOp(")"); !ok {
				return nil, fmt.Errorf("missing ) after arguments to %s", t.text)
			}
			p.pos++
			return callNode{fn: t.text, args: args}, nil
		}

	default:
		if t.text != "(" {
			return nil, fmt.Errorf("unexpected %q", t.text)
		}
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, ok := p.peekOp(")"); !ok {
			return nil, fmt.Errorf("missing )")
		}
		p.pos++
		return inner, nil
	}
}

// --- folding ---

func fold(n node) node {
	switch n := n.(type) {
	case negNode:
		x := fold(n.x)
		switch x := x.(type) {
		case numNode:
			return numNode{v: new(big.Rat).Neg(x.v), dec: x.dec}
		case negNode:
			return x.x
		}
		return negNode{x: x}

	case binNode:
		l, r := fold(n.l), fold(n.r)
		ln, lok := l.(numNode)
		rn, rok := r.(numNode)
		if lok && rok {
			if v, ok := evalBinary(n.op, ln.v, rn.v); ok {
				return numNode{v: v, dec: ln.dec || rn.dec}
			}
		}
		return binNode{op: n.op, l: l, r: r}

	case callNode:
		args := make([]node, len(n.args))
		for i, a := range n.args {
			args[i] = fold(a)
		}
		if n.fn == "sqrt" && len(args) == 1 {
			if a, ok := args[0].(numNode); ok {
				if v, ok := ratSqrt(a.v); ok {
					return numNode{v: v, dec: a.dec}
				}
			}
		}
		return callNode{fn: n.fn, args: args}

	case relNode:
		return relNode{op: n.op, l: fold(n.l), r: fold(n.r)}
	}
	return n
}

func evalBinary(op string, a, b *big.Rat) (*big.Rat, bool) {
	switch op {
	case "+":
		return new(big.Rat).Add(a, b), true
	case "-":
		return new(big.Rat).Sub(a, b), true
	case "*":
		return new(big.Rat).Mul(a, b), true
	case "/":
		if b.Sign() == 0 {
			return nil, false
		}
		return new(big.Rat).Quo(a, b), true
	case "^":
		if !b.IsInt() || !b.Num().IsInt64() {
			return nil, false
		}
		e := b.Num().Int64()
		if e > maxExponent || e < -maxExponent {
			return nil, false
		}
		if e < 0 && a.Sign() == 0 {
			return nil, false
		}
		if int64(a.Num().BitLen()+a.Denom().BitLen())*max(e, -e) > maxResultBits {
			return nil, false
		}
		neg := e < 0
		if neg {
			e = -e
		}
		num := new(big.Int).Exp(a.Num(), big.NewInt(e), nil)
		den := new(big.Int).Exp(a.Denom(), big.NewInt(e), nil)
		if neg {
			num, den = den, num
		}
		return new(big.Rat).SetFrac(num, den), true
	}
	return nil, false
}

func ratSqrt(v *big.Rat) (*big.Rat, bool) {
	if v.Sign() < 0 {
		return nil, false
	}
	n, ok := intSqrt(v.Num())
	if !ok {
		return nil, false
	}
	d, ok := intSqrt(v.Denom())
	if !ok {
		return nil, false
	}
	return new(big.Rat).SetFrac(n, d), true
}

func intSqrt(x *big.Int) (*big.Int, bool) {
	r := new(big.Int).Sqrt(x)
	if new(big.Int).Mul(r, r).Cmp(x) != 0 {
		return nil, false
	}
	return r, true
}

// --- printing ---

const (
	precRel = iota
	precAdd
	precMul
	precNeg
	precPow
	precAtom
)

func opPrec(op string) int {
	switch op {
	case "+", "-":
		return precAdd
	case "*", "/":
		return precMul
	case "^":
		return precPow
	}
	return precRel
}

func prec(n node) int {
	switch n := n.(type) {
	case numNode:
		if n.v.Sign() < 0 {
			return precNeg
		}
		if !n.dec && !n.v.IsInt() {
			return precMul
		}
		return precAtom
	case negNode:
		return precNeg
	case binNode:
		return opPrec(n.op)
	case relNode:
		return precRel
	}
	return precAtom
}

// isNegative reports whether n prints with a leading minus sign.
func isNegative(n node) bool {
	switch n := n.(type) {
	case numNode:
		return n.v.Sign() < 0
	case negNode:
		return true
	}
	return false
}

func render(n node) string {
	switch n := n.(type) {
	case numNode:
		return formatNum(n)
	case symNode:
		return n.name
	case negNode:
		return "-" + wrap(n.x, prec(n.x) < precNeg || isNegative(n.x))
	case callNode:
		parts := make([]string, len(n.args))
		for i, a := range n.args {
			parts[i] = render(a)
		}
		return n.fn + "(" + strings.Join(parts, ",") + ")"
	case binNode:
		p := opPrec(n.op)
		var lp, rp bool
		if n.op == "^" {
			lp = prec(n.l) <= p
			rp = prec(n.r) < p || isNegative(n.r)
		} else {
			lp = prec(n.l) < p
			rp = prec(n.r) <= p || isNegative(n.r)
		}
		return wrap(n.l, lp) + n.op + wrap(n.r, rp)
	case relNode:
		return render(n.l) + n.op + render(n.r)
	}
	return ""
}

func wrap(n node, paren bool) string {
	if paren {
		return "(" + render(n) + ")"
	}
	return render(n)
}

func formatNum(n numNode) string {
	if n.v.IsInt() {
		return n.v.Num().String()
	}
	if !n.dec {
		return n.v.Num().String() + "/" + n.v.Denom().String()
	}
	if digits, ok := terminatingDigits(n.v.Denom()); ok {
		return n.v.FloatString(digits)
	}
	s := n.v.FloatString(10)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// terminatingDigits returns the number of fractional digits needed to print
// 1/den exactly, if den has no prime factors other than 2 and 5.
func terminatingDigits(den *big.Int) (int, bool) {
	d := new(big.Int).Set(den)
	two, five := big.NewInt(2), big.NewInt(5)
	var twos, fives int
	m := new(big.Int)
	for {
		q, r := new(big.Int).QuoRem(d, two, m)
		if r.Sign() != 0 {
			break
		}
		d = q
		twos++
	}
	for {
		q, r := new(big.Int).QuoRem(d, five, m)
		if r.Sign() != 0 {
			break
		}
		d = q
		fives++
	}
	if d.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	return max(twos, fives), true
}
