package formula

// node is an immutable expression tree node. The variant set is closed:
// literals, variables, unary negation, infix arithmetic. There are no
// function calls and no assignment, which keeps operator-authored formulas
// from ever becoming a scripting surface.
type node interface {
	eval(bindings map[string]float64) (float64, error)
}

type literalNode struct {
	value float64
}

type variableNode struct {
	name string
}

type unaryNode struct {
	operand node
}

type binaryOp byte

const (
	opAdd binaryOp = '+'
	opSub binaryOp = '-'
	opMul binaryOp = '*'
	opDiv binaryOp = '/'
)

type binaryNode struct {
	op    binaryOp
	left  node
	right node
}
