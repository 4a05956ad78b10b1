package formula

import "math"

// Evaluate walks the expression tree against the provided bindings and
// returns the numeric result in major currency units. Identifiers without a
// binding fail with *UnknownVariableError; a zero divisor fails with
// *DivisionByZeroError; overflow to Inf or NaN fails with
// *NonFiniteResultError. Rounding to minor units is the caller's single
// conversion step, never performed mid-expression.
func (c *Compiled) Evaluate(bindings map[string]float64) (float64, error) {
	result, err := c.root.eval(bindings)
	if err != nil {
		return 0, err
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, &NonFiniteResultError{}
	}
	return result, nil
}

func (n literalNode) eval(map[string]float64) (float64, error) {
	return n.value, nil
}

func (n variableNode) eval(bindings map[string]float64) (float64, error) {
	value, ok := bindings[n.name]
	if !ok {
		return 0, &UnknownVariableError{Name: n.name}
	}
	return value, nil
}

func (n unaryNode) eval(bindings map[string]float64) (float64, error) {
	value, err := n.operand.eval(bindings)
	if err != nil {
		return 0, err
	}
	return -value, nil
}

func (n binaryNode) eval(bindings map[string]float64) (float64, error) {
	left, err := n.left.eval(bindings)
	if err != nil {
		return 0, err
	}
	right, err := n.right.eval(bindings)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case opAdd:
		return left + right, nil
	case opSub:
		return left - right, nil
	case opMul:
		return left * right, nil
	default:
		if right == 0 {
			return 0, &DivisionByZeroError{}
		}
		return left / right, nil
	}
}
