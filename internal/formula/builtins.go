package formula

// Built-in binding names the quote pipeline supplies on every evaluation.
// Free identifiers in a formula must resolve to one of these or to a key in
// the formula's own parameter map.
const (
	VarWidth       = "width_value"
	VarLength      = "length_value"
	VarPricePerSqm = "price_per_sqm"
	VarQuantity    = "quantity"
	VarTax         = "tax"
)

var builtinVariables = map[string]struct{}{
	VarWidth:       {},
	VarLength:      {},
	VarPricePerSqm: {},
	VarQuantity:    {},
	VarTax:         {},
}

// IsBuiltinVariable reports whether the identifier is supplied by the quote
// pipeline rather than by formula parameters.
func IsBuiltinVariable(name string) bool {
	_, ok := builtinVariables[name]
	return ok
}

// UnresolvedVariables returns the formula identifiers that are neither
// built-ins nor keys of the provided parameter map, in sorted order.
func (c *Compiled) UnresolvedVariables(parameters map[string]float64) []string {
	var missing []string
	for _, name := range c.vars {
		if IsBuiltinVariable(name) {
			continue
		}
		if _, ok := parameters[name]; ok {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}
