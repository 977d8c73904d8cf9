// Package desugar implements the desugaring factories §4.1 names:
// operator-method lowering, for-in lowering, list-comprehension and
// lambda synthesis, default-argument overload synthesis, and generator
// class synthesis. Each factory takes already-built internal/ast
// fragments (since internal/builder has already recursed into operands
// by the time it calls these) and returns the lowered internal/ast
// fragment; none of these factories walk internal/cst themselves.
package desugar

// BinaryOperatorMethod is the canonical binary-operator name mapping
// from §4.1. ok is false for an operator this table does not cover.
func BinaryOperatorMethod(op string) (method string, ok bool) {
	m, ok := binaryOps[op]
	return m, ok
}

// UnaryOperatorMethod is the canonical unary-operator name mapping.
func UnaryOperatorMethod(op string) (method string, ok bool) {
	m, ok := unaryOps[op]
	return m, ok
}

// ContainsMethod is the method name the "in" operator's inverted lowering
// targets: "a in x" desugars to "x._contains_(a)", i.e. the method lives
// on the right-hand operand, not the left.
const ContainsMethod = "_contains_"

var binaryOps = map[string]string{
	"+":   "_add_",
	"-":   "_sub_",
	"*":   "_mul_",
	"/":   "_div_",
	"%":   "_mod_",
	"^":   "_pow_",
	"=":   "_eq_",
	"!=":  "_neq_",
	"<":   "_lt_",
	">":   "_gt_",
	"<=":  "_leq_",
	">=":  "_geq_",
	"in":  ContainsMethod,
	"and": "_and_",
	"or":  "_or_",
	"xor": "_xor_",
}

var unaryOps = map[string]string{
	"-":   "_neg_",
	"not": "_not_",
}

// CompoundAssignmentOperator strips the trailing "=" from a compound
// assignment operator ("+=" -> "+"), returning ok=false for plain ":=".
func CompoundAssignmentOperator(op string) (binaryOp string, ok bool) {
	switch op {
	case "+=":
		return "+", true
	case "-=":
		return "-", true
	case "*=":
		return "*", true
	case "/=":
		return "/", true
	case "%=":
		return "%", true
	case "^=":
		return "^", true
	default:
		return "", false
	}
}
