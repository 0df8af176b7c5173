package helpers

import "math"

// This wraps float64 math operations. The Go compiler may combine a multiply
// and an add into a single "fused multiply and add" (FMA) instruction on some
// processors, which skips the intermediate rounding step. Color conversions
// are long chains of multiply-and-add (matrix products, interpolation) and
// their results are serialized with a fixed number of significant digits, so
// a difference in the last bit can flip a rounded digit and make the output
// differ between platforms. From the Go specification itself
// (https://go.dev/ref/spec#Floating_point_operators):
//
//	An implementation may combine multiple floating-point operations into a
//	single fused operation, possibly across statements, and produce a result
//	that differs from the value obtained by executing and rounding the
//	instructions individually. An explicit floating-point type conversion
//	rounds to the precision of the target type, preventing fusion that would
//	discard that rounding.
//
// All arithmetic that feeds a serialized color goes through this type so the
// explicit conversions are never forgotten.
type F64 struct {
	value float64
}

func NewF64(a float64) F64 {
	return F64{value: float64(a)}
}

func (a F64) Value() float64 {
	return a.value
}

func (a F64) IsNaN() bool {
	return math.IsNaN(a.value)
}

func (a F64) Neg() F64 {
	return NewF64(-a.value)
}

func (a F64) Abs() F64 {
	return NewF64(math.Abs(a.value))
}

func (a F64) Sqrt() F64 {
	return NewF64(math.Sqrt(a.value))
}

func (a F64) Cbrt() F64 {
	return NewF64(math.Cbrt(a.value))
}

func (a F64) Add(b F64) F64 {
	return NewF64(a.value + b.value)
}

func (a F64) AddConst(b float64) F64 {
	return NewF64(a.value + b)
}

func (a F64) Sub(b F64) F64 {
	return NewF64(a.value - b.value)
}

func (a F64) SubConst(b float64) F64 {
	return NewF64(a.value - b)
}

func (a F64) Mul(b F64) F64 {
	return NewF64(a.value * b.value)
}

func (a F64) MulConst(b float64) F64 {
	return NewF64(a.value * b)
}

func (a F64) Div(b F64) F64 {
	return NewF64(a.value / b.value)
}

func (a F64) DivConst(b float64) F64 {
	return NewF64(a.value / b)
}

func (a F64) PowConst(b float64) F64 {
	return NewF64(math.Pow(a.value, b))
}

// Dot3 computes "a0*b0 + a1*b1 + a2*b2" with every intermediate rounded.
func Dot3(a0 float64, a1 float64, a2 float64, b0 float64, b1 float64, b2 float64) float64 {
	return NewF64(a0).MulConst(b0).Add(NewF64(a1).MulConst(b1)).Add(NewF64(a2).MulConst(b2)).Value()
}

// WeightedSum computes "a*wa + b*wb" with every intermediate rounded.
func WeightedSum(a float64, wa float64, b float64, wb float64) float64 {
	return NewF64(a).MulConst(wa).Add(NewF64(b).MulConst(wb)).Value()
}
