package param

import "math"

// Bijector is an invertible scalar map describing the constrained space an
// unconstrained value maps into. Forward goes unconstrained -> constrained;
// Inverse goes back. Implementations must satisfy Inverse(Forward(x)) == x
// for all x in the unconstrained domain, up to floating-point error.
type Bijector interface {
	Forward(x float64) float64
	Inverse(y float64) float64
	Name() string
}

// Identity maps a value to itself.
type Identity struct{}

func (Identity) Forward(x float64) float64 { return x }
func (Identity) Inverse(y float64) float64 { return y }
func (Identity) Name() string              { return "identity" }

// Softplus maps the real line onto the positive reals via log(1+e^x).
// Both directions are computed in a numerically stable form: for large x
// softplus(x) ~ x, and the naive exp would overflow long before the result
// stops being representable.
type Softplus struct{}

func (Softplus) Forward(x float64) float64 {
	if x > 34 {
		// exp(-x) below double precision; softplus(x) == x exactly.
		return x
	}
	return math.Log1p(math.Exp(x))
}

func (Softplus) Inverse(y float64) float64 {
	if y > 34 {
		return y
	}
	// log(e^y - 1) = y + log(1 - e^-y)
	return y + math.Log(-math.Expm1(-y))
}

func (Softplus) Name() string { return "softplus" }

// Exp maps the real line onto the positive reals via e^x. Sharper than
// Softplus near zero; useful when parameters must stay well away from it.
type Exp struct{}

func (Exp) Forward(x float64) float64 { return math.Exp(x) }
func (Exp) Inverse(y float64) float64 { return math.Log(y) }
func (Exp) Name() string              { return "exp" }
