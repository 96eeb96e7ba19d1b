package mathexpr

import (
	"strings"
	"unicode/utf8"
)

var greekTeX = map[string]string{
	"α": `\alpha`, "β": `\beta`, "γ": `\gamma`, "δ": `\delta`, "ε": `\epsilon`,
	"ζ": `\zeta`, "η": `\eta`, "θ": `\theta`, "ι": `\iota`, "κ": `\kappa`,
	"λ": `\lambda`, "μ": `\mu`, "ν": `\nu`, "ξ": `\xi`, "π": `\pi`,
	"ρ": `\rho`, "σ": `\sigma`, "τ": `\tau`, "υ": `\upsilon`, "φ": `\phi`,
	"χ": `\chi`, "ψ": `\psi`, "ω": `\omega`, "ϖ": `\varpi`,
	"Γ": `\Gamma`, "Δ": `\Delta`, "∆": `\Delta`, "Θ": `\Theta`, "Λ": `\Lambda`,
	"Ξ": `\Xi`, "Π": `\Pi`, "Σ": `\Sigma`, "Φ": `\Phi`, "Ψ": `\Psi`, "Ω": `\Omega`,
	"∞": `\infty`,

	"alpha": `\alpha`, "beta": `\beta`, "gamma": `\gamma`, "delta": `\delta`,
	"zeta": `\zeta`, "eta": `\eta`, "theta": `\theta`, "lambda": `\lambda`,
	"mu": `\mu`, "pi": `\pi`, "rho": `\rho`, "sigma": `\sigma`, "tau": `\tau`,
	"phi": `\phi`, "psi": `\psi`, "omega": `\omega`,
	"Gamma": `\Gamma`, "Delta": `\Delta`, "Lambda": `\Lambda`, "Pi": `\Pi`,
	"Omega": `\Omega`, "Infinity": `\infty`,
}

func symbolTeX(name string) string {
	if tex, ok := greekTeX[name]; ok {
		return tex
	}
	if utf8.RuneCountInString(name) == 1 {
		return name
	}
	return `\mathrm{` + strings.ReplaceAll(name, "_", `\_`) + `}`
}

func (n *Number) TeX() string    { return n.Text }
func (n *Symbol) TeX() string    { return symbolTeX(n.Name) }
func (n *Paren) TeX() string     { return `\left(` + n.X.TeX() + `\right)` }
func (n *Equation) TeX() string  { return n.L.TeX() + "=" + n.R.TeX() }
func (n *Subscript) TeX() string { return symbolTeX(n.Name) + "_{" + indexTeX(n.Index) + "}" }

func indexTeX(idx string) string {
	if tex, ok := greekTeX[idx]; ok {
		return tex
	}
	if utf8.RuneCountInString(idx) == 1 || isNumeric(idx) {
		return idx
	}
	return `\mathrm{` + idx + `}`
}

func isNumeric(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return s != ""
}

func (n *Unary) TeX() string {
	x := n.X.TeX()
	if b, ok := n.X.(*Binary); ok && (b.Op == "+" || b.Op == "-") {
		x = `\left(` + x + `\right)`
	}
	return n.Op + x
}

func (n *Factorial) TeX() string {
	switch n.X.(type) {
	case *Number, *Symbol, *Subscript, *Paren, *Call:
		return n.X.TeX() + "!"
	}
	return `\left(` + n.X.TeX() + `\right)!`
}

func (n *Binary) TeX() string {
	switch n.Op {
	case "+":
		return n.L.TeX() + "+" + n.R.TeX()
	case "-":
		return n.L.TeX() + "-" + n.R.TeX()
	case "/":
		return `\frac{` + unparen(n.L).TeX() + "}{" + unparen(n.R).TeX() + "}"
	case "^":
		return powBaseTeX(n.L) + "^{" + unparen(n.R).TeX() + "}"
	}
	// multiplication
	r := n.R.TeX()
	if n.Implicit && !startsWithDigit(r) {
		return n.L.TeX() + " " + r
	}
	return n.L.TeX() + `\cdot ` + r
}

func powBaseTeX(base Node) string {
	switch base.(type) {
	case *Number, *Symbol, *Paren, *Call:
		return base.TeX()
	case *Subscript:
		return "{" + base.TeX() + "}"
	}
	return `\left(` + base.TeX() + `\right)`
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func (n *Call) TeX() string {
	arg := func(i int) string { return unparen(n.Args[i]).TeX() }
	switch n.Name {
	case "sqrt":
		return `\sqrt{` + arg(0) + "}"
	case "cbrt":
		return `\sqrt[3]{` + arg(0) + "}"
	case "nthRoot":
		return `\sqrt[` + arg(1) + "]{" + arg(0) + "}"
	case "abs":
		return `\left|` + arg(0) + `\right|`
	case "exp":
		return `e^{` + arg(0) + "}"
	case "floor":
		return `\left\lfloor` + arg(0) + `\right\rfloor`
	case "ceil":
		return `\left\lceil` + arg(0) + `\right\rceil`
	}

	var name string
	switch n.Name {
	case "ln", "log", "sin", "cos", "tan", "sinh", "cosh", "tanh":
		name = `\` + n.Name
	case "asin", "acos", "atan":
		name = `\` + "arc" + n.Name[1:]
	case "log10":
		name = `\log_{10}`
	case "gamma", "Γ":
		name = `\Gamma`
	case "zeta", "ζ":
		name = `\zeta`
	default:
		name = symbolTeX(n.Name)
	}
	args := make([]string, len(n.Args))
	for i := range n.Args {
		args[i] = arg(i)
	}
	return name + `\left(` + strings.Join(args, ",") + `\right)`
}
