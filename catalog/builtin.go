package catalog

// builtin is the constant table in declaration order. Keys follow the
// relation finder's naming; substitutions use bracket subscripts.
var builtin = []Definition{
	{Key: "alpha_GW", Name: "Goemans Williamson Constant", Substitution: "α[GW]"},
	{Key: "alpha_M", Name: "Madelung Constant", Substitution: "α[M]", URL: "https://en.wikipedia.org/wiki/Madelung_constant"},
	{Key: "alpha_F", Name: "Foias Constant", Substitution: "α[F]", URL: "https://en.wikipedia.org/wiki/Foias_constant"},
	{Key: "alpha", Name: "Second Feigenbaum Constant", Substitution: "α", URL: "https://en.wikipedia.org/wiki/Feigenbaum_constants#The_second_constant"},
	{Key: "A_Pi", Name: "Mills Constant", Substitution: "A[π]", URL: "https://en.wikipedia.org/wiki/Mills%27_constant"},
	{Key: "A", Name: "Glaisher Kinkelin Constant", URL: "https://en.wikipedia.org/wiki/Glaisher%E2%80%93Kinkelin_constant"},
	{Key: "beta_Levy", Name: "First Lévy Constant", Substitution: "β", URL: "https://en.wikipedia.org/wiki/L%C3%A9vy%27s_constant"},
	{Key: "beta", Name: "Bernstein Constant", Substitution: "β", URL: "https://en.wikipedia.org/wiki/Bernstein%27s_constant"},
	{Key: "B_2", Name: "Brun Constant", Substitution: "B[2]", URL: "https://en.wikipedia.org/wiki/Brun%27s_theorem"},
	{Key: "B_H", Name: "Backhouse Constant", Substitution: "B[H]", URL: "https://en.wikipedia.org/wiki/Backhouse%27s_constant"},
	{Key: "cbrt2", Substitution: "cbrt(2)"},
	{Key: "cbrt3", Substitution: "cbrt(3)"},
	{Key: "C_Artin", Name: "Artin Constant", Substitution: "C[Artin]", URL: "https://en.wikipedia.org/wiki/Artin%27s_conjecture_on_primitive_roots"},
	{Key: "C_HBM", Name: "Heath-Brown–Moroz Constant", Substitution: "C[HBM]", URL: "https://en.wikipedia.org/wiki/Heath-Brown%E2%80%93Moroz_constant"},
	{Key: "C_CE", Name: "Copeland Erdős Constant", Substitution: "C[CE]", URL: "https://en.wikipedia.org/wiki/Copeland%E2%80%93Erd%C5%91s_constant"},
	{Key: "C_FT", Name: "Feller Tornier Constant", Substitution: "C[FT]", URL: "https://en.wikipedia.org/wiki/Feller%E2%80%93Tornier_constant"},
	{Key: "C_10", Name: "Base 10 Champernowne Constant", Substitution: "C[10]", URL: "https://en.wikipedia.org/wiki/Champernowne_constant"},
	{Key: "C_1", Name: "First Continued Fraction Constant", Substitution: "C[1]"},
	{Key: "C_N", Name: "Niven Constant", Substitution: "C[N]", URL: "https://en.wikipedia.org/wiki/Niven%27s_constant"},
	{Key: "C_P", Name: "Porter Constant", Substitution: "C[P]", URL: "https://en.wikipedia.org/wiki/Porter%27s_constant"},
	{Key: "C_2", Name: "Second du Bois-Reymond Constant", Substitution: "C[2]", URL: "https://es.wikipedia.org/wiki/Constante_Du_Bois_Reymond"},
	{Key: "C", Name: "Catalan Constant", URL: "https://en.wikipedia.org/wiki/Catalan%27s_constant"},
	{Key: "c", Name: "Asymptotic Lebesgue Constant", Substitution: "Λ[n]", URL: "https://en.wikipedia.org/wiki/Lebesgue_constant"},
	{Key: "delta_ETF", Name: "Erdős-Tenenbaum-Ford Constant", Substitution: "δ[ETF]", URL: "https://en.wikipedia.org/wiki/Erd%C5%91s%E2%80%93Tenenbaum%E2%80%93Ford_constant"},
	{Key: "delta_G", Name: "Gompertz Constant", Substitution: "δ[G]", URL: "https://en.wikipedia.org/wiki/Gompertz_constant"},
	{Key: "Delta_3", Name: "Robbins Constant", Substitution: "∆(3)", URL: "https://en.wikipedia.org/wiki/Mean_line_segment_length#Cube_and_hypercubes"},
	{Key: "delta", Name: "First Feigenbaum Constant", Substitution: "δ", URL: "https://en.wikipedia.org/wiki/Feigenbaum_constants#The_first_constant"},
	{Key: "D_V", Name: "Devicci Tesseract Constant", Substitution: "D[V]"},
	{Key: "D", Name: "Dottie Number", URL: "https://en.wikipedia.org/wiki/Dottie_number"},
	{Key: "eLevy", Name: "Second Lévy Constant", Substitution: "e^β"},
	{Key: "epi", Name: "Gelfond Constant", Substitution: "e^π", URL: "https://en.wikipedia.org/wiki/Gelfond%27s_constant"},
	{Key: "E", Name: "Erdos Borwein constant", URL: "https://en.wikipedia.org/wiki/Erd%C5%91s%E2%80%93Borwein_constant"},
	{Key: "F", Name: "Fransén Robinson Constant", URL: "https://en.wikipedia.org/wiki/Frans%C3%A9n%E2%80%93Robinson_constant"},
	{Key: "gamma", Name: "Euler Mascheroni Constant", URL: "https://en.wikipedia.org/wiki/Euler%27s_constant"},
	{Key: "G_025", Substitution: "Γ(0.25)"},
	{Key: "G_L", Name: "Gieseking Constant or Lobachevsky Constant", Substitution: "G[L]", URL: "https://mathworld.wolfram.com/GiesekingsConstant.html"},
	{Key: "G_S", Name: "Gelfond-Schneider Constant or Hilbert Number", Substitution: "2^sqrt(2)", URL: "https://en.wikipedia.org/wiki/Hilbert_number"},
	{Key: "g", Name: "Golden Angle", URL: "https://en.wikipedia.org/wiki/Golden_angle"},
	{Key: "G", Name: "Gauss Constant (ϖ/π)", URL: "https://en.wikipedia.org/wiki/Lemniscate_constant"},
	{Key: "Kprime", Name: "Kepler Bouwkamp Constant", Substitution: "Κ", URL: "https://en.wikipedia.org/wiki/Kepler%E2%80%93Bouwkamp_constant"},
	{Key: "K_0", Name: "Khinchin Constant", Substitution: "K[0]", URL: "https://en.wikipedia.org/wiki/Khinchin%27s_constant"},
	{Key: "lambda_GD", Name: "Golomb Dickman Constant", Substitution: "λ[GD]", URL: "https://en.wikipedia.org/wiki/Golomb%E2%80%93Dickman_constant"},
	{Key: "lambda_C", Name: "Conway Constant", Substitution: "λ[C]", URL: "https://en.wikipedia.org/wiki/Look-and-say_sequence#Growth_in_length"},
	{Key: "ln2", Substitution: "ln(2)"},
	{Key: "L_lim", Name: "Laplace Limit", Substitution: "L[lim]", URL: "https://en.wikipedia.org/wiki/Laplace_limit"},
	{Key: "L_Lochs", Name: "Loch Constant", Substitution: "L[Lochs]", URL: "https://mathworld.wolfram.com/LochsConstant.html"},
	{Key: "L_1", Name: "First Lemniscate Constant (ϖ/2)", Substitution: "L[1]", URL: "https://en.wikipedia.org/wiki/Lemniscate_constant"},
	{Key: "L_2", Name: "Secnd Lemniscate Constant (π/(2ϖ))", Substitution: "L[2]", URL: "https://en.wikipedia.org/wiki/Lemniscate_constant"},
	{Key: "L_R", Name: "Landau Ramanujan Constant", Substitution: "L[R]", URL: "https://en.wikipedia.org/wiki/Landau%E2%80%93Ramanujan_constant"},
	{Key: "L_D", Name: "Logarithmic Capacity of the Unit Disk", Substitution: "L[D]"},
	{Key: "L", Name: "Liouville Constant", URL: "https://en.wikipedia.org/wiki/Liouville_number#The_existence_of_Liouville_numbers_(Liouville's_constant)"},
	{Key: "mu", Name: "Hexagonal Lattice Connective Constant", Substitution: "μ", URL: "https://en.wikipedia.org/wiki/Connective_constant"},
	{Key: "M", Name: "Meissel Mertens Constant", URL: "https://en.wikipedia.org/wiki/Meissel%E2%80%93Mertens_constant"},
	{Key: "Omega", Name: "Omega Constant", Substitution: "Ω", URL: "https://en.wikipedia.org/wiki/Omega_constant"},
	{Key: "phi", Name: "Golden Ratio", URL: "https://en.wikipedia.org/wiki/Golden_ratio"},
	{Key: "psi_Fib", Name: "Reciprocal Fibonacci Constant", Substitution: "ψ[Fib]", URL: "https://en.wikipedia.org/wiki/Reciprocal_Fibonacci_constant"},
	{Key: "psi", Name: "Super Golden Ratio", Substitution: "ψ", URL: "https://en.wikipedia.org/wiki/Supergolden_ratio"},
	{Key: "Pi_2", Name: "Twin Primes Constant", Substitution: "Π[2]", URL: "https://en.wikipedia.org/wiki/Twin_prime"},
	{Key: "P_Dragon", Name: "Paperfolding Constant", Substitution: "P[Dragon]", URL: "https://en.wikipedia.org/wiki/Regular_paperfolding_sequence#Paperfolding_constant"},
	{Key: "P", Name: "Universal Parabolic Constant", URL: "https://en.wikipedia.org/wiki/Universal_parabolic_constant"},
	{Key: "q", Name: "Komornik–Loreti Constant", URL: "https://en.wikipedia.org/wiki/Komornik%E2%80%93Loreti_constant"},
	{Key: "root12of2", Substitution: "nthRoot(2, 12)"},
	{Key: "rho_Pi", Name: "Prime Constant", Substitution: "ρ[Pi]", URL: "https://en.wikipedia.org/wiki/Prime_constant"},
	{Key: "rho", Name: "Plastic Number", Substitution: "Ρ", URL: "https://en.wikipedia.org/wiki/Plastic_ratio"},
	{Key: "R_S", Name: "Ramanujan Soldner Constant", Substitution: "R[S]", URL: "https://en.wikipedia.org/wiki/Ramanujan%E2%80%93Soldner_constant"},
	{Key: "R", Name: "Ramanujan Constant", URL: "https://en.wikipedia.org/wiki/Heegner_number#Almost_integers_and_Ramanujan's_constant"},
	{Key: "sigma_10", Name: "Salem Constant", Substitution: "σ[10]", URL: "https://mathworld.wolfram.com/SalemConstants.html"},
	{Key: "sigma_S", Name: "Somos Quadratic Recurrence Constant", Substitution: "σ[S]", URL: "https://en.wikipedia.org/wiki/Somos%27_quadratic_recurrence_constant"},
	{Key: "sigma", Name: "Hafner-Sarnak-McCurley Constant", Substitution: "σ", URL: "https://en.wikipedia.org/wiki/Hafner%E2%80%93Sarnak%E2%80%93McCurley_constant"},
	{Key: "sqrt2", Substitution: "sqrt(2)"},
	{Key: "sqrt3", Substitution: "sqrt(3)"},
	{Key: "S_MRB", Name: "MRB Constant", Substitution: "S[MRB]", URL: "https://en.wikipedia.org/wiki/MRB_constant"},
	{Key: "S_Pi", Name: "Stephens Constant", Substitution: "S[Pi]", URL: "https://en.wikipedia.org/wiki/Stephens%27_constant"},
	{Key: "S", Name: "Sierpiński Constant", URL: "https://en.wikipedia.org/wiki/Sierpi%C5%84ski%27s_constant"},
	{Key: "theta_m", Name: "Magic Angle", Substitution: "θ[m]", URL: "https://en.wikipedia.org/wiki/Magic_angle"},
	{Key: "tau", Name: "Prouhet Thue Morse Constant", Substitution: "τ", URL: "https://en.wikipedia.org/wiki/Prouhet%E2%80%93Thue%E2%80%93Morse_constant"},
	{Key: "T_Pi", Name: "Taniguchi Constant", Substitution: "T[Pi]", URL: "https://mathworld.wolfram.com/TaniguchisConstant.html"},
	{Key: "T", Name: "Tribonacci Constant", Substitution: "η", URL: "https://en.wikipedia.org/wiki/Generalizations_of_Fibonacci_numbers#Tribonacci_numbers"},
	{Key: "V_dp", Name: "Van der Pauw Constant", Substitution: "π/ln(2)", URL: "https://en.wikipedia.org/wiki/Van_der_Pauw_method#Calculating_sheet_resistance"},
	{Key: "V", Name: "Viswanath Constant", URL: "https://en.wikipedia.org/wiki/Random_Fibonacci_sequence"},
	{Key: "W_S", Name: "Weierstrass Constant", Substitution: "W[S]", URL: "https://mathworld.wolfram.com/WeierstrassConstant.html"},
	{Key: "W", Name: "Wallis Constant", URL: "https://mathworld.wolfram.com/WallissConstant.html"},
	{Key: "Zeta2", Name: "Riemann Zeta Function", Substitution: "ζ(2)", URL: "https://en.wikipedia.org/wiki/Riemann_zeta_function"},
	{Key: "Zeta3", Name: "Apery Constant", Substitution: "ζ(3)", URL: "https://en.wikipedia.org/wiki/Ap%C3%A9ry%27s_constant#Irrational_number"},
	{Key: "z_975", Name: "Z Score for 97.5 Percentile Point", Substitution: "z[97.5]", URL: "https://en.wikipedia.org/wiki/97.5th_percentile_point"},
}
