package mathcheck

// allowedCommands is the amsmath-oriented allow-list: structure,
// operators, relations, arrows, accents, delimiters, spacing, fonts,
// and the greek alphabet. Extend it here when a legitimate command
// turns up invalid.
var allowedCommands = toSet(
	// structure
	"frac", "dfrac", "tfrac", "cfrac", "binom", "sqrt", "overline",
	"underline", "overbrace", "underbrace", "overset", "underset",
	"stackrel", "substack", "begin", "end", "left", "right", "middle",
	"big", "Big", "bigg", "Bigg", "bigl", "bigr", "Bigl", "Bigr",
	"displaystyle", "textstyle", "scriptstyle", "limits", "nolimits",
	"label", "tag", "notag", "nonumber", "text", "textrm", "textbf",
	"textit", "mbox", "phantom", "hphantom", "vphantom", "not",

	// operators
	"sum", "prod", "coprod", "int", "iint", "iiint", "oint", "bigcup",
	"bigcap", "bigoplus", "bigotimes", "bigvee", "bigwedge",
	"lim", "limsup", "liminf", "sup", "inf", "max", "min", "arg",
	"det", "dim", "deg", "gcd", "hom", "ker", "Pr",
	"exp", "log", "ln", "lg", "sin", "cos", "tan", "cot", "sec", "csc",
	"arcsin", "arccos", "arctan", "sinh", "cosh", "tanh", "coth",
	"operatorname", "bmod", "pmod", "mod",

	// binary operations and relations
	"pm", "mp", "times", "div", "cdot", "ast", "star", "circ", "bullet",
	"oplus", "ominus", "otimes", "oslash", "odot", "wedge", "vee",
	"cap", "cup", "setminus", "sqcap", "sqcup", "uplus", "amalg",
	"leq", "le", "geq", "ge", "neq", "ne", "ll", "gg", "prec", "succ",
	"preceq", "succeq", "sim", "simeq", "approx", "cong", "equiv",
	"propto", "asymp", "doteq", "models", "perp", "parallel", "mid",
	"nmid", "subset", "supset", "subseteq", "supseteq", "nsubseteq",
	"sqsubseteq", "sqsupseteq", "in", "ni", "notin", "vdash", "dashv",

	// arrows
	"to", "gets", "mapsto", "rightarrow", "leftarrow", "leftrightarrow",
	"Rightarrow", "Leftarrow", "Leftrightarrow", "longrightarrow",
	"longleftarrow", "Longrightarrow", "Longleftarrow", "longmapsto",
	"uparrow", "downarrow", "updownarrow", "Uparrow", "Downarrow",
	"nearrow", "searrow", "swarrow", "nwarrow", "hookrightarrow",
	"hookleftarrow", "rightharpoonup", "rightharpoondown", "implies",
	"iff",

	// accents
	"hat", "widehat", "check", "tilde", "widetilde", "acute", "grave",
	"dot", "ddot", "breve", "bar", "vec", "overrightarrow",
	"overleftarrow",

	// delimiters and dots
	"langle", "rangle", "lceil", "rceil", "lfloor", "rfloor", "lvert",
	"rvert", "lVert", "rVert", "vert", "Vert", "backslash",
	"ldots", "cdots", "vdots", "ddots", "dots", "dotsb", "dotsc",

	// symbols
	"infty", "partial", "nabla", "forall", "exists", "nexists", "neg",
	"lnot", "land", "lor", "emptyset", "varnothing", "aleph", "hbar",
	"ell", "Re", "Im", "wp", "imath", "jmath", "prime", "angle",
	"measuredangle", "triangle", "square", "Box", "diamond", "Diamond",
	"top", "bot", "flat", "natural", "sharp", "clubsuit", "diamondsuit",
	"heartsuit", "spadesuit", "surd", "checkmark", "dagger", "ddagger",

	// spacing
	"quad", "qquad", "thinspace", "medspace", "thickspace", "enspace",
	"hspace", "vspace", "space", "smallskip", "medskip", "bigskip",
	"noindent", "cr", "newline",

	// fonts
	"mathrm", "mathbf", "mathit", "mathsf", "mathtt", "mathcal",
	"mathbb", "mathfrak", "mathscr", "boldsymbol", "bm", "mathop",
	"mathbin", "mathrel", "mathord",

	// greek
	"alpha", "beta", "gamma", "delta", "epsilon", "varepsilon", "zeta",
	"eta", "theta", "vartheta", "iota", "kappa", "varkappa", "lambda",
	"mu", "nu", "xi", "pi", "varpi", "rho", "varrho", "sigma",
	"varsigma", "tau", "upsilon", "phi", "varphi", "chi", "psi",
	"omega", "Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi", "Sigma",
	"Upsilon", "Phi", "Psi", "Omega",
)

// allowedEnvironments lists the amsmath environments that may nest
// inside an expression.
var allowedEnvironments = toSet(
	"matrix", "pmatrix", "bmatrix", "Bmatrix", "vmatrix", "Vmatrix",
	"smallmatrix", "cases", "rcases", "array", "aligned", "alignedat",
	"gathered", "split", "align", "align*", "alignat", "alignat*",
	"gather", "gather*", "equation", "equation*", "multline",
	"multline*", "subarray",
)

func toSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
