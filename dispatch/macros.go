package dispatch

// placeholderMacros maps macro names to regex fragments. Used in
// placeholder constraints: ":name|macro:".
var placeholderMacros = map[string]string{
	"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"int":      `[0-9]+`,
	"float":    `[0-9]*\.?[0-9]+`,
	"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
	"alpha":    `[a-zA-Z]+`,
	"alphanum": `[a-zA-Z0-9]+`,
	"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
	"hex":      `[0-9a-fA-F]+`,
}

// expandMacro returns the regex fragment for a macro name. If the name is
// not a known macro, it is treated as a raw regular expression and returned
// unchanged.
func expandMacro(expr string) string {
	if sub, ok := placeholderMacros[expr]; ok {
		return sub
	}

	return expr
}
