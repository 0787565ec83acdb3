package openai

// ExtractJSONObject returns the first balanced brace-delimited object in
// input, tolerating surrounding prose and markdown fencing. Braces inside
// string literals do not count toward nesting. Empty string when no
// complete object exists.
func ExtractJSONObject(input string) string {
	start := -1
	for i := 0; i < len(input); i++ {
		if input[i] == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(input); i++ {
		ch := input[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}
