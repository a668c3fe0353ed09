package telegram

import "strings"

// parseCommand разбирает "/cmd@bot args". ok=false - не команда или команда другому боту.
func parseCommand(text, botUsername string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest, _ := strings.Cut(text, " ")
	if i := strings.IndexAny(head, "\n\t"); i >= 0 {
		head, rest = head[:i], head[i+1:]+" "+rest
	}

	name, target, addressed := strings.Cut(head[1:], "@")
	if name == "" {
		return "", "", false
	}
	if addressed && !strings.EqualFold(target, botUsername) {
		return "", "", false
	}

	return strings.ToLower(name), strings.TrimSpace(rest), true
}
