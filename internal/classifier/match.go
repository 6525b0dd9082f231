package classifier

import "strings"

func containsKeyword(folded, keyword string) bool {
	return keyword != "" && strings.Contains(folded, keyword)
}
