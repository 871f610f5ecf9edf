package consistentdf

import (
	"fmt"

	"github.com/macxred/consistentdf/i18n"
)

// IssueAt creates an Issue at the given column path with provided code and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(path, code string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, stringify(params)), Params: params}
}

func singleIssue(path, code, msg string) error {
	return Issues{{Path: path, Code: code, Message: msg}}
}

func stringify(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}
