package util

import (
	"fmt"
	"strings"
)

// JoinString renders each element with fmt.Stringer and joins them with sep.
func JoinString[A fmt.Stringer](elems []A, sep string) string {
	rendered := make([]string, len(elems))
	for i, elem := range elems {
		rendered[i] = elem.String()
	}
	return strings.Join(rendered, sep)
}
