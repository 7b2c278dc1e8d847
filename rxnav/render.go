package rxnav

import (
	"fmt"
	"strings"
)

// RenderConcepts renders concepts as a titled bullet list. It returns ""
// when there is nothing to show so empty lookups drop out of summaries.
func RenderConcepts(title string, concepts []Concept) string {
	if len(concepts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString(":\n")
	for _, c := range concepts {
		fmt.Fprintf(&b, "- %s (RxCUI %s, TTY %s)", c.Name, c.RxCUI, c.TTY)
		if c.Synonym != "" && c.Synonym != c.Name {
			fmt.Fprintf(&b, ", also known as %s", c.Synonym)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderClasses renders ATC classes as a titled bullet list, or "".
func RenderClasses(title string, classes []DrugClass) string {
	if len(classes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString(":\n")
	for _, c := range classes {
		fmt.Fprintf(&b, "- ATC %s %s (%s)", c.ClassID, c.ClassName, c.ClassType)
		if c.DrugName != "" {
			fmt.Fprintf(&b, " via %s", c.DrugName)
		}
		b.WriteString("\n")
	}
	return b.String()
}
