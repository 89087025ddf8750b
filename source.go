package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"

	"github.com/Oloruntobi1/flametui/pkg/calltree"
)

// lexerName picks the chroma lexer for a source file, defaulting to Go since
// most profiles come from Go programs.
func lexerName(filePath string) string {
	if l := lexers.Match(filePath); l != nil {
		return l.Config().Name
	}
	return "go"
}

// getHighlightedSource reads a file, highlights it, and adds line numbers and an arrow.
func getHighlightedSource(filePath string, targetLine int) string {
	if filePath == "" {
		return "No source file available."
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Sprintf("Error reading file %s:\n%v", filePath, err)
	}

	var highlighted bytes.Buffer
	err = quick.Highlight(&highlighted, string(content), lexerName(filePath), "terminal256", "monokai")
	if err != nil {
		// Fallback to plain text if highlighting fails
		highlighted.Reset()
		highlighted.WriteString(string(content))
	}

	lines := strings.Split(highlighted.String(), "\n")
	var result strings.Builder

	for i, line := range lines {
		lineNumber := i + 1
		lineHeader := fmt.Sprintf("%4d | ", lineNumber)
		if lineNumber == targetLine {
			lineHeader = "  -> | "
		}
		result.WriteString(lineHeader + line + "\n")
	}

	return result.String()
}

// sourceForNode renders the source of a frame for the source pane.
func sourceForNode(n calltree.Node) string {
	if n.Merged {
		return "Merged frames have no single source location."
	}
	header := fmt.Sprintf("%s\n%s:%d\n\n", n.DisplayName(), n.FileName, n.StartLine)
	return header + getHighlightedSource(n.FileName, n.StartLine)
}
