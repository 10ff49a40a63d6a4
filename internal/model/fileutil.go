package model

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LineContext is a BVBS source line with a few neighbouring lines, used to
// point at the offending line when decoding fails.
type LineContext struct {
	LineNumber int      // 1-based line number of Target
	Before     []string // up to Radius lines before Target, oldest first
	Target     string
	After      []string // up to Radius lines after Target
	ErrorMsg   string   // set when the file could not be read
}

// Radius is the number of context lines on either side of the target.
const Radius = 2

// GetLineContext reads filePath and returns lineNumber with its neighbours.
func GetLineContext(filePath string, lineNumber int) LineContext {
	result := LineContext{LineNumber: lineNumber}

	if strings.HasPrefix(filePath, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			filePath = strings.Replace(filePath, "~", home, 1)
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read file: %v", err)
		return result
	}
	defer file.Close()

	// Only keep the window around the target; BVBS exports can be large.
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	current := 0
	for scanner.Scan() {
		current++
		switch {
		case current < lineNumber-Radius:
			continue
		case current < lineNumber:
			result.Before = append(result.Before, scanner.Text())
		case current == lineNumber:
			result.Target = scanner.Text()
		case current <= lineNumber+Radius:
			result.After = append(result.After, scanner.Text())
		}
		if current > lineNumber+Radius {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		result.ErrorMsg = fmt.Sprintf("Error reading file: %v", err)
		return result
	}

	if lineNumber < 1 || lineNumber > current {
		result.ErrorMsg = fmt.Sprintf("Line %d out of range (file has %d lines)", lineNumber, current)
		result.Before = nil
		result.After = nil
	}
	return result
}
