// explainer.go
package main

import "strings"

// Explanation holds the title and text for a help topic.
type Explanation struct {
	Title       string
	Description string
}

// explainerMap describes what the width of a frame means for each sample type.
var explainerMap = map[string]Explanation{
	"cpu": {
		Title:       "CPU time",
		Description: "A frame's width is the CPU time spent in it and everything it called. Wide frames near the top are where the program burns cycles.",
	},
	"inuse_space": {
		Title:       "In-use memory",
		Description: "A frame's width is the memory still held by allocations made under it when the profile was taken. Growth across reloads points at leaks.",
	},
	"inuse_objects": {
		Title:       "In-use objects",
		Description: "A frame's width is the number of live objects allocated under it.",
	},
	"alloc_space": {
		Title:       "Allocated memory",
		Description: "A frame's width is the total memory allocated under it over the program's life, freed or not. Wide frames put pressure on the GC.",
	},
	"alloc_objects": {
		Title:       "Allocated objects",
		Description: "A frame's width is the number of allocations made under it over the program's life.",
	},
	"goroutine": {
		Title:       "Goroutines",
		Description: "A frame's width is the number of goroutines whose stack passes through it. Look for many goroutines parked on the same frame.",
	},
	"contentions": {
		Title:       "Lock contention",
		Description: "A frame's width is how often goroutines waited on a mutex or channel below it.",
	},
	"delay": {
		Title:       "Blocking delay",
		Description: "A frame's width is the time goroutines spent blocked below it.",
	},
}

// getExplanationForView takes a sample type like "alloc_space" or "samples"
// and finds the right help text.
func getExplanationForView(sampleType string) Explanation {
	if sampleType == "samples" {
		return explainerMap["cpu"]
	}
	for key, e := range explainerMap {
		if strings.Contains(sampleType, key) {
			return e
		}
	}
	return Explanation{
		Title:       sampleType,
		Description: "No specific explanation available for this profile type yet.",
	}
}
