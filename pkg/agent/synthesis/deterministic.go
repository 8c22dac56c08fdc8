package synthesis

import (
	"fmt"
	"strings"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/pkg/tools"
)

const (
	docsHeader      = "Based on the documentation:"
	incidentsHeader = "\nRelevant past incidents:"

	noResultsSummary  = "No specific documentation or incidents found for this query."
	noResultsStep     = "Please provide more details about your request."
	emptySummary      = "Unable to find relevant information."
	reviewSourcesStep = "Review the sources listed below for more details."

	maxEntriesPerSection = 3
	maxKeyPointsPerDoc   = 2
	maxSteps             = 5
	truncateAt           = 100
)

// SynthesizeDeterministic is the default synthesis strategy. It is a pure
// function of its inputs and needs no external service.
func SynthesizeDeterministic(text string, docResults []tools.DocHit, incidentResults []tools.IncidentHit) *dto.AgentResult {
	var summaryParts []string
	var steps []string
	var sources []string

	if len(docResults) > 0 {
		summaryParts = append(summaryParts, docsHeader)
		for _, doc := range capDocs(docResults) {
			summaryParts = append(summaryParts, fmt.Sprintf("- %s: %s...", doc.Title, truncate(doc.Snippet, truncateAt)))
			steps = append(steps, capStrings(doc.KeyPoints, maxKeyPointsPerDoc)...)
			sources = append(sources, doc.Filename)
		}
	}

	if len(incidentResults) > 0 {
		summaryParts = append(summaryParts, incidentsHeader)
		for _, inc := range capIncidents(incidentResults) {
			summaryParts = append(summaryParts, fmt.Sprintf("- %s: %s", inc.Id, inc.Title))
			if inc.Resolution != "" {
				steps = append(steps, fmt.Sprintf("From %s: %s", inc.Id, truncate(inc.Resolution, truncateAt)))
			}
			sources = append(sources, inc.Id)
		}
	}

	if len(summaryParts) == 0 {
		summaryParts = []string{noResultsSummary}
		steps = []string{noResultsStep}
	}

	summary := strings.Join(summaryParts, " ")
	if summary == "" {
		summary = emptySummary
	}

	if len(steps) == 0 {
		steps = []string{reviewSourcesStep}
	}

	return &dto.AgentResult{
		Summary: summary,
		Steps:   capStrings(steps, maxSteps),
		Sources: dedupe(sources),
	}
}

// truncate caps s at n characters, never splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func capDocs(docs []tools.DocHit) []tools.DocHit {
	if len(docs) > maxEntriesPerSection {
		return docs[:maxEntriesPerSection]
	}
	return docs
}

func capIncidents(incidents []tools.IncidentHit) []tools.IncidentHit {
	if len(incidents) > maxEntriesPerSection {
		return incidents[:maxEntriesPerSection]
	}
	return incidents
}

func capStrings(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// dedupe removes duplicate citations, keeping first-seen order.
func dedupe(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := []string{}
	for _, src := range sources {
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}
