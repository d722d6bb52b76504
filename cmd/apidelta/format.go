package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"apidelta/internal/breaking"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
	FormatXML   OutputFormat = "xml"
)

var (
	breakingColor = color.New(color.FgRed, color.Bold)
	warningColor  = color.New(color.FgYellow)
	additionColor = color.New(color.FgGreen)
	headingColor  = color.New(color.Bold)
)

// FormatResult formats a classified result according to the specified format
func FormatResult(res *breaking.CompareResult, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(res)
	case FormatHuman:
		return formatResultHuman(res), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatResultHuman formats classified changes for human reading
func formatResultHuman(res *breaking.CompareResult) string {
	var sb strings.Builder

	sb.WriteString(headingColor.Sprint("API Compatibility Report") + "\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	if res.BaseRef != "" || res.TargetRef != "" {
		sb.WriteString(fmt.Sprintf("Comparing: %s → %s\n\n", res.BaseRef, res.TargetRef))
	}

	if res.TotalLeaves == 0 {
		sb.WriteString("No API changes detected.\n")
		sb.WriteString("\nVerdict: " + additionColor.Sprint("COMPATIBLE") + "\n")
		return sb.String()
	}

	var incompatible, warnings, additions []breaking.APIChange
	for _, c := range res.Changes {
		switch c.Severity {
		case breaking.SeverityBreaking:
			incompatible = append(incompatible, c)
		case breaking.SeverityWarning:
			warnings = append(warnings, c)
		default:
			additions = append(additions, c)
		}
	}

	if len(incompatible) > 0 {
		sb.WriteString(fmt.Sprintf("Breaking Changes (%d):\n\n", len(incompatible)))
		for _, c := range incompatible {
			sb.WriteString(breakingColor.Sprintf("  ✗ [%s] %s %s", c.Flag, c.ElementType, changeSubject(c)) + "\n")
			sb.WriteString(fmt.Sprintf("    %s\n", c.Description))
			if c.Component != "" {
				sb.WriteString(fmt.Sprintf("    Component: %s\n", c.Component))
			}
			if c.Rule != "" {
				sb.WriteString(fmt.Sprintf("    Rule: %s\n", c.Rule))
			}
			sb.WriteString("\n")
		}
	}

	if len(warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n\n", len(warnings)))
		for _, c := range warnings {
			sb.WriteString(warningColor.Sprintf("  ⚠ [%s] %s %s", c.Flag, c.ElementType, changeSubject(c)) + "\n")
			sb.WriteString(fmt.Sprintf("    %s\n\n", c.Description))
		}
	}

	if len(additions) > 0 {
		sb.WriteString(fmt.Sprintf("Compatible Changes (%d):\n\n", len(additions)))
		for _, c := range additions {
			sb.WriteString(additionColor.Sprintf("  + [%s] %s %s", c.Flag, c.ElementType, changeSubject(c)) + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Summary:\n")
	sb.WriteString("━━━━━━━\n")
	if res.Summary != nil {
		sb.WriteString(fmt.Sprintf("  Total changes: %d\n", res.Summary.TotalChanges))
		sb.WriteString(fmt.Sprintf("  Breaking: %d\n", res.Summary.BreakingChanges))
		sb.WriteString(fmt.Sprintf("  Warnings: %d\n", res.Summary.Warnings))
		sb.WriteString(fmt.Sprintf("  Additions: %d\n", res.Summary.Additions))
	}
	if res.SemverAdvice != "" {
		sb.WriteString(fmt.Sprintf("\nRecommended version bump: %s\n", strings.ToUpper(res.SemverAdvice)))
	}
	if res.NextVersion != "" {
		sb.WriteString(fmt.Sprintf("Next version: %s\n", res.NextVersion))
	}

	if res.HasBreakingChanges() {
		sb.WriteString("\nVerdict: " + breakingColor.Sprint("INCOMPATIBLE") + "\n")
	} else {
		sb.WriteString("\nVerdict: " + additionColor.Sprint("COMPATIBLE") + "\n")
	}
	return sb.String()
}

// changeSubject names the element a change is about.
func changeSubject(c breaking.APIChange) string {
	switch {
	case c.TypeName != "" && c.Key != "" && c.Key != c.TypeName:
		return c.TypeName + "#" + c.Key
	case c.TypeName != "":
		return c.TypeName
	case c.Key != "":
		return c.Key
	default:
		return c.Component
	}
}
