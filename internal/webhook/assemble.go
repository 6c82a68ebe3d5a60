package webhook

import "github.com/sddhantjaiii/Calling-agent-sub001/internal/analysis"

// Parts are the outputs of the two paths.
type Parts struct {
	Version  PayloadVersion
	Metadata CallMetadata
	Source   CallSource
	Contact  *ContactInfo
	Warnings []string
	Analysis analysis.Outcome
}

// Assemble merges the parts. Metadata-path warnings come before
// analysis-path warnings; Errors and Warnings are never nil.
func Assemble(p Parts) NormalizedWebhook {
	errs := make([]string, 0, len(p.Analysis.Errors))
	errs = append(errs, p.Analysis.Errors...)

	warnings := make([]string, 0, len(p.Warnings)+len(p.Analysis.Warnings))
	warnings = append(warnings, p.Warnings...)
	warnings = append(warnings, p.Analysis.Warnings...)

	return NormalizedWebhook{
		Version:          p.Version,
		Metadata:         p.Metadata,
		Source:           p.Source,
		Contact:          p.Contact,
		Analysis:         p.Analysis.Result,
		AnalysisStrategy: p.Analysis.Strategy,
		IsValid:          len(errs) == 0,
		Errors:           errs,
		Warnings:         warnings,
	}
}
