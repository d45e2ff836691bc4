package chat

import (
	"fmt"
	"strings"
)

// Tones offered for drafted replies
var Tones = []string{"Professional", "Semi-professional", "Casual"}

// draftLengths maps the length label to the size requested from the model
var draftLengths = map[string]string{
	"Short":  "one to two sentence",
	"Medium": "one paragraph",
	"Long":   "two paragraph",
}

// DraftLength returns the size phrase for a length label (Short, Medium, Long)
func DraftLength(label string) (string, bool) {
	for name, phrase := range draftLengths {
		if strings.EqualFold(name, label) {
			return phrase, true
		}
	}
	return "", false
}

// SummaryOptions extends a summary request
type SummaryOptions struct {
	// Document is attached document text summarized after the message
	Document string
	// Tasks asks for a numbered task list
	Tasks bool
	// Fixes asks for a possible fix to the reported issue
	Fixes bool
}

// SummarizePrompt asks for a Markdown summary of email
func SummarizePrompt(email string, opts SummaryOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following message:\n\n%s\n\n", email)
	b.WriteString("Present the summary as Markdown with clear headings and bullet lists when useful.\n")
	b.WriteString(" -Markdown should not use <p>, <div> or headers. Only bold, italics, dot points, and new lines\n")
	if opts.Document != "" {
		fmt.Fprintf(&b, "\nAlso summarize the following document:\n\n%s", opts.Document)
	}
	if opts.Tasks {
		b.WriteString("\n\nAlso generate a numbered list of tasks in reverse order to be done based on the message.")
	}
	if opts.Fixes {
		b.WriteString("\n\nAlso provide a possible fix to the issue mentioned")
	}
	return b.String()
}

// DraftPrompt asks for a reply to email. length is the phrase returned by
// DraftLength.
func DraftPrompt(email, tone, length string) string {
	return fmt.Sprintf("Draft a %s %s reply to this email:\n\n%s\n\n", length, strings.ToLower(tone), email) +
		"Dont provide a response, subject or signature, only give the draft reply." +
		" Format the reply using Markdown with headings, bullet lists, and emphasis where appropriate."
}

// InvoicePrompt asks for invoicing notes for a job
func InvoicePrompt(jobTitle, notes string) string {
	return "You will be provided with job notes to be invoiced, and your task is to summarize the job as follows:\n" +
		" -Single sentence summary of the job.\n" +
		" -Dated and dot point list of what was done on the job.\n" +
		" -Respond using Markdown.\n" +
		" -Markdown should not use <p>, <div> or headers. Only bold, italics, dot points, and new lines\n" +
		"Notes should be formatted like so:\n" +
		"**Invoicing notes:**\n" +
		"**[Job name]**\n" +
		"[Single sentence summary]\n" +
		"**[Date in DD/MM/YYYY]**\n" +
		"[Dotted notes]\n\n" +
		fmt.Sprintf("Invoicing Notes: %s\n", jobTitle) +
		notes
}

// CustomPrompt sends a free-form instruction, optionally with the message
// as context
func CustomPrompt(instruction, email string, includeEmail bool) string {
	prompt := instruction
	if includeEmail {
		prompt += fmt.Sprintf("\n\nHere is the message for context:\n%s", email)
	}
	return prompt + "\n\nPlease respond using Markdown formatting."
}
