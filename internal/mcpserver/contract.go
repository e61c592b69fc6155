package mcpserver

// FrontmatterContract describes the metadata frontmatter and sidecar
// format that LLM consumers should follow when preparing inputs or
// interpreting generated drafts.
const FrontmatterContract = `# Content Metadata Contract

Every generated blog draft begins with a YAML frontmatter block, and any
input file may carry a sidecar file supplying metadata ahead of time.

## Frontmatter (prepended to blog drafts)

` + "```" + `yaml
---
source: meeting                # meeting | interview | memo | webinar | unknown
type: minutes                  # minutes | transcript | note | summary | general
date: 2025-01-08               # ISO date, always present
topics: [planning, budget]     # ordered list, may be []
summary: One-line description  # omitted entirely when empty
original_file: meeting_q1.txt  # basename of the input artifact
---
` + "```" + `

## Rules

1. **Field order is fixed**: source, type, date, topics, summary,
   original_file.
2. **Enums are closed sets.** Out-of-set values collapse to ` + "`" + `unknown` + "`" + `
   (source) and ` + "`" + `general` + "`" + ` (type); they never fail.
3. **Summary is display-limited.** Values over 50 characters are cut to
   47 plus ` + "`" + `...` + "`" + `.
4. **Topics** accept either a YAML list or a comma-separated string;
   blank entries are dropped and order is preserved.

## Sidecar files

Place ` + "`" + `name.meta.yaml` + "`" + ` next to ` + "`" + `name.txt` + "`" + ` to supply any subset of
source, type, date, topics, summary. Sidecar values override filename
inference and the automatic classifier; explicit caller overrides beat
everything. A sidecar with any field present disables the classifier for
that file.

## Filename inference

Prefixes map to defaults when no other metadata is supplied:
` + "`" + `meeting_` + "`" + ` → meeting/minutes, ` + "`" + `interview_` + "`" + ` → interview/transcript,
` + "`" + `memo_` + "`" + ` → memo/note, ` + "`" + `webinar_` + "`" + ` → webinar/summary.
`
