package mcpserver

// CategoryContract describes the catalog's category conventions for
// LLM consumers adding or querying entries.
const CategoryContract = `# Niftynet Category Contract

Every catalog entry carries a set of category tags used for filtering.

## Fixed enumeration

` + "```" + `
coding creating gaming random GenAI educational informational useful group other
` + "```" + `

## Rules

1. **Prefer tags from the fixed enumeration.** The UI styles each of
   them distinctly; anything else renders under the "other" styling.
2. **Tags are case-sensitive.** "GenAI" is a known tag, "genai" is not.
3. **Duplicates collapse.** Submitting the same tag twice stores it once;
   first-seen order is preserved for display.
4. **An empty category set is valid.** Such entries never match a
   category filter but always appear in unfiltered views.
5. **Unknown tags are preserved, never dropped.** They simply lack
   dedicated styling.

## Filtering semantics

A category filter is a union: an entry passes when it carries at least
one of the selected tags. Filters combine with search, favorites-only,
and noted-only by logical AND.
`
