package mcpserver

// NoteFormatContract describes what a note is made of, for LLM clients
// creating notes through the tools.
const NoteFormatContract = `# Note Format Contract

A note is a short piece of captured knowledge.

## Fields

| Field | Required | Rules |
|---|---|---|
| title | yes | Plain text, surrounding whitespace is trimmed, must not be empty. |
| content | yes | Plain text, trimmed, must not be empty. |
| category | yes | Exactly one of Technology, Personal, Design, Business, Science, Other (case-insensitive). |
| tags | no | Comma separated. Each tag is trimmed; empty and repeated tags are dropped. Tags are matched exactly, so prefer lowercase kebab-case (e.g. ` + "`" + `machine-learning` + "`" + `). |
| favorite | no | Boolean, default false. |

The id and creation time are assigned by the server.

## Links

YouTube and Twitter/X links are detected in the content and in the optional
` + "`" + `links` + "`" + ` argument when the note is created, and again every time the note is read.

- YouTube: ` + "`" + `youtube.com/watch?v=<id>` + "`" + `, ` + "`" + `youtu.be/<id>` + "`" + `, ` + "`" + `youtube.com/embed/<id>` + "`" + `, ` + "`" + `youtube.com/v/<id>` + "`" + `. The id is 11 characters.
- Twitter/X: ` + "`" + `https://twitter.com/<user>/status/<digits>` + "`" + ` or ` + "`" + `https://x.com/<user>/status/<digits>` + "`" + `. The scheme is required.

Other URLs are kept as text but get no preview. Put each URL on its own line or
surround it with spaces; trailing punctuation directly after a URL may become
part of it.

## Example

` + "```" + `
title: Great talk on Go concurrency
category: Technology
tags: go, concurrency, talks
content: Rob Pike explains why concurrency is not parallelism.
  https://www.youtube.com/watch?v=oV9rvDllKEg
` + "```" + `
`
