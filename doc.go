// Package toolfix repairs defective tool calls emitted by LLMs before they reach the tool executor.
//
// # Overview
//
// Providers frequently produce tool calls with misspelled tool names, malformed JSON arguments,
// wrong primitive types, inconsistent key casing, provider-specific wrapping and broken call IDs.
// This package turns such a call into a schema-conformant one and records every corrective action
// in order, so the caller can audit or reject the result.
//
// Pipeline: fix call ID → resolve tool name → unwrap single-element array / default null →
// provider or generic unwrap → lenient JSON parse → key-casing normalization → per-property type
// coercion → relocation of stray keys into missing required fields → Repaired.
//
// # Key concepts
//
//   - Repair, don't reject: malformed input never produces an error. Unparseable payloads become an
//     empty argument object flagged with a "WARNING" entry in Repaired.Repairs.
//   - Audit trail: every entry in Repaired.Repairs corresponds to exactly one mutation; a call that
//     needed nothing has Repaired == false and no entries.
//   - Shallow schemas: only property names, declared types and the required list are inspected
//     (see Schema). Full JSON Schema validation is left to the caller or to Catalog.Validate.
//
// # Example
//
//	schema, _ := toolfix.ParseSchema([]byte(`{"properties":{"path":{"type":"string"}},"required":["path"]}`))
//	res := toolfix.RepairToolCall(toolfix.Call{
//	    ToolName:       "Read_File",
//	    Arguments:      "{'path': '/tmp',}",
//	    Schema:         schema,
//	    AvailableTools: []string{"read_file", "write_file"},
//	})
//	// res.ToolName == "read_file", res.Arguments["path"] == "/tmp", res.Repairs lists each fix.
package toolfix
