package mcp

import "github.com/mark3labs/mcp-go/mcp"

func ingestComponentsTool() mcp.Tool {
	return mcp.NewTool("ingest_components",
		mcp.WithDescription("Validate, normalize and store a batch of exported design components under a session"),
		mcp.WithString("components",
			mcp.Required(),
			mcp.Description("JSON array of exported scene-graph nodes"),
		),
		mcp.WithString("sessionId",
			mcp.Description("Session to append to; a new session is created when omitted"),
		),
		mcp.WithString("fileKey", mcp.Description("Source file key")),
		mcp.WithString("fileName", mcp.Description("Source file name")),
		mcp.WithString("pageId", mcp.Description("Source page id")),
	)
}

func getComponentsTool() mcp.Tool {
	return mcp.NewTool("get_components",
		mcp.WithDescription("Return the stored batches and canonical trees of a session"),
		mcp.WithString("sessionId", mcp.Required(), mcp.Description("Session to read")),
	)
}

func transformComponentsTool() mcp.Tool {
	return mcp.NewTool("transform_components",
		mcp.WithDescription("Generate framework code for components; pass components inline or reference a session's stored batch"),
		mcp.WithString("components", mcp.Description("JSON array of exported scene-graph nodes; omit to transform a stored session")),
		mcp.WithString("sessionId", mcp.Description("Session whose stored components to transform when components is omitted")),
		mcp.WithString("framework", mcp.Description("react (default), vue or angular")),
		mcp.WithString("styling", mcp.Description("plain-css (default), scss, css-in-source or utility-classes")),
		mcp.WithString("namingConvention", mcp.Description("kebab (default), pascal or camel")),
		mcp.WithBoolean("typedOutput", mcp.Description("Emit typed component signatures")),
		mcp.WithBoolean("includeProps", mcp.Description("Infer and bind component props")),
		mcp.WithBoolean("includeTypeDeclarations", mcp.Description("Emit a separate type declaration artifact")),
		mcp.WithBoolean("generateStorybookStub", mcp.Description("Emit a Storybook story stub")),
		mcp.WithBoolean("generateTestStub", mcp.Description("Emit a render test stub")),
		mcp.WithBoolean("extractTokens", mcp.Description("Also extract design tokens from the transformed components")),
	)
}

func extractTokensTool() mcp.Tool {
	return mcp.NewTool("extract_tokens",
		mcp.WithDescription("Extract deduplicated design tokens (colors, typography, spacing, shadows, borders)"),
		mcp.WithString("components", mcp.Description("JSON array of exported scene-graph nodes; omit to use a stored session")),
		mcp.WithString("sessionId", mcp.Description("Session whose stored components to extract from when components is omitted")),
	)
}

func analyzeComponentsTool() mcp.Tool {
	return mcp.NewTool("analyze_components",
		mcp.WithDescription("Structural analysis: classification, complexity, reusability and accessibility findings per component"),
		mcp.WithString("components", mcp.Description("JSON array of exported scene-graph nodes; omit to use a stored session")),
		mcp.WithString("sessionId", mcp.Description("Session whose stored components to analyze when components is omitted")),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Search stored components by name; exact matches first, then partial, most recent first"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Name or name fragment (case-insensitive)")),
		mcp.WithNumber("limit", mcp.Description("Maximum matches per tier; unlimited when omitted")),
	)
}

func updateComponentNameTool() mcp.Tool {
	return mcp.NewTool("update_component_name",
		mcp.WithDescription("Rename a stored component in the search index"),
		mcp.WithString("sessionId", mcp.Required(), mcp.Description("Session holding the component")),
		mcp.WithString("componentId", mcp.Required(), mcp.Description("Root component node id")),
		mcp.WithString("name", mcp.Required(), mcp.Description("New display name")),
	)
}

func deleteSessionTool() mcp.Tool {
	return mcp.NewTool("delete_session",
		mcp.WithDescription("Delete a session, its stored batches and its search index entries"),
		mcp.WithString("sessionId", mcp.Required(), mcp.Description("Session to delete")),
	)
}

func listSessionsTool() mcp.Tool {
	return mcp.NewTool("list_sessions",
		mcp.WithDescription("List sessions with component counts, newest activity first"),
	)
}
