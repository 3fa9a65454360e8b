package mcp

import "github.com/mark3labs/mcp-go/mcp"

var summarizeToolDef = mcp.NewTool("geology_summarize",
	mcp.WithDescription("Summarize borehole layer records into geological units. Reads CSV from a file path or inline text, groups layers into units per origin, and returns the summary table with synthesized descriptions and extent statements. Optionally archives the run."),
	mcp.WithString("csv_path",
		mcp.Description("Path to a CSV file with columns PROJ_ID, POINT_ID, TOP, BASE, Legend, Description, Classification, Origin1, Color"),
	),
	mcp.WithString("csv_text",
		mcp.Description("Inline CSV content (alternative to csv_path)"),
	),
	mcp.WithString("boreholes",
		mcp.Description("Comma-separated borehole IDs to restrict the run to (default: all boreholes)"),
	),
	mcp.WithBoolean("save",
		mcp.Description("Archive the run so it can be fetched and exported later (default: false)"),
	),
	mcp.WithString("project_id",
		mcp.Description("Project identifier for the archived run (default: taken from the first record)"),
	),
	mcp.WithString("source",
		mcp.Description("Provenance note for the archived run (default: csv_path)"),
	),
)

var legendToolDef = mcp.NewTool("geology_legend",
	mcp.WithDescription("Return the USCS soil classification legend: code, display name, and color for each classification."),
)

var runListToolDef = mcp.NewTool("run_list",
	mcp.WithDescription("List archived summarization runs, newest first."),
	mcp.WithString("project_id",
		mcp.Description("Filter runs by project identifier"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum runs to return (default: 20, max: 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of runs to skip (default: 0)"),
	),
)

var runFetchToolDef = mcp.NewTool("run_fetch",
	mcp.WithDescription("Fetch an archived run with its unit summaries by ULID."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Run ULID"),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Include soft-deleted runs (default: false)"),
	),
)

var runDeleteToolDef = mcp.NewTool("run_delete",
	mcp.WithDescription("Soft-delete an archived run by ULID."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Run ULID"),
	),
)
