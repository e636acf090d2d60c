package api

import (
	"github.com/JaimeStill/foundry/internal/config"
	"github.com/JaimeStill/foundry/pkg/openapi"
)

// buildSpec assembles the OpenAPI document served at /openapi.json.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(domainSchemas())

	addGenerationPaths(spec)
	addProjectPaths(spec)
	addKnowledgePaths(spec)
	addPromptPaths(spec)
	addStoragePaths(spec)

	return openapi.MarshalJSON(spec)
}

func domainSchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"GenerationOptions": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"use_workflow":  {Type: "boolean", Description: "Generate a multi-step orchestration layer"},
				"include_tests": {Type: "boolean", Description: "Generate a test module alongside the agents"},
				"use_knowledge": {Type: "boolean", Description: "Enrich analysis with knowledge base search"},
				"review":        {Type: "boolean", Description: "Run an automated review pass over generated code"},
				"deployment":    {Type: "string", Enum: []any{"local", "docker", "aws", "gcp"}},
			},
		},
		"Generation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"prompt":     {Type: "string", Description: "Natural language application requirement"},
				"name":       {Type: "string", Description: "Application name from the generated specification"},
				"status":     {Type: "string", Enum: []any{"pending", "running", "review", "complete", "failed"}},
				"options":    openapi.SchemaRef("GenerationOptions"),
				"spec":       {Type: "object", Description: "Structured application specification"},
				"files":      {Type: "object", Description: "Generated source files keyed by filename"},
				"deployment": {Type: "string", Description: "Deployment guide markdown"},
				"error":      {Type: "string", Description: "Failure detail when status is failed"},
				"project_id": {Type: "string", Format: "uuid", Description: "Project the output was cataloged into"},
				"provider":   {Type: "string"},
				"model":      {Type: "string"},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"CreateGeneration": {
			Type:     "object",
			Required: []string{"prompt"},
			Properties: map[string]*openapi.Schema{
				"prompt":  {Type: "string", Description: "Natural language application requirement"},
				"options": openapi.SchemaRef("GenerationOptions"),
			},
		},
		"Project": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"name":        {Type: "string"},
				"slug":        {Type: "string", Description: "URL-safe name used for archive filenames"},
				"description": {Type: "string"},
				"files":       {Type: "array", Items: openapi.SchemaRef("ProjectFile")},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"ProjectFile": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"project_id":   {Type: "string", Format: "uuid"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
				"size":         {Type: "integer", Format: "int64"},
				"created_at":   {Type: "string", Format: "date-time"},
			},
		},
		"SaveProject": {
			Type:     "object",
			Required: []string{"name", "files"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"files":       {Type: "object", Description: "File contents keyed by filename"},
			},
		},
		"KnowledgeDocument": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":       {Type: "string", Description: "Content hash identifier"},
				"content":  {Type: "string"},
				"doc_type": {Type: "string"},
				"added_at": {Type: "string", Format: "date-time"},
			},
		},
		"AddKnowledgeDocument": {
			Type:     "object",
			Required: []string{"content"},
			Properties: map[string]*openapi.Schema{
				"content":  {Type: "string"},
				"doc_type": {Type: "string"},
			},
		},
		"KnowledgeSearch": {
			Type:     "object",
			Required: []string{"query"},
			Properties: map[string]*openapi.Schema{
				"query": {Type: "string", Description: "Semantic search query"},
				"limit": {Type: "integer", Description: "Maximum results to return"},
			},
		},
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        {Type: "string", Enum: []any{"analyze", "agents", "workflow", "ui", "review", "deploy"}},
				"instructions": {Type: "string"},
				"spec":         {Type: "string", Description: "Output contract appended to the instructions"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
		"SavePrompt": {
			Type:     "object",
			Required: []string{"name", "stage", "instructions"},
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string"},
				"stage":        {Type: "string", Enum: []any{"analyze", "agents", "workflow", "ui", "review", "deploy"}},
				"instructions": {Type: "string"},
				"spec":         {Type: "string"},
				"description":  {Type: "string"},
			},
		},
		"PageRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":      {Type: "integer", Description: "Page number (1-indexed)"},
				"page_size": {Type: "integer", Description: "Results per page"},
				"search":    {Type: "string", Description: "Search query"},
				"sort": {
					Type:        "array",
					Items:       &openapi.Schema{Type: "string"},
					Description: "Sort fields, - prefix for descending; a comma-separated string is also accepted",
				},
			},
		},
		"BlobMetadata": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":           {Type: "string"},
				"content_type":  {Type: "string"},
				"size":          {Type: "integer", Format: "int64"},
				"last_modified": {Type: "string", Format: "date-time"},
			},
		},
	}
}

// pageOf builds a paginated list response for the named schema.
func pageOf(schemaName string) *openapi.Response {
	return &openapi.Response{
		Description: "Paginated results",
		Content: map[string]*openapi.MediaType{
			"application/json": {
				Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"data":        {Type: "array", Items: openapi.SchemaRef(schemaName)},
						"total":       {Type: "integer"},
						"page":        {Type: "integer"},
						"page_size":   {Type: "integer"},
						"total_pages": {Type: "integer"},
					},
				},
			},
		},
	}
}

func stringList(description string) *openapi.Response {
	return &openapi.Response{
		Description: description,
		Content: map[string]*openapi.MediaType{
			"application/json": {
				Schema: &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
	}
}

// listParams returns the shared pagination query parameters, followed by
// any domain-specific filters.
func listParams(filters ...*openapi.Parameter) []*openapi.Parameter {
	params := []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search query", false),
		openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
	}
	return append(params, filters...)
}

func addGenerationPaths(spec *openapi.Spec) {
	tags := []string{"generations"}

	spec.Paths["/generations"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List generations",
			Tags:    tags,
			Parameters: listParams(
				openapi.QueryParam("status", "string", "Filter by status", false),
				openapi.QueryParam("project_id", "string", "Filter by accepted project", false),
			),
			Responses: map[int]*openapi.Response{
				200: pageOf("Generation"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Submit a generation request",
			Description: "Queues a generation task; the pipeline runs asynchronously.",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("CreateGeneration", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Generation accepted", "Generation"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/generations/statuses"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List generation statuses",
			Tags:    tags,
			Responses: map[int]*openapi.Response{
				200: stringList("Valid generation statuses"),
			},
		},
	}

	spec.Paths["/generations/targets"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List deployment targets",
			Tags:    tags,
			Responses: map[int]*openapi.Response{
				200: stringList("Valid deployment targets"),
			},
		},
	}

	spec.Paths["/generations/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a generation",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Generation ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Generation", "Generation"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:     "Delete a generation",
			Description: "Refused while the generation is pending or running.",
			Tags:        tags,
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Generation ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/generations/{id}/accept"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Accept a reviewed generation",
			Description: "Catalogs the generated files into a project and marks the generation complete.",
			Tags:        tags,
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Generation ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Generation", "Generation"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/generations/{id}/retry"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Retry a failed generation",
			Description: "Requeues the generation; only failed generations can be retried.",
			Tags:        tags,
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Generation ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Generation", "Generation"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/generations/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search generations",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: pageOf("Generation"),
			},
		},
	}
}

func addProjectPaths(spec *openapi.Spec) {
	tags := []string{"projects"}

	spec.Paths["/projects"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List projects",
			Tags:    tags,
			Parameters: listParams(
				openapi.QueryParam("name", "string", "Filter by exact name", false),
				openapi.QueryParam("slug", "string", "Filter by slug", false),
			),
			Responses: map[int]*openapi.Response{
				200: pageOf("Project"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Save a project",
			Description: "Creates a project or replaces the file set of an existing name.",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("SaveProject", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Project", "Project"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/projects/slug/{slug}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a project by slug",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.StringPathParam("slug", "URL-safe project name")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Project", "Project"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/projects/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a project",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Project ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Project", "Project"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a project",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Project ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/projects/{id}/archive"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download a project archive",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Project ID")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Zip archive of the project's files"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/projects/{id}/files/{filename}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Download a project file",
			Tags:    tags,
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Project ID"),
				openapi.StringPathParam("filename", "Generated file name"),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "File content"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/projects/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search projects",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: pageOf("Project"),
			},
		},
	}
}

func addKnowledgePaths(spec *openapi.Spec) {
	tags := []string{"knowledge"}

	spec.Paths["/knowledge"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List knowledge documents",
			Tags:    tags,
			Parameters: listParams(
				openapi.QueryParam("doc_type", "string", "Filter by document type", false),
			),
			Responses: map[int]*openapi.Response{
				200: pageOf("KnowledgeDocument"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Add a knowledge document",
			Description: "Re-adding identical content returns the existing document.",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("AddKnowledgeDocument", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Knowledge document", "KnowledgeDocument"),
				400: openapi.ResponseRef("BadRequest"),
				502: openapi.ResponseRef("BadGateway"),
			},
		},
	}

	spec.Paths["/knowledge/types"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List document types",
			Tags:    tags,
			Responses: map[int]*openapi.Response{
				200: stringList("Valid knowledge document types"),
			},
		},
	}

	spec.Paths["/knowledge/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a knowledge document",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.StringPathParam("id", "Content hash identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Knowledge document", "KnowledgeDocument"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a knowledge document",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.StringPathParam("id", "Content hash identifier")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/knowledge/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search knowledge semantically",
			Description: "Returns the most similar documents with cosine similarity scores.",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("KnowledgeSearch", true),
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Similarity-ranked documents",
					Content: map[string]*openapi.MediaType{
						"application/json": {
							Schema: &openapi.Schema{
								Type: "array",
								Items: &openapi.Schema{
									Type: "object",
									Properties: map[string]*openapi.Schema{
										"id":         {Type: "string"},
										"content":    {Type: "string"},
										"doc_type":   {Type: "string"},
										"added_at":   {Type: "string", Format: "date-time"},
										"similarity": {Type: "number", Description: "Cosine similarity to the query"},
									},
								},
							},
						},
					},
				},
				400: openapi.ResponseRef("BadRequest"),
				502: openapi.ResponseRef("BadGateway"),
			},
		},
	}

	spec.Paths["/knowledge/reindex"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Re-embed all knowledge documents",
			Description: "Regenerates embeddings with the configured model.",
			Tags:        tags,
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Count of re-embedded documents",
					Content: map[string]*openapi.MediaType{
						"application/json": {
							Schema: &openapi.Schema{
								Type: "object",
								Properties: map[string]*openapi.Schema{
									"count": {Type: "integer"},
								},
							},
						},
					},
				},
				502: openapi.ResponseRef("BadGateway"),
			},
		},
	}
}

func addPromptPaths(spec *openapi.Spec) {
	tags := []string{"prompts"}

	spec.Paths["/prompts"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List prompt overrides",
			Tags:    tags,
			Parameters: listParams(
				openapi.QueryParam("stage", "string", "Filter by pipeline stage", false),
				openapi.QueryParam("name", "string", "Filter by exact name", false),
				openapi.QueryParam("active", "boolean", "Filter by active state", false),
			),
			Responses: map[int]*openapi.Response{
				200: pageOf("Prompt"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a prompt override",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("SavePrompt", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Prompt", "Prompt"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/prompts/stages"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List pipeline stages",
			Tags:    tags,
			Responses: map[int]*openapi.Response{
				200: stringList("Valid pipeline stages"),
			},
		},
	}

	spec.Paths["/prompts/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a prompt override",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update a prompt override",
			Tags:        tags,
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Prompt ID")},
			RequestBody: openapi.RequestBodyJSON("SavePrompt", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a prompt override",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/prompts/{stage}/active"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find the active override for a stage",
			Tags:       tags,
			Parameters: []*openapi.Parameter{stageParam()},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/prompts/{stage}/instructions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Resolve stage instructions",
			Description: "Returns the active override's instructions, or the built-in default.",
			Tags:        tags,
			Parameters:  []*openapi.Parameter{stageParam()},
			Responses: map[int]*openapi.Response{
				200: {Description: "Resolved instructions"},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/prompts/{stage}/spec"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Resolve stage output contract",
			Description: "Returns the active override's spec, or the built-in default.",
			Tags:        tags,
			Parameters:  []*openapi.Parameter{stageParam()},
			Responses: map[int]*openapi.Response{
				200: {Description: "Resolved output contract"},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/prompts/{id}/activate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Activate a prompt override",
			Description: "Deactivates any other override for the same stage.",
			Tags:        tags,
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Prompt ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/prompts/{id}/deactivate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Deactivate a prompt override",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/prompts/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search prompt overrides",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: pageOf("Prompt"),
			},
		},
	}
}

func addStoragePaths(spec *openapi.Spec) {
	tags := []string{"storage"}

	spec.Paths["/storage"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List stored blobs",
			Tags:    tags,
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker from a prior page", false),
				openapi.QueryParam("max_results", "integer", "Maximum entries to return", false),
			},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Blob listing",
					Content: map[string]*openapi.MediaType{
						"application/json": {
							Schema: &openapi.Schema{
								Type: "object",
								Properties: map[string]*openapi.Schema{
									"blobs":       {Type: "array", Items: openapi.SchemaRef("BlobMetadata")},
									"next_marker": {Type: "string"},
								},
							},
						},
					},
				},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/storage/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find blob metadata",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.StringPathParam("key", "Blob key")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Blob metadata", "BlobMetadata"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/storage/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download a blob",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.StringPathParam("key", "Blob key")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob content"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func stageParam() *openapi.Parameter {
	return &openapi.Parameter{
		Name:        "stage",
		In:          "path",
		Required:    true,
		Description: "Pipeline stage",
		Schema: &openapi.Schema{
			Type: "string",
			Enum: []any{"analyze", "agents", "workflow", "ui", "review", "deploy"},
		},
	}
}
