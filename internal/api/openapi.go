package api

import (
	"fmt"

	"github.com/formworks/intake/internal/config"
	"github.com/formworks/intake/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the intake API. The spec is
// serialized once at startup and served as static bytes.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Receipt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"session_id":     {Type: "string", Description: "Identifier issued by the automation endpoint"},
				"session_folder": {Type: "string", Description: "Remote folder the documents were uploaded under"},
				"state":          {Type: "string", Enum: []any{"done", "failed"}},
				"documents":      {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"failures":       {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"total_files":    {Type: "integer"},
				"submitted_at":   {Type: "string", Format: "date-time"},
			},
		},
		"Identity": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "integer", Format: "int64"},
				"session_id":    {Type: "string"},
				"name":          {Type: "string"},
				"date_of_birth": {Type: "string", Format: "date-time"},
				"id_number":     {Type: "string"},
				"issue_date":    {Type: "string", Format: "date-time"},
				"valid_until":   {Type: "string", Format: "date-time"},
				"role":          {Type: "string"},
				"id_type":       {Type: "string"},
				"created_at":    {Type: "string", Format: "date-time"},
				"updated_at":    {Type: "string", Format: "date-time"},
			},
		},
		"Certificate": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "integer", Format: "int64"},
				"session_id":       {Type: "string"},
				"company_name":     {Type: "string"},
				"business_id":      {Type: "string"},
				"issue_date":       {Type: "string", Format: "date-time"},
				"certificate_type": {Type: "string"},
				"created_at":       {Type: "string", Format: "date-time"},
				"updated_at":       {Type: "string", Format: "date-time"},
			},
		},
	})

	spec.Paths["/submissions"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Submit intake documents",
			Tags:    []string{"submissions"},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"multipart/form-data": {
						Schema: &openapi.Schema{
							Type: "object",
							Properties: map[string]*openapi.Schema{
								"main_id":       {Type: "string", Format: "binary"},
								"main_role":     {Type: "string"},
								"additional_id": {Type: "array", Items: &openapi.Schema{Type: "string", Format: "binary"}},
								"certificate":   {Type: "string", Format: "binary"},
								"category":      {Type: "string"},
								"email":         {Type: "string", Format: "email"},
								"document_type": {Type: "string"},
							},
							Required: []string{"main_id", "main_role", "certificate", "email"},
						},
					},
				},
			},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Submission accepted", "Receipt"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/identities"] = &openapi.PathItem{
		Get: listOperation("identities", "Identity"),
	}
	spec.Paths["/identities/{session}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List identity records for a session",
			Tags:       []string{"identities"},
			Parameters: []*openapi.Parameter{openapi.PathParam("session", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Identity records", "Identity"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: upsertOperation("identities", "Identity"),
	}

	spec.Paths["/certificates"] = &openapi.PathItem{
		Get: listOperation("certificates", "Certificate"),
	}
	spec.Paths["/certificates/{session}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find the certificate record for a session",
			Tags:       []string{"certificates"},
			Parameters: []*openapi.Parameter{openapi.PathParam("session", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Certificate record", "Certificate"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: upsertOperation("certificates", "Certificate"),
	}

	return openapi.MarshalJSON(spec)
}

func listOperation(tag, schema string) *openapi.Operation {
	return &openapi.Operation{
		Summary: fmt.Sprintf("List %s records", tag),
		Tags:    []string{tag},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paged results", schema),
		},
	}
}

func upsertOperation(tag, schema string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     fmt.Sprintf("Upsert a %s record", schema),
		Tags:        []string{tag},
		Parameters:  []*openapi.Parameter{openapi.PathParam("session", "Session identifier")},
		RequestBody: openapi.RequestBodyJSON(schema, true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated record", schema),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	}
}
