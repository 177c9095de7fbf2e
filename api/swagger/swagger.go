package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "BioMed KB API",
        "description": "Internal knowledge base for biomedical additive manufacturing literature",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Shared-credential access gates"},
        {"name": "Articles", "description": "Article submission, listing and duplicate checks"},
        {"name": "Read API", "description": "Key-gated external read endpoint"}
    ],
    "paths": {
        "/auth/setup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Store the shared credential (once)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetupRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Credential already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate against the shared credential",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/session": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/articles": {
            "get": {
                "tags": ["Articles"],
                "summary": "List articles",
                "parameters": [
                    {"name": "sort_by", "in": "query", "type": "string", "enum": ["addition_date", "year", "title"]},
                    {"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Articles"],
                "summary": "Submit an article",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateArticleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate identifier", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/articles/check": {
            "post": {
                "tags": ["Articles"],
                "summary": "Check for a duplicate by one identifier",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckArticleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/articles/export": {
            "get": {
                "tags": ["Articles"],
                "summary": "Export the listing as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/export/articles": {
            "get": {
                "tags": ["Read API"],
                "summary": "List all records for external consumers",
                "parameters": [
                    {"name": "Auth-Key", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SetupRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            },
            "required": ["password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["first_name", "last_name", "password"]
        },
        "CreateArticleRequest": {
            "type": "object",
            "properties": {
                "doi": {"type": "string"},
                "link": {"type": "string"},
                "title": {"type": "string"},
                "year": {"type": "integer"},
                "category": {"type": "array", "items": {"type": "string"}, "maxItems": 2},
                "problem_description": {"type": "string"},
                "solution_description": {"type": "string"},
                "result": {"type": "string"},
                "problems": {"type": "string"},
                "additional_notes": {"type": "string"}
            },
            "required": ["doi", "link", "title", "year", "category", "problem_description", "solution_description", "result", "problems"]
        },
        "CheckArticleRequest": {
            "type": "object",
            "properties": {
                "doi": {"type": "string"},
                "link": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
