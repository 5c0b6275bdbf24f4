package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Postgraduate Results API",
        "description": "Role-based postgraduate results management backed by Google Sheets",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login and session identity"},
        {"name": "Scores", "description": "Score records and their lifecycle"},
        {"name": "Notifications", "description": "Result request reminders"},
        {"name": "Export", "description": "Roster downloads"},
        {"name": "Metrics", "description": "Aggregate system metrics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Wrong login details"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/scores": {
            "get": {
                "tags": ["Scores"],
                "summary": "List score records visible to the caller",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Sheets unavailable"}
                }
            }
        },
        "/scores/record": {
            "get": {
                "tags": ["Scores"],
                "summary": "Get one score record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "index", "in": "query", "type": "string", "required": true},
                    {"name": "course", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not assigned to caller"},
                    "404": {"description": "No such record"}
                }
            }
        },
        "/scores/submit": {
            "post": {
                "tags": ["Scores"],
                "summary": "Submit CA and exam scores",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "Record now Pending", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Scores out of range"},
                    "409": {"description": "Record approved and locked"}
                }
            }
        },
        "/scores/approve": {
            "post": {
                "tags": ["Scores"],
                "summary": "Approve a score record (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No such record"}
                }
            }
        },
        "/scores/unlock": {
            "post": {
                "tags": ["Scores"],
                "summary": "Unlock a score record (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No such record"}
                }
            }
        },
        "/scores/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the score roster (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unknown format"}
                }
            }
        },
        "/notifications/lecturers": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List lecturers for notification (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/send": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Send a reminder to one lecturer (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendNotificationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Sent"},
                    "422": {"description": "No email or no assigned records"}
                }
            }
        },
        "/notifications/bulk": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Send reminders to all lecturers (admin, two-step confirm)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Run summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required"}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Aggregate system metrics (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitScoreRequest": {
            "type": "object",
            "required": ["index_number", "course", "ca", "score"],
            "properties": {
                "index_number": {"type": "string"},
                "course": {"type": "string"},
                "ca": {"type": "number", "maximum": 40, "exclusiveMinimum": true, "minimum": 0},
                "score": {"type": "number", "maximum": 60, "exclusiveMinimum": true, "minimum": 0}
            }
        },
        "StatusActionRequest": {
            "type": "object",
            "required": ["index_number", "course"],
            "properties": {
                "index_number": {"type": "string"},
                "course": {"type": "string"}
            }
        },
        "SendNotificationRequest": {
            "type": "object",
            "required": ["lecturer"],
            "properties": {
                "lecturer": {"type": "string"}
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
