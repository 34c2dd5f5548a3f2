package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mentor API",
        "description": "Mentor suggestion queue and track mode management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Mentoring", "description": "Suggestion queue and solution mentorships"},
        {"name": "Tracks", "description": "Track catalog and track mode"},
        {"name": "Admin", "description": "Maintenance triggers"}
    ],
    "paths": {
        "/mentor/suggestions": {
            "get": {
                "tags": ["Mentoring"],
                "summary": "List solutions the caller could mentor next",
                "description": "Ranked by tier: fresh, legacy still active, independent mode, legacy untouched since migration.",
                "parameters": [
                    {"name": "track_ids", "in": "query", "type": "string", "description": "Comma separated track ids"},
                    {"name": "exercise_ids", "in": "query", "type": "string", "description": "Comma separated exercise ids"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuggestionEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentor/tracks": {
            "get": {
                "tags": ["Mentoring"],
                "summary": "List tracks the caller mentors",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tracks": {
            "get": {
                "tags": ["Tracks"],
                "summary": "List active tracks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tracks/{trackId}/mentored-mode": {
            "post": {
                "tags": ["Tracks"],
                "summary": "Switch the caller's track to mentored mode",
                "description": "Clears independent mode on the membership and on every uncompleted solution in the track. Idempotent.",
                "parameters": [
                    {"name": "trackId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Membership not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Transaction failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solutions/{solutionId}/mentorships": {
            "post": {
                "tags": ["Mentoring"],
                "summary": "Start mentoring a solution",
                "parameters": [
                    {"name": "solutionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not a mentor of this track", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already mentoring", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Mentoring"],
                "summary": "Stop mentoring a solution",
                "parameters": [
                    {"name": "solutionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "No active mentorship", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solutions/{solutionId}/ignore": {
            "post": {
                "tags": ["Mentoring"],
                "summary": "Never suggest this solution to the caller again",
                "parameters": [
                    {"name": "solutionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reconcile/mentors": {
            "post": {
                "tags": ["Admin"],
                "summary": "Queue a solution mentor-count recount",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SuggestedSolution": {
            "type": "object",
            "properties": {
                "solution_id": {"type": "string"},
                "user_id": {"type": "string"},
                "exercise_id": {"type": "string"},
                "track_id": {"type": "string"},
                "core": {"type": "boolean"},
                "independent_mode": {"type": "boolean"},
                "num_mentors": {"type": "integer"},
                "last_updated_by_user_at": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"},
                "tier": {"type": "string", "enum": ["fresh", "legacy_alive", "independent", "legacy_dead"]}
            }
        },
        "SuggestionList": {
            "type": "object",
            "properties": {
                "solutions": {"type": "array", "items": {"$ref": "#/definitions/SuggestedSolution"}},
                "count": {"type": "integer"}
            }
        },
        "SuggestionEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/SuggestionList"}
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
