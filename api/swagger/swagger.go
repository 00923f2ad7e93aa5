package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SK Kehadiran API",
        "description": "Attendance session, report history and subject statistics service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Roster", "description": "Fixed pupil/teacher/subject/timeslot reference data"},
        {"name": "Session", "description": "The active attendance-taking session"},
        {"name": "Reports", "description": "Finalized attendance reports"},
        {"name": "Analytics", "description": "Per-subject attendance statistics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "Full roster bundle",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session": {
            "get": {
                "tags": ["Session"],
                "summary": "Current session state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Session"],
                "summary": "Set session date, teacher, subject or timeslot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Session"],
                "summary": "Discard the session and start a fresh one",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/session/pupils/{id}/toggle": {
            "post": {
                "tags": ["Session"],
                "summary": "Toggle one pupil's attendance flag",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/years/{year}": {
            "post": {
                "tags": ["Session"],
                "summary": "Mark every pupil of one year present or absent",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/YearAttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/finalize": {
            "post": {
                "tags": ["Session"],
                "summary": "Finalize the session into a stored report",
                "parameters": [
                    {"name": "reset", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "List stored reports, newest-added first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Reports"],
                "summary": "Delete the entire report history",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/reports/{id}": {
            "delete": {
                "tags": ["Reports"],
                "summary": "Delete one report by id",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/reports/{id}/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Render one report to CSV or PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/subjects": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per-subject attendance statistics",
                "parameters": [
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "month", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/subjects/export": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Render a statistics window to CSV or PDF",
                "parameters": [
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Pupil": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "year": {"type": "integer"}
            }
        },
        "Teacher": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "Report": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "date": {"type": "string"},
                "created_at": {"type": "string"},
                "teacher_id": {"type": "string"},
                "teacher_name": {"type": "string"},
                "subject": {"type": "string"},
                "timeslot": {"type": "string"},
                "attendance": {"type": "object"},
                "total_present": {"type": "integer"}
            }
        },
        "SubjectStats": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "session_count": {"type": "integer"},
                "total_present": {"type": "integer"},
                "total_possible": {"type": "integer"},
                "percentage": {"type": "integer"}
            }
        },
        "UpdateSessionRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "teacher_id": {"type": "string"},
                "subject": {"type": "string"},
                "timeslot": {"type": "string"}
            }
        },
        "YearAttendanceRequest": {
            "type": "object",
            "properties": {
                "present": {"type": "boolean"}
            },
            "required": ["present"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["format"]
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
