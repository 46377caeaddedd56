package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hubinity API",
        "description": "Task marketplace backend: submissions, review workflow, certificates, notifications",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Workflow", "description": "Submission and review transitions"},
        {"name": "Tasks", "description": "Task creation and listings"},
        {"name": "Dashboards", "description": "Aggregated activity stats"},
        {"name": "Certificates", "description": "Completion certificates"},
        {"name": "Notifications", "description": "Inbox reads"},
        {"name": "Auth", "description": "Authenticated caller profile"}
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
                "summary": "Readiness check (verifies the database connection)",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user profile",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/student/tasks/all": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Browse tasks",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "startup", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/tasks/{taskId}/submit-link": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Submit a work link for a task",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubmitLinkResponse"}},
                    "400": {"description": "Validation failure or duplicate submission"},
                    "404": {"description": "Task not found"}
                }
            }
        },
        "/student/dashboard": {
            "get": {
                "tags": ["Dashboards"],
                "summary": "Student dashboard: activity stats plus the student's tasks",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/certificates": {
            "get": {
                "tags": ["Certificates"],
                "summary": "List the student's certificates with signed download links",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/certificates/{id}/download": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Download an owned certificate document",
                "security": [{"Bearer": []}],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF stream"},
                    "403": {"description": "Certificate belongs to another student"},
                    "404": {"description": "Certificate not found"}
                }
            }
        },
        "/certificates/download/{token}": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Download a certificate via a signed link",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF stream"},
                    "403": {"description": "Invalid or expired link"}
                }
            }
        },
        "/student/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List the caller's notifications, newest first",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/notifications/{id}/read": {
            "patch": {
                "tags": ["Notifications"],
                "summary": "Mark one of the caller's notifications as read",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Marked"},
                    "404": {"description": "Notification not found"}
                }
            }
        },
        "/startup/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List the startup's own tasks with their submissions",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Post a new task",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failure"}
                }
            }
        },
        "/startup/tasks/{taskId}": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Get one of the startup's tasks",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Task belongs to a different startup"},
                    "404": {"description": "Task not found"}
                }
            }
        },
        "/startup/tasks/{taskId}/review": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Move a pending submission to under-review",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StartReviewResponse"}},
                    "403": {"description": "Task belongs to a different startup"},
                    "404": {"description": "Task or submission not found"},
                    "409": {"description": "Submission already reviewed"}
                }
            }
        },
        "/startup/tasks/{taskId}/approve": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Approve or reject a submission",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReviewResponse"}},
                    "403": {"description": "Task belongs to a different startup"},
                    "404": {"description": "Task or submission not found"},
                    "409": {"description": "Submission already reviewed"}
                }
            }
        },
        "/startup/dashboard": {
            "get": {
                "tags": ["Dashboards"],
                "summary": "Startup dashboard stats",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "SubmitLinkRequest": {
            "type": "object",
            "required": ["link"],
            "properties": {
                "link": {"type": "string"}
            }
        },
        "SubmitLinkResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "taskId": {"type": "string"}
            }
        },
        "StartReviewRequest": {
            "type": "object",
            "required": ["studentId"],
            "properties": {
                "studentId": {"type": "string"}
            }
        },
        "StartReviewResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "ReviewRequest": {
            "type": "object",
            "required": ["studentId"],
            "properties": {
                "studentId": {"type": "string"},
                "approve": {"type": "boolean"},
                "reviewNotes": {"type": "string"}
            }
        },
        "ReviewResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "taskId": {"type": "string"},
                "studentId": {"type": "string"}
            }
        },
        "CreateTaskRequest": {
            "type": "object",
            "required": ["title", "description", "category", "workType", "skills", "deadline"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "workType": {"type": "string", "enum": ["technical", "non-technical"]},
                "skills": {"type": "array", "items": {"type": "string"}},
                "deadline": {"type": "string", "format": "date-time"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "assignedStudent": {"type": "string"}
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
