// Package docs registers the OpenAPI description served under /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Coleta Calendar API",
        "description": "Calendário semanal de coleta de lixo de São João de Ver.",
        "version": "1.0"
    },
    "basePath": "/",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/api/semana": {
            "get": {
                "tags": ["coletas"],
                "summary": "Collection schedule of the whole week",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/week.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/dia/{nome}": {
            "get": {
                "tags": ["coletas"],
                "summary": "Collection of one weekday",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "nome", "in": "path", "required": true, "description": "weekday, e.g. terça-feira"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/day.NotFoundResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["coletas"],
                "summary": "Replace the collection of one weekday",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "nome", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.DummyColeta"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/day.NotFoundResponse"}}
                }
            }
        },
        "/api/calendario.pdf": {
            "get": {
                "tags": ["calendar"],
                "summary": "Download the weekly calendar as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/emails/subscribe": {
            "post": {
                "tags": ["emails"],
                "summary": "Subscribe an email to the calendar",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.DummySubscribe"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/emails/unsubscribe": {
            "get": {
                "tags": ["emails"],
                "summary": "Cancel a subscription with its token",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/unsubscribe.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/emails/send-calendar": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["emails"],
                "summary": "Render the calendar and email it to every subscriber",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BroadcastResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/emails/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["emails"],
                "summary": "Mailing list counters",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SubscriptionStats"}}
                }
            }
        },
        "/api/emails/template": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["emails"],
                "summary": "Current email template",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.EmailTemplate"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["emails"],
                "summary": "Replace the email template",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.EmailTemplate"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange admin credentials for a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.DummyLogin"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/login.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness and data checks",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Report"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/health.Report"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"type": "string"},
                "details": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "week.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Coleta"}},
                "total": {"type": "integer"},
                "timestamp": {"type": "string"}
            }
        },
        "day.NotFoundResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "availableDays": {"type": "array", "items": {"type": "string"}}
            }
        },
        "unsubscribe.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "login.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "token": {"type": "string"}
            }
        },
        "health.Report": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["healthy", "degraded", "unhealthy"]},
                "message": {"type": "string"},
                "environment": {"type": "string"},
                "checks": {"type": "object"},
                "timestamp": {"type": "string"}
            }
        },
        "models.Coleta": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "dia_semana": {"type": "string"},
                "tipo_coleta": {"type": "string"},
                "observacao": {"type": "string", "x-nullable": true},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.DummyColeta": {
            "type": "object",
            "required": ["tipo_coleta"],
            "properties": {
                "tipo_coleta": {"type": "string"},
                "observacao": {"type": "string"}
            }
        },
        "models.DummySubscribe": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "models.DummyLogin": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.SubscriptionStats": {
            "type": "object",
            "properties": {
                "activeSubscriptions": {"type": "integer"},
                "totalSubscriptions": {"type": "integer"},
                "inactiveSubscriptions": {"type": "integer"}
            }
        },
        "models.EmailTemplate": {
            "type": "object",
            "required": ["subject"],
            "properties": {
                "subject": {"type": "string"},
                "greeting": {"type": "string"},
                "main_message": {"type": "string"},
                "pdf_description": {"type": "string"},
                "features": {"type": "array", "items": {"type": "string"}},
                "closing_message": {"type": "string"},
                "signature": {"type": "string"},
                "unsubscribe_message": {"type": "string"},
                "footer_message": {"type": "string"}
            }
        },
        "models.RecipientResult": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "success": {"type": "boolean"},
                "messageId": {"type": "string"},
                "error": {"type": "string"},
                "warning": {"type": "string"}
            }
        },
        "models.BroadcastResult": {
            "type": "object",
            "properties": {
                "pdfGenerated": {"type": "boolean"},
                "emailsSent": {"type": "integer"},
                "emailsFailed": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.RecipientResult"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Coleta Calendar API",
	Description:      "Calendário semanal de coleta de lixo de São João de Ver.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
