// Package docs registers the Swagger description served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/groups": {
            "get": {"tags": ["groups"], "summary": "List groups", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["groups"], "summary": "Create a new group", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/groups/{id}": {
            "get": {"tags": ["groups"], "summary": "Get group by ID", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["groups"], "summary": "Delete a group", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/groups/{id}/members": {
            "get": {"tags": ["groups"], "summary": "Get group members", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["groups"], "summary": "Add member to group", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/groups/{id}/members/{memberId}": {
            "delete": {"tags": ["groups"], "summary": "Remove member from group", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "memberId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/expenses": {
            "post": {"tags": ["expenses"], "summary": "Create a new expense", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/expenses/preview": {
            "post": {"tags": ["expenses"], "summary": "Preview a split", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/expenses/{id}": {
            "get": {"tags": ["expenses"], "summary": "Get expense by ID", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["expenses"], "summary": "Delete an expense", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/expenses/group/{groupId}": {
            "get": {"tags": ["expenses"], "summary": "List expenses by group", "parameters": [{"name": "groupId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/settlements": {
            "post": {"tags": ["settlements"], "summary": "Record a settlement", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/settlements/{id}": {
            "get": {"tags": ["settlements"], "summary": "Get settlement by ID", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["settlements"], "summary": "Delete a settlement", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/settlements/group/{groupId}": {
            "get": {"tags": ["settlements"], "summary": "List settlements by group", "parameters": [{"name": "groupId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/settlements/group/{groupId}/balances": {
            "get": {"tags": ["settlements"], "summary": "Get group balances", "parameters": [{"name": "groupId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/settlements/group/{groupId}/plan": {
            "get": {"tags": ["settlements"], "summary": "Get settlement plan", "parameters": [{"name": "groupId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/notifications/member/{memberId}": {
            "get": {"tags": ["notifications"], "summary": "List notifications", "parameters": [{"name": "memberId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/member/{memberId}/unread-count": {
            "get": {"tags": ["notifications"], "summary": "Count unread notifications", "parameters": [{"name": "memberId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/member/{memberId}/read-all": {
            "post": {"tags": ["notifications"], "summary": "Mark all notifications as read", "parameters": [{"name": "memberId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/{id}/read": {
            "post": {"tags": ["notifications"], "summary": "Mark notification as read", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Split Ledger API",
	Description:      "Shared expense ledger: split expenses, track balances and settle up.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
