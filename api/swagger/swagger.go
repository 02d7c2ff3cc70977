package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Bookly API",
        "description": "Book catalogue with reviews and tags",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Signup, login and token lifecycle"},
        {"name": "Users", "description": "Account management"},
        {"name": "Books", "description": "Book catalogue"},
        {"name": "Reviews", "description": "Book reviews"},
        {"name": "Tags", "description": "Tag management"}
    ],
    "paths": {
        "/health": {"get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"summary": "Readiness probe", "responses": {"200": {"description": "Ready"}, "503": {"description": "Dependency down"}}}},
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh_token": {"get": {"tags": ["Authentication"], "summary": "Refresh access token", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Refresh token expired or revoked"}}}},
        "/auth/logout": {"get": {"tags": ["Authentication"], "summary": "Revoke access token", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"tags": ["Authentication"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/users": {"get": {"tags": ["Users"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Admin only"}}}},
        "/users/me": {"patch": {"tags": ["Users"], "summary": "Update own profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/users/{id}/role": {"patch": {"tags": ["Users"], "summary": "Change role", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Admin only"}}}},
        "/books": {
            "get": {
                "tags": ["Books"],
                "summary": "List books",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Books"],
                "summary": "Create book",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/books/my_books": {"get": {"tags": ["Books"], "summary": "List own books", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/books/export": {"get": {"tags": ["Books"], "summary": "Export own books", "produces": ["text/csv", "application/pdf"], "security": [{"BearerAuth": []}], "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}], "responses": {"200": {"description": "File"}}}},
        "/books/{id}": {
            "get": {"tags": ["Books"], "summary": "Get book", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "patch": {"tags": ["Books"], "summary": "Update book", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not the owner"}}},
            "delete": {"tags": ["Books"], "summary": "Delete book", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "403": {"description": "Not the owner"}}}
        },
        "/reviews": {"get": {"tags": ["Reviews"], "summary": "List reviews", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/reviews/book/{book_id}": {
            "get": {"tags": ["Reviews"], "summary": "Reviews for a book", "security": [{"BearerAuth": []}], "parameters": [{"name": "book_id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Reviews"], "summary": "Review a book", "security": [{"BearerAuth": []}], "parameters": [{"name": "book_id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReviewRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/reviews/update/{id}": {"patch": {"tags": ["Reviews"], "summary": "Update own review", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not the author"}}}},
        "/reviews/delete/{id}": {"delete": {"tags": ["Reviews"], "summary": "Delete own review", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "403": {"description": "Not the author"}}}},
        "/tags": {
            "get": {"tags": ["Tags"], "summary": "List tags", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Tags"], "summary": "Create tags", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/TagName"}}}], "responses": {"201": {"description": "Created"}}}
        },
        "/tags/assign/{book_id}": {"post": {"tags": ["Tags"], "summary": "Tag a book", "security": [{"BearerAuth": []}], "parameters": [{"name": "book_id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/TagName"}}}], "responses": {"200": {"description": "OK"}, "409": {"description": "Already assigned"}}}},
        "/tags/{name}/books": {"get": {"tags": ["Tags"], "summary": "Books carrying a tag", "security": [{"BearerAuth": []}], "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/tags/{name}": {"delete": {"tags": ["Tags"], "summary": "Delete tag", "security": [{"BearerAuth": []}], "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}}
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "firstname": {"type": "string"},
                "lastname": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8, "maxLength": 30}
            },
            "required": ["username", "firstname", "lastname", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateBookRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "author": {"type": "string"},
                "publisher": {"type": "string"},
                "page_count": {"type": "integer"},
                "language": {"type": "string"},
                "published_date": {"type": "string", "format": "date"}
            },
            "required": ["title", "author", "publisher", "page_count", "language", "published_date"]
        },
        "CreateReviewRequest": {
            "type": "object",
            "properties": {
                "review_text": {"type": "string"},
                "rating": {"type": "number", "minimum": 0, "maximum": 5}
            },
            "required": ["review_text", "rating"]
        },
        "TagName": {
            "type": "object",
            "properties": {"name": {"type": "string"}},
            "required": ["name"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
