// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {"produces": ["application/json"], "tags": ["System"], "summary": "헬스 체크",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}},
                              "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/signup": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["Auth"], "summary": "회원가입 (Signup)",
                "parameters": [{"description": "회원가입 요청 정보", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CredentialsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}},
                              "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/login": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["Auth"], "summary": "로그인 (Login)",
                "parameters": [{"description": "로그인 요청 정보", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CredentialsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LoginSuccessResponse"}},
                              "401": {"description": "인증 실패 (자격 증명 오류)", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/auth/magic-link": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["Auth"], "summary": "매직 링크 요청",
                "parameters": [{"description": "이메일", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.MagicLinkRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MagicLinkResponse"}},
                              "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/auth/verify": {
            "get": {"produces": ["application/json"], "tags": ["Auth"], "summary": "매직 링크 확인",
                "parameters": [{"type": "string", "description": "링크 토큰", "name": "token", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.VerifyResponse"}},
                              "410": {"description": "만료되었거나 이미 사용된 링크", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/auth/signout": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["Auth"], "summary": "로그아웃",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}},
                              "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/api/profile": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["API (Protected)"], "summary": "프로필 조회 (Profile)",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ProfileResponse"}},
                              "401": {"description": "인증 토큰 누락 또는 만료", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/api/getSavedNames": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["Names"], "summary": "저장한 이름 목록",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.SavedName"}}},
                              "401": {"description": "인증 실패", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/api/saveName": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["Names"], "summary": "이름 저장",
                "parameters": [{"description": "저장할 이름", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SaveNameRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SavedName"}},
                              "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/api/generateNames": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["Names"], "summary": "이름 생성",
                "parameters": [{"description": "프롬프트", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GenerateRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.GenerateResponse"}},
                              "502": {"description": "LLM 호출 실패 또는 잘못된 응답", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/api/pronounce/{name}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["audio/mpeg"], "tags": ["Names"], "summary": "이름 발음 듣기",
                "parameters": [{"type": "string", "description": "이름", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "MP3 오디오", "schema": {"type": "file"}},
                              "503": {"description": "TTS 비활성화", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        },
        "/ws/session": {
            "get": {"tags": ["WebSocket (Session)"], "summary": "세션 이벤트 WebSocket",
                "parameters": [{"type": "string", "description": "매직 링크 요청 ID", "name": "request_id", "in": "query"},
                               {"type": "string", "description": "request_id와 함께 필수", "name": "code_verifier", "in": "query"},
                               {"type": "string", "description": "JWT 토큰", "name": "token", "in": "query"}],
                "responses": {"101": {"description": "101 Switching Protocols", "schema": {"type": "string"}},
                              "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}}
        }
    },
    "definitions": {
        "handler.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string", "example": "Invalid request"}}},
        "handler.SuccessResponse": {"type": "object", "properties": {"message": {"type": "string", "example": "User created successfully"}}},
        "handler.CredentialsRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.LoginSuccessResponse": {"type": "object", "properties": {"token": {"type": "string"}}},
        "handler.MagicLinkRequest": {"type": "object", "properties": {"email": {"type": "string"}, "code_challenge": {"type": "string"}}},
        "handler.MagicLinkResponse": {"type": "object", "properties": {"request_id": {"type": "string"}}},
        "handler.VerifyResponse": {"type": "object", "properties": {"message": {"type": "string"}, "token": {"type": "string"}}},
        "handler.ProfileResponse": {"type": "object", "properties": {"id": {"type": "integer"}, "email": {"type": "string"}}},
        "handler.SaveNameRequest": {"type": "object", "properties": {"name": {"type": "string", "example": "Aurora"}}},
        "handler.GenerateRequest": {"type": "object", "properties": {"prompt": {"type": "string"}, "response_type": {"type": "string", "example": "json"}}},
        "handler.GenerateResponse": {"type": "object", "properties": {"names": {"type": "array", "items": {"type": "string"}}}},
        "models.SavedName": {"type": "object", "properties": {"name": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Name My Child API",
	Description:      "Baby-name suggestions and per-user saved names.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
