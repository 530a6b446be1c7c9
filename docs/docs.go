// Package docs expone la especificación OpenAPI servida en /swagger/.
// Se regenera con: swag init -g cmd/api/main.go -o docs
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
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/users": {
            "post": {
                "tags": ["users"],
                "summary": "Registrar usuario",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/users.registerUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/users.userResponse"}},
                    "400": {"description": "invalid json / invalid input"},
                    "409": {"description": "username already taken"}
                }
            }
        },
        "/users/{userID}": {
            "get": {
                "tags": ["users"],
                "summary": "Obtener usuario",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "userID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.userResponse"}},
                    "404": {"description": "user not found"}
                }
            }
        },
        "/pets": {
            "get": {
                "tags": ["pets"],
                "summary": "Listar mascotas (reconciliadas)",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "query", "name": "type"},
                    {"type": "string", "in": "query", "name": "owner_user_id"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.petResponse"}}}
                }
            },
            "post": {
                "tags": ["pets"],
                "summary": "Crear mascota",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.createPetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.petResponse"}},
                    "400": {"description": "invalid input"},
                    "401": {"description": "unauthorized"},
                    "404": {"description": "owner not found"}
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "tags": ["pets"],
                "summary": "Obtener mascota (aplica decay)",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.petResponse"}},
                    "404": {"description": "not found"}
                }
            },
            "patch": {
                "tags": ["pets"],
                "summary": "Editar perfil",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.updatePetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.petResponse"}},
                    "400": {"description": "invalid input"},
                    "401": {"description": "unauthorized"},
                    "403": {"description": "forbidden"},
                    "404": {"description": "not found"},
                    "409": {"description": "concurrent modification"}
                }
            },
            "delete": {
                "tags": ["pets"],
                "summary": "Eliminar mascota e historial",
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "unauthorized"},
                    "403": {"description": "forbidden"},
                    "404": {"description": "not found"}
                }
            }
        },
        "/pets/{petID}/interactions": {
            "get": {
                "tags": ["interactions"],
                "summary": "Historial de interacciones",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true},
                    {"type": "string", "in": "query", "name": "kind"},
                    {"type": "integer", "in": "query", "name": "limit"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.interactionResponse"}}},
                    "400": {"description": "invalid kind / limit"},
                    "404": {"description": "not found"}
                }
            },
            "post": {
                "tags": ["interactions"],
                "summary": "Interactuar con la mascota",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.interactRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.interactResponse"}},
                    "401": {"description": "unauthorized"},
                    "403": {"description": "forbidden"},
                    "404": {"description": "not found"},
                    "409": {"description": "concurrent modification"}
                }
            }
        },
        "/pets/{petID}/feed": {
            "post": {
                "tags": ["interactions"],
                "summary": "Atajos de interacción",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.interactResponse"}},
                    "401": {"description": "unauthorized"},
                    "403": {"description": "forbidden"},
                    "404": {"description": "pet not found"}
                }
            }
        },
        "/pets/{petID}/heal": {
            "post": {
                "tags": ["interactions"],
                "summary": "Atajos de interacción",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.interactResponse"}},
                    "401": {"description": "unauthorized"},
                    "403": {"description": "forbidden"},
                    "404": {"description": "pet not found"}
                }
            }
        },
        "/pets/{petID}/pet": {
            "post": {
                "tags": ["interactions"],
                "summary": "Atajos de interacción",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.interactResponse"}},
                    "401": {"description": "unauthorized"},
                    "403": {"description": "forbidden"},
                    "404": {"description": "pet not found"}
                }
            }
        },
        "/pets/{petID}/play": {
            "post": {
                "tags": ["interactions"],
                "summary": "Atajos de interacción",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.interactResponse"}},
                    "401": {"description": "unauthorized"},
                    "403": {"description": "forbidden"},
                    "404": {"description": "pet not found"}
                }
            }
        },
        "/pets/{petID}/stats": {
            "get": {
                "tags": ["interactions"],
                "summary": "Resumen del historial",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.statsResponse"}},
                    "404": {"description": "not found"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "users.registerUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "users.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "pets.createPetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "image_url": {"type": "string"}
            }
        },
        "pets.updatePetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "image_url": {"type": "string"}
            }
        },
        "pets.interactRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "FEED"}
            }
        },
        "pets.vitalsResponse": {
            "type": "object",
            "properties": {
                "hunger": {"type": "integer"},
                "happiness": {"type": "integer"},
                "health": {"type": "integer"},
                "energy": {"type": "integer"}
            }
        },
        "pets.petResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_user_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "image_url": {"type": "string"},
                "vitals": {"$ref": "#/definitions/pets.vitalsResponse"},
                "last_interaction_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "pets.interactionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "pet_id": {"type": "string"},
                "kind": {"type": "string"},
                "magnitude": {"type": "integer"},
                "description": {"type": "string"},
                "occurred_at": {"type": "string"},
                "actor_user_id": {"type": "string"}
            }
        },
        "pets.interactResponse": {
            "type": "object",
            "properties": {
                "pet": {"$ref": "#/definitions/pets.petResponse"},
                "interaction": {"$ref": "#/definitions/pets.interactionResponse"}
            }
        },
        "pets.statsResponse": {
            "type": "object",
            "properties": {
                "pet_id": {"type": "string"},
                "vitals": {"$ref": "#/definitions/pets.vitalsResponse"},
                "total_interactions": {"type": "integer"},
                "by_kind": {"type": "object", "additionalProperties": {"type": "integer"}},
                "magnitude_by_kind": {"type": "object", "additionalProperties": {"type": "integer"}},
                "first_interaction_at": {"type": "string"},
                "last_interaction_at": {"type": "string"},
                "mean_hours_between": {"type": "number"},
                "stddev_hours_between": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Petworld API",
	Description:      "Mascotas virtuales: vitalidad con decay por tiempo, interacciones e historial.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
