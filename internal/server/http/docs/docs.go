// Package docs holds the OpenAPI document served under /swagger/.
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
        "/api/games": {
            "post": {
                "produces": ["application/json"],
                "summary": "Start a new game",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/GameResponse"}}
                }
            }
        },
        "/api/games/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Current position, legal moves and outcome",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GameResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/games/{id}/moves": {
            "get": {
                "produces": ["application/json"],
                "summary": "Move history in position order",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/HistoryResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Play a move directly",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "move", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RoundResponse"}},
                    "400": {"description": "Illegal move", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Game over", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/games/{id}/votes": {
            "get": {
                "produces": ["application/json"],
                "summary": "Ballots of the open round, counted",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TallyResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Vote for the next move",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "move", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveDTO"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/VoteResponse"}},
                    "400": {"description": "Illegal move", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Game over", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/games/{id}/rounds": {
            "post": {
                "produces": ["application/json"],
                "summary": "Close the open round now",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RoundResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Game over", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "MoveDTO": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "e2"},
                "end": {"type": "string", "example": "e4"},
                "promotion": {"type": "string", "example": "queen"},
                "tag": {"type": "string", "example": "castling"}
            }
        },
        "RecordedMoveDTO": {
            "type": "object",
            "properties": {
                "position": {"type": "integer"},
                "move": {"$ref": "#/definitions/MoveDTO"}
            }
        },
        "OutcomeDTO": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["ongoing", "checkmate", "stalemate", "draw"]},
                "winner": {"type": "string", "enum": ["white", "black"]},
                "reason": {"type": "string", "enum": ["fifty-move", "insufficient-material"]}
            }
        },
        "GameResponse": {
            "type": "object",
            "properties": {
                "game_id": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "last_played": {"type": "string", "format": "date-time"},
                "over": {"type": "boolean"},
                "vote_window_seconds": {"type": "integer"},
                "to_move": {"type": "string"},
                "move_number": {"type": "integer"},
                "board": {"type": "array", "items": {"type": "string"}},
                "hash": {"type": "string"},
                "legal_moves": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "outcome": {"$ref": "#/definitions/OutcomeDTO"}
            }
        },
        "HistoryResponse": {
            "type": "object",
            "properties": {
                "game_id": {"type": "string"},
                "moves": {"type": "array", "items": {"$ref": "#/definitions/RecordedMoveDTO"}}
            }
        },
        "VoteResponse": {
            "type": "object",
            "properties": {
                "vote_id": {"type": "string"},
                "game_id": {"type": "string"},
                "move": {"$ref": "#/definitions/MoveDTO"}
            }
        },
        "VoteCountDTO": {
            "type": "object",
            "properties": {
                "move": {"$ref": "#/definitions/MoveDTO"},
                "count": {"type": "integer"}
            }
        },
        "TallyResponse": {
            "type": "object",
            "properties": {
                "game_id": {"type": "string"},
                "votes": {"type": "array", "items": {"$ref": "#/definitions/VoteCountDTO"}}
            }
        },
        "RoundResponse": {
            "type": "object",
            "properties": {
                "game_id": {"type": "string"},
                "skipped": {"type": "boolean"},
                "winner": {"$ref": "#/definitions/RecordedMoveDTO"},
                "votes": {"type": "array", "items": {"$ref": "#/definitions/VoteCountDTO"}},
                "outcome": {"$ref": "#/definitions/OutcomeDTO"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
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
	Title:            "crowdchess API",
	Description:      "Crowd-voted chess: every round the most popular legal move is played.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
