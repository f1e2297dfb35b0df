// Package docs registers the OpenAPI description served by gin-swagger.
//
// Generated from the handler godoc annotations. Regenerate with
// `swag init -g cmd/api/main.go -o docs` after changing them; do not edit by hand.
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
        "/communities": {
            "get": {
                "operationId": "listMyCommunities",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ListCommunitiesResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "List the caller's communities",
                "tags": [
                    "Communities"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Names are unique case-insensitively; the category defaults to general.",
                "operationId": "createCommunity",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Community",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.CreateCommunityRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.Community"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Name taken",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Create a community",
                "tags": [
                    "Communities"
                ]
            }
        },
        "/communities/categories": {
            "get": {
                "operationId": "communityCategories",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.CategoriesResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Community categories with counts",
                "tags": [
                    "Communities"
                ]
            }
        },
        "/communities/discover": {
            "get": {
                "description": "Public communities the caller has not joined, largest first.",
                "operationId": "discoverCommunities",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "default": 10,
                        "description": "Maximum results",
                        "in": "query",
                        "maximum": 50,
                        "minimum": 1,
                        "name": "limit",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ListCommunitiesResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Recommend communities",
                "tags": [
                    "Communities"
                ]
            }
        },
        "/communities/{id}": {
            "get": {
                "operationId": "getCommunity",
                "parameters": [
                    {
                        "description": "Community ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Community"
                        }
                    },
                    "404": {
                        "description": "Community not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Get a community",
                "tags": [
                    "Communities"
                ]
            }
        },
        "/communities/{id}/join": {
            "post": {
                "description": "Staff members receive new-community-member.",
                "operationId": "joinCommunity",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Community ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.CommunityMember"
                        }
                    },
                    "404": {
                        "description": "Community not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Already a member",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Join a community",
                "tags": [
                    "Communities"
                ]
            }
        },
        "/communities/{id}/leave": {
            "post": {
                "description": "The creator cannot leave.",
                "operationId": "leaveCommunity",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Community ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "403": {
                        "description": "Creator cannot leave",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not a member",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Leave a community",
                "tags": [
                    "Communities"
                ]
            }
        },
        "/communities/{id}/posts": {
            "get": {
                "description": "Private communities require membership. Supports weak ETag via If-None-Match.",
                "operationId": "listCommunityPosts",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Return 304 if ETag matches",
                        "example": "W/\"abc123\"",
                        "in": "header",
                        "name": "If-None-Match",
                        "type": "string"
                    },
                    {
                        "description": "Community ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": "newest",
                        "description": "Order",
                        "in": "query",
                        "name": "sort",
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {
                            "ETag": {
                                "description": "Weak ETag for current result",
                                "type": "string"
                            }
                        },
                        "schema": {
                            "$ref": "#/definitions/handlers.ListTweetsResponse"
                        }
                    },
                    "304": {
                        "description": "Not Modified",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "400": {
                        "description": "Invalid sort",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Private community",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Community not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Community posts (paginated)",
                "tags": [
                    "Communities"
                ]
            }
        },
        "/conversations": {
            "get": {
                "description": "Returns the caller's conversations, most recently active first. Supports weak ETag via If-None-Match.",
                "operationId": "listConversations",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Return 304 if ETag matches",
                        "example": "W/\"abc123\"",
                        "in": "header",
                        "name": "If-None-Match",
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {
                            "ETag": {
                                "description": "Weak ETag for current result",
                                "type": "string"
                            }
                        },
                        "schema": {
                            "$ref": "#/definitions/handlers.ListConversationsResponse"
                        }
                    },
                    "304": {
                        "description": "Not Modified",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "List conversations (paginated)",
                "tags": [
                    "Conversations"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Resolves the direct conversation with another user (creating it once) or creates a group.",
                "operationId": "createConversation",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Conversation payload",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.CreateConversationRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Direct conversation",
                        "schema": {
                            "$ref": "#/definitions/domain.Conversation"
                        }
                    },
                    "201": {
                        "description": "Group conversation",
                        "schema": {
                            "$ref": "#/definitions/domain.Conversation"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Start a conversation",
                "tags": [
                    "Conversations"
                ]
            }
        },
        "/conversations/{id}": {
            "get": {
                "operationId": "getConversation",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Conversation ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Conversation"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Conversation not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Get a conversation",
                "tags": [
                    "Conversations"
                ]
            }
        },
        "/conversations/{id}/archive": {
            "patch": {
                "consumes": [
                    "application/json"
                ],
                "description": "Conversations are never deleted; archiving hides them from nothing but client views.",
                "operationId": "archiveConversation",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Conversation ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Archive flag",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.ArchiveConversationRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Conversation"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Conversation not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Archive or unarchive a conversation",
                "tags": [
                    "Conversations"
                ]
            }
        },
        "/conversations/{id}/messages": {
            "get": {
                "description": "Returns a page of visible messages in chronological order and marks the conversation read for the caller. Pages count from the newest message. Supports weak ETag via If-None-Match.",
                "operationId": "listMessages",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Return 304 if ETag matches",
                        "example": "W/\"abc123\"",
                        "in": "header",
                        "name": "If-None-Match",
                        "type": "string"
                    },
                    {
                        "description": "Conversation ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {
                            "ETag": {
                                "description": "Weak ETag for current result",
                                "type": "string"
                            }
                        },
                        "schema": {
                            "$ref": "#/definitions/handlers.ListMessagesResponse"
                        }
                    },
                    "304": {
                        "description": "Not Modified",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Conversation not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "List messages in a conversation",
                "tags": [
                    "Messages"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Appends a message to the conversation, bumps the other participants' unread counters and emits new-message. Supports idempotency via the Idempotency-Key header (same key → same result).",
                "operationId": "sendMessage",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Idempotency key for safe retries (UUID recommended)",
                        "example": "7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab",
                        "in": "header",
                        "name": "Idempotency-Key",
                        "type": "string"
                    },
                    {
                        "description": "Conversation ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Message payload",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.SendMessageRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created message",
                        "schema": {
                            "$ref": "#/definitions/handlers.MessageResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid message",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Conversation not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Send a message",
                "tags": [
                    "Messages"
                ]
            }
        },
        "/conversations/{id}/read": {
            "post": {
                "description": "Records read receipts for every unread message from others and resets the caller's unread counter.",
                "operationId": "markConversationRead",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Conversation ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.MarkReadResponse"
                        }
                    },
                    "404": {
                        "description": "Conversation not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Mark a conversation read",
                "tags": [
                    "Messages"
                ]
            }
        },
        "/messages/{id}": {
            "delete": {
                "description": "scope=self hides the message for the caller; scope=everyone (sender only) tombstones it for all.",
                "operationId": "deleteMessage",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Message ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": "self",
                        "description": "self or everyone",
                        "in": "query",
                        "name": "scope",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "400": {
                        "description": "Invalid scope",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Not the sender",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Message not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Delete a message",
                "tags": [
                    "Messages"
                ]
            },
            "get": {
                "description": "Deleted-for-everyone messages are returned redacted.",
                "operationId": "getMessage",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Message ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.MessageResponse"
                        }
                    },
                    "404": {
                        "description": "Message not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Get a message",
                "tags": [
                    "Messages"
                ]
            },
            "patch": {
                "consumes": [
                    "application/json"
                ],
                "description": "Only the sender may edit a live message.",
                "operationId": "editMessage",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Message ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "New content",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.EditMessageRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.MessageResponse"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Not the sender",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Message not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Edit a message",
                "tags": [
                    "Messages"
                ]
            }
        },
        "/messages/{id}/reactions": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Adds the caller's emoji reaction when absent, removes it when present.",
                "operationId": "toggleReaction",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Message ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Emoji",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.ReactionRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ReactionResult"
                        }
                    },
                    "400": {
                        "description": "Invalid emoji",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Message not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Toggle a reaction",
                "tags": [
                    "Messages"
                ]
            }
        },
        "/notifications": {
            "get": {
                "description": "Returns the caller's notifications, newest first, each with its sender and a relative time.",
                "operationId": "listNotifications",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Only unread",
                        "in": "query",
                        "name": "unread",
                        "type": "boolean"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ListNotificationsResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "List notifications",
                "tags": [
                    "Notifications"
                ]
            }
        },
        "/notifications/counts": {
            "get": {
                "operationId": "notificationCounts",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.NotificationCountsResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Notification counters",
                "tags": [
                    "Notifications"
                ]
            }
        },
        "/notifications/read-all": {
            "put": {
                "operationId": "markAllNotificationsRead",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.MarkAllReadResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Mark every notification read",
                "tags": [
                    "Notifications"
                ]
            }
        },
        "/notifications/{id}": {
            "delete": {
                "operationId": "deleteNotification",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Notification ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "403": {
                        "description": "Belongs to another user",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Notification not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Delete a notification",
                "tags": [
                    "Notifications"
                ]
            }
        },
        "/notifications/{id}/read": {
            "put": {
                "operationId": "markNotificationRead",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Notification ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Notification"
                        }
                    },
                    "403": {
                        "description": "Belongs to another user",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Notification not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Mark a notification read",
                "tags": [
                    "Notifications"
                ]
            }
        },
        "/stream": {
            "get": {
                "description": "Server-Sent Events. Each event's name is the realtime event (new-message, messages-read, ...) and its data the JSON payload.",
                "operationId": "stream",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "collectionFormat": "multi",
                        "description": "Community rooms to join",
                        "in": "query",
                        "items": {
                            "type": "string"
                        },
                        "name": "community",
                        "type": "array"
                    }
                ],
                "produces": [
                    "text/event-stream"
                ],
                "responses": {
                    "200": {
                        "description": "event stream",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "Stream unavailable",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Subscribe to realtime events",
                "tags": [
                    "Realtime"
                ]
            }
        },
        "/tweets": {
            "get": {
                "description": "Live tweets outside private communities, newest first. Supports weak ETag via If-None-Match.",
                "operationId": "listTweets",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Return 304 if ETag matches",
                        "example": "W/\"abc123\"",
                        "in": "header",
                        "name": "If-None-Match",
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {
                            "ETag": {
                                "description": "Weak ETag for current result",
                                "type": "string"
                            }
                        },
                        "schema": {
                            "$ref": "#/definitions/handlers.ListTweetsResponse"
                        }
                    },
                    "304": {
                        "description": "Not Modified",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Public timeline (paginated)",
                "tags": [
                    "Tweets"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Replies notify the parent author, quotes the quoted author, and @mentions each mentioned user.",
                "operationId": "createTweet",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Tweet",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.CreateTweetRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.Tweet"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Not a community member",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Referenced tweet not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Post a tweet",
                "tags": [
                    "Tweets"
                ]
            }
        },
        "/tweets/user/{username}": {
            "get": {
                "operationId": "listUserTweets",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Return 304 if ETag matches",
                        "example": "W/\"abc123\"",
                        "in": "header",
                        "name": "If-None-Match",
                        "type": "string"
                    },
                    {
                        "description": "Username",
                        "example": "alice",
                        "in": "path",
                        "name": "username",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {
                            "ETag": {
                                "description": "Weak ETag for current result",
                                "type": "string"
                            }
                        },
                        "schema": {
                            "$ref": "#/definitions/handlers.UserTweetsResponse"
                        }
                    },
                    "304": {
                        "description": "Not Modified",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "A user's tweets (paginated)",
                "tags": [
                    "Tweets"
                ]
            }
        },
        "/tweets/{id}": {
            "delete": {
                "operationId": "deleteTweet",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Tweet ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "403": {
                        "description": "Not the author",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Tweet not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Delete a tweet",
                "tags": [
                    "Tweets"
                ]
            },
            "get": {
                "operationId": "getTweet",
                "parameters": [
                    {
                        "description": "Tweet ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Tweet"
                        }
                    },
                    "404": {
                        "description": "Tweet not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Get a tweet",
                "tags": [
                    "Tweets"
                ]
            }
        },
        "/tweets/{id}/like": {
            "post": {
                "operationId": "likeTweet",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Tweet ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ToggleResult"
                        }
                    },
                    "404": {
                        "description": "Tweet not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Like or unlike a tweet",
                "tags": [
                    "Tweets"
                ]
            }
        },
        "/tweets/{id}/retweet": {
            "post": {
                "operationId": "retweetTweet",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Tweet ID (UUID)",
                        "format": "uuid",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ToggleResult"
                        }
                    },
                    "404": {
                        "description": "Tweet not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Retweet or undo a retweet",
                "tags": [
                    "Tweets"
                ]
            }
        },
        "/users": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Usernames are lower-cased and must be 3-30 characters of a-z, 0-9 or _.",
                "operationId": "createUser",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Profile",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.CreateUserRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.User"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Username taken",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Register a profile",
                "tags": [
                    "Users"
                ]
            }
        },
        "/users/profile": {
            "put": {
                "consumes": [
                    "application/json"
                ],
                "description": "Websites and avatar URLs must be absolute http(s) URLs.",
                "operationId": "updateProfile",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Changed fields",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.UpdateProfileRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.User"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Profile not registered",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Update the caller's profile",
                "tags": [
                    "Users"
                ]
            }
        },
        "/users/{username}": {
            "get": {
                "operationId": "getProfile",
                "parameters": [
                    {
                        "description": "Username",
                        "example": "alice",
                        "in": "path",
                        "name": "username",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.Profile"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Get a profile",
                "tags": [
                    "Users"
                ]
            }
        },
        "/users/{username}/follow": {
            "post": {
                "description": "A new follow notifies the followee.",
                "operationId": "toggleFollow",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Username to follow",
                        "example": "bob",
                        "in": "path",
                        "name": "username",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.FollowResult"
                        }
                    },
                    "400": {
                        "description": "Cannot follow yourself",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Follow or unfollow a user",
                "tags": [
                    "Users"
                ]
            }
        },
        "/users/{username}/followers": {
            "get": {
                "operationId": "listFollowers",
                "parameters": [
                    {
                        "description": "Return 304 if ETag matches",
                        "example": "W/\"abc123\"",
                        "in": "header",
                        "name": "If-None-Match",
                        "type": "string"
                    },
                    {
                        "description": "Username",
                        "example": "alice",
                        "in": "path",
                        "name": "username",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {
                            "ETag": {
                                "description": "Weak ETag for current result",
                                "type": "string"
                            }
                        },
                        "schema": {
                            "$ref": "#/definitions/handlers.ListUsersResponse"
                        }
                    },
                    "304": {
                        "description": "Not Modified",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Followers of a user (paginated)",
                "tags": [
                    "Users"
                ]
            }
        },
        "/users/{username}/following": {
            "get": {
                "operationId": "listFollowing",
                "parameters": [
                    {
                        "description": "Return 304 if ETag matches",
                        "example": "W/\"abc123\"",
                        "in": "header",
                        "name": "If-None-Match",
                        "type": "string"
                    },
                    {
                        "description": "Username",
                        "example": "alice",
                        "in": "path",
                        "name": "username",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {
                            "ETag": {
                                "description": "Weak ETag for current result",
                                "type": "string"
                            }
                        },
                        "schema": {
                            "$ref": "#/definitions/handlers.ListUsersResponse"
                        }
                    },
                    "304": {
                        "description": "Not Modified",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Users a user follows (paginated)",
                "tags": [
                    "Users"
                ]
            }
        }
    },
    "definitions": {
        "domain.CategoryCount": {
            "properties": {
                "community_count": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "total_members": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "domain.Community": {
            "properties": {
                "category": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "creator_id": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "is_private": {
                    "type": "boolean"
                },
                "members_count": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.CommunityMember": {
            "properties": {
                "community_id": {
                    "type": "string"
                },
                "joined_at": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "user_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Conversation": {
            "properties": {
                "archived": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string"
                },
                "group_name": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "is_group": {
                    "type": "boolean"
                },
                "last_activity_at": {
                    "type": "string"
                },
                "last_message": {
                    "$ref": "#/definitions/domain.Message"
                },
                "last_message_id": {
                    "type": "string"
                },
                "participants": {
                    "items": {
                        "$ref": "#/definitions/domain.ConversationParticipant"
                    },
                    "type": "array"
                },
                "updated_at": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.ConversationParticipant": {
            "properties": {
                "conversation_id": {
                    "type": "string"
                },
                "joined_at": {
                    "type": "string"
                },
                "unread_count": {
                    "type": "integer"
                },
                "user": {
                    "allOf": [
                        {
                            "$ref": "#/definitions/domain.User"
                        }
                    ],
                    "description": "User is attached by the service layer; users are reference data."
                },
                "user_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.MediaAttachment": {
            "properties": {
                "metadata": {
                    "additionalProperties": {
                        "type": "string"
                    },
                    "type": "object"
                },
                "type": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Message": {
            "properties": {
                "content": {
                    "type": "string"
                },
                "conversation_id": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "deleted_at": {
                    "type": "string"
                },
                "edited_at": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "is_deleted": {
                    "type": "boolean"
                },
                "is_edited": {
                    "type": "boolean"
                },
                "media": {
                    "items": {
                        "$ref": "#/definitions/domain.MediaAttachment"
                    },
                    "type": "array"
                },
                "message_type": {
                    "type": "string"
                },
                "reactions": {
                    "items": {
                        "$ref": "#/definitions/domain.MessageReaction"
                    },
                    "type": "array"
                },
                "read_by": {
                    "items": {
                        "$ref": "#/definitions/domain.MessageRead"
                    },
                    "type": "array"
                },
                "reply_to_id": {
                    "type": "string"
                },
                "sender": {
                    "$ref": "#/definitions/domain.User"
                },
                "sender_id": {
                    "type": "string"
                },
                "shared_tweet_id": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.MessageReaction": {
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "emoji": {
                    "type": "string"
                },
                "message_id": {
                    "type": "string"
                },
                "user_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.MessageRead": {
            "properties": {
                "read_at": {
                    "type": "string"
                },
                "user_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Notification": {
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "is_read": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "read_at": {
                    "type": "string"
                },
                "recipient_id": {
                    "type": "string"
                },
                "sender_id": {
                    "type": "string"
                },
                "subject_id": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Tweet": {
            "properties": {
                "author": {
                    "allOf": [
                        {
                            "$ref": "#/definitions/domain.User"
                        }
                    ],
                    "description": "Attached per viewer by the service layer on listings."
                },
                "author_id": {
                    "type": "string"
                },
                "community_id": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "is_liked": {
                    "type": "boolean"
                },
                "is_retweeted": {
                    "type": "boolean"
                },
                "likes_count": {
                    "type": "integer"
                },
                "quote_of_id": {
                    "type": "string"
                },
                "replies_count": {
                    "type": "integer"
                },
                "reply_to_id": {
                    "type": "string"
                },
                "retweets_count": {
                    "type": "integer"
                },
                "updated_at": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.User": {
            "properties": {
                "avatar_url": {
                    "type": "string"
                },
                "bio": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "display_name": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "website": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.ArchiveConversationRequest": {
            "properties": {
                "archived": {
                    "type": "boolean"
                }
            },
            "required": [
                "archived"
            ],
            "type": "object"
        },
        "handlers.CategoriesResponse": {
            "properties": {
                "categories": {
                    "items": {
                        "$ref": "#/definitions/domain.CategoryCount"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handlers.CreateCommunityRequest": {
            "properties": {
                "category": {
                    "example": "technology",
                    "type": "string"
                },
                "description": {
                    "example": "Go, mostly",
                    "type": "string"
                },
                "is_private": {
                    "type": "boolean"
                },
                "name": {
                    "example": "Gophers",
                    "type": "string"
                }
            },
            "required": [
                "name"
            ],
            "type": "object"
        },
        "handlers.CreateConversationRequest": {
            "properties": {
                "group_name": {
                    "example": "Weekend plans",
                    "type": "string"
                },
                "is_group": {
                    "type": "boolean"
                },
                "participant_id": {
                    "example": "user-bob",
                    "type": "string"
                },
                "participant_ids": {
                    "items": {
                        "type": "string"
                    },
                    "type": "array"
                },
                "username": {
                    "example": "bob",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.CreateTweetRequest": {
            "properties": {
                "community_id": {
                    "type": "string"
                },
                "content": {
                    "example": "shipping the new feed today @bob",
                    "type": "string"
                },
                "quote_of_id": {
                    "type": "string"
                },
                "reply_to_id": {
                    "type": "string"
                }
            },
            "required": [
                "content"
            ],
            "type": "object"
        },
        "handlers.CreateUserRequest": {
            "properties": {
                "avatar_url": {
                    "example": "https://cdn.example.com/a.png",
                    "type": "string"
                },
                "display_name": {
                    "example": "Alice",
                    "type": "string"
                },
                "username": {
                    "example": "alice",
                    "type": "string"
                }
            },
            "required": [
                "username"
            ],
            "type": "object"
        },
        "handlers.EditMessageRequest": {
            "properties": {
                "content": {
                    "example": "see you at 9",
                    "minLength": 1,
                    "type": "string"
                }
            },
            "required": [
                "content"
            ],
            "type": "object"
        },
        "handlers.ErrorResponse": {
            "properties": {
                "code": {
                    "description": "Stable, machine-readable code (see errors.go constants)",
                    "example": "not_found",
                    "type": "string"
                },
                "message": {
                    "description": "Human-readable message (safe to show to users)",
                    "example": "conversation not found",
                    "type": "string"
                },
                "request_id": {
                    "description": "Echo of X-Request-ID",
                    "example": "123e4567-e89b-12d3-a456-426614174000",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.ListCommunitiesResponse": {
            "properties": {
                "communities": {
                    "items": {
                        "$ref": "#/definitions/domain.Community"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handlers.ListConversationsResponse": {
            "properties": {
                "conversations": {
                    "items": {
                        "$ref": "#/definitions/domain.Conversation"
                    },
                    "type": "array"
                },
                "pagination": {
                    "$ref": "#/definitions/handlers.Pagination"
                }
            },
            "type": "object"
        },
        "handlers.ListMessagesResponse": {
            "properties": {
                "messages": {
                    "items": {
                        "$ref": "#/definitions/domain.Message"
                    },
                    "type": "array"
                },
                "pagination": {
                    "$ref": "#/definitions/handlers.Pagination"
                }
            },
            "type": "object"
        },
        "handlers.ListNotificationsResponse": {
            "properties": {
                "notifications": {
                    "items": {
                        "$ref": "#/definitions/services.NotificationView"
                    },
                    "type": "array"
                },
                "pagination": {
                    "$ref": "#/definitions/handlers.Pagination"
                },
                "unread_count": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handlers.ListTweetsResponse": {
            "properties": {
                "pagination": {
                    "$ref": "#/definitions/handlers.Pagination"
                },
                "tweets": {
                    "items": {
                        "$ref": "#/definitions/domain.Tweet"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handlers.ListUsersResponse": {
            "properties": {
                "pagination": {
                    "$ref": "#/definitions/handlers.Pagination"
                },
                "users": {
                    "items": {
                        "$ref": "#/definitions/domain.User"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handlers.MarkAllReadResponse": {
            "properties": {
                "updated": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handlers.MarkReadResponse": {
            "properties": {
                "marked": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handlers.MessageResponse": {
            "properties": {
                "message": {
                    "$ref": "#/definitions/domain.Message"
                }
            },
            "type": "object"
        },
        "handlers.NotificationCountsResponse": {
            "properties": {
                "total": {
                    "type": "integer"
                },
                "unread": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handlers.Pagination": {
            "properties": {
                "has_next": {
                    "type": "boolean"
                },
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handlers.ReactionRequest": {
            "properties": {
                "emoji": {
                    "example": "👍",
                    "type": "string"
                }
            },
            "required": [
                "emoji"
            ],
            "type": "object"
        },
        "handlers.SendMessageRequest": {
            "properties": {
                "content": {
                    "example": "see you at 8",
                    "type": "string"
                },
                "media": {
                    "items": {
                        "$ref": "#/definitions/domain.MediaAttachment"
                    },
                    "type": "array"
                },
                "reply_to_id": {
                    "type": "string"
                },
                "shared_tweet_id": {
                    "example": "0b8c1e6a-3f57-4a43-9d1f-6f0b1d2c4e5a",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.UpdateProfileRequest": {
            "properties": {
                "avatar_url": {
                    "maxLength": 512,
                    "type": "string"
                },
                "bio": {
                    "example": "gopher",
                    "maxLength": 160,
                    "type": "string"
                },
                "display_name": {
                    "example": "Alice L.",
                    "maxLength": 50,
                    "minLength": 1,
                    "type": "string"
                },
                "location": {
                    "example": "Athens",
                    "maxLength": 50,
                    "type": "string"
                },
                "website": {
                    "example": "https://alice.dev",
                    "maxLength": 100,
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.UserTweetsResponse": {
            "properties": {
                "pagination": {
                    "$ref": "#/definitions/handlers.Pagination"
                },
                "tweets": {
                    "items": {
                        "$ref": "#/definitions/domain.Tweet"
                    },
                    "type": "array"
                },
                "user": {
                    "$ref": "#/definitions/domain.User"
                }
            },
            "type": "object"
        },
        "services.FollowResult": {
            "properties": {
                "followers_count": {
                    "type": "integer"
                },
                "following": {
                    "type": "boolean"
                }
            },
            "type": "object"
        },
        "services.NotificationView": {
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "is_read": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "read_at": {
                    "type": "string"
                },
                "recipient_id": {
                    "type": "string"
                },
                "sender": {
                    "$ref": "#/definitions/domain.User"
                },
                "sender_id": {
                    "type": "string"
                },
                "subject_id": {
                    "type": "string"
                },
                "time_ago": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "services.Profile": {
            "properties": {
                "avatar_url": {
                    "type": "string"
                },
                "bio": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "display_name": {
                    "type": "string"
                },
                "followers_count": {
                    "type": "integer"
                },
                "following_count": {
                    "type": "integer"
                },
                "id": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "tweets_count": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                },
                "website": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "services.ReactionResult": {
            "properties": {
                "action": {
                    "type": "string"
                },
                "reactions": {
                    "items": {
                        "$ref": "#/definitions/domain.MessageReaction"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "services.ToggleResult": {
            "properties": {
                "active": {
                    "type": "boolean"
                },
                "count": {
                    "type": "integer"
                }
            },
            "type": "object"
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Social Backend API",
	Description:      "Direct messaging, notifications, tweets and communities with realtime delivery.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
