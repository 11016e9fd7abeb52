// Package docs holds the OpenAPI description served by the swagger UI.
// Regenerate with: swag init -g cmd/main.go
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
		"/api/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a new user",
				"description": "Create a regular account with 5 trials and return an access token",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Registration request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.RegisterRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handlers.AuthResponse"
						}
					},
					"400": {
						"description": "Missing fields, invalid email or user already exists",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Login user",
				"description": "Authenticate with email and password and return an access token",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Login request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.AuthResponse"
						}
					},
					"400": {
						"description": "Missing fields or invalid email",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Invalid credentials",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/user/info": {
			"get": {
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"tags": [
					"user"
				],
				"summary": "Get current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.UserInfoResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/user/use-trial": {
			"post": {
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"tags": [
					"user"
				],
				"summary": "Use one trial",
				"description": "Consume one trial of a demo feature. Admins have unlimited access but their usage is still logged.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Demo type, defaults to unknown",
						"name": "request",
						"in": "body",
						"required": false,
						"schema": {
							"$ref": "#/definitions/models.UseTrialRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.UseTrialResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handlers.TrialsExhaustedResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/user/check-trial": {
			"get": {
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"tags": [
					"user"
				],
				"summary": "Check remaining trials",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.CheckTrialResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/user/permissions": {
			"get": {
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"tags": [
					"user"
				],
				"summary": "Get permissions and usage history",
				"description": "Permission flags, total usage and the 5 most recent usage entries of the current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.PermissionsResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/user/change-password": {
			"post": {
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"tags": [
					"user"
				],
				"summary": "Change password",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Current and new password",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.ChangePasswordRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.MessageResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/users": {
			"get": {
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"tags": [
					"admin"
				],
				"summary": "List users",
				"description": "List all users with their total usage count",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.UsersResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"403": {
						"description": "Admin access required",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/users/{id}/reset-trials": {
			"post": {
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"tags": [
					"admin"
				],
				"summary": "Reset user trials",
				"description": "Set the remaining trials of a regular user. trial_count defaults to 5.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "User ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "New trial count",
						"name": "request",
						"in": "body",
						"required": false,
						"schema": {
							"$ref": "#/definitions/models.ResetTrialsRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ResetTrialsResponse"
						}
					},
					"400": {
						"description": "Invalid user id or admin target",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"403": {
						"description": "Admin access required",
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
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/health": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Health check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.HealthResponse"
						}
					},
					"503": {
						"description": "Database unavailable",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"handlers.ErrorResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": false
				},
				"message": {
					"type": "string",
					"example": "User not found"
				}
			}
		},
		"handlers.MessageResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"message": {
					"type": "string"
				}
			}
		},
		"handlers.AuthResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"message": {
					"type": "string"
				},
				"access_token": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/models.UserResponse"
				}
			}
		},
		"handlers.UserInfoResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"user": {
					"$ref": "#/definitions/models.UserResponse"
				}
			}
		},
		"handlers.UseTrialResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"message": {
					"type": "string"
				},
				"remaining_trials": {
					"type": "string",
					"example": "4"
				},
				"is_admin": {
					"type": "boolean"
				}
			}
		},
		"handlers.TrialsExhaustedResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": false
				},
				"message": {
					"type": "string",
					"example": "No trials remaining"
				},
				"remaining_trials": {
					"type": "integer",
					"example": 0
				}
			}
		},
		"handlers.CheckTrialResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"has_trials": {
					"type": "boolean"
				},
				"remaining_trials": {
					"type": "string",
					"example": "5"
				},
				"is_admin": {
					"type": "boolean"
				},
				"role": {
					"type": "string",
					"example": "user"
				},
				"user_info": {
					"$ref": "#/definitions/models.UserResponse"
				}
			}
		},
		"handlers.PermissionsResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"user": {
					"$ref": "#/definitions/models.UserResponse"
				},
				"permissions": {
					"$ref": "#/definitions/models.PermissionFlags"
				},
				"usage_stats": {
					"$ref": "#/definitions/models.UsageStats"
				}
			}
		},
		"handlers.UsersResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"users": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.UserListItem"
					}
				},
				"total_users": {
					"type": "integer"
				}
			}
		},
		"handlers.ResetTrialsResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"message": {
					"type": "string",
					"example": "User trials reset to 5"
				},
				"user": {
					"$ref": "#/definitions/models.UserResponse"
				}
			}
		},
		"handlers.HealthResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"status": {
					"type": "string",
					"example": "ok"
				},
				"database": {
					"type": "string",
					"example": "ok"
				}
			}
		},
		"models.UserResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"email": {
					"type": "string"
				},
				"trial_count": {
					"type": "string",
					"example": "5"
				},
				"is_admin": {
					"type": "boolean"
				},
				"role": {
					"type": "string",
					"example": "user"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"models.UserListItem": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"email": {
					"type": "string"
				},
				"trial_count": {
					"type": "string",
					"example": "5"
				},
				"is_admin": {
					"type": "boolean"
				},
				"role": {
					"type": "string",
					"example": "user"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				},
				"total_usage": {
					"type": "integer"
				}
			}
		},
		"models.PermissionFlags": {
			"type": "object",
			"properties": {
				"can_use_trial": {
					"type": "boolean"
				},
				"is_admin": {
					"type": "boolean"
				},
				"has_unlimited_access": {
					"type": "boolean"
				},
				"remaining_trials": {
					"type": "string",
					"example": "5"
				}
			}
		},
		"models.RecentUsage": {
			"type": "object",
			"properties": {
				"demo_type": {
					"type": "string",
					"example": "travel"
				},
				"used_at": {
					"type": "string"
				}
			}
		},
		"models.UsageStats": {
			"type": "object",
			"properties": {
				"total_usage": {
					"type": "integer"
				},
				"recent_usage": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.RecentUsage"
					}
				}
			}
		},
		"models.RegisterRequest": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"models.LoginRequest": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"models.UseTrialRequest": {
			"type": "object",
			"properties": {
				"demo_type": {
					"type": "string",
					"maxLength": 50
				}
			}
		},
		"models.ChangePasswordRequest": {
			"type": "object",
			"required": [
				"current_password",
				"new_password"
			],
			"properties": {
				"current_password": {
					"type": "string"
				},
				"new_password": {
					"type": "string"
				}
			}
		},
		"models.ResetTrialsRequest": {
			"type": "object",
			"properties": {
				"trial_count": {
					"type": "integer"
				}
			}
		}
	},
	"securityDefinitions": {
		"ApiKeyAuth": {
			"description": "Type \"Bearer\" followed by a space and JWT token.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Magical Website API",
	Description:      "Accounts and trial allowances for the demo features",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
