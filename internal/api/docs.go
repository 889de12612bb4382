package api

import "github.com/swaggo/swag"

// @title SAE Inference API
// @version 1.0
// @description Simulated sparse-autoencoder inference: token feature activations, feature metadata and feature search.
// @BasePath /

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SAE Inference API",
	Description:      "Simulated sparse-autoencoder inference: token feature activations, feature metadata and feature search.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthStatus"}}
                }
            }
        },
        "/sae/encode": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sae"],
                "summary": "Encode text into SAE features",
                "parameters": [
                    {
                        "description": "Text and optional layer",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/sae.EncodeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.EncodingResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/sae/feature/{feature_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sae"],
                "summary": "Describe a single SAE feature",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Feature id in [0, 16384)",
                        "name": "feature_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FeatureMetadata"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/sae/search": {
            "get": {
                "description": "Ranking is independent of the query text.",
                "produces": ["application/json"],
                "tags": ["sae"],
                "summary": "Search SAE features",
                "parameters": [
                    {"type": "string", "description": "Search query", "name": "query", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum results, default 20, capped at 100", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SearchResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "sae.EncodeRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "layer": {"type": "integer"}
            }
        },
        "models.HealthStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "service": {"type": "string"}
            }
        },
        "models.FeatureActivation": {
            "type": "object",
            "properties": {
                "feature_id": {"type": "integer"},
                "activation": {"type": "number"},
                "description": {"type": "string"},
                "confidence": {"type": "number"}
            }
        },
        "models.TokenFeatures": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "position": {"type": "integer"},
                "features": {"type": "array", "items": {"$ref": "#/definitions/models.FeatureActivation"}}
            }
        },
        "models.EncodingMetadata": {
            "type": "object",
            "properties": {
                "feature_dimension": {"type": "integer"},
                "inference_time_ms": {"type": "integer"},
                "sae_version": {"type": "string"},
                "research_source": {"type": "string"}
            }
        },
        "models.EncodingResult": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "layer": {"type": "integer"},
                "model": {"type": "string"},
                "total_features": {"type": "integer"},
                "sparsity": {"type": "number"},
                "token_features": {"type": "array", "items": {"$ref": "#/definitions/models.TokenFeatures"}},
                "metadata": {"$ref": "#/definitions/models.EncodingMetadata"}
            }
        },
        "models.FeatureMetadata": {
            "type": "object",
            "properties": {
                "feature_id": {"type": "integer"},
                "description": {"type": "string"},
                "activation_frequency": {"type": "number"},
                "top_tokens": {"type": "array", "items": {"type": "string"}},
                "example_prompts": {"type": "array", "items": {"type": "string"}},
                "research_notes": {"type": "string"},
                "interpretability_score": {"type": "number"}
            }
        },
        "models.RankedFeature": {
            "allOf": [
                {"$ref": "#/definitions/models.FeatureMetadata"},
                {"type": "object", "properties": {"relevance_score": {"type": "number"}}}
            ]
        },
        "models.SearchResult": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "total_results": {"type": "integer"},
                "features": {"type": "array", "items": {"$ref": "#/definitions/models.RankedFeature"}}
            }
        }
    }
}`
